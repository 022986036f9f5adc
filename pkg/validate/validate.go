// Package validate checks struct fields against `validate` tag rules.
//
// Rules, comma-separated:
//
//	required      not zero or blank
//	nullable      skip the remaining rules when empty
//	numeric       parses as a decimal number
//	integer       parses as a whole number
//	json          valid JSON text
//	date          YYYY-MM-DD
//	min=N max=N   string length, or value for numeric kinds
//	gte=N lte=N   numeric value bounds (strings are parsed)
//	in=a|b|c      one of the listed values
//
// Only the first failing rule per field is reported.
package validate

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Struct validates the exported fields of v that carry a `validate` tag and
// returns json-field-name → message. An empty map means v is valid.
func Struct(v any) map[string]string {
	errs := make(map[string]string)

	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || !field.IsExported() {
			continue
		}

		name := fieldName(field)
		value := rv.Field(i)
		rules := strings.Split(tag, ",")

		if contains(rules, "nullable") && isEmpty(value) {
			continue
		}
		for _, rule := range rules {
			if msg := check(rule, name, value); msg != "" {
				errs[name] = msg
				break
			}
		}
	}
	return errs
}

// HasErrors reports whether errs is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// Join flattens errs into one sorted-by-field sentence list.
func Join(errs map[string]string) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, errs[k])
	}
	return strings.Join(msgs, " ")
}

func check(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(strings.TrimSpace(rule), "=")

	if key == "required" {
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
		return ""
	}

	// Every other rule is about a present value.
	if isEmpty(v) {
		return ""
	}
	v = deref(v)
	raw := text(v)

	switch key {
	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s field must be a number.", field)
		}
	case "integer":
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return fmt.Sprintf("The %s field must be an integer.", field)
		}
	case "json":
		if !json.Valid([]byte(raw)) {
			return fmt.Sprintf("The %s field must be valid JSON.", field)
		}
	case "date":
		if _, err := time.Parse(time.DateOnly, raw); err != nil {
			return fmt.Sprintf("The %s field must be a date (YYYY-MM-DD).", field)
		}
	case "min", "max":
		limit := parseFloat(param)
		var got float64
		unit := ""
		if isNumeric(v) {
			got = number(v)
		} else {
			got = float64(len([]rune(raw)))
			unit = " characters"
		}
		if key == "min" && got < limit {
			return fmt.Sprintf("The %s must be at least %s%s.", field, param, unit)
		}
		if key == "max" && got > limit {
			return fmt.Sprintf("The %s must not exceed %s%s.", field, param, unit)
		}
	case "gte", "lte":
		got, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Sprintf("The %s field must be a number.", field)
		}
		limit := parseFloat(param)
		if key == "gte" && got < limit {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
		if key == "lte" && got > limit {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "in":
		for _, allowed := range strings.Split(param, "|") {
			if raw == allowed {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	}
	return ""
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	return v
}

// text renders v for parsing. Byte slices (json.RawMessage) are taken as text
// and fmt.Stringer values (decimal.Decimal) use their String form.
func text(v reflect.Value) string {
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
		return string(v.Bytes())
	}
	if v.CanInterface() {
		if s, ok := v.Interface().(fmt.Stringer); ok {
			return s.String()
		}
	}
	return fmt.Sprint(v.Interface())
}

func isNumeric(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func number(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

func contains(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}

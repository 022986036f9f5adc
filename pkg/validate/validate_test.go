package validate_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/shopadmin/pkg/validate"
)

type productForm struct {
	Name     string          `json:"prod_name" validate:"required,max=10"`
	Qty      string          `json:"prod_qty"  validate:"required,integer,gte=0"`
	Price    string          `json:"new_price" validate:"required,numeric,gte=0"`
	Note     string          `json:"note"      validate:"nullable,min=3"`
	Variants json.RawMessage `json:"variants"  validate:"nullable,json"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(productForm{Name: "Shirt", Qty: "0", Price: "19.99"})
	assert.False(t, validate.HasErrors(errs), "%v", errs)
}

func TestRequired(t *testing.T) {
	errs := validate.Struct(productForm{})
	assert.Contains(t, errs, "prod_name")
	assert.Contains(t, errs, "prod_qty")
	assert.Contains(t, errs, "new_price")
	assert.NotContains(t, errs, "note")
}

func TestNumericRules(t *testing.T) {
	errs := validate.Struct(productForm{Name: "Shirt", Qty: "-1", Price: "abc"})
	assert.Equal(t, "The prod_qty must be greater than or equal to 0.", errs["prod_qty"])
	assert.Equal(t, "The new_price field must be a number.", errs["new_price"])

	errs = validate.Struct(productForm{Name: "Shirt", Qty: "1.5", Price: "1"})
	assert.Equal(t, "The prod_qty field must be an integer.", errs["prod_qty"])
}

func TestLengthRules(t *testing.T) {
	errs := validate.Struct(productForm{Name: "A very long name", Qty: "1", Price: "1", Note: "ab"})
	assert.Equal(t, "The prod_name must not exceed 10 characters.", errs["prod_name"])
	assert.Equal(t, "The note must be at least 3 characters.", errs["note"])
}

func TestJSONRule(t *testing.T) {
	errs := validate.Struct(productForm{Name: "S", Qty: "1", Price: "1", Variants: json.RawMessage(`{"a":`)})
	assert.Contains(t, errs, "variants")

	errs = validate.Struct(productForm{Name: "S", Qty: "1", Price: "1", Variants: json.RawMessage(`{"a":[1,2]}`)})
	assert.Empty(t, errs)
}

func TestInRule(t *testing.T) {
	type in struct {
		Status string `json:"order_status" validate:"required,in=Pending|Processing|Completed"`
	}
	assert.Empty(t, validate.Struct(in{Status: "Processing"}))
	assert.Equal(t, "The selected order_status is invalid.", validate.Struct(in{Status: "Shipped"})["order_status"])
}

func TestPointerAndStringer(t *testing.T) {
	type in struct {
		Pct *decimal.Decimal `json:"discount_percentage" validate:"required,gte=0,lte=100"`
	}
	over := decimal.RequireFromString("120.5")
	ok := decimal.RequireFromString("12.5")

	assert.Contains(t, validate.Struct(in{}), "discount_percentage")
	assert.Equal(t, "The discount_percentage must be less than or equal to 100.", validate.Struct(&in{Pct: &over})["discount_percentage"])
	assert.Empty(t, validate.Struct(&in{Pct: &ok}))
}

func TestDateRule(t *testing.T) {
	type in struct {
		Day string `json:"day" validate:"nullable,date"`
	}
	assert.Empty(t, validate.Struct(in{Day: "2024-05-01"}))
	assert.Contains(t, validate.Struct(in{Day: "05/01/2024"}), "day")
	assert.Empty(t, validate.Struct(in{}))
}

func TestJoin(t *testing.T) {
	got := validate.Join(map[string]string{"b": "Second.", "a": "First."})
	assert.Equal(t, "First. Second.", got)
}

package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
	"gorm.io/gorm"
)

// Error kinds. Every error a service returns wraps exactly one of these,
// and controllers pick the HTTP status from the kind alone.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
	ErrSequencing  = errors.New("sequencing error")
	ErrAuth        = errors.New("authentication error")
)

// Domain errors.
var (
	ErrMissingFields   = fmt.Errorf("%w: Missing required product fields", ErrValidation)
	ErrMissingCoupon   = fmt.Errorf("%w: Missing coupon details", ErrValidation)
	ErrMissingCode     = fmt.Errorf("%w: Coupon code is required", ErrValidation)
	ErrMissingQuery    = fmt.Errorf("%w: Search query is required", ErrValidation)
	ErrMissingLogin    = fmt.Errorf("%w: Admin name and password are required", ErrValidation)
	ErrInvalidStatus   = fmt.Errorf("%w: Invalid order status", ErrValidation)
	ErrProductNotFound = fmt.Errorf("%w: Product not found", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("%w: Order not found", ErrNotFound)
	ErrInvalidCoupon   = fmt.Errorf("%w: Invalid coupon code", ErrNotFound)
	ErrNoMatch         = fmt.Errorf("%w: No results found", ErrNotFound)
	ErrPlacement       = fmt.Errorf("%w: Failed to place order", ErrPersistence)
	ErrUpdateFailed    = fmt.Errorf("%w: Failed to update product", ErrPersistence)
	ErrBadCredentials  = fmt.Errorf("%w: Invalid credentials", ErrAuth)
)

// Message is the user-facing part of a domain error: the text after the
// kind prefix of the outermost wrapped sentinel.
func Message(err error) string {
	msg := err.Error()
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrPersistence, ErrSequencing, ErrAuth} {
		if rest, ok := strings.CutPrefix(msg, kind.Error()+": "); ok {
			return rest
		}
	}
	return msg
}

// invalid wraps a field-level validation message.
func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// persistence wraps a storage failure under a domain error, keeping the
// cause for logs.
func persistence(domain error, cause error) error {
	return fmt.Errorf("%w: %w", domain, cause)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicateKey recognises unique violations from every supported driver,
// translated or not.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

// isRetryable reports whether a failed placement transaction lost a race
// and can be run again: a unique violation, a deadlock, a lock wait timeout
// or a serialization failure.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if isDuplicateKey(err) {
		return true
	}

	var my *mysql.MySQLError
	if errors.As(err, &my) {
		return my.Number == 1213 || my.Number == 1205
	}
	var pg *pgconn.PgError
	if errors.As(err, &pg) {
		return pg.Code == "40001" || pg.Code == "40P01"
	}
	var ms mssql.Error
	if errors.As(err, &ms) {
		return ms.Number == 1205
	}
	// SQLite reports a busy database as text only.
	return strings.Contains(err.Error(), "database is locked")
}

// Package domainerr holds the failure taxonomy shared by the pricing engine
// and the stock ledger. Failures are returned, never panicked, and are matched
// with errors.Is against the sentinel kinds below.
package domainerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantity: a quantity, transfer or adjustment amount is zero, negative or non-numeric.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidAmount: a price, tax rate or discount value is negative, or the discount kind is unknown.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientStock: a remove or transfer would drive a location's quantity negative.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrSameLocation: transfer source and destination are identical.
	ErrSameLocation = errors.New("source and destination are the same location")
	// ErrCalculationOverflow: an input or result is non-finite or exceeds the storable range.
	ErrCalculationOverflow = errors.New("calculation overflow")
	// ErrLineNotFound: an edit or removal addressed a line index outside the order.
	ErrLineNotFound = errors.New("order line not found")
)

// ValidationError tags a failure with its kind and a human-readable detail
// that callers may show verbatim.
type ValidationError struct {
	Kind   error
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// New builds a ValidationError of the given kind.
func New(kind error, format string, args ...any) error {
	return &ValidationError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Detail returns the human-readable part of err, or err.Error() for foreign errors.
func Detail(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Detail != "" {
		return ve.Detail
	}
	return err.Error()
}

// KindName returns a stable snake_case tag for err, or "" when err is not a domain failure.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrSameLocation):
		return "same_location"
	case errors.Is(err, ErrCalculationOverflow):
		return "calculation_overflow"
	case errors.Is(err, ErrLineNotFound):
		return "line_not_found"
	}
	return ""
}

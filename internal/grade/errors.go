package grade

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrLastCategory is returned when removing the only remaining category.
	ErrLastCategory = errors.New("at least one category is required")
	// ErrWeightMismatch matches validation failures where weights do not sum to 100.
	ErrWeightMismatch = errors.New("total weight must be exactly 100%")
	// ErrInvalidEntry matches validation failures caused by a single category.
	ErrInvalidEntry = errors.New("invalid category values")
)

// Kind classifies a validation failure.
type Kind string

const (
	KindWeightMismatch Kind = "weight_mismatch"
	KindInvalidEntry   Kind = "invalid_entry"
)

// PlaceholderName stands in for a category without a name in messages.
const PlaceholderName = "a category"

// ValidationError describes why a grade could not be calculated.
type ValidationError struct {
	Kind Kind
	// Total is the actual weight sum (KindWeightMismatch).
	Total float64
	// Category is the offending category's display name (KindInvalidEntry).
	Category string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindWeightMismatch:
		return fmt.Sprintf("total weight must be exactly 100%%, got %s%%", FormatNumber(e.Total))
	case KindInvalidEntry:
		return fmt.Sprintf("invalid values for %q", e.Category)
	}
	return "validation failed"
}

func (e *ValidationError) Unwrap() error {
	switch e.Kind {
	case KindWeightMismatch:
		return ErrWeightMismatch
	case KindInvalidEntry:
		return ErrInvalidEntry
	}
	return nil
}

// FormatNumber prints v the shortest way that round-trips (90, 90.5, 100.00000000000001).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package features

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField  = errors.New("missing field")
	ErrInvalidNumber = errors.New("invalid number")
	ErrOutOfRange    = errors.New("value out of range")
)

// MissingFieldError reports a required field that was absent or blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("please enter a value for '%s'", e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// InvalidNumberError reports a field whose text is not a number.
type InvalidNumberError struct {
	Field string
	Raw   string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("'%s' must be a numeric value, got %q", e.Field, e.Raw)
}

func (e *InvalidNumberError) Is(target error) bool { return target == ErrInvalidNumber }

// OutOfRangeError reports a parsed value outside the field's documented range.
// Only produced when range enforcement is switched on.
type OutOfRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("'%s' value %g outside range [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// FieldOf extracts the offending field name from a validation error.
func FieldOf(err error) (string, bool) {
	var missing *MissingFieldError
	if errors.As(err, &missing) {
		return missing.Field, true
	}
	var invalid *InvalidNumberError
	if errors.As(err, &invalid) {
		return invalid.Field, true
	}
	var outOfRange *OutOfRangeError
	if errors.As(err, &outOfRange) {
		return outOfRange.Field, true
	}
	return "", false
}

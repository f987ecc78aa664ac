package evaluator

import (
	"errors"
	"fmt"

	"hiring-assistant/internal/features"
)

var ErrModelUnavailable = errors.New("model unavailable")

// ModelUnavailableError reports a model that is not in the registry or that
// violated the predictor contract when called. Err holds the cause, if any.
type ModelUnavailableError struct {
	Model string
	Err   error
}

func (e *ModelUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model '%s' is not available: %v", e.Model, e.Err)
	}
	return fmt.Sprintf("model '%s' is not available", e.Model)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

func (e *ModelUnavailableError) Is(target error) bool { return target == ErrModelUnavailable }

// Error kinds reported by Kind.
const (
	KindMissingField     = "missing_field"
	KindInvalidNumber    = "invalid_number"
	KindOutOfRange       = "out_of_range"
	KindModelUnavailable = "model_unavailable"
	KindInternal         = "internal"
)

// Kind classifies an Evaluate error for status mapping and metrics labels.
func Kind(err error) string {
	switch {
	case errors.Is(err, features.ErrMissingField):
		return KindMissingField
	case errors.Is(err, features.ErrInvalidNumber):
		return KindInvalidNumber
	case errors.Is(err, features.ErrOutOfRange):
		return KindOutOfRange
	case errors.Is(err, ErrModelUnavailable):
		return KindModelUnavailable
	default:
		return KindInternal
	}
}

// IsValidation reports whether err was caused by bad candidate input.
func IsValidation(err error) bool {
	switch Kind(err) {
	case KindMissingField, KindInvalidNumber, KindOutOfRange:
		return true
	}
	return false
}

type errBadClassCode float64

func (v errBadClassCode) Error() string {
	return fmt.Sprintf("prediction %v is not a usable class code", float64(v))
}

type errNonFiniteScore float64

func (v errNonFiniteScore) Error() string {
	return fmt.Sprintf("performance score %v is not finite", float64(v))
}

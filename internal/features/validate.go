package features

import (
	"math"
	"strconv"
	"strings"
)

// Validator converts raw text input into a Vector.
// The zero value is permissive: documented ranges are hints only.
type Validator struct {
	EnforceRanges bool
}

// Validate parses raw against spec without range checks.
func Validate(raw RawInput, spec FeatureSpec) (Vector, error) {
	return Validator{}.Validate(raw, spec)
}

// Validate walks spec in declared order and fails on the first blank or
// non-numeric field. NaN and infinities are not numbers here. The returned vector has exactly spec.Len() elements.
func (v Validator) Validate(raw RawInput, spec FeatureSpec) (Vector, error) {
	out := make(Vector, 0, spec.Len())
	for _, f := range spec.fields {
		text := strings.TrimSpace(raw[f.Name])
		if text == "" {
			return nil, &MissingFieldError{Field: f.Name}
		}

		val, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, &InvalidNumberError{Field: f.Name, Raw: raw[f.Name]}
		}

		if v.EnforceRanges && (val < f.Min || val > f.Max) {
			return nil, &OutOfRangeError{Field: f.Name, Value: val, Min: f.Min, Max: f.Max}
		}

		out = append(out, val)
	}
	return out, nil
}

// Package features turns raw candidate input into fixed-order numeric feature vectors.
//
// A FeatureSpec fixes both the order and the arity of a vector. The regression
// spec lists the candidate fields; the classification spec is always the
// regression spec plus the predicted performance score as its last field.
package features

import (
	"fmt"

	"hiring-assistant/internal/common"
)

// Field describes one named numeric input together with its advisory range.
type Field struct {
	Name  string  `json:"name" yaml:"name"`
	Label string  `json:"label" yaml:"label"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
}

// RangeHint renders the advisory range the way the input form shows it.
func (f Field) RangeHint() string {
	return fmt.Sprintf("%g – %g", f.Min, f.Max)
}

// FeatureSpec is an ordered, immutable list of fields.
type FeatureSpec struct {
	fields []Field
}

// NewSpec builds a spec from fields in the given order.
func NewSpec(fields ...Field) FeatureSpec {
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return FeatureSpec{fields: cp}
}

// Len returns the spec arity.
func (s FeatureSpec) Len() int { return len(s.fields) }

// Fields returns a copy of the fields in declared order.
func (s FeatureSpec) Fields() []Field {
	cp := make([]Field, len(s.fields))
	copy(cp, s.fields)
	return cp
}

// Names returns the field names in declared order.
func (s FeatureSpec) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Append returns a new spec with extra fields after the existing ones.
func (s FeatureSpec) Append(fields ...Field) FeatureSpec {
	return NewSpec(append(s.Fields(), fields...)...)
}

var regressionSpec = NewSpec(
	Field{Name: common.FeatureExperienceYears, Label: "Experience (years)", Min: 0, Max: 40},
	Field{Name: common.FeatureTestScore, Label: "Test Score", Min: 0, Max: 100},
	Field{Name: common.FeatureInterviewScore, Label: "Interview Score", Min: 0, Max: 10},
	Field{Name: common.FeatureCommunication, Label: "Communication Rating", Min: 0, Max: 10},
)

// PerformanceScoreField is the computed field appended to form the classification spec.
// The score has no enforced bound.
var PerformanceScoreField = Field{
	Name:  common.FeaturePerformanceScore,
	Label: "Performance Score",
	Min:   -1e308,
	Max:   1e308,
}

// RegressionSpec returns the candidate field spec consumed by the performance regressor.
func RegressionSpec() FeatureSpec { return regressionSpec }

// ClassificationSpec returns the regression spec followed by the performance score.
func ClassificationSpec() FeatureSpec { return regressionSpec.Append(PerformanceScoreField) }

// RawInput maps a field name to its unparsed text.
type RawInput map[string]string

// Vector is an ordered sequence of feature values matching a spec.
type Vector []float64

// WithScore returns a new vector of length len(v)+1 with score as the last element.
// The receiver is never modified.
func (v Vector) WithScore(score float64) Vector {
	out := make(Vector, len(v), len(v)+1)
	copy(out, v)
	return append(out, score)
}

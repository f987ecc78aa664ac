package ml

import (
	"fmt"
	"math"
)

// LinearModel is an ordinary least-squares style regressor:
// y = Intercept + sum(Coefficients[i] * x[i]).
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

func (m *LinearModel) validate() error {
	if len(m.Coefficients) == 0 {
		return fmt.Errorf("linear model has no coefficients")
	}
	return nil
}

// Predict returns the raw regression output without rounding or clamping.
func (m *LinearModel) Predict(vector []float64) (float64, error) {
	if err := checkWidth(vector, len(m.Coefficients)); err != nil {
		return 0, err
	}
	return m.Intercept + dot(m.Coefficients, vector), nil
}

// checkWidth enforces the predictor's expected input arity.
func checkWidth(vector []float64, want int) error {
	if len(vector) != want {
		return fmt.Errorf("expected %d features, got %d", want, len(vector))
	}
	return nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// argmax returns the index of the largest value; ties resolve to the lowest index.
func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// checkMatrix verifies rows has the given number of rows, each of equal non-zero width.
func checkMatrix(what string, rows [][]float64, n int) (int, error) {
	if len(rows) != n {
		return 0, fmt.Errorf("%s: expected %d rows, got %d", what, n, len(rows))
	}
	if n == 0 || len(rows[0]) == 0 {
		return 0, fmt.Errorf("%s: empty", what)
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return 0, fmt.Errorf("%s: row %d has %d columns, want %d", what, i, len(row), width)
		}
	}
	return width, nil
}

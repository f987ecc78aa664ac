package ml

import (
	"fmt"
	"math"
)

// NaiveBayesModel is a Gaussian naive Bayes classifier.
type NaiveBayesModel struct {
	Classes   []int       `json:"classes"`
	Priors    []float64   `json:"priors"`
	Means     [][]float64 `json:"means"`
	Variances [][]float64 `json:"variances"`

	width int
}

func (m *NaiveBayesModel) validate() error {
	n := len(m.Classes)
	if n < 2 {
		return fmt.Errorf("naive bayes needs at least 2 classes, got %d", n)
	}
	if len(m.Priors) != n {
		return fmt.Errorf("naive bayes: expected %d priors, got %d", n, len(m.Priors))
	}
	width, err := checkMatrix("naive bayes means", m.Means, n)
	if err != nil {
		return err
	}
	vw, err := checkMatrix("naive bayes variances", m.Variances, n)
	if err != nil {
		return err
	}
	if vw != width {
		return fmt.Errorf("naive bayes: means have %d columns, variances %d", width, vw)
	}
	for i, p := range m.Priors {
		if p <= 0 {
			return fmt.Errorf("naive bayes: prior %d must be positive", i)
		}
		for j, v := range m.Variances[i] {
			if v <= 0 {
				return fmt.Errorf("naive bayes: variance [%d][%d] must be positive", i, j)
			}
		}
	}
	m.width = width
	return nil
}

// Predict returns the class with the highest joint log-likelihood.
func (m *NaiveBayesModel) Predict(vector []float64) (float64, error) {
	if err := checkWidth(vector, m.width); err != nil {
		return 0, err
	}

	scores := make([]float64, len(m.Classes))
	for c := range m.Classes {
		ll := math.Log(m.Priors[c])
		for j, x := range vector {
			v := m.Variances[c][j]
			d := x - m.Means[c][j]
			ll -= 0.5*math.Log(2*math.Pi*v) + d*d/(2*v)
		}
		scores[c] = ll
	}
	return float64(m.Classes[argmax(scores)]), nil
}

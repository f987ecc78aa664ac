package ml

import "fmt"

// SVMModel is a linear support vector classifier.
// Binary models carry one weight row: a positive margin selects Classes[1].
// Multi-class models are one-vs-rest with one row per class.
type SVMModel struct {
	Classes []int       `json:"classes"`
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`

	width int
}

func (m *SVMModel) binary() bool {
	return len(m.Weights) == 1 && len(m.Classes) == 2
}

func (m *SVMModel) validate() error {
	if len(m.Classes) < 2 {
		return fmt.Errorf("svm needs at least 2 classes, got %d", len(m.Classes))
	}
	rows := len(m.Classes)
	if m.binary() {
		rows = 1
	}
	width, err := checkMatrix("svm weights", m.Weights, rows)
	if err != nil {
		return err
	}
	if len(m.Biases) != rows {
		return fmt.Errorf("svm: expected %d biases, got %d", rows, len(m.Biases))
	}
	m.width = width
	return nil
}

// Predict returns the class with the largest decision margin.
func (m *SVMModel) Predict(vector []float64) (float64, error) {
	if err := checkWidth(vector, m.width); err != nil {
		return 0, err
	}

	if m.binary() {
		if m.Biases[0]+dot(m.Weights[0], vector) > 0 {
			return float64(m.Classes[1]), nil
		}
		return float64(m.Classes[0]), nil
	}

	margins := make([]float64, len(m.Weights))
	for i, w := range m.Weights {
		margins[i] = m.Biases[i] + dot(w, vector)
	}
	return float64(m.Classes[argmax(margins)]), nil
}

package ml

import "fmt"

// LogisticModel is a logistic regression classifier.
//
// With one coefficient row and two classes it is binary: the positive class
// Classes[1] is chosen when sigmoid(z) > 0.5. Otherwise it is multinomial with
// one row per class and the class with the highest linear score wins (softmax
// is monotonic, so it is not applied).
type LogisticModel struct {
	Classes      []int       `json:"classes"`
	Coefficients [][]float64 `json:"coefficients"`
	Intercepts   []float64   `json:"intercepts"`

	width int
}

func (m *LogisticModel) binary() bool {
	return len(m.Coefficients) == 1 && len(m.Classes) == 2
}

func (m *LogisticModel) validate() error {
	rows := len(m.Classes)
	if m.binary() {
		rows = 1
	}
	if len(m.Classes) < 2 {
		return fmt.Errorf("logistic model needs at least 2 classes, got %d", len(m.Classes))
	}
	width, err := checkMatrix("logistic coefficients", m.Coefficients, rows)
	if err != nil {
		return err
	}
	if len(m.Intercepts) != rows {
		return fmt.Errorf("logistic model: expected %d intercepts, got %d", rows, len(m.Intercepts))
	}
	m.width = width
	return nil
}

// Predict returns the winning class label.
func (m *LogisticModel) Predict(vector []float64) (float64, error) {
	if err := checkWidth(vector, m.width); err != nil {
		return 0, err
	}

	if m.binary() {
		if sigmoid(m.Intercepts[0]+dot(m.Coefficients[0], vector)) > 0.5 {
			return float64(m.Classes[1]), nil
		}
		return float64(m.Classes[0]), nil
	}

	scores := make([]float64, len(m.Classes))
	for i, row := range m.Coefficients {
		scores[i] = m.Intercepts[i] + dot(row, vector)
	}
	return float64(m.Classes[argmax(scores)]), nil
}

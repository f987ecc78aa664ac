package ml

import "fmt"

// TreeModel is a binary decision tree stored as parallel node arrays.
// Node 0 is the root. A node is a leaf when Left[i] == -1; its output is Values[i].
// Internal nodes send x[Features[i]] <= Thresholds[i] to Left[i], otherwise Right[i].
type TreeModel struct {
	NumFeatures int       `json:"num_features"`
	Features    []int     `json:"features"`
	Thresholds  []float64 `json:"thresholds"`
	Left        []int     `json:"left"`
	Right       []int     `json:"right"`
	Values      []float64 `json:"values"`
}

func (m *TreeModel) validate() error {
	n := len(m.Left)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if m.NumFeatures <= 0 {
		return fmt.Errorf("tree: num_features must be positive")
	}
	if len(m.Right) != n || len(m.Features) != n || len(m.Thresholds) != n || len(m.Values) != n {
		return fmt.Errorf("tree: node arrays have mismatched lengths")
	}
	for i := 0; i < n; i++ {
		if m.Left[i] == -1 {
			continue
		}
		if m.Left[i] <= i || m.Left[i] >= n || m.Right[i] <= i || m.Right[i] >= n {
			return fmt.Errorf("tree: node %d has invalid children (%d, %d)", i, m.Left[i], m.Right[i])
		}
		if m.Features[i] < 0 || m.Features[i] >= m.NumFeatures {
			return fmt.Errorf("tree: node %d splits on feature %d of %d", i, m.Features[i], m.NumFeatures)
		}
	}
	return nil
}

// Predict walks from the root to a leaf. Children always have larger indices
// than their parent, so the walk terminates.
func (m *TreeModel) Predict(vector []float64) (float64, error) {
	if err := checkWidth(vector, m.NumFeatures); err != nil {
		return 0, err
	}

	node := 0
	for m.Left[node] != -1 {
		if vector[m.Features[node]] <= m.Thresholds[node] {
			node = m.Left[node]
		} else {
			node = m.Right[node]
		}
	}
	return m.Values[node], nil
}

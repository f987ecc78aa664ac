package ml

import (
	"fmt"
	"sort"
)

// KNNModel is a k-nearest-neighbour classifier over stored training points.
type KNNModel struct {
	K      int         `json:"k"`
	Points [][]float64 `json:"points"`
	Labels []int       `json:"labels"`

	width int
}

func (m *KNNModel) validate() error {
	if m.K <= 0 {
		return fmt.Errorf("knn: k must be positive, got %d", m.K)
	}
	width, err := checkMatrix("knn points", m.Points, len(m.Labels))
	if err != nil {
		return err
	}
	if m.K > len(m.Points) {
		return fmt.Errorf("knn: k=%d exceeds %d stored points", m.K, len(m.Points))
	}
	m.width = width
	return nil
}

type neighbour struct {
	dist  float64
	label int
}

// Predict returns the majority label among the K nearest points by squared
// Euclidean distance. Vote ties resolve to the smaller label.
func (m *KNNModel) Predict(vector []float64) (float64, error) {
	if err := checkWidth(vector, m.width); err != nil {
		return 0, err
	}

	ns := make([]neighbour, len(m.Points))
	for i, p := range m.Points {
		var d float64
		for j := range p {
			diff := p[j] - vector[j]
			d += diff * diff
		}
		ns[i] = neighbour{dist: d, label: m.Labels[i]}
	}
	sort.SliceStable(ns, func(i, j int) bool { return ns[i].dist < ns[j].dist })

	votes := make(map[int]int, m.K)
	for _, n := range ns[:m.K] {
		votes[n.label]++
	}

	best, bestVotes := 0, -1
	for label, v := range votes {
		if v > bestVotes || (v == bestVotes && label < best) {
			best, bestVotes = label, v
		}
	}
	return float64(best), nil
}

package evaluator

import "sync"

// MockMetrics implements MetricsInterface for testing
type MockMetrics struct {
	mu        sync.Mutex
	evals     map[string]int
	failures  map[string]int
	scores    []float64
	decisions map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		evals:     make(map[string]int),
		failures:  make(map[string]int),
		decisions: make(map[string]int),
	}
}

func (m *MockMetrics) EvaluationObserve(model string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evals[model]++
}

func (m *MockMetrics) EvaluationFailureInc(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[kind]++
}

func (m *MockMetrics) PerformanceScoreObserve(score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, score)
}

func (m *MockMetrics) DecisionInc(model, decision string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions[model+"/"+decision]++
}

func (m *MockMetrics) Evaluations(model string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evals[model]
}

func (m *MockMetrics) Failures(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures[kind]
}

func (m *MockMetrics) Decisions(model, decision string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decisions[model+"/"+decision]
}

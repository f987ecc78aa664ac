package ml

import "sync"

// MockMetrics implements MetricsInterface for testing
type MockMetrics struct {
	mu         sync.Mutex
	loads      int
	failures   int
	latencySum float64
	latencies  int
}

func (m *MockMetrics) ModelLoadsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
}

func (m *MockMetrics) ModelLoadFailuresInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *MockMetrics) ModelLoadLatencyObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencySum += v
	m.latencies++
}

func (m *MockMetrics) Loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

func (m *MockMetrics) Failures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures
}

func (m *MockMetrics) Observations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latencies
}

// MemoryArtifacts is an in-memory ArtifactReader for tests and tooling.
type MemoryArtifacts map[string][]byte

func (m MemoryArtifacts) GetArtifact(name string) ([]byte, error) {
	data, ok := m[name]
	if !ok {
		return nil, &ArtifactNotFoundError{Name: name}
	}
	return data, nil
}

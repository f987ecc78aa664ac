package metrics

// MetricsWrapper adapts Metrics to the narrow interfaces the evaluator,
// model loader and server depend on.
type MetricsWrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *MetricsWrapper {
	return &MetricsWrapper{m: m}
}

func (w *MetricsWrapper) EvaluationObserve(model string, seconds float64) {
	w.m.EvaluationsTotal.Inc()
	w.m.EvaluationLatency.WithLabelValues(model).Observe(seconds)
}

func (w *MetricsWrapper) EvaluationFailureInc(kind string) {
	w.m.EvaluationFailures.WithLabelValues(kind).Inc()
}

func (w *MetricsWrapper) PerformanceScoreObserve(score float64) {
	w.m.PerformanceScores.Observe(score)
}

func (w *MetricsWrapper) DecisionInc(model, decision string) {
	w.m.Decisions.WithLabelValues(model, decision).Inc()
}

func (w *MetricsWrapper) ModelLoadsInc() {
	w.m.ModelLoads.Inc()
}

func (w *MetricsWrapper) ModelLoadFailuresInc() {
	w.m.ModelLoadFailures.Inc()
}

func (w *MetricsWrapper) ModelLoadLatencyObserve(v float64) {
	w.m.ModelLoadLatency.Observe(v)
}

func (w *MetricsWrapper) UpdateRegistry(loaded, unavailable int) {
	w.m.UpdateRegistry(loaded, unavailable)
}

func (w *MetricsWrapper) SessionOpened() {
	w.m.WSSessions.Inc()
}

func (w *MetricsWrapper) SessionClosed() {
	w.m.WSSessions.Dec()
}

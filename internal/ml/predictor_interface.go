// Package ml provides the predictor contract used by the evaluation pipeline,
// the concrete model kinds that satisfy it, and the model registry that
// resolves a logical model name to a loaded predictor.
//
// Models are loaded best-effort at startup: a model that fails to load is
// recorded as unavailable and never prevents other models from being used.
package ml

// Predictor maps a fixed-arity feature vector to a single scalar.
// Implementations must be safe for concurrent use and must not modify the vector.
type Predictor interface {
	Predict(vector []float64) (float64, error)
}

// ModelRegistry resolves a logical model name to a ready-to-use predictor.
type ModelRegistry interface {
	Get(name string) (Predictor, bool)
}

// PredictorFunc adapts an ordinary function to the Predictor interface.
type PredictorFunc func(vector []float64) (float64, error)

// Predict calls f(vector).
func (f PredictorFunc) Predict(vector []float64) (float64, error) {
	return f(vector)
}

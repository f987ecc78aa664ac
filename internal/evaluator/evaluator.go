// Package evaluator chains the performance regressor and a selectable hiring
// classifier into a single candidate evaluation.
package evaluator

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"hiring-assistant/internal/common"
	"hiring-assistant/internal/features"
	"hiring-assistant/internal/ml"
)

// PredictionResult is the outcome of one successful evaluation.
type PredictionResult struct {
	PerformanceScore float64 `json:"performanceScore"`
	Decision         string  `json:"decision"`
	ClassCode        int     `json:"classCode"`
	Model            string  `json:"model"`
}

// MetricsInterface defines metrics methods needed by the evaluator
type MetricsInterface interface {
	EvaluationObserve(model string, seconds float64)
	EvaluationFailureInc(kind string)
	PerformanceScoreObserve(score float64)
	DecisionInc(model, decision string)
}

// Evaluator runs the two-stage pipeline against a read-only registry.
// It holds no per-request state and is safe for concurrent use.
type Evaluator struct {
	registry  ml.ModelRegistry
	validator features.Validator
	spec      features.FeatureSpec
	metrics   MetricsInterface
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithValidator replaces the default permissive validator.
func WithValidator(v features.Validator) Option {
	return func(e *Evaluator) { e.validator = v }
}

func WithMetrics(m MetricsInterface) Option {
	return func(e *Evaluator) { e.metrics = m }
}

func New(registry ml.ModelRegistry, opts ...Option) *Evaluator {
	e := &Evaluator{
		registry: registry,
		spec:     features.RegressionSpec(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate validates raw, predicts the performance score, then asks the named
// classifier for a decision over the features plus that score.
// It fails fast on the first error and never retries.
func (e *Evaluator) Evaluate(raw features.RawInput, model string) (*PredictionResult, error) {
	start := time.Now()
	res, err := e.evaluate(raw, model)
	if e.metrics != nil {
		if err != nil {
			e.metrics.EvaluationFailureInc(Kind(err))
		} else {
			e.metrics.EvaluationObserve(model, time.Since(start).Seconds())
			e.metrics.PerformanceScoreObserve(res.PerformanceScore)
			e.metrics.DecisionInc(model, res.Decision)
		}
	}
	if err != nil {
		log.Debug().Err(err).Str("model", model).Str("kind", Kind(err)).Msg("Evaluation failed")
		return nil, err
	}
	log.Debug().
		Str("model", model).
		Float64("score", res.PerformanceScore).
		Int("code", res.ClassCode).
		Str("decision", res.Decision).
		Dur("took", time.Since(start)).
		Msg("Candidate evaluated")
	return res, nil
}

func (e *Evaluator) evaluate(raw features.RawInput, model string) (*PredictionResult, error) {
	reg, err := e.validator.Validate(raw, e.spec)
	if err != nil {
		return nil, err
	}

	regressor, ok := e.registry.Get(common.ModelRegression)
	if !ok {
		return nil, &ModelUnavailableError{Model: common.ModelRegression}
	}
	score, err := regressor.Predict(reg)
	if err != nil {
		return nil, &ModelUnavailableError{Model: common.ModelRegression, Err: err}
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, &ModelUnavailableError{Model: common.ModelRegression, Err: errNonFiniteScore(score)}
	}

	clf := reg.WithScore(score)

	classifier, ok := e.registry.Get(model)
	if !ok {
		return nil, &ModelUnavailableError{Model: model}
	}
	out, err := classifier.Predict(clf)
	if err != nil {
		return nil, &ModelUnavailableError{Model: model, Err: err}
	}
	if math.IsNaN(out) || math.IsInf(out, 0) || out >= math.MaxInt64 || out <= math.MinInt64 {
		return nil, &ModelUnavailableError{Model: model, Err: errBadClassCode(out)}
	}

	code := int(out)
	return &PredictionResult{
		PerformanceScore: score,
		Decision:         DecisionLabel(code),
		ClassCode:        code,
		Model:            model,
	}, nil
}

// ModelStatus reports whether a classifier can currently be selected.
type ModelStatus struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// namedRegistry is implemented by registries that can enumerate their models.
type namedRegistry interface {
	Names() []string
	Unavailable() map[string]error
}

// Models lists the built-in classifiers in display order, followed by any other
// configured classifiers sorted by name, with their availability.
func (e *Evaluator) Models() []ModelStatus {
	out := make([]ModelStatus, 0, len(common.ClassifierNames))
	for _, name := range common.ClassifierNames {
		_, ok := e.registry.Get(name)
		out = append(out, ModelStatus{Name: name, Available: ok})
	}

	named, ok := e.registry.(namedRegistry)
	if !ok {
		return out
	}
	extra := make(map[string]bool)
	for _, name := range named.Names() {
		extra[name] = true
	}
	for name := range named.Unavailable() {
		if !extra[name] {
			extra[name] = false
		}
	}
	delete(extra, common.ModelRegression)
	for _, name := range common.ClassifierNames {
		delete(extra, name)
	}

	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, ModelStatus{Name: name, Available: extra[name]})
	}
	return out
}

// Ready reports whether the regressor is loaded. Without it no evaluation can succeed.
func (e *Evaluator) Ready() bool {
	_, ok := e.registry.Get(common.ModelRegression)
	return ok
}

// Fields returns the candidate fields an input form must collect.
func (e *Evaluator) Fields() []features.Field {
	return e.spec.Fields()
}

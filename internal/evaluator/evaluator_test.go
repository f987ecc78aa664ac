package evaluator

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiring-assistant/internal/common"
	"hiring-assistant/internal/features"
	"hiring-assistant/internal/ml"
)

// recorder is a predictor that returns a fixed output and remembers its inputs.
type recorder struct {
	out   float64
	err   error
	calls atomic.Int32
	mu    sync.Mutex
	last  []float64
}

func (r *recorder) Predict(v []float64) (float64, error) {
	r.calls.Add(1)
	r.mu.Lock()
	r.last = append([]float64(nil), v...)
	r.mu.Unlock()
	return r.out, r.err
}

func (r *recorder) Last() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func candidate() features.RawInput {
	return features.RawInput{
		common.FeatureExperienceYears: "5",
		common.FeatureTestScore:       "80",
		common.FeatureInterviewScore:  "7",
		common.FeatureCommunication:   "8",
	}
}

func TestEvaluateHire(t *testing.T) {
	reg := &recorder{out: 72.5}
	tree := &recorder{out: 2}
	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression:   reg,
		common.ModelDecisionTree: tree,
	}))

	res, err := e.Evaluate(candidate(), common.ModelDecisionTree)
	require.NoError(t, err)
	assert.Equal(t, &PredictionResult{
		PerformanceScore: 72.5,
		Decision:         DecisionHire,
		ClassCode:        2,
		Model:            common.ModelDecisionTree,
	}, res)

	assert.Equal(t, []float64{5, 80, 7, 8}, reg.Last())
	assert.Equal(t, []float64{5, 80, 7, 8, 72.5}, tree.Last())
}

func TestEvaluateUnmappedCode(t *testing.T) {
	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression:   &recorder{out: 40},
		common.ModelDecisionTree: &recorder{out: 9},
	}))

	res, err := e.Evaluate(candidate(), common.ModelDecisionTree)
	require.NoError(t, err)
	assert.Equal(t, "9", res.Decision)
	assert.Equal(t, 9, res.ClassCode)
}

func TestEvaluateCodeTruncation(t *testing.T) {
	tests := []struct {
		out  float64
		code int
	}{
		{1.0, 1},
		{1.9, 1},
		{0.2, 0},
		{-0.7, 0},
		{-1.5, -1},
	}
	for _, tt := range tests {
		e := New(ml.NewRegistry(map[string]ml.Predictor{
			common.ModelRegression: &recorder{out: 50},
			common.ModelKNN:        &recorder{out: tt.out},
		}))
		res, err := e.Evaluate(candidate(), common.ModelKNN)
		require.NoError(t, err)
		assert.Equal(t, tt.code, res.ClassCode, "output %v", tt.out)
		assert.Equal(t, DecisionLabel(tt.code), res.Decision)
	}
}

func TestEvaluateMissingFieldSkipsModels(t *testing.T) {
	reg := &recorder{out: 72.5}
	clf := &recorder{out: 2}
	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression: reg,
		common.ModelSVM:        clf,
	}))

	raw := candidate()
	raw[common.FeatureInterviewScore] = ""
	res, err := e.Evaluate(raw, common.ModelSVM)

	assert.Nil(t, res)
	var missing *features.MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, common.FeatureInterviewScore, missing.Field)
	assert.Equal(t, int32(0), reg.calls.Load(), "regressor must not be invoked")
	assert.Equal(t, int32(0), clf.calls.Load())
}

func TestEvaluateInvalidNumber(t *testing.T) {
	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression: &recorder{out: 1},
	}))
	raw := candidate()
	raw[common.FeatureTestScore] = "eighty"

	_, err := e.Evaluate(raw, common.ModelSVM)
	var invalid *features.InvalidNumberError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, common.FeatureTestScore, invalid.Field)
	assert.Equal(t, "eighty", invalid.Raw)
}

func TestEvaluateMissingRegressor(t *testing.T) {
	clf := &recorder{out: 2}
	e := New(ml.NewRegistry(map[string]ml.Predictor{common.ModelSVM: clf}))

	_, err := e.Evaluate(candidate(), common.ModelSVM)
	var unavailable *ModelUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, common.ModelRegression, unavailable.Model)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Equal(t, int32(0), clf.calls.Load(), "classifier must not be consulted")
}

func TestEvaluateUnknownClassifier(t *testing.T) {
	reg := &recorder{out: 60}
	e := New(ml.NewRegistry(map[string]ml.Predictor{common.ModelRegression: reg}))

	for _, name := range []string{"Random Forest", "", "svm"} {
		_, err := e.Evaluate(candidate(), name)
		var unavailable *ModelUnavailableError
		require.True(t, errors.As(err, &unavailable), "model %q", name)
		assert.Equal(t, name, unavailable.Model)
	}
	assert.Equal(t, int32(3), reg.calls.Load())
}

func TestEvaluatePredictorErrors(t *testing.T) {
	boom := errors.New("shape mismatch")

	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression: &recorder{err: boom},
		common.ModelSVM:        &recorder{out: 1},
	}))
	_, err := e.Evaluate(candidate(), common.ModelSVM)
	var unavailable *ModelUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, common.ModelRegression, unavailable.Model)
	assert.ErrorIs(t, err, boom)

	e = New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression: &recorder{out: 50},
		common.ModelSVM:        &recorder{err: boom},
	}))
	_, err = e.Evaluate(candidate(), common.ModelSVM)
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, common.ModelSVM, unavailable.Model)
}

func TestEvaluateNonFiniteClassifierOutput(t *testing.T) {
	for _, out := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300} {
		e := New(ml.NewRegistry(map[string]ml.Predictor{
			common.ModelRegression: &recorder{out: 50},
			common.ModelNaiveBayes: &recorder{out: out},
		}))
		_, err := e.Evaluate(candidate(), common.ModelNaiveBayes)
		assert.ErrorIs(t, err, ErrModelUnavailable, "output %v", out)
	}
}

func TestEvaluateNonFiniteInputSkipsModels(t *testing.T) {
	reg := &recorder{out: 50}
	clf := &recorder{out: 2}
	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression:   reg,
		common.ModelDecisionTree: clf,
	}))

	for _, text := range []string{"NaN", "inf", "-Infinity"} {
		raw := candidate()
		raw[common.FeatureExperienceYears] = text

		res, err := e.Evaluate(raw, common.ModelDecisionTree)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, features.ErrInvalidNumber, "input %q", text)
		assert.Equal(t, KindInvalidNumber, Kind(err))
	}
	assert.Zero(t, reg.calls.Load())
	assert.Zero(t, clf.calls.Load())
}

func TestEvaluateNonFiniteScore(t *testing.T) {
	for _, score := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		clf := &recorder{out: 2}
		e := New(ml.NewRegistry(map[string]ml.Predictor{
			common.ModelRegression:   &recorder{out: score},
			common.ModelDecisionTree: clf,
		}))

		res, err := e.Evaluate(candidate(), common.ModelDecisionTree)
		assert.Nil(t, res)
		var unavailable *ModelUnavailableError
		require.True(t, errors.As(err, &unavailable), "score %v", score)
		assert.Equal(t, common.ModelRegression, unavailable.Model)
		assert.Zero(t, clf.calls.Load(), "classifier must not see a non-finite score")
	}
}

func TestEvaluateRegressionOverflow(t *testing.T) {
	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression:   &ml.LinearModel{Coefficients: []float64{1, 1, 1, 3}},
		common.ModelDecisionTree: &recorder{out: 2},
	}))

	raw := candidate()
	raw[common.FeatureCommunication] = "1e308"
	_, err := e.Evaluate(raw, common.ModelDecisionTree)
	assert.ErrorIs(t, err, ErrModelUnavailable)
	assert.Contains(t, err.Error(), "not finite")
}

func TestEvaluateScoreIsNotRounded(t *testing.T) {
	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression: &recorder{out: 72.456789},
		common.ModelSVM:        &recorder{out: 1},
	}))
	res, err := e.Evaluate(candidate(), common.ModelSVM)
	require.NoError(t, err)
	assert.Equal(t, 72.456789, res.PerformanceScore)
	assert.Equal(t, DecisionHold, res.Decision)
}

func TestEvaluateEnforceRanges(t *testing.T) {
	reg := &recorder{out: 50}
	registry := ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression: reg,
		common.ModelSVM:        &recorder{out: 0},
	})
	raw := candidate()
	raw[common.FeatureTestScore] = "150"

	res, err := New(registry).Evaluate(raw, common.ModelSVM)
	require.NoError(t, err, "ranges are advisory by default")
	assert.Equal(t, DecisionReject, res.Decision)

	_, err = New(registry, WithValidator(features.Validator{EnforceRanges: true})).Evaluate(raw, common.ModelSVM)
	assert.ErrorIs(t, err, features.ErrOutOfRange)
	assert.Equal(t, KindOutOfRange, Kind(err))
}

func TestEvaluateWithRealModels(t *testing.T) {
	linear, _, err := ml.DecodeArtifact([]byte(`{"kind":"linear","model":{"intercept":0,"coefficients":[1,0.5,2,3]}}`))
	require.NoError(t, err)
	tree, _, err := ml.DecodeArtifact([]byte(`{"kind":"tree","model":{
		"num_features":5,
		"features":[4,-2,4,-2,-2],
		"thresholds":[50,0,75,0,0],
		"left":[1,-1,3,-1,-1],
		"right":[2,-1,4,-1,-1],
		"values":[0,0,0,1,2]}}`))
	require.NoError(t, err)

	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression:   linear,
		common.ModelDecisionTree: tree,
	}))
	res, err := e.Evaluate(candidate(), common.ModelDecisionTree)
	require.NoError(t, err)
	assert.Equal(t, 83.0, res.PerformanceScore)
	assert.Equal(t, DecisionHire, res.Decision)
}

func TestEvaluateMetrics(t *testing.T) {
	m := NewMockMetrics()
	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression: &recorder{out: 72.5},
		common.ModelSVM:        &recorder{out: 2},
	}), WithMetrics(m))

	_, err := e.Evaluate(candidate(), common.ModelSVM)
	require.NoError(t, err)
	_, err = e.Evaluate(features.RawInput{}, common.ModelSVM)
	require.Error(t, err)
	_, err = e.Evaluate(candidate(), common.ModelKNN)
	require.Error(t, err)

	assert.Equal(t, 1, m.Evaluations(common.ModelSVM))
	assert.Equal(t, 1, m.Decisions(common.ModelSVM, DecisionHire))
	assert.Equal(t, 1, m.Failures(KindMissingField))
	assert.Equal(t, 1, m.Failures(KindModelUnavailable))
}

func TestEvaluateConcurrent(t *testing.T) {
	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression: ml.PredictorFunc(func(v []float64) (float64, error) {
			return v[0] * 10, nil
		}),
		common.ModelLogisticRegression: ml.PredictorFunc(func(v []float64) (float64, error) {
			if len(v) != 5 {
				return 0, errors.New("bad arity")
			}
			return float64(int(v[4]) % 3), nil
		}),
	}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			raw := candidate()
			raw[common.FeatureExperienceYears] = strconv.Itoa(i)
			res, err := e.Evaluate(raw, common.ModelLogisticRegression)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, float64(i*10), res.PerformanceScore)
			assert.Equal(t, (i*10)%3, res.ClassCode)
		}(i)
	}
	wg.Wait()
}

func TestModelsAndFields(t *testing.T) {
	e := New(ml.NewRegistry(map[string]ml.Predictor{
		common.ModelRegression: &recorder{},
		common.ModelKNN:        &recorder{},
	}))

	models := e.Models()
	require.Len(t, models, len(common.ClassifierNames))
	assert.Equal(t, ModelStatus{Name: common.ModelKNN, Available: true}, models[0])
	assert.Equal(t, ModelStatus{Name: common.ModelDecisionTree, Available: false}, models[1])
	assert.True(t, e.Ready())

	assert.Equal(t, features.RegressionSpec().Fields(), e.Fields())
	assert.False(t, New(ml.NewRegistry(nil)).Ready())
}

func TestModelsIncludesConfiguredClassifiers(t *testing.T) {
	dir := t.TempDir()
	data, err := ml.EncodeArtifact(ml.KindLinear, ml.LinearModel{Coefficients: []float64{1, 1, 1, 1}})
	require.NoError(t, err)
	regPath := filepath.Join(dir, "reg_model.json")
	require.NoError(t, os.WriteFile(regPath, data, 0o644))

	registry := ml.Load(t.Context(), []ml.ModelSource{
		{Name: common.ModelRegression, Kind: ml.SourceFile, Location: regPath},
		{Name: "Gradient Boosting", Kind: ml.SourceFile, Location: regPath},
		{Name: "Random Forest", Kind: ml.SourceFile, Location: filepath.Join(dir, "missing.json")},
	})
	models := New(registry).Models()

	require.Len(t, models, len(common.ClassifierNames)+2)
	extra := models[len(common.ClassifierNames):]
	assert.Equal(t, ModelStatus{Name: "Gradient Boosting", Available: true}, extra[0])
	assert.Equal(t, ModelStatus{Name: "Random Forest", Available: false}, extra[1])
	for _, m := range models {
		assert.NotEqual(t, common.ModelRegression, m.Name)
	}
}

func TestDecisionLabel(t *testing.T) {
	assert.Equal(t, "Reject", DecisionLabel(0))
	assert.Equal(t, "Hold", DecisionLabel(1))
	assert.Equal(t, "Hire", DecisionLabel(2))
	assert.Equal(t, "9", DecisionLabel(9))
	assert.Equal(t, "-1", DecisionLabel(-1))
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindMissingField, Kind(&features.MissingFieldError{Field: "x"}))
	assert.Equal(t, KindInvalidNumber, Kind(&features.InvalidNumberError{Field: "x"}))
	assert.Equal(t, KindModelUnavailable, Kind(&ModelUnavailableError{Model: "SVM"}))
	assert.Equal(t, KindInternal, Kind(errors.New("other")))
	assert.True(t, IsValidation(&features.MissingFieldError{Field: "x"}))
	assert.False(t, IsValidation(&ModelUnavailableError{Model: "SVM"}))
}

func TestModelUnavailableErrorMessage(t *testing.T) {
	assert.Equal(t, "model 'SVM' is not available", (&ModelUnavailableError{Model: "SVM"}).Error())
	cause := errors.New("timeout")
	err := &ModelUnavailableError{Model: "KNN", Err: cause}
	assert.Contains(t, err.Error(), "timeout")
	assert.ErrorIs(t, err, cause)
}

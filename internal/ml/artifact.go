package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// Model kinds understood by DecodeArtifact.
const (
	KindLinear     = "linear"
	KindLogistic   = "logistic"
	KindKNN        = "knn"
	KindTree       = "tree"
	KindSVM        = "svm"
	KindNaiveBayes = "naive_bayes"
)

// Artifact is the on-disk envelope of a serialized model.
//
//	{"kind": "tree", "version": "20250101-120000", "model": {...}}
type Artifact struct {
	Kind      string          `json:"kind"`
	Version   string          `json:"version,omitempty"`
	TrainedAt *time.Time      `json:"trained_at,omitempty"`
	Features  []string        `json:"features,omitempty"`
	Model     json.RawMessage `json:"model"`
}

// Decoder builds a predictor from the "model" payload of an artifact.
type Decoder func(payload json.RawMessage) (Predictor, error)

var decoders = map[string]Decoder{
	KindLinear:     decodeInto[LinearModel],
	KindLogistic:   decodeInto[LogisticModel],
	KindKNN:        decodeInto[KNNModel],
	KindTree:       decodeInto[TreeModel],
	KindSVM:        decodeInto[SVMModel],
	KindNaiveBayes: decodeInto[NaiveBayesModel],
}

// Kinds returns the supported model kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(decoders))
	for k := range decoders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func decodeInto[T any, P interface {
	*T
	Predictor
	validate() error
}](payload json.RawMessage) (Predictor, error) {
	var m T
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	p := P(&m)
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeArtifact parses an artifact envelope and builds its predictor.
func DecodeArtifact(data []byte) (Predictor, *Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, nil, fmt.Errorf("parse artifact: %w", err)
	}
	decode, ok := decoders[a.Kind]
	if !ok {
		return nil, nil, fmt.Errorf("unknown model kind %q (supported: %v)", a.Kind, Kinds())
	}
	if len(a.Model) == 0 {
		return nil, nil, fmt.Errorf("artifact of kind %q has no model payload", a.Kind)
	}
	p, err := decode(a.Model)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s model: %w", a.Kind, err)
	}
	return p, &a, nil
}

// LoadArtifactFile reads and decodes an artifact from path.
func LoadArtifactFile(path string) (Predictor, *Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return DecodeArtifact(data)
}

// EncodeArtifact wraps a model payload in an envelope of the given kind.
func EncodeArtifact(kind string, model any) ([]byte, error) {
	payload, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("marshal model: %w", err)
	}
	return json.MarshalIndent(Artifact{Kind: kind, Model: payload}, "", "  ")
}

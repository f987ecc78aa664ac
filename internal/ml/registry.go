package ml

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Registry is an immutable name → predictor table built once at startup.
// It is safe for concurrent reads.
type Registry struct {
	models      map[string]Predictor
	unavailable map[string]error
}

// NewRegistry builds a registry from already constructed predictors.
// Nil predictors are treated as absent.
func NewRegistry(models map[string]Predictor) *Registry {
	r := &Registry{
		models:      make(map[string]Predictor, len(models)),
		unavailable: make(map[string]error),
	}
	for name, p := range models {
		if p != nil {
			r.models[name] = p
		}
	}
	return r
}

// Get returns the predictor registered under name.
func (r *Registry) Get(name string) (Predictor, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.models[name]
	return p, ok
}

// Names returns the loaded model names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.models))
	for n := range r.models {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of loaded models.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.models)
}

// Unavailable returns the names that failed to load, with the cause.
func (r *Registry) Unavailable() map[string]error {
	out := make(map[string]error)
	if r == nil {
		return out
	}
	for n, err := range r.unavailable {
		out[n] = err
	}
	return out
}

// SourceKind says where a model artifact comes from.
type SourceKind string

const (
	SourceFile   SourceKind = "file"
	SourceStore  SourceKind = "store"
	SourceRemote SourceKind = "remote"
)

// ModelSource tells the loader how to obtain one named model.
// Location is a file path, a store key, or an HTTP endpoint depending on Kind.
type ModelSource struct {
	Name     string
	Kind     SourceKind
	Location string
	Timeout  time.Duration
}

// ArtifactReader is implemented by artifact stores (see internal/storage).
type ArtifactReader interface {
	GetArtifact(name string) ([]byte, error)
}

// ArtifactNotFoundError is returned by artifact readers for unknown names.
type ArtifactNotFoundError struct {
	Name string
}

func (e *ArtifactNotFoundError) Error() string {
	return "model artifact " + e.Name + " not found"
}

// MetricsInterface defines metrics methods needed by the loader
type MetricsInterface interface {
	ModelLoadsInc()
	ModelLoadFailuresInc()
	ModelLoadLatencyObserve(float64)
}

type loadOptions struct {
	store       ArtifactReader
	metrics     MetricsInterface
	concurrency int
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

func WithStore(store ArtifactReader) LoadOption {
	return func(o *loadOptions) { o.store = store }
}

func WithMetrics(m MetricsInterface) LoadOption {
	return func(o *loadOptions) { o.metrics = m }
}

func WithConcurrency(n int) LoadOption {
	return func(o *loadOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// Load builds a registry from sources. Loading is best-effort: every failure is
// logged and recorded under the model name in Unavailable(), and never aborts
// the remaining sources. Duplicate names keep the first source.
func Load(ctx context.Context, sources []ModelSource, opts ...LoadOption) *Registry {
	o := loadOptions{concurrency: 4}
	for _, opt := range opts {
		opt(&o)
	}

	reg := &Registry{
		models:      make(map[string]Predictor, len(sources)),
		unavailable: make(map[string]error),
	}

	var (
		mu   sync.Mutex
		g    errgroup.Group
		seen = make(map[string]bool, len(sources))
	)
	g.SetLimit(o.concurrency)

	for _, src := range sources {
		if seen[src.Name] {
			log.Warn().Str("model", src.Name).Str("location", src.Location).Msg("duplicate model source ignored")
			continue
		}
		seen[src.Name] = true

		g.Go(func() error {
			start := time.Now()
			p, err := loadSource(ctx, src, o)
			if o.metrics != nil {
				o.metrics.ModelLoadLatencyObserve(time.Since(start).Seconds())
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				reg.unavailable[src.Name] = err
				if o.metrics != nil {
					o.metrics.ModelLoadFailuresInc()
				}
				log.Warn().Err(err).
					Str("model", src.Name).
					Str("source", string(src.Kind)).
					Str("location", src.Location).
					Msg("Model failed to load, it will be unavailable")
				return nil
			}
			reg.models[src.Name] = p
			if o.metrics != nil {
				o.metrics.ModelLoadsInc()
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Info().
		Strs("loaded", reg.Names()).
		Int("unavailable", len(reg.unavailable)).
		Msg("Model registry ready")
	return reg
}

func loadSource(ctx context.Context, src ModelSource, o loadOptions) (Predictor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src.Name == "" {
		return nil, fmt.Errorf("model source has no name")
	}

	switch src.Kind {
	case SourceFile, "":
		p, a, err := LoadArtifactFile(src.Location)
		if err != nil {
			return nil, err
		}
		logArtifact(src, a)
		return p, nil

	case SourceStore:
		if o.store == nil {
			return nil, fmt.Errorf("no model store configured")
		}
		key := src.Location
		if key == "" {
			key = src.Name
		}
		data, err := o.store.GetArtifact(key)
		if err != nil {
			return nil, err
		}
		p, a, err := DecodeArtifact(data)
		if err != nil {
			return nil, err
		}
		logArtifact(src, a)
		return p, nil

	case SourceRemote:
		if src.Location == "" {
			return nil, fmt.Errorf("remote model has no endpoint")
		}
		log.Info().Str("model", src.Name).Str("endpoint", src.Location).Msg("Remote model configured")
		return NewRemotePredictor(src.Name, src.Location, src.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown source kind %q", src.Kind)
	}
}

func logArtifact(src ModelSource, a *Artifact) {
	ev := log.Info().
		Str("model", src.Name).
		Str("kind", a.Kind).
		Str("location", src.Location)
	if a.Version != "" {
		ev = ev.Str("version", a.Version)
	}
	ev.Msg("Model loaded successfully")
}

package ml

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// RemotePredictor calls an external model server over HTTP.
//
// Request:  {"instances": [[f1, f2, ...]]}
// Response: {"predictions": [y]}
type RemotePredictor struct {
	name     string
	endpoint string
	rest     *resty.Client
}

type remoteRequest struct {
	Instances [][]float64 `json:"instances"`
}

type remoteResponse struct {
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
}

func NewRemotePredictor(name, endpoint string, timeout time.Duration) *RemotePredictor {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second)
	}
	r.SetHeader("Accept", "application/json")
	return &RemotePredictor{name: name, endpoint: endpoint, rest: r}
}

func (p *RemotePredictor) Endpoint() string { return p.endpoint }

// Predict sends a single instance and expects exactly one prediction back.
func (p *RemotePredictor) Predict(vector []float64) (float64, error) {
	result := &remoteResponse{}
	resp, err := p.rest.R().
		SetBody(remoteRequest{Instances: [][]float64{vector}}).
		SetResult(result).
		ForceContentType("application/json").
		Post(p.endpoint)
	if err != nil {
		return 0, fmt.Errorf("%s: request failed: %w", p.name, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("%s: status %d, body: %s", p.name, resp.StatusCode(), resp.String())
	}
	if result.Error != "" {
		return 0, fmt.Errorf("%s: model server error: %s", p.name, result.Error)
	}
	if len(result.Predictions) != 1 {
		return 0, fmt.Errorf("%s: expected 1 prediction, got %d", p.name, len(result.Predictions))
	}
	return result.Predictions[0], nil
}

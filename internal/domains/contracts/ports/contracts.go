package ports

import (
	"context"
	"encoding/json"
)

// Backend is a transport-neutral simulation backend contract.
//
// A non-nil error is a transport-level failure: the call itself could not be
// served. Domain problems are reported in-band through the response error
// field. Implementations are shared by all in-flight requests and must be
// safe for concurrent use.
type Backend interface {
	// Run the experiment.
	Run(ctx context.Context, req RunRequest) (RunResponse, error)
	// Test runs internal consistency checks.
	Test(ctx context.Context, req TestRequest) (TestResponse, error)
	// Visualize produces a visualization resource.
	Visualize(ctx context.Context, req VisualizeRequest) (VisualizeResponse, error)
}

type RunRequest struct {
	ID      string                     `json:"id"`
	Backend string                     `json:"backend"` // e.g. "gromacs"
	Input   string                     `json:"input"`
	Config  map[string]json.RawMessage `json:"config"`
	Foo     map[int64]string           `json:"foo"`
}

type RunResponse struct {
	Error *string `json:"error"`
}

type TestRequest struct{}

type TestResponse struct {
	Error *string `json:"error"`
}

type VisualizeRequest struct {
	FPS       int64 `json:"f_p_s"`
	NumFrames int64 `json:"num_frames"`
}

type VisualizeResponse struct {
	Resource string  `json:"resource"`
	Error    *string `json:"error"`
}

type CategorizedError struct {
	Category string
	Err      error
}

func (e *CategorizedError) Error() string {
	return e.Err.Error()
}

func (e *CategorizedError) Unwrap() error {
	return e.Err
}

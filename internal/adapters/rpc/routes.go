package rpc

import (
	"context"
	"net/http"

	"foldy/sal/internal/domains/contracts"
)

const (
	OpRun       = "Backend.Run"
	OpTest      = "Backend.Test"
	OpVisualize = "Backend.Visualize"

	PathRun       = "/rpc/" + OpRun
	PathTest      = "/rpc/" + OpTest
	PathVisualize = "/rpc/" + OpVisualize
)

// Operations lists the fixed capability set served under /rpc/.
var Operations = []string{OpRun, OpTest, OpVisualize}

// RegisterRoutes binds the three backend operations to mux. backend is
// captured once and shared by every request, so it must be safe for
// concurrent use.
func RegisterRoutes(mux *http.ServeMux, backend contracts.Backend, d *Dispatcher) {
	if backend == nil {
		backend = unavailableBackend{}
	}
	mux.Handle(http.MethodPost+" "+PathRun, dispatch(d, OpRun, backend.Run))
	mux.Handle(http.MethodPost+" "+PathTest, dispatch(d, OpTest, backend.Test))
	mux.Handle(http.MethodPost+" "+PathVisualize, dispatch(d, OpVisualize, backend.Visualize))
}

type unavailableBackend struct{}

func (unavailableBackend) Run(context.Context, contracts.RunRequest) (contracts.RunResponse, error) {
	return contracts.RunResponse{}, contracts.ErrBackendUnavailable
}

func (unavailableBackend) Test(context.Context, contracts.TestRequest) (contracts.TestResponse, error) {
	return contracts.TestResponse{}, contracts.ErrBackendUnavailable
}

func (unavailableBackend) Visualize(context.Context, contracts.VisualizeRequest) (contracts.VisualizeResponse, error) {
	return contracts.VisualizeResponse{}, contracts.ErrBackendUnavailable
}

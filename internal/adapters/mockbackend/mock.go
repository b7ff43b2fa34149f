// Package mockbackend provides a stand-in Backend that either always succeeds
// with empty responses or always fails with a fixed message.
package mockbackend

import (
	"context"
	"errors"

	"foldy/sal/internal/domains/contracts"
)

var _ contracts.Backend = Backend{}

// Backend holds only static configuration, so one value can be shared by
// every request.
type Backend struct {
	failure  string
	failing  bool
	resource string
}

// New returns a backend in success mode.
func New() Backend {
	return Backend{}
}

// Failing returns a backend whose every call fails with message.
func Failing(message string) Backend {
	return Backend{failure: message, failing: true}
}

// WithVisualizeResource returns a success-mode backend that answers Visualize
// with resource instead of an empty string.
func WithVisualizeResource(resource string) Backend {
	return Backend{resource: resource}
}

func (b Backend) Failing() bool {
	return b.failing
}

func (b Backend) err() error {
	if !b.failing {
		return nil
	}
	return errors.New(b.failure)
}

func (b Backend) Run(_ context.Context, _ contracts.RunRequest) (contracts.RunResponse, error) {
	if err := b.err(); err != nil {
		return contracts.RunResponse{}, err
	}
	return contracts.NewRunResponse(), nil
}

func (b Backend) Test(_ context.Context, _ contracts.TestRequest) (contracts.TestResponse, error) {
	if err := b.err(); err != nil {
		return contracts.TestResponse{}, err
	}
	return contracts.NewTestResponse(), nil
}

func (b Backend) Visualize(_ context.Context, _ contracts.VisualizeRequest) (contracts.VisualizeResponse, error) {
	if err := b.err(); err != nil {
		return contracts.VisualizeResponse{}, err
	}
	return contracts.NewVisualizeResponse(b.resource), nil
}

package contracts

import "encoding/json"

// InBand is implemented by every response envelope that can carry an in-band
// domain error next to its success payload.
type InBand interface {
	IsError() bool
	ErrorMessage() (string, bool)
}

func NewRunRequest() RunRequest {
	return RunRequest{
		Config: map[string]json.RawMessage{},
		Foo:    map[int64]string{},
	}
}

func NewRunResponse() RunResponse {
	return RunResponse{}
}

// RunResponseError builds a response that reports msg in-band.
func RunResponseError(msg string) RunResponse {
	return RunResponse{Error: &msg}
}

func NewTestResponse() TestResponse {
	return TestResponse{}
}

func TestResponseError(msg string) TestResponse {
	return TestResponse{Error: &msg}
}

// NewVisualizeResponse returns a successful response pointing at resource,
// usually a URL to the rendered webm file.
func NewVisualizeResponse(resource string) VisualizeResponse {
	return VisualizeResponse{Resource: resource}
}

// VisualizeResponseError reports msg in-band; Resource stays empty.
func VisualizeResponseError(msg string) VisualizeResponse {
	return VisualizeResponse{Error: &msg}
}

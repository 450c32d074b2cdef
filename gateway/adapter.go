// Package gateway sends questions about collected pages to LLM backends
// over plain HTTP/JSON. Each supported backend type has an Adapter that
// knows its request and response shapes.
package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fwojciec/pagecollect"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"
)

// Doer sends HTTP requests. *http.Client satisfies Doer.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Request is a backend HTTP request built by an Adapter.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Adapter builds requests for and parses responses from one backend wire shape.
type Adapter interface {
	// Name identifies the backend in logs and error messages.
	Name() string

	// BuildGenerateRequest builds the request that generates an answer.
	// An empty systemPrompt is omitted from the request.
	BuildGenerateRequest(s *pagecollect.BackendSettings, prompt, systemPrompt string) (*Request, error)

	// ParseGenerateResponse extracts the answer from a response body.
	// Returns EMALFORMED for invalid JSON and EFORMAT when the expected
	// fields are missing.
	ParseGenerateResponse(body []byte) (string, error)

	// BuildProbeRequest builds a cheap request used to test connectivity.
	BuildProbeRequest(s *pagecollect.BackendSettings) (*Request, error)

	// StatusError returns the error for a non-success HTTP status.
	StatusError(status int, body string) error

	// ClassifyError converts a transport failure into the error reported
	// to the caller.
	ClassifyError(err error) error
}

// Adapters returns the adapter for every supported backend type.
func Adapters() map[pagecollect.BackendType]Adapter {
	return map[pagecollect.BackendType]Adapter{
		pagecollect.BackendOllama: &OllamaAdapter{},
		pagecollect.BackendVLLM:   &VLLMAdapter{},
		pagecollect.BackendCustom: &CustomAdapter{},
	}
}

// baseURL returns the scheme, host, and port of a backend.
func baseURL(s *pagecollect.BackendSettings) string {
	return fmt.Sprintf("http://%s:%s", s.Host, s.Port)
}

// newJSONRequest builds a request with a JSON-encoded body.
// A nil body produces a request without one.
func newJSONRequest(method, url string, body any) (*Request, error) {
	r := &Request{
		Method: method,
		URL:    url,
		Header: http.Header{},
	}
	r.Header.Set(headerContentType, mimeJSON)

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		r.Body = b
	}
	return r, nil
}

// decodeJSON unmarshals a response body, telling invalid JSON apart from
// JSON of the wrong shape.
func decodeJSON(name string, body []byte, v any) error {
	if !json.Valid(body) {
		return pagecollect.Errorf(pagecollect.EMALFORMED, "Invalid JSON in %s response", name)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return pagecollect.Errorf(pagecollect.EFORMAT, "Unexpected %s response format", name)
	}
	return nil
}

package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/pagecollect"
)

// Default per-call deadlines. Generation on local hardware can be slow, so
// the query deadline is generous.
const (
	DefaultQueryTimeout = 5 * time.Minute
	DefaultProbeTimeout = 10 * time.Second
)

// Ensure Gateway implements pagecollect.Gateway at compile time.
var _ pagecollect.Gateway = (*Gateway)(nil)

// Gateway implements pagecollect.Gateway by dispatching to the Adapter
// registered for the requested backend type. Each call sends at most one
// HTTP request and is never retried.
type Gateway struct {
	client       Doer
	adapters     map[pagecollect.BackendType]Adapter
	queryTimeout time.Duration
	probeTimeout time.Duration
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithQueryTimeout bounds each Query call. Zero disables the deadline.
func WithQueryTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.queryTimeout = d
	}
}

// WithProbeTimeout bounds each Test call. Zero disables the deadline.
func WithProbeTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.probeTimeout = d
	}
}

// NewGateway creates a Gateway that sends requests with client.
// If client is nil, a new http.Client is used.
func NewGateway(client Doer, opts ...Option) *Gateway {
	if client == nil {
		client = &http.Client{}
	}
	g := &Gateway{
		client:       client,
		adapters:     Adapters(),
		queryTimeout: DefaultQueryTimeout,
		probeTimeout: DefaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Query aggregates the collected pages with the prompt and returns the
// backend's answer.
func (g *Gateway) Query(ctx context.Context, req *pagecollect.QueryRequest) (string, error) {
	if req == nil {
		return "", pagecollect.Errorf(pagecollect.EINVALID, "Invalid request")
	}
	if len(req.CollectedPages) == 0 {
		return "", pagecollect.Errorf(pagecollect.ENOCONTENT, "No collected pages to query")
	}
	for _, page := range req.CollectedPages {
		if page == nil {
			return "", pagecollect.Errorf(pagecollect.EINVALID, "Invalid request: collected page is null")
		}
	}
	if req.Settings == nil || req.Prompt == "" {
		return "", pagecollect.Errorf(pagecollect.EINVALID, "Invalid request")
	}

	adapter, err := g.adapter(req.Settings.Type)
	if err != nil {
		return "", err
	}

	prompt := pagecollect.BuildPrompt(req.CollectedPages, req.Prompt)
	r, err := adapter.BuildGenerateRequest(req.Settings, prompt, req.SystemPrompt)
	if err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx, g.queryTimeout)
	defer cancel()

	body, err := g.send(ctx, adapter, r)
	if err != nil {
		return "", err
	}
	return adapter.ParseGenerateResponse(body)
}

// Test sends the backend's probe request. Only the HTTP status matters;
// the response body is not inspected.
func (g *Gateway) Test(ctx context.Context, settings *pagecollect.BackendSettings) error {
	if settings == nil {
		return pagecollect.Errorf(pagecollect.EINVALID, "Invalid request")
	}

	adapter, err := g.adapter(settings.Type)
	if err != nil {
		return err
	}

	r, err := adapter.BuildProbeRequest(settings)
	if err != nil {
		return err
	}

	ctx, cancel := withTimeout(ctx, g.probeTimeout)
	defer cancel()

	_, err = g.send(ctx, adapter, r)
	return err
}

// adapter returns the adapter for a backend type.
// Returns EINVALID if the type is not supported.
func (g *Gateway) adapter(t pagecollect.BackendType) (Adapter, error) {
	a, ok := g.adapters[t]
	if !ok {
		return nil, pagecollect.Errorf(pagecollect.EINVALID, "Invalid LLM type")
	}
	return a, nil
}

// send performs the request and returns the body of a successful response.
func (g *Gateway) send(ctx context.Context, a Adapter, r *Request) ([]byte, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, pagecollect.Errorf(pagecollect.EINVALID, "invalid backend URL %q: %v", r.URL, err)
	}
	req.Header = r.Header.Clone()

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, a.ClassifyError(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, a.ClassifyError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, a.StatusError(resp.StatusCode, string(b))
	}
	return b, nil
}

// withTimeout derives a context with a deadline d from now.
// Zero d returns ctx unchanged.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

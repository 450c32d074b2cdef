package mock

import (
	"context"

	"github.com/fwojciec/pagecollect"
)

var (
	_ pagecollect.Gateway      = (*Gateway)(nil)
	_ pagecollect.TokenCounter = (*TokenCounter)(nil)
)

// Gateway is a mock implementation of pagecollect.Gateway.
type Gateway struct {
	QueryFn func(ctx context.Context, req *pagecollect.QueryRequest) (string, error)
	TestFn  func(ctx context.Context, settings *pagecollect.BackendSettings) error
}

func (g *Gateway) Query(ctx context.Context, req *pagecollect.QueryRequest) (string, error) {
	return g.QueryFn(ctx, req)
}

func (g *Gateway) Test(ctx context.Context, settings *pagecollect.BackendSettings) error {
	return g.TestFn(ctx, settings)
}

// TokenCounter is a mock implementation of pagecollect.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}

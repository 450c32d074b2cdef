package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagecollect"
	"github.com/google/uuid"
)

// Ensure LoggingGateway implements pagecollect.Gateway.
var _ pagecollect.Gateway = (*LoggingGateway)(nil)

// LoggingGateway wraps a Gateway with logging. Each call is tagged with a
// fresh request_id. Prompts, page text, and API keys are never logged.
type LoggingGateway struct {
	next   pagecollect.Gateway
	logger *slog.Logger
}

// NewLoggingGateway creates a new LoggingGateway.
func NewLoggingGateway(next pagecollect.Gateway, logger *slog.Logger) *LoggingGateway {
	return &LoggingGateway{next: next, logger: logger}
}

// Query delegates to the wrapped gateway and logs the backend, the number
// of pages sent, and the answer size.
func (g *LoggingGateway) Query(ctx context.Context, req *pagecollect.QueryRequest) (text string, err error) {
	attrs := []any{"request_id", uuid.NewString()}
	if req != nil {
		attrs = append(attrs, "pages", len(req.CollectedPages), "prompt_chars", len(req.Prompt))
		attrs = append(attrs, backendAttrs(req.Settings)...)
	}
	defer func(begin time.Time) {
		g.logger.Log(ctx, levelFor(slog.LevelInfo, err), "llm query", append(attrs,
			"response_chars", len(text),
			"duration", time.Since(begin),
			"kind", pagecollect.ErrorCode(err),
			"err", err,
		)...)
	}(time.Now())
	return g.next.Query(ctx, req)
}

// Test delegates to the wrapped gateway and logs the probed backend.
func (g *LoggingGateway) Test(ctx context.Context, settings *pagecollect.BackendSettings) (err error) {
	attrs := append([]any{"request_id", uuid.NewString()}, backendAttrs(settings)...)
	defer func(begin time.Time) {
		g.logger.Log(ctx, levelFor(slog.LevelInfo, err), "llm connection test", append(attrs,
			"duration", time.Since(begin),
			"kind", pagecollect.ErrorCode(err),
			"err", err,
		)...)
	}(time.Now())
	return g.next.Test(ctx, settings)
}

func backendAttrs(s *pagecollect.BackendSettings) []any {
	if s == nil {
		return nil
	}
	return []any{
		"backend", string(s.Type),
		"host", s.Host,
		"port", s.Port,
		"model", s.ModelName,
	}
}

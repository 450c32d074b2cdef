package collect_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/pagecollect/collect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetry(t *testing.T) {
	t.Parallel()

	noDelays := []time.Duration{0, 0, 0}

	t.Run("returns first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		html, err := collect.FetchWithRetry(context.Background(), "https://example.com", func(_ context.Context, _ string) (string, error) {
			calls++
			return "<html></html>", nil
		}, noDelays)

		require.NoError(t, err)
		assert.Equal(t, "<html></html>", html)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		html, err := collect.FetchWithRetry(context.Background(), "https://example.com", func(_ context.Context, _ string) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("temporary")
			}
			return "ok", nil
		}, noDelays)

		require.NoError(t, err)
		assert.Equal(t, "ok", html)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after all delays with last error", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := collect.FetchWithRetry(context.Background(), "https://example.com", func(_ context.Context, _ string) (string, error) {
			calls++
			return "", errors.New("attempt failed")
		}, noDelays)

		require.Error(t, err)
		assert.Equal(t, "attempt failed", err.Error())
		assert.Equal(t, 4, calls)
	})

	t.Run("no delays means a single attempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := collect.FetchWithRetry(context.Background(), "https://example.com", func(_ context.Context, _ string) (string, error) {
			calls++
			return "", errors.New("down")
		}, nil)

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := collect.FetchWithRetry(ctx, "https://example.com", func(_ context.Context, _ string) (string, error) {
			calls++
			cancel()
			return "", errors.New("down")
		}, []time.Duration{time.Hour})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

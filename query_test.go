package pagecollect_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/pagecollect"
	"github.com/fwojciec/pagecollect/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQueryResult(t *testing.T) {
	t.Parallel()

	t.Run("reports success with text", func(t *testing.T) {
		t.Parallel()

		got := pagecollect.NewQueryResult("Summary.", nil)

		assert.Equal(t, pagecollect.QueryResult{OK: true, Text: "Summary."}, got)
	})

	t.Run("reports error kind and message", func(t *testing.T) {
		t.Parallel()

		got := pagecollect.NewQueryResult("", pagecollect.Errorf(pagecollect.ENOCONTENT, "No collected pages to query"))

		assert.False(t, got.OK)
		assert.Empty(t, got.Text)
		assert.Equal(t, pagecollect.ENOCONTENT, got.ErrorKind)
		assert.Equal(t, "No collected pages to query", got.Message)
	})

	t.Run("passes foreign error message through", func(t *testing.T) {
		t.Parallel()

		got := pagecollect.NewQueryResult("", errors.New("Failed to fetch"))

		assert.Equal(t, pagecollect.EINTERNAL, got.ErrorKind)
		assert.Equal(t, "Failed to fetch", got.Message)
	})

	t.Run("falls back to unknown error message", func(t *testing.T) {
		t.Parallel()

		got := pagecollect.NewQueryResult("", errors.New(""))

		assert.False(t, got.OK)
		assert.Equal(t, "Unknown error", got.Message)
	})
}

func TestNewTestResult(t *testing.T) {
	t.Parallel()

	assert.Equal(t, pagecollect.TestResult{OK: true}, pagecollect.NewTestResult(nil))

	got := pagecollect.NewTestResult(pagecollect.BackendErrorf(404, "nope", "Ollama API error (404): nope"))
	assert.False(t, got.OK)
	assert.Equal(t, pagecollect.EBACKEND, got.ErrorKind)
	assert.Equal(t, "Ollama API error (404): nope", got.Message)
}

func TestQueryLLM(t *testing.T) {
	t.Parallel()

	var calledWith *pagecollect.QueryRequest
	g := &mock.Gateway{
		QueryFn: func(_ context.Context, req *pagecollect.QueryRequest) (string, error) {
			calledWith = req
			return "answer", nil
		},
	}
	req := &pagecollect.QueryRequest{Prompt: "q"}

	got := pagecollect.QueryLLM(context.Background(), g, req)

	assert.Equal(t, pagecollect.QueryResult{OK: true, Text: "answer"}, got)
	assert.Same(t, req, calledWith)
}

func TestQueryLLMAsync(t *testing.T) {
	t.Parallel()

	t.Run("delivers exactly one result then closes", func(t *testing.T) {
		t.Parallel()

		g := &mock.Gateway{
			QueryFn: func(context.Context, *pagecollect.QueryRequest) (string, error) {
				return "", pagecollect.Errorf(pagecollect.EINVALID, "Invalid LLM type")
			},
		}

		ch := pagecollect.QueryLLMAsync(context.Background(), g, &pagecollect.QueryRequest{})

		select {
		case res, ok := <-ch:
			require.True(t, ok)
			assert.False(t, res.OK)
			assert.Equal(t, pagecollect.EINVALID, res.ErrorKind)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for result")
		}

		_, ok := <-ch
		assert.False(t, ok, "channel should be closed after one result")
	})

	t.Run("completes without a reader", func(t *testing.T) {
		t.Parallel()

		done := make(chan struct{})
		g := &mock.Gateway{
			QueryFn: func(context.Context, *pagecollect.QueryRequest) (string, error) {
				defer close(done)
				return "ok", nil
			},
		}

		ch := pagecollect.QueryLLMAsync(context.Background(), g, &pagecollect.QueryRequest{})
		<-done

		assert.Eventually(t, func() bool { return len(ch) == 1 }, time.Second, 5*time.Millisecond)
	})
}

func TestTestConnectionAsync(t *testing.T) {
	t.Parallel()

	var calledWith *pagecollect.BackendSettings
	g := &mock.Gateway{
		TestFn: func(_ context.Context, s *pagecollect.BackendSettings) error {
			calledWith = s
			return nil
		},
	}
	settings := pagecollect.DefaultBackendSettings()

	var results []pagecollect.TestResult
	for res := range pagecollect.TestConnectionAsync(context.Background(), g, settings) {
		results = append(results, res)
	}

	require.Len(t, results, 1)
	assert.True(t, results[0].OK)
	assert.Same(t, settings, calledWith)
}

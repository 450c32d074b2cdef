package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/pagecollect"
	main "github.com/fwojciec/pagecollect/cmd/pagecollect"
	"github.com/fwojciec/pagecollect/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storedState returns mocks holding samplePages, Ollama settings, and the
// default options.
func storedState() (*mock.PageService, *mock.SettingsService) {
	pages := &mock.PageService{
		FindPagesFn: func(context.Context, pagecollect.PageFilter) ([]*pagecollect.PageRecord, error) {
			return samplePages(), nil
		},
	}
	settings := &mock.SettingsService{
		FindBackendSettingsFn: func(context.Context) (*pagecollect.BackendSettings, error) {
			return pagecollect.DefaultBackendSettings(), nil
		},
		FindOptionsFn: func(context.Context) (*pagecollect.Options, error) {
			return pagecollect.DefaultOptions(), nil
		},
	}
	return pages, settings
}

func TestAskCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("queries the backend with stored pages and settings", func(t *testing.T) {
		t.Parallel()

		pages, settings := storedState()
		var got *pagecollect.QueryRequest
		g := &mock.Gateway{
			QueryFn: func(_ context.Context, req *pagecollect.QueryRequest) (string, error) {
				got = req
				return "The answer.", nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Pages: pages, Settings: settings, Gateway: g}

		err := (&main.AskCmd{Question: "What is alpha?"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "The answer.\n", stdout.String())
		assert.Contains(t, stderr.String(), "mistral:latest")
		require.NotNil(t, got)
		assert.Equal(t, "What is alpha?", got.Prompt)
		assert.Equal(t, pagecollect.DefaultSystemPrompt, got.SystemPrompt)
		assert.Len(t, got.CollectedPages, 2)
		assert.Equal(t, pagecollect.BackendOllama, got.Settings.Type)
	})

	t.Run("overrides the system prompt", func(t *testing.T) {
		t.Parallel()

		pages, settings := storedState()
		var system string
		g := &mock.Gateway{
			QueryFn: func(_ context.Context, req *pagecollect.QueryRequest) (string, error) {
				system = req.SystemPrompt
				return "ok", nil
			},
		}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Pages: pages, Settings: settings, Gateway: g}

		require.NoError(t, (&main.AskCmd{Question: "q", System: "Be brief."}).Run(deps))
		assert.Equal(t, "Be brief.", system)

		require.NoError(t, (&main.AskCmd{Question: "q", NoSystem: true}).Run(deps))
		assert.Empty(t, system)
	})

	t.Run("prints backend errors with their message", func(t *testing.T) {
		t.Parallel()

		pages, settings := storedState()
		g := &mock.Gateway{
			QueryFn: func(context.Context, *pagecollect.QueryRequest) (string, error) {
				return "", pagecollect.BackendErrorf(500, "boom", "Ollama API error (500): boom")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Pages: pages, Settings: settings, Gateway: g}

		err := (&main.AskCmd{Question: "q"}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, pagecollect.EBACKEND, pagecollect.ErrorCode(err))
		assert.Contains(t, stderr.String(), "Error: Ollama API error (500): boom")
		assert.Empty(t, stdout.String())
	})

	t.Run("passes raw network errors through", func(t *testing.T) {
		t.Parallel()

		pages, settings := storedState()
		g := &mock.Gateway{
			QueryFn: func(context.Context, *pagecollect.QueryRequest) (string, error) {
				return "", errors.New("dial tcp 127.0.0.1:8000: connection refused")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Pages: pages, Settings: settings, Gateway: g}

		err := (&main.AskCmd{Question: "q"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Error: dial tcp 127.0.0.1:8000: connection refused")
	})

	t.Run("returns settings errors before querying", func(t *testing.T) {
		t.Parallel()

		pages, _ := storedState()
		settings := &mock.SettingsService{
			FindBackendSettingsFn: func(context.Context) (*pagecollect.BackendSettings, error) {
				return nil, errors.New("disk I/O error")
			},
		}
		g := &mock.Gateway{
			QueryFn: func(context.Context, *pagecollect.QueryRequest) (string, error) {
				t.Fatal("should not query")
				return "", nil
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Pages: pages, Settings: settings, Gateway: g}

		err := (&main.AskCmd{Question: "q"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: disk I/O error")
	})
}

func TestPromptCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the prompt built from stored pages", func(t *testing.T) {
		t.Parallel()

		pages, _ := storedState()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Pages: pages}

		err := (&main.PromptCmd{Question: "Compare them."}).Run(deps)

		require.NoError(t, err)
		want := pagecollect.BuildPrompt(samplePages(), "Compare them.") + "\n"
		assert.Equal(t, want, stdout.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("reports counted tokens on stderr", func(t *testing.T) {
		t.Parallel()

		pages, _ := storedState()
		tokens := &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) { return 1234, nil },
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Pages: pages, Tokens: tokens}

		require.NoError(t, (&main.PromptCmd{Question: "q", Tokens: true}).Run(deps))
		assert.Equal(t, "2 pages, ~1k tokens\n", stderr.String())
	})

	t.Run("falls back to an estimate when counting fails", func(t *testing.T) {
		t.Parallel()

		pages := &mock.PageService{
			FindPagesFn: func(context.Context, pagecollect.PageFilter) ([]*pagecollect.PageRecord, error) {
				return nil, nil
			},
		}
		tokens := &mock.TokenCounter{
			CountTokensFn: func(context.Context, string) (int, error) { return 0, errors.New("no tokenizer") },
		}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Pages: pages, Tokens: tokens}

		require.NoError(t, (&main.PromptCmd{Question: "q", Tokens: true}).Run(deps))
		assert.Contains(t, stderr.String(), "0 pages, ~")
		assert.Contains(t, stderr.String(), " tokens")
	})
}

func TestTestCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("reports success", func(t *testing.T) {
		t.Parallel()

		_, settings := storedState()
		var probed *pagecollect.BackendSettings
		g := &mock.Gateway{
			TestFn: func(_ context.Context, s *pagecollect.BackendSettings) error {
				probed = s
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Settings: settings, Gateway: g}

		err := (&main.TestCmd{}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "Connection successful\n", stdout.String())
		assert.Contains(t, stderr.String(), "localhost:11434")
		require.NotNil(t, probed)
		assert.Equal(t, pagecollect.BackendOllama, probed.Type)
	})

	t.Run("reports failure", func(t *testing.T) {
		t.Parallel()

		_, settings := storedState()
		g := &mock.Gateway{
			TestFn: func(context.Context, *pagecollect.BackendSettings) error {
				return pagecollect.Errorf(pagecollect.EUNREACHABLE, "CORS error connecting to Ollama.")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Settings: settings, Gateway: g}

		err := (&main.TestCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, pagecollect.EUNREACHABLE, pagecollect.ErrorCode(err))
		assert.Contains(t, stderr.String(), "Error: CORS error connecting to Ollama.")
		assert.Empty(t, stdout.String())
	})
}

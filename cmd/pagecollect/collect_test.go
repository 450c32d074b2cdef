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

func TestCollectCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("collects URLs and prints progress and summary", func(t *testing.T) {
		t.Parallel()

		var gotURLs []string
		collector := &mock.Collector{
			CollectAllFn: func(_ context.Context, urls []string, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
				gotURLs = urls
				progress(pagecollect.CollectProgress{URL: urls[0], Completed: 1, Total: 2, Created: true})
				progress(pagecollect.CollectProgress{URL: urls[1], Completed: 2, Total: 2})
				return &pagecollect.CollectSummary{Created: 1, Updated: 1}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Collect: collector}

		cmd := &main.CollectCmd{URLs: []string{"https://a.test/one", "https://a.test/two"}}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.test/one", "https://a.test/two"}, gotURLs)
		assert.Contains(t, stdout.String(), "[1/2] added https://a.test/one")
		assert.Contains(t, stdout.String(), "[2/2] updated https://a.test/two")
		assert.Contains(t, stdout.String(), "Collected 1 new, 1 updated")
		assert.Empty(t, stderr.String())
	})

	t.Run("reports skipped pages without failing a partial batch", func(t *testing.T) {
		t.Parallel()

		collector := &mock.Collector{
			CollectAllFn: func(_ context.Context, urls []string, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
				progress(pagecollect.CollectProgress{URL: urls[0], Completed: 1, Total: 2, Created: true})
				progress(pagecollect.CollectProgress{URL: urls[1], Completed: 2, Total: 2, Error: errors.New("timeout")})
				return &pagecollect.CollectSummary{Created: 1, Failed: 1}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: stderr, Collect: collector}

		err := (&main.CollectCmd{URLs: []string{"https://a.test/1", "https://a.test/2"}}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stderr.String(), "skip https://a.test/2: timeout")
		assert.Contains(t, stdout.String(), "1 failed")
	})

	t.Run("fails when every page fails", func(t *testing.T) {
		t.Parallel()

		collector := &mock.Collector{
			CollectAllFn: func(_ context.Context, urls []string, progress pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
				progress(pagecollect.CollectProgress{URL: urls[0], Completed: 1, Total: 1, Error: errors.New("refused")})
				return &pagecollect.CollectSummary{Failed: 1}, nil
			},
		}

		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}, Collect: collector}

		err := (&main.CollectCmd{URLs: []string{"https://a.test/"}}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, "refused", err.Error())
	})

	t.Run("collects a sitemap with compiled filters", func(t *testing.T) {
		t.Parallel()

		var gotFilter *pagecollect.URLFilter
		collector := &mock.Collector{
			CollectSitemapFn: func(_ context.Context, baseURL string, filter *pagecollect.URLFilter, _ pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
				assert.Equal(t, "https://docs.test/", baseURL)
				gotFilter = filter
				return &pagecollect.CollectSummary{Created: 3}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Collect: collector}

		cmd := &main.CollectCmd{Sitemap: "https://docs.test/", Filter: []string{"/guide/"}, Exclude: []string{"/v1/"}}
		err := cmd.Run(deps)

		require.NoError(t, err)
		require.NotNil(t, gotFilter)
		assert.True(t, gotFilter.Match("https://docs.test/guide/a"))
		assert.False(t, gotFilter.Match("https://docs.test/v1/guide/a"))
		assert.Contains(t, stdout.String(), "Collected 3 new, 0 updated")
	})

	t.Run("rejects an invalid filter before collecting", func(t *testing.T) {
		t.Parallel()

		collector := &mock.Collector{
			CollectSitemapFn: func(context.Context, string, *pagecollect.URLFilter, pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
				t.Fatal("should not collect")
				return nil, nil
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Collect: collector}

		err := (&main.CollectCmd{Sitemap: "https://docs.test/", Filter: []string{"("}}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, pagecollect.EINVALID, pagecollect.ErrorCode(err))
		assert.Contains(t, stderr.String(), "invalid filter pattern")
	})

	t.Run("follows links from each URL", func(t *testing.T) {
		t.Parallel()

		var seeds []string
		collector := &mock.Collector{
			CollectLinksFn: func(_ context.Context, url string, _ pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
				seeds = append(seeds, url)
				return &pagecollect.CollectSummary{Created: 2}, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: stdout, Stderr: &bytes.Buffer{}, Collect: collector}

		err := (&main.CollectCmd{URLs: []string{"https://a.test/", "https://b.test/"}, Links: true}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, []string{"https://a.test/", "https://b.test/"}, seeds)
		assert.Contains(t, stdout.String(), "Collected 4 new, 0 updated")
	})

	t.Run("requires a URL or sitemap", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr}

		err := (&main.CollectCmd{}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, pagecollect.EINVALID, pagecollect.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("returns collector errors", func(t *testing.T) {
		t.Parallel()

		collector := &mock.Collector{
			CollectAllFn: func(context.Context, []string, pagecollect.CollectProgressFunc) (*pagecollect.CollectSummary, error) {
				return nil, pagecollect.Errorf(pagecollect.EINTERNAL, "database locked")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr, Collect: collector}

		err := (&main.CollectCmd{URLs: []string{"https://a.test/"}}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: database locked")
	})
}

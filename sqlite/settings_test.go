package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/pagecollect"
	"github.com/fwojciec/pagecollect/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_BackendSettings(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults when nothing is saved", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSettingsService(db)

		got, err := svc.FindBackendSettings(context.Background())

		require.NoError(t, err)
		assert.Equal(t, pagecollect.DefaultBackendSettings(), got)
	})

	t.Run("round-trips saved settings", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSettingsService(db)
		ctx := context.Background()

		want := &pagecollect.BackendSettings{
			Type:      pagecollect.BackendCustom,
			Host:      "llm.internal",
			Port:      "8080",
			Endpoint:  "/v1/chat",
			APIKey:    "secret",
			ModelName: "llama3",
		}
		require.NoError(t, svc.UpdateBackendSettings(ctx, want))

		got, err := svc.FindBackendSettings(ctx)

		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSettingsService(db)

		err := svc.UpdateBackendSettings(context.Background(), &pagecollect.BackendSettings{Type: "openai", Host: "x"})

		require.Error(t, err)
		assert.Equal(t, pagecollect.EINVALID, pagecollect.ErrorCode(err))
	})
}

func TestSettingsService_Options(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults when nothing is saved", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSettingsService(db)

		got, err := svc.FindOptions(context.Background())

		require.NoError(t, err)
		assert.Equal(t, pagecollect.DefaultOptions(), got)
	})

	t.Run("update also replaces active backend settings", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSettingsService(db)
		ctx := context.Background()

		opts := pagecollect.DefaultOptions()
		opts.LLMSettings.Type = pagecollect.BackendVLLM
		opts.LLMSettings.Port = "8000"
		opts.ContentSettings.MaxStoredPages = 10
		opts.ContentSettings.ExtractionStrategy = pagecollect.StrategyReadability
		require.NoError(t, svc.UpdateOptions(ctx, opts))

		gotOpts, err := svc.FindOptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, opts, gotOpts)

		gotSettings, err := svc.FindBackendSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, pagecollect.BackendVLLM, gotSettings.Type)
		assert.Equal(t, "8000", gotSettings.Port)
	})

	t.Run("normalizes out-of-range values", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSettingsService(db)
		ctx := context.Background()

		opts := pagecollect.DefaultOptions()
		opts.ContentSettings.MaxStoredPages = 0
		opts.ContentSettings.ExtractionStrategy = "bogus"
		require.NoError(t, svc.UpdateOptions(ctx, opts))

		got, err := svc.FindOptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, pagecollect.DefaultMaxStoredPages, got.ContentSettings.MaxStoredPages)
		assert.Equal(t, pagecollect.StrategySmart, got.ContentSettings.ExtractionStrategy)
	})

	t.Run("fills fields missing from stored value", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSettingsService(db)
		ctx := context.Background()

		_, err := db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES ('options', '{"contentSettings":{"maxStoredPages":5}}')`)
		require.NoError(t, err)

		got, err := svc.FindOptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, got.ContentSettings.MaxStoredPages)
		assert.Equal(t, pagecollect.DefaultMaxContentLength, got.ContentSettings.MaxContentLength)
		assert.Equal(t, pagecollect.DefaultSystemPrompt, got.ContentSettings.DefaultSystemPrompt)
		assert.Equal(t, pagecollect.BackendOllama, got.LLMSettings.Type)
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewSettingsService(db)
		ctx := context.Background()

		opts := pagecollect.DefaultOptions()
		opts.LLMSettings.Host = "remote"
		opts.ContentSettings.DefaultSystemPrompt = "Be terse."
		require.NoError(t, svc.UpdateOptions(ctx, opts))

		require.NoError(t, svc.ResetOptions(ctx))

		gotOpts, err := svc.FindOptions(ctx)
		require.NoError(t, err)
		assert.Equal(t, pagecollect.DefaultOptions(), gotOpts)

		gotSettings, err := svc.FindBackendSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, pagecollect.DefaultBackendSettings(), gotSettings)
	})
}

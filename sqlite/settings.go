package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/pagecollect"
)

// Keys of the kv table. They match the field names of a backup Snapshot.
const (
	keyLLMSettings = "llmSettings"
	keyOptions     = "options"
)

// Compile-time interface verification.
var _ pagecollect.SettingsService = (*SettingsService)(nil)

// SettingsService implements pagecollect.SettingsService using the kv table.
type SettingsService struct {
	db *DB
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(db *DB) *SettingsService {
	return &SettingsService{db: db}
}

// FindBackendSettings returns the active backend settings, or the defaults
// if none have been saved.
func (s *SettingsService) FindBackendSettings(ctx context.Context) (*pagecollect.BackendSettings, error) {
	settings := pagecollect.DefaultBackendSettings()
	if _, err := getValue(ctx, s.db, keyLLMSettings, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateBackendSettings replaces the active backend settings.
func (s *SettingsService) UpdateBackendSettings(ctx context.Context, settings *pagecollect.BackendSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	return putValue(ctx, s.db, keyLLMSettings, settings)
}

// FindOptions returns the saved options, or the defaults if none have been
// saved. Fields missing from the stored value keep their defaults.
func (s *SettingsService) FindOptions(ctx context.Context) (*pagecollect.Options, error) {
	opts := pagecollect.DefaultOptions()
	if _, err := getValue(ctx, s.db, keyOptions, opts); err != nil {
		return nil, err
	}
	opts.Normalize()
	return opts, nil
}

// UpdateOptions replaces the saved options and the active backend settings.
func (s *SettingsService) UpdateOptions(ctx context.Context, opts *pagecollect.Options) error {
	if err := opts.LLMSettings.Validate(); err != nil {
		return err
	}
	opts.Normalize()

	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := putValue(ctx, tx, keyOptions, opts); err != nil {
			return err
		}
		return putValue(ctx, tx, keyLLMSettings, &opts.LLMSettings)
	})
}

// ResetOptions restores the default options and backend settings.
func (s *SettingsService) ResetOptions(ctx context.Context) error {
	return s.UpdateOptions(ctx, pagecollect.DefaultOptions())
}

// getValue decodes the JSON stored under key into v.
// Reports false, leaving v untouched, if the key is not set.
func getValue(ctx context.Context, q queryer, key string, v any) (bool, error) {
	var raw string
	err := q.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// putValue stores v as JSON under key.
func putValue(ctx context.Context, q queryer, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, string(b))
	return err
}

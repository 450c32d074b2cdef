package mock

import (
	"context"

	"github.com/fwojciec/pagecollect"
)

var _ pagecollect.SettingsService = (*SettingsService)(nil)

// SettingsService is a mock implementation of pagecollect.SettingsService.
type SettingsService struct {
	FindBackendSettingsFn   func(ctx context.Context) (*pagecollect.BackendSettings, error)
	UpdateBackendSettingsFn func(ctx context.Context, s *pagecollect.BackendSettings) error
	FindOptionsFn           func(ctx context.Context) (*pagecollect.Options, error)
	UpdateOptionsFn         func(ctx context.Context, o *pagecollect.Options) error
	ResetOptionsFn          func(ctx context.Context) error
}

func (s *SettingsService) FindBackendSettings(ctx context.Context) (*pagecollect.BackendSettings, error) {
	return s.FindBackendSettingsFn(ctx)
}

func (s *SettingsService) UpdateBackendSettings(ctx context.Context, settings *pagecollect.BackendSettings) error {
	return s.UpdateBackendSettingsFn(ctx, settings)
}

func (s *SettingsService) FindOptions(ctx context.Context) (*pagecollect.Options, error) {
	return s.FindOptionsFn(ctx)
}

func (s *SettingsService) UpdateOptions(ctx context.Context, o *pagecollect.Options) error {
	return s.UpdateOptionsFn(ctx, o)
}

func (s *SettingsService) ResetOptions(ctx context.Context) error {
	return s.ResetOptionsFn(ctx)
}

var _ pagecollect.BackupService = (*BackupService)(nil)

// BackupService is a mock implementation of pagecollect.BackupService.
type BackupService struct {
	ExportFn   func(ctx context.Context) (*pagecollect.Snapshot, error)
	ImportFn   func(ctx context.Context, snap *pagecollect.Snapshot) error
	ClearAllFn func(ctx context.Context) error
}

func (s *BackupService) Export(ctx context.Context) (*pagecollect.Snapshot, error) {
	return s.ExportFn(ctx)
}

func (s *BackupService) Import(ctx context.Context, snap *pagecollect.Snapshot) error {
	return s.ImportFn(ctx, snap)
}

func (s *BackupService) ClearAll(ctx context.Context) error {
	return s.ClearAllFn(ctx)
}

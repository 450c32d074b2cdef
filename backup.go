package pagecollect

import (
	"context"
	"time"
)

// Snapshot is a complete copy of the stored data, used for backups.
// Field names match the storage keys so backups stay readable.
type Snapshot struct {
	CollectedPages []*PageRecord    `json:"collectedPages"`
	LLMSettings    *BackendSettings `json:"llmSettings,omitempty"`
	Options        *Options         `json:"options,omitempty"`
}

// BackupService exports and restores all stored data.
type BackupService interface {
	// Export returns a snapshot of all stored data.
	Export(ctx context.Context) (*Snapshot, error)

	// Import replaces all stored data with the snapshot.
	// Keys missing from the snapshot revert to their defaults.
	Import(ctx context.Context, snap *Snapshot) error

	// ClearAll removes all pages and settings.
	ClearAll(ctx context.Context) error
}

// DefaultBackupName returns the file name used for a backup taken at t,
// e.g. "pagecollect-backup-2024-05-01.json".
func DefaultBackupName(t time.Time) string {
	return "pagecollect-backup-" + t.Format("2006-01-02") + ".json"
}

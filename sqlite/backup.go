package sqlite

import (
	"context"
	"database/sql"

	"github.com/fwojciec/pagecollect"
)

// Compile-time interface verification.
var _ pagecollect.BackupService = (*BackupService)(nil)

// BackupService implements pagecollect.BackupService over the pages and
// kv tables.
type BackupService struct {
	db *DB
}

// NewBackupService creates a new BackupService.
func NewBackupService(db *DB) *BackupService {
	return &BackupService{db: db}
}

// Export returns a snapshot of all stored data. Settings that were never
// saved are left out of the snapshot.
func (s *BackupService) Export(ctx context.Context) (*pagecollect.Snapshot, error) {
	snap := &pagecollect.Snapshot{}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		pages, err := findPages(ctx, tx, pagecollect.PageFilter{})
		if err != nil {
			return err
		}
		snap.CollectedPages = pages

		settings := &pagecollect.BackendSettings{}
		if ok, err := getValue(ctx, tx, keyLLMSettings, settings); err != nil {
			return err
		} else if ok {
			snap.LLMSettings = settings
		}

		opts := &pagecollect.Options{}
		if ok, err := getValue(ctx, tx, keyOptions, opts); err != nil {
			return err
		} else if ok {
			snap.Options = opts
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Import replaces all stored data with the snapshot in one transaction.
// Pages keep the snapshot's order; a repeated URL replaces the earlier page.
func (s *BackupService) Import(ctx context.Context, snap *pagecollect.Snapshot) error {
	if snap == nil {
		return pagecollect.Errorf(pagecollect.EINVALID, "Error importing data: empty backup")
	}
	for _, page := range snap.CollectedPages {
		if page == nil {
			return pagecollect.Errorf(pagecollect.EINVALID, "Error importing data: empty page")
		}
		if err := page.Validate(); err != nil {
			return err
		}
	}

	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := clearAll(ctx, tx); err != nil {
			return err
		}

		for _, page := range snap.CollectedPages {
			if _, err := upsertPage(ctx, tx, page); err != nil {
				return err
			}
		}

		if snap.LLMSettings != nil {
			if err := putValue(ctx, tx, keyLLMSettings, snap.LLMSettings); err != nil {
				return err
			}
		}
		if snap.Options != nil {
			if err := putValue(ctx, tx, keyOptions, snap.Options); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearAll removes all pages and settings.
func (s *BackupService) ClearAll(ctx context.Context) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		return clearAll(ctx, tx)
	})
}

func clearAll(ctx context.Context, q queryer) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM pages"); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx, "DELETE FROM kv")
	return err
}

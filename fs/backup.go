// Package fs reads and writes pagecollect data as local files: JSON
// backups of the whole store and markdown exports of collected pages.
package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fwojciec/pagecollect"
)

// WriteBackup writes snap to path as indented JSON. The file is replaced
// atomically so an interrupted write never leaves a partial backup.
func WriteBackup(path string, snap *pagecollect.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	data = append(data, '\n')
	return writeFileAtomic(path, data, 0o644)
}

// ReadBackup reads a backup written by WriteBackup or by the browser
// extension. A missing or malformed file is EINVALID.
func ReadBackup(path string) (*pagecollect.Snapshot, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, pagecollect.Errorf(pagecollect.EINVALID, "Error importing data: %s does not exist", path)
	} else if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}

	var snap pagecollect.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, pagecollect.Errorf(pagecollect.EINVALID, "Error importing data: %s", err)
	}
	return &snap, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

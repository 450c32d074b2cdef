package main

import (
	"fmt"

	"github.com/fwojciec/pagecollect"
	"github.com/fwojciec/pagecollect/fs"
)

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: importing replaces all pages and settings; use --force to confirm\n")
		return pagecollect.Errorf(pagecollect.EINVALID, "use --force to confirm import")
	}

	snap, err := fs.ReadBackup(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	if err := deps.Backup.Import(deps.Ctx, snap); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Imported %d pages from %s\n", len(snap.CollectedPages), c.File)
	return nil
}

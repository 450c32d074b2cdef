package main

import (
	"fmt"

	"github.com/fwojciec/pagecollect"
	"github.com/fwojciec/pagecollect/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	if c.Markdown != "" {
		return c.exportMarkdown(deps)
	}

	snap, err := deps.Backup.Export(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	path := c.File
	if path == "" {
		path = pagecollect.DefaultBackupName(deps.now())
	}
	if err := fs.WriteBackup(path, snap); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d pages to %s\n", len(snap.CollectedPages), path)
	return nil
}

// exportMarkdown replaces the contents of the markdown directory with one
// file per collected page.
func (c *ExportCmd) exportMarkdown(deps *Dependencies) error {
	pages, err := deps.Pages.FindPages(deps.Ctx, pagecollect.PageFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	var store pagecollect.PageStore = fs.NewFileStore(c.Markdown)
	for _, p := range pages {
		if err := store.Save(deps.Ctx, p); err != nil {
			_ = store.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
			return err
		}
	}
	if err := store.Commit(); err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d pages to %s\n", len(pages), c.Markdown)
	return nil
}

package main

import (
	"fmt"

	"github.com/fwojciec/pagecollect"
	"github.com/fwojciec/pagecollect/collect"
)

// Run executes the pages command.
func (c *PagesCmd) Run(deps *Dependencies) error {
	pages, err := deps.Pages.FindPages(deps.Ctx, pagecollect.PageFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	if len(pages) == 0 {
		fmt.Fprintln(deps.Stdout, "No pages collected.")
		return nil
	}

	var size int
	for i, p := range pages {
		size += len(p.Content.MainContent)
		title := p.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(deps.Stdout, "%d. %s\n", i+1, title)
		fmt.Fprintf(deps.Stdout, "   %s\n", collect.TruncateURL(p.URL, 76))
		fmt.Fprintf(deps.Stdout, "   %s, %s\n", p.Timestamp.Local().Format("2006-01-02 15:04"), collect.FormatBytes(len(p.Content.MainContent)))
		if c.Full {
			fmt.Fprintf(deps.Stdout, "\n%s\n\n", p.Content.MainContent)
		}
	}

	fmt.Fprintf(deps.Stdout, "\n%d pages, %s\n", len(pages), collect.FormatBytes(size))
	return nil
}

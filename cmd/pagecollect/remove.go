package main

import (
	"fmt"
	"strconv"

	"github.com/fwojciec/pagecollect"
)

// Run executes the remove command.
func (c *RemoveCmd) Run(deps *Dependencies) error {
	url := c.Target

	// A number refers to a position in the "pages" listing.
	if n, err := strconv.Atoi(c.Target); err == nil {
		var pages []*pagecollect.PageRecord
		if n >= 1 {
			pages, err = deps.Pages.FindPages(deps.Ctx, pagecollect.PageFilter{Offset: n - 1, Limit: 1})
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
				return err
			}
		}
		if len(pages) == 0 {
			fmt.Fprintf(deps.Stderr, "error: no page number %d. Use 'pagecollect pages' to see collected pages.\n", n)
			return pagecollect.Errorf(pagecollect.ENOTFOUND, "no page number %d", n)
		}
		url = pages[0].URL
	}

	if err := deps.Pages.DeletePage(deps.Ctx, url); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Removed %s\n", url)
	return nil
}

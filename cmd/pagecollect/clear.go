package main

import (
	"fmt"

	"github.com/fwojciec/pagecollect"
)

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm removing all pages\n")
		return pagecollect.Errorf(pagecollect.EINVALID, "use --force to confirm removing all pages")
	}

	n, err := deps.Pages.CountPages(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	if err := deps.Pages.DeleteAllPages(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Removed %d pages\n", n)
	return nil
}

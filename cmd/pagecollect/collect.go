package main

import (
	"fmt"

	"github.com/fwojciec/pagecollect"
	"github.com/fwojciec/pagecollect/collect"
)

// Run executes the collect command.
func (c *CollectCmd) Run(deps *Dependencies) error {
	if c.Sitemap == "" && len(c.URLs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: give at least one URL or --sitemap\n")
		return pagecollect.Errorf(pagecollect.EINVALID, "no URLs to collect")
	}

	var lastErr error
	progress := func(ev pagecollect.CollectProgress) {
		url := collect.TruncateURL(ev.URL, 70)
		switch {
		case ev.Error != nil:
			lastErr = ev.Error
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", url, pagecollect.ErrorMessage(ev.Error))
		case ev.Created:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] added %s\n", ev.Completed, ev.Total, url)
		default:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] updated %s\n", ev.Completed, ev.Total, url)
		}
	}

	total := &pagecollect.CollectSummary{}
	add := func(s *pagecollect.CollectSummary) {
		total.Created += s.Created
		total.Updated += s.Updated
		total.Failed += s.Failed
	}

	if c.Sitemap != "" {
		filter, err := pagecollect.NewURLFilter(c.Filter, c.Exclude)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
			return err
		}
		s, err := deps.Collect.CollectSitemap(deps.Ctx, c.Sitemap, filter, progress)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
			return err
		}
		add(s)
	}

	if len(c.URLs) > 0 {
		if c.Links {
			for _, u := range c.URLs {
				s, err := deps.Collect.CollectLinks(deps.Ctx, u, progress)
				if err != nil {
					fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
					return err
				}
				add(s)
			}
		} else {
			s, err := deps.Collect.CollectAll(deps.Ctx, c.URLs, progress)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
				return err
			}
			add(s)
		}
	}

	fmt.Fprintln(deps.Stdout, collect.FormatSummary(total))

	// Nothing stored at all is a failure; partial batches are not.
	if total.Failed > 0 && total.Created+total.Updated == 0 {
		return lastErr
	}
	return nil
}

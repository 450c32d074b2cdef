package main

import (
	"fmt"

	"github.com/fwojciec/pagecollect"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	req, err := buildQuery(deps, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}
	if c.System != "" {
		req.SystemPrompt = c.System
	}
	if c.NoSystem {
		req.SystemPrompt = ""
	}

	fmt.Fprintf(deps.Stderr, "Asking %s about %d pages...\n", req.Settings.ModelName, len(req.CollectedPages))

	var res pagecollect.QueryResult
	select {
	case res = <-pagecollect.QueryLLMAsync(deps.Ctx, deps.Gateway, req):
	case <-deps.Ctx.Done():
		fmt.Fprintln(deps.Stderr, "Error: cancelled")
		return deps.Ctx.Err()
	}

	if !res.OK {
		fmt.Fprintf(deps.Stderr, "Error: %s\n", res.Message)
		return pagecollect.Errorf(res.ErrorKind, "%s", res.Message)
	}

	fmt.Fprintln(deps.Stdout, res.Text)
	return nil
}

// buildQuery assembles a query for question from the stored pages, the
// active backend settings, and the saved default system prompt.
func buildQuery(deps *Dependencies, question string) (*pagecollect.QueryRequest, error) {
	settings, err := deps.Settings.FindBackendSettings(deps.Ctx)
	if err != nil {
		return nil, err
	}
	opts, err := deps.Settings.FindOptions(deps.Ctx)
	if err != nil {
		return nil, err
	}
	pages, err := deps.Pages.FindPages(deps.Ctx, pagecollect.PageFilter{})
	if err != nil {
		return nil, err
	}
	return &pagecollect.QueryRequest{
		Settings:       settings,
		Prompt:         question,
		SystemPrompt:   opts.ContentSettings.DefaultSystemPrompt,
		CollectedPages: pages,
	}, nil
}

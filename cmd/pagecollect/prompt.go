package main

import (
	"fmt"

	"github.com/fwojciec/pagecollect"
	"github.com/fwojciec/pagecollect/collect"
	"github.com/fwojciec/pagecollect/gemini"
)

// Run executes the prompt command.
func (c *PromptCmd) Run(deps *Dependencies) error {
	pages, err := deps.Pages.FindPages(deps.Ctx, pagecollect.PageFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	prompt := pagecollect.BuildPrompt(pages, c.Question)
	fmt.Fprintln(deps.Stdout, prompt)

	if c.Tokens {
		n := gemini.EstimateTokens(prompt)
		if deps.Tokens != nil {
			if counted, err := deps.Tokens.CountTokens(deps.Ctx, prompt); err == nil {
				n = counted
			} else {
				deps.logger().Warn("token count failed, using estimate", "err", err)
			}
		}
		fmt.Fprintf(deps.Stderr, "%d pages, %s\n", len(pages), collect.FormatTokens(n))
	}
	return nil
}

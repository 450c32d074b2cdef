package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/pagecollect"
)

// Run executes the options show command.
func (c *OptionsShowCmd) Run(deps *Dependencies) error {
	opts, err := deps.Settings.FindOptions(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}
	printOptions(deps.Stdout, opts)
	return nil
}

// Run executes the options set command.
func (c *OptionsSetCmd) Run(deps *Dependencies) error {
	opts, err := deps.Settings.FindOptions(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	cs := &opts.ContentSettings
	if c.MaxPages != 0 {
		if c.MaxPages < 0 {
			fmt.Fprintf(deps.Stderr, "error: --max-pages must be positive\n")
			return pagecollect.Errorf(pagecollect.EINVALID, "max pages must be positive")
		}
		cs.MaxStoredPages = c.MaxPages
	}
	if c.MaxContentLength != 0 {
		if c.MaxContentLength < 0 {
			fmt.Fprintf(deps.Stderr, "error: --max-content-length must be positive\n")
			return pagecollect.Errorf(pagecollect.EINVALID, "max content length must be positive")
		}
		cs.MaxContentLength = c.MaxContentLength
	}
	if c.Strategy != "" {
		strategy := pagecollect.ExtractionStrategy(c.Strategy)
		if !strategy.Valid() {
			fmt.Fprintf(deps.Stderr, "error: unknown extraction strategy %q\n", c.Strategy)
			return pagecollect.Errorf(pagecollect.EINVALID, "unknown extraction strategy %q", c.Strategy)
		}
		cs.ExtractionStrategy = strategy
	}
	if c.SystemPrompt != "" {
		cs.DefaultSystemPrompt = c.SystemPrompt
	}

	if err := deps.Settings.UpdateOptions(deps.Ctx, opts); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	printOptions(deps.Stdout, opts)
	return nil
}

// Run executes the options reset command.
func (c *OptionsResetCmd) Run(deps *Dependencies) error {
	if err := deps.Settings.ResetOptions(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, "Options reset to defaults")
	return nil
}

func printOptions(w io.Writer, o *pagecollect.Options) {
	cs := o.ContentSettings
	fmt.Fprintf(w, "Max pages:          %d\n", cs.MaxStoredPages)
	fmt.Fprintf(w, "Max content length: %d\n", cs.MaxContentLength)
	fmt.Fprintf(w, "Strategy:           %s\n", cs.ExtractionStrategy)
	fmt.Fprintf(w, "System prompt:      %s\n", cs.DefaultSystemPrompt)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Default backend:")
	printBackendSettings(w, &o.LLMSettings)
}

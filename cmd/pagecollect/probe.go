package main

import (
	"fmt"
	"net"

	"github.com/fwojciec/pagecollect"
)

// Run executes the test command.
func (c *TestCmd) Run(deps *Dependencies) error {
	settings, err := deps.Settings.FindBackendSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stderr, "Testing %s backend at %s...\n", settings.Type, net.JoinHostPort(settings.Host, settings.Port))

	res := <-pagecollect.TestConnectionAsync(deps.Ctx, deps.Gateway, settings)
	if !res.OK {
		fmt.Fprintf(deps.Stderr, "Error: %s\n", res.Message)
		return pagecollect.Errorf(res.ErrorKind, "%s", res.Message)
	}

	fmt.Fprintln(deps.Stdout, "Connection successful")
	return nil
}

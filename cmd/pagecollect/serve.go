package main

import (
	"fmt"

	"github.com/fwojciec/pagecollect"
	pchttp "github.com/fwojciec/pagecollect/http"
)

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := pchttp.NewServer()
	s.Addr = c.Addr
	s.APIKey = c.APIKey
	s.Logger = deps.logger()
	s.Now = deps.now
	s.PageService = deps.Pages
	s.SettingsService = deps.Settings
	s.BackupService = deps.Backup
	s.Collector = deps.Collect
	s.Gateway = deps.Gateway

	if err := s.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", s.URL())

	<-deps.Ctx.Done()

	if err := s.Close(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}
	return nil
}

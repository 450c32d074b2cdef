package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/pagecollect"
)

// Run executes the settings show command.
func (c *SettingsShowCmd) Run(deps *Dependencies) error {
	s, err := deps.Settings.FindBackendSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}
	printBackendSettings(deps.Stdout, s)
	return nil
}

// Run executes the settings set command.
func (c *SettingsSetCmd) Run(deps *Dependencies) error {
	s, err := deps.Settings.FindBackendSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	if c.Type != "" {
		t, err := pagecollect.ParseBackendType(c.Type)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
			return err
		}
		s.Type = t
	}
	if c.Host != "" {
		s.Host = c.Host
	}
	if c.Port != "" {
		s.Port = c.Port
	}
	if c.Endpoint != "" {
		s.Endpoint = c.Endpoint
	}
	if c.APIKey != "" {
		s.APIKey = c.APIKey
	}
	if c.ClearAPIKey {
		s.APIKey = ""
	}
	if c.Model != "" {
		s.ModelName = c.Model
	}

	if err := s.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}
	if err := deps.Settings.UpdateBackendSettings(deps.Ctx, s); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagecollect.ErrorMessage(err))
		return err
	}

	printBackendSettings(deps.Stdout, s)
	return nil
}

func printBackendSettings(w io.Writer, s *pagecollect.BackendSettings) {
	fmt.Fprintf(w, "Type:     %s\n", s.Type)
	fmt.Fprintf(w, "Host:     %s\n", s.Host)
	fmt.Fprintf(w, "Port:     %s\n", s.Port)
	if s.Type == pagecollect.BackendCustom {
		fmt.Fprintf(w, "Endpoint: %s\n", s.Endpoint)
	}
	fmt.Fprintf(w, "Model:    %s\n", s.ModelName)
	fmt.Fprintf(w, "API key:  %s\n", maskKey(s.APIKey))
}

// maskKey hides all but the last four characters of a key.
func maskKey(key string) string {
	switch {
	case key == "":
		return "(none)"
	case len(key) <= 4:
		return "****"
	default:
		return "****" + key[len(key)-4:]
	}
}

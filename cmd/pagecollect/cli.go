package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/pagecollect"
	"github.com/fwojciec/pagecollect/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Pages    pagecollect.PageService
	Settings pagecollect.SettingsService
	Backup   pagecollect.BackupService
	Collect  pagecollect.Collector
	Gateway  pagecollect.Gateway
	Tokens   pagecollect.TokenCounter

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d *Dependencies) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB       string `name:"db" env:"PAGECOLLECT_DB" help:"Path to the database file"`
	LogLevel string `name:"log-level" env:"PAGECOLLECT_LOG_LEVEL" default:"warn" enum:"debug,info,warn,error" help:"Log level (debug, info, warn, error)"`
	LogFile  string `name:"log-file" env:"PAGECOLLECT_LOG_FILE" help:"Write logs to this file, rotated at 10 MB, instead of stderr"`

	Collect  CollectCmd  `cmd:"" help:"Collect the text of web pages"`
	Pages    PagesCmd    `cmd:"" help:"List collected pages"`
	Remove   RemoveCmd   `cmd:"" help:"Remove a collected page by URL or list number"`
	Clear    ClearCmd    `cmd:"" help:"Remove all collected pages"`
	Ask      AskCmd      `cmd:"" help:"Ask the LLM a question about the collected pages"`
	Prompt   PromptCmd   `cmd:"" help:"Print the prompt that would be sent to the LLM"`
	Test     TestCmd     `cmd:"" help:"Test the connection to the LLM backend"`
	Settings SettingsCmd `cmd:"" help:"Show or change the LLM backend settings"`
	Options  OptionsCmd  `cmd:"" help:"Show or change the saved defaults"`
	Export   ExportCmd   `cmd:"" help:"Export pages and settings to a backup file"`
	Import   ImportCmd   `cmd:"" help:"Import pages and settings from a backup file"`
	Serve    ServeCmd    `cmd:"" help:"Serve the local API for the browser extension"`
}

// CollectCmd is the "collect" subcommand.
type CollectCmd struct {
	URLs        []string `arg:"" optional:"" name:"url" help:"Page URLs to collect"`
	Sitemap     string   `short:"s" help:"Collect every page listed in the site's sitemaps"`
	Filter      []string `short:"F" name:"filter" sep:"none" help:"Only collect sitemap URLs matching regex (repeatable)"`
	Exclude     []string `short:"x" name:"exclude" sep:"none" help:"Skip sitemap URLs matching regex (repeatable)"`
	Links       bool     `short:"l" help:"Also collect same-site pages linked from each page"`
	Browser     bool     `short:"b" help:"Render pages in a headless browser"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent fetch limit"`
}

// PagesCmd is the "pages" subcommand.
type PagesCmd struct {
	Full bool `help:"Show full page content"`
}

// RemoveCmd is the "remove" subcommand.
type RemoveCmd struct {
	Target string `arg:"" help:"Page URL or number from 'pagecollect pages'"`
}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Force bool `help:"Confirm removal"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to ask about the collected pages"`
	System   string `help:"System prompt to use instead of the saved default"`
	NoSystem bool   `help:"Send no system prompt"`
}

// PromptCmd is the "prompt" subcommand.
type PromptCmd struct {
	Question string `arg:"" help:"Question to build the prompt for"`
	Tokens   bool   `short:"t" help:"Report the prompt's token count on stderr"`
}

// TestCmd is the "test" subcommand.
type TestCmd struct{}

// SettingsCmd is the "settings" subcommand.
type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" default:"1" help:"Show the active backend settings"`
	Set  SettingsSetCmd  `cmd:"" help:"Change the active backend settings"`
}

// SettingsShowCmd is the "settings show" subcommand.
type SettingsShowCmd struct{}

// SettingsSetCmd is the "settings set" subcommand. Empty flags leave the
// current value unchanged.
type SettingsSetCmd struct {
	Type        string `help:"Backend type (ollama, vllm, custom)"`
	Host        string `help:"Backend host"`
	Port        string `help:"Backend port"`
	Endpoint    string `help:"Request path for custom backends"`
	APIKey      string `name:"api-key" help:"Bearer token for custom backends"`
	ClearAPIKey bool   `name:"clear-api-key" help:"Remove the stored API key"`
	Model       string `help:"Model name"`
}

// OptionsCmd is the "options" subcommand.
type OptionsCmd struct {
	Show  OptionsShowCmd  `cmd:"" default:"1" help:"Show the saved defaults"`
	Set   OptionsSetCmd   `cmd:"" help:"Change the saved defaults"`
	Reset OptionsResetCmd `cmd:"" help:"Restore factory defaults"`
}

// OptionsShowCmd is the "options show" subcommand.
type OptionsShowCmd struct{}

// OptionsSetCmd is the "options set" subcommand. Zero or empty flags leave
// the current value unchanged.
type OptionsSetCmd struct {
	MaxPages         int    `name:"max-pages" help:"Maximum number of stored pages"`
	MaxContentLength int    `name:"max-content-length" help:"Maximum characters kept per page"`
	Strategy         string `help:"Extraction strategy (smart, full, readability, trafilatura)"`
	SystemPrompt     string `name:"system-prompt" help:"Default system prompt"`
}

// OptionsResetCmd is the "options reset" subcommand.
type OptionsResetCmd struct{}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	File     string `arg:"" optional:"" help:"Backup file (default pagecollect-backup-<date>.json)"`
	Markdown string `short:"m" help:"Write one markdown file per page into this directory instead"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	File  string `arg:"" help:"Backup file to import"`
	Force bool   `help:"Confirm replacing all pages and settings"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr   string `default:"localhost:8765" help:"Listen address"`
	APIKey string `name:"api-key" env:"PAGECOLLECT_API_KEY" help:"Require this key in the X-API-Key header"`
}

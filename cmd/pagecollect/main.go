package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagecollect"
	"github.com/fwojciec/pagecollect/collect"
	"github.com/fwojciec/pagecollect/gateway"
	"github.com/fwojciec/pagecollect/gemini"
	"github.com/fwojciec/pagecollect/goquery"
	"github.com/fwojciec/pagecollect/htmltomarkdown"
	pchttp "github.com/fwojciec/pagecollect/http"
	"github.com/fwojciec/pagecollect/readability"
	"github.com/fwojciec/pagecollect/rod"
	pcslog "github.com/fwojciec/pagecollect/slog"
	"github.com/fwojciec/pagecollect/sqlite"
	"github.com/fwojciec/pagecollect/trafilatura"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := loadEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadEnv reads environment variables from path. A missing file is ignored
// and variables already set in the environment win.
func loadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(). The --db flag overrides it.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	PageService     pagecollect.PageService
	SettingsService pagecollect.SettingsService
	BackupService   pagecollect.BackupService

	// Gateway overrides the LLM gateway. Used by end-to-end tests.
	Gateway pagecollect.Gateway

	// Fetcher overrides the page fetcher. Used by end-to-end tests.
	Fetcher pagecollect.Fetcher

	// RetryDelays overrides the fetch backoff schedule when non-nil.
	RetryDelays []time.Duration
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Now:    time.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagecollect"),
		kong.Description("Collect web page text and ask a local LLM about it."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagecollect --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	var logOut io.Writer = stderr
	if cli.LogFile != "" {
		lj := newLogFile(cli.LogFile)
		defer lj.Close()
		logOut = lj
	}
	deps.Logger = newLogger(logOut, cli.LogLevel)

	if cli.DB != "" {
		m.DBPath = cli.DB
	}
	if dir := filepath.Dir(m.DBPath); dir != "" && m.DBPath != ":memory:" {
		_ = os.MkdirAll(dir, 0755)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PAGECOLLECT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.PageService = sqlite.NewPageService(m.DB)
	m.SettingsService = sqlite.NewSettingsService(m.DB)
	m.BackupService = sqlite.NewBackupService(m.DB)
	deps.DB = m.DB
	deps.Pages = m.PageService
	deps.Settings = m.SettingsService
	deps.Backup = m.BackupService
	deps.Tokens = gemini.NewTokenCounter(gemini.DefaultModel)

	g := m.Gateway
	if g == nil {
		g = gateway.NewGateway(nil)
	}
	deps.Gateway = pcslog.NewLoggingGateway(g, deps.Logger)

	if cmd == "collect" || cmd == "serve" {
		fetcher := m.Fetcher
		if fetcher == nil {
			if cmd == "collect" && cli.Collect.Browser {
				bf, err := rod.NewFetcher()
				if err != nil {
					fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --browser")
					return fmt.Errorf("failed to start browser: %w", err)
				}
				fetcher = bf
			} else {
				fetcher = pchttp.NewFetcher()
			}
			defer fetcher.Close()
		}

		concurrency := collect.DefaultConcurrency
		if cmd == "collect" && cli.Collect.Concurrency > 0 {
			concurrency = cli.Collect.Concurrency
		}

		deps.Collect = &collect.Collector{
			Pages:    m.PageService,
			Settings: m.SettingsService,
			Fetcher:  pcslog.NewLoggingFetcher(fetcher, deps.Logger),
			Scraper:  goquery.NewScraper(pagecollect.StrategySmart),
			Extractors: map[pagecollect.ExtractionStrategy]pagecollect.Extractor{
				pagecollect.StrategyReadability: readability.NewExtractor(),
				pagecollect.StrategyTrafilatura: trafilatura.NewExtractor(),
			},
			Converter:   htmltomarkdown.NewConverter(),
			Sitemaps:    pcslog.NewLoggingSitemapService(pchttp.NewSitemapService(nil), deps.Logger),
			Links:       goquery.NewLinkExtractor(),
			RateLimiter: collect.NewDomainLimiter(collect.DefaultRequestsPerSecond),
			Concurrency: concurrency,
			RetryDelays: m.RetryDelays,
		}
	}

	return kongCtx.Run(deps)
}

// newLogger returns a text logger on w at the named level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// newLogFile returns a size-rotated log file. Long-running "serve"
// processes would otherwise grow it without bound.
func newLogFile(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

func defaultDBPath() string {
	if path := os.Getenv("PAGECOLLECT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagecollect.db"
	}
	return filepath.Join(home, ".pagecollect", "pagecollect.db")
}

package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/pagecollect/cmd/pagecollect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCommands = []string{
	"collect", "pages", "remove", "clear", "ask", "prompt",
	"test", "settings", "options", "export", "import", "serve",
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range allCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_ParsesFlags(t *testing.T) {
	t.Parallel()

	t.Run("collect takes several URLs and repeatable filters", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)

		_, err = parser.Parse([]string{"collect", "https://a.test/", "https://b.test/", "-F", "docs", "-F", "api", "-x", "old", "-c", "2", "--browser"})
		require.NoError(t, err)

		assert.Equal(t, []string{"https://a.test/", "https://b.test/"}, cli.Collect.URLs)
		assert.Equal(t, []string{"docs", "api"}, cli.Collect.Filter)
		assert.Equal(t, []string{"old"}, cli.Collect.Exclude)
		assert.Equal(t, 2, cli.Collect.Concurrency)
		assert.True(t, cli.Collect.Browser)
	})

	t.Run("settings defaults to show", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)

		kctx, err := parser.Parse([]string{"settings"})
		require.NoError(t, err)
		assert.Equal(t, "settings show", kctx.Command())
	})

	t.Run("rejects unknown log level", func(t *testing.T) {
		t.Parallel()

		cli := &main.CLI{}
		parser, err := kong.New(cli, kong.Exit(func(int) {}))
		require.NoError(t, err)

		_, err = parser.Parse([]string{"--log-level", "loud", "pages"})
		assert.Error(t, err)
	})
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	for _, cmd := range allCommands {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "Flags:")
}

func TestMain_Run_NoArgsShowsHelpAndErrors(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := m.Run(context.Background(), nil, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestMain_Run_UnknownCommand(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "test.db")

	err := m.Run(context.Background(), []string{"bogus"}, &bytes.Buffer{}, &bytes.Buffer{})

	assert.Error(t, err)
}

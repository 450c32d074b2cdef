package main_test

import (
	"bytes"
	"context"
	"net"
	"testing"

	main "github.com/fwojciec/pagecollect/cmd/pagecollect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("serves until the context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: ctx, Stdout: stdout, Stderr: &bytes.Buffer{}}

		err := (&main.ServeCmd{Addr: "127.0.0.1:0"}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Listening on http://127.0.0.1:")
	})

	t.Run("fails when the address is taken", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{Ctx: context.Background(), Stdout: &bytes.Buffer{}, Stderr: stderr}

		err = (&main.ServeCmd{Addr: ln.Addr().String()}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})
}

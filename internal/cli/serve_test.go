package cli

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/launchdash/internal/testutil"
)

func TestServeCommandStopsOnCancel(t *testing.T) {
	data := writeDataset(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	buf := &bytes.Buffer{}
	cmd := NewServeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--data", data, "--addr", "127.0.0.1:0"})

	require.NoError(t, cmd.ExecuteContext(ctx))
	assert.Contains(t, buf.String(), "Dashboard on http://127.0.0.1:0")
}

func TestServeCommandAddressInUse(t *testing.T) {
	data := writeDataset(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	buf := &bytes.Buffer{}
	cmd := NewServeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--data", data, "--addr", ln.Addr().String()})

	err = cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E001]")
}

func TestServeCommandBadDatasetFailsBeforeListening(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewServeCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--data", filepath.Join(t.TempDir(), "missing.csv"), "--addr", "127.0.0.1:0"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E201]")
	assert.NotContains(t, buf.String(), "Dashboard on")
}

func TestServeWithFixedSessionIDs(t *testing.T) {
	data := writeDataset(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := &ServeOptions{
		RootOptions: &RootOptions{Format: "text"},
		SessionIDs:  testutil.NewFixedSessionGenerator("cli-session"),
	}
	opts.Data = data

	cmd := NewServeCommand(opts.RootOptions)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetContext(ctx)
	require.NoError(t, cmd.ParseFlags([]string{"--data", data, "--addr", "127.0.0.1:0"}))

	require.NoError(t, runServe(opts, cmd))
}

package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskvox/internal/ipc"
)

func TestSay(t *testing.T) {
	dir, err := os.MkdirTemp("", "dvx")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "ctl.sock")

	got := make(chan ipc.ControlMessage, 1)
	srv, err := ipc.StartServer(path, func(m ipc.ControlMessage) { got <- m })
	require.NoError(t, err)
	defer srv.Close()

	cmd := rootCmd()
	cmd.SetArgs([]string{"--socket", path, "say", "search", "for", "cats"})
	require.NoError(t, cmd.Execute())

	select {
	case m := <-got:
		assert.Equal(t, ipc.ControlMessage{Cmd: ipc.CmdSay, Text: "search for cats"}, m)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestNotRunning(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--socket", filepath.Join(t.TempDir(), "none.sock"), "trigger"})
	assert.ErrorContains(t, cmd.Execute(), "deskvox not running")
}

func TestSayNeedsText(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"say"})
	assert.Error(t, cmd.Execute())
}

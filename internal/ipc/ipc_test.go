package ipc

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"deskvox/internal/dispatch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Unix socket paths are length limited, t.TempDir can be too deep.
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "dvx")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "ctl.sock")
}

type collector struct {
	mu   sync.Mutex
	msgs []ControlMessage
}

func (c *collector) handle(m ControlMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, m)
}

func (c *collector) get() []ControlMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ControlMessage(nil), c.msgs...)
}

func TestSendCommand(t *testing.T) {
	path := socketPath(t)
	c := &collector{}

	srv, err := StartServer(path, c.handle)
	require.NoError(t, err)
	defer srv.Close()

	require.NoError(t, SendCommand(path, ControlMessage{Cmd: CmdSay, Text: "open the browser"}))
	require.NoError(t, SendCommand(path, ControlMessage{Cmd: CmdTrigger}))

	assert.Eventually(t, func() bool { return len(c.get()) == 2 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []ControlMessage{
		{Cmd: CmdSay, Text: "open the browser"},
		{Cmd: CmdTrigger},
	}, c.get())
}

func TestSeveralMessagesPerConnection(t *testing.T) {
	path := socketPath(t)
	c := &collector{}

	srv, err := StartServer(path, c.handle)
	require.NoError(t, err)
	defer srv.Close()

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	_, err = io.WriteString(conn, `{"cmd":"say","text":"one"}`+"\n"+`{"cmd":"say","text":"two"}`+"\n")
	require.NoError(t, err)
	conn.Close()

	assert.Eventually(t, func() bool { return len(c.get()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []ControlMessage{{Cmd: CmdSay, Text: "one"}, {Cmd: CmdSay, Text: "two"}}, c.get())
}

func TestCloseDropsIdleConnections(t *testing.T) {
	path := socketPath(t)
	srv, err := StartServer(path, func(ControlMessage) {})
	require.NoError(t, err)

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, srv.Close())
	require.NoError(t, srv.Close())

	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStaleSocketIsReplaced(t *testing.T) {
	path := socketPath(t)
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	srv, err := StartServer(path, func(ControlMessage) {})
	require.NoError(t, err)
	require.NoError(t, srv.Close())
}

func TestSendWithoutServer(t *testing.T) {
	assert.Error(t, SendCommand(socketPath(t), ControlMessage{Cmd: CmdTrigger}))
}

func TestBridge(t *testing.T) {
	b := NewBridge()
	ctx := context.Background()

	b.Handle(ControlMessage{Cmd: CmdSay, Text: "  search for cats "})
	b.Handle(ControlMessage{Cmd: "reboot"})

	u, err := b.Listen(ctx)
	require.NoError(t, err)
	assert.Equal(t, dispatch.Heard("search for cats"), u)

	b.Handle(ControlMessage{Cmd: CmdTrigger})
	b.Handle(ControlMessage{Cmd: CmdTrigger})
	require.NoError(t, b.Wait(ctx))

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, b.Wait(short), context.DeadlineExceeded)

	b.Close()
	b.Close()
	_, err = b.Listen(ctx)
	assert.ErrorIs(t, err, io.EOF)
	assert.ErrorIs(t, b.Wait(ctx), io.EOF)
}

func TestBridgeOverSocket(t *testing.T) {
	path := socketPath(t)
	b := NewBridge()
	defer b.Close()

	srv, err := StartServer(path, b.Handle)
	require.NoError(t, err)
	defer srv.Close()

	require.NoError(t, SendCommand(path, ControlMessage{Cmd: CmdSay, Text: "quit"}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	u, err := b.Listen(ctx)
	require.NoError(t, err)
	assert.Equal(t, "quit", u.Text)
}

package ipc

import (
	"context"
	"io"
	log "log/slog"
	"sync"

	"deskvox/internal/dispatch"
)

// Bridge feeds control messages into the loop: "say" becomes an utterance
// and "trigger" opens the push-to-talk gate.
type Bridge struct {
	says     chan string
	triggers chan struct{}

	once sync.Once
	done chan struct{}
}

func NewBridge() *Bridge {
	return &Bridge{
		says:     make(chan string, 16),
		triggers: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Handle is the server handler. It never blocks, a full queue drops.
func (b *Bridge) Handle(msg ControlMessage) {
	switch msg.Cmd {
	case CmdSay:
		select {
		case b.says <- msg.Text:
		case <-b.done:
		default:
			log.Warn("Dropped utterance, queue full", "text", msg.Text)
		}
	case CmdTrigger:
		select {
		case b.triggers <- struct{}{}:
		default:
			// already pending
		}
	default:
		log.Warn("Unknown control command", "cmd", msg.Cmd)
	}
}

func (b *Bridge) Listen(ctx context.Context) (dispatch.Utterance, error) {
	select {
	case <-ctx.Done():
		return dispatch.Utterance{}, ctx.Err()
	case <-b.done:
		return dispatch.Utterance{}, io.EOF
	case text := <-b.says:
		return dispatch.Heard(text), nil
	}
}

func (b *Bridge) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return io.EOF
	case <-b.triggers:
		return nil
	}
}

// Close ends the input; pending Listen and Wait calls return io.EOF.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

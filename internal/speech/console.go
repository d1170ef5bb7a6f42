package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"deskvox/internal/dispatch"
)

// Console reads typed utterances, one per line. A blank line is an
// unrecognized utterance.
type Console struct {
	Reader io.Reader
	// Prompt is written to Echo before each read when both are set.
	Prompt string
	Echo   io.Writer

	once  sync.Once
	lines chan line
}

type line struct {
	text string
	err  error
}

// The scanner runs in its own goroutine so Listen can honour ctx.
func (c *Console) start() {
	c.lines = make(chan line)
	go func() {
		defer close(c.lines)
		sc := bufio.NewScanner(c.Reader)
		for sc.Scan() {
			c.lines <- line{text: sc.Text()}
		}
		if err := sc.Err(); err != nil {
			c.lines <- line{err: err}
		}
	}()
}

func (c *Console) Listen(ctx context.Context) (dispatch.Utterance, error) {
	c.once.Do(c.start)

	if c.Prompt != "" && c.Echo != nil {
		fmt.Fprint(c.Echo, c.Prompt)
	}

	select {
	case <-ctx.Done():
		return dispatch.Utterance{}, ctx.Err()
	case l, ok := <-c.lines:
		if !ok {
			return dispatch.Utterance{}, io.EOF
		}
		if l.err != nil {
			return dispatch.Utterance{}, l.err
		}
		return dispatch.Heard(l.text), nil
	}
}

// Package tts holds speakers that need no native libraries.
package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"deskvox/internal/dispatch"
)

// Console prints each response as a transcript line.
type Console struct {
	W  io.Writer
	mu sync.Mutex
}

func NewConsole(w io.Writer) *Console { return &Console{W: w} }

func (c *Console) Speak(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.W, "Assistant: %s\n", text)
	return err
}

// Multi speaks through every speaker in order. All are tried, failures are
// joined.
type Multi []dispatch.Speaker

func (m Multi) Speak(ctx context.Context, text string) error {
	var errs []error
	for _, s := range m {
		if err := s.Speak(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

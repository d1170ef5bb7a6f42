package speech

import (
	"context"
	"fmt"
	"io"
	log "log/slog"
	"sync"

	"deskvox/internal/dispatch"
)

// DecodeFunc loads an audio file as 16 kHz mono PCM.
type DecodeFunc func(ctx context.Context, path string) ([]float32, error)

// Replay transcribes prerecorded files in order, then reports io.EOF.
type Replay struct {
	Files       []string
	Decode      DecodeFunc
	Transcriber Transcriber

	mu   sync.Mutex
	next int
}

func (r *Replay) Listen(ctx context.Context) (dispatch.Utterance, error) {
	if err := ctx.Err(); err != nil {
		return dispatch.Utterance{}, err
	}

	r.mu.Lock()
	if r.next >= len(r.Files) {
		r.mu.Unlock()
		return dispatch.Utterance{}, io.EOF
	}
	path := r.Files[r.next]
	r.next++
	r.mu.Unlock()

	log.Info("Replaying", "file", path)

	pcm, err := r.Decode(ctx, path)
	if err != nil {
		return dispatch.Utterance{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(pcm) == 0 {
		return dispatch.Unrecognized(), nil
	}

	raw, err := r.Transcriber.Transcribe(ctx, pcm)
	if err != nil {
		return dispatch.Utterance{}, fmt.Errorf("transcribe %s: %w", path, err)
	}
	return Transcript(raw), nil
}

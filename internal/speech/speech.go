// Package speech adapts microphones, recordings and terminals into
// dispatch listeners.
package speech

import (
	"context"
	"fmt"
	log "log/slog"
	"regexp"
	"strings"

	"deskvox/internal/dispatch"
)

// Recorder returns one utterance of 16 kHz mono PCM, empty if nothing was
// said.
type Recorder interface {
	Record(ctx context.Context) ([]float32, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, pcm []float32) (string, error)
}

// Gate blocks until the user asks to be heard, e.g. a push-to-talk trigger.
type Gate interface {
	Wait(ctx context.Context) error
}

// Ducker lowers other audio while recording.
type Ducker interface {
	Duck(ctx context.Context) error
	Restore(ctx context.Context) error
}

// Whisper annotates silence and noise in brackets or parentheses.
var markerRe = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\*[^*]*\*`)

// Transcript turns raw transcriber output into an utterance. Text made only
// of non-speech markers is unrecognized.
func Transcript(raw string) dispatch.Utterance {
	text := markerRe.ReplaceAllString(raw, " ")
	return dispatch.Heard(strings.Join(strings.Fields(text), " "))
}

type Microphone struct {
	Recorder    Recorder
	Transcriber Transcriber
	Gate        Gate
	Ducker      Ducker
	// OnListen runs right before recording starts.
	OnListen func()
}

func (m *Microphone) Listen(ctx context.Context) (dispatch.Utterance, error) {
	if m.Gate != nil {
		if err := m.Gate.Wait(ctx); err != nil {
			return dispatch.Utterance{}, err
		}
	}

	if m.OnListen != nil {
		m.OnListen()
	}

	pcm, err := m.record(ctx)
	if err != nil {
		return dispatch.Utterance{}, fmt.Errorf("record: %w", err)
	}
	if len(pcm) == 0 {
		return dispatch.Unrecognized(), nil
	}

	raw, err := m.Transcriber.Transcribe(ctx, pcm)
	if err != nil {
		return dispatch.Utterance{}, fmt.Errorf("transcribe: %w", err)
	}
	log.Debug("Transcribed", "raw", raw)

	return Transcript(raw), nil
}

func (m *Microphone) record(ctx context.Context) ([]float32, error) {
	if m.Ducker == nil {
		return m.Recorder.Record(ctx)
	}

	if err := m.Ducker.Duck(ctx); err != nil {
		log.Warn("Failed to duck audio", "err", err)
	}
	// Restore even when the recording was cancelled.
	defer func() {
		if err := m.Ducker.Restore(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to restore audio", "err", err)
		}
	}()

	return m.Recorder.Record(ctx)
}

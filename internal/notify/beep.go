// Package notify plays the listening cue and shows desktop notifications.
package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

var (
	initOnce sync.Once
	initRate beep.SampleRate
	initErr  error
)

// Beep plays an mp3 cue and waits until it finishes. The speaker is
// initialised once, at the sample rate of the first cue played.
func Beep(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open cue: %w", err)
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode cue: %w", err)
	}
	defer streamer.Close()

	initOnce.Do(func() {
		initRate = format.SampleRate
		initErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
	if initErr != nil {
		return fmt.Errorf("init speaker: %w", initErr)
	}

	var s beep.Streamer = streamer
	if format.SampleRate != initRate {
		s = beep.Resample(4, format.SampleRate, initRate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}

var ErrNoNotifier = errors.New("notify-send not found")

// Desktop shows msg with notify-send.
func Desktop(ctx context.Context, title, msg string) error {
	bin, err := exec.LookPath("notify-send")
	if err != nil {
		return ErrNoNotifier
	}
	return exec.CommandContext(ctx, bin, "--app-name=deskvox", title, msg).Run()
}

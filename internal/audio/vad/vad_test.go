package vad

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(n int, amp float32) []float32 {
	f := make([]float32, n)
	for i := range f {
		if i%2 == 0 {
			f[i] = amp
		} else {
			f[i] = -amp
		}
	}
	return f
}

func TestRMS(t *testing.T) {
	assert.InDelta(t, 0.5, RMS(frame(8, 0.5)), 1e-9)
	assert.Zero(t, RMS(nil))
}

func TestCalibrationRaisesThreshold(t *testing.T) {
	cfg := DefaultConfig()
	d := New(cfg)

	// 300ms of noise at 0.02 is 15 frames.
	for range 15 {
		require.False(t, d.Push(frame(cfg.FrameSize, 0.02)))
	}
	assert.InDelta(t, 0.06, d.Threshold(), 1e-6)

	// Loud enough for the floor, still noise for this room.
	d.Push(frame(cfg.FrameSize, 0.05))
	assert.False(t, d.Speech())
}

func TestQuietRoomKeepsFloor(t *testing.T) {
	cfg := DefaultConfig()
	d := New(cfg)
	for range 15 {
		d.Push(frame(cfg.FrameSize, 0))
	}
	assert.Equal(t, cfg.Floor, d.Threshold())
}

func TestEndsAfterSilence(t *testing.T) {
	cfg := DefaultConfig()
	d := New(cfg)
	for range 15 {
		d.Push(frame(cfg.FrameSize, 0))
	}

	for range 10 {
		require.False(t, d.Push(frame(cfg.FrameSize, 0.3)))
	}
	require.True(t, d.Speech())

	// 600ms of silence is 30 frames, the last one closes the utterance.
	done := false
	n := 0
	for !done {
		done = d.Push(frame(cfg.FrameSize, 0))
		n++
	}
	assert.Equal(t, 30, n)
	assert.Len(t, d.Samples(), (10+29)*cfg.FrameSize)
}

func TestLeadingSilenceIsDropped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calibration = 0
	d := New(cfg)

	d.Push(frame(cfg.FrameSize, 0))
	d.Push(frame(cfg.FrameSize, 0))
	assert.Empty(t, d.Samples())

	d.Push(frame(cfg.FrameSize, 0.5))
	assert.Len(t, d.Samples(), cfg.FrameSize)
}

func TestMaxLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calibration = 0
	cfg.MaxLength = 100 * time.Millisecond
	d := New(cfg)

	var done bool
	n := 0
	for !done {
		done = d.Push(frame(cfg.FrameSize, 0.5))
		n++
	}
	assert.Equal(t, 5, n)
}

func TestWaitsThroughLongSilence(t *testing.T) {
	cfg := DefaultConfig()
	d := New(cfg)

	// 12s of a silent room, past MaxLength.
	for i := range 600 {
		require.False(t, d.Push(frame(cfg.FrameSize, 0)), "frame %d", i)
	}
	require.False(t, d.Speech())

	for range 20 {
		require.False(t, d.Push(frame(cfg.FrameSize, 0.3)))
	}
	require.True(t, d.Speech())

	done := false
	for n := 0; !done; n++ {
		require.Less(t, n, 30)
		done = d.Push(frame(cfg.FrameSize, 0))
	}
	assert.Len(t, d.Samples(), (20+29)*cfg.FrameSize)
}

func TestMaxLengthCountsFromSpeech(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Calibration = 0
	cfg.MaxLength = 100 * time.Millisecond
	d := New(cfg)

	for range 10 {
		require.False(t, d.Push(frame(cfg.FrameSize, 0)))
	}

	// Speech then silence still counts towards the cap.
	require.False(t, d.Push(frame(cfg.FrameSize, 0.5)))
	require.False(t, d.Push(frame(cfg.FrameSize, 0.5)))
	require.False(t, d.Push(frame(cfg.FrameSize, 0)))
	require.False(t, d.Push(frame(cfg.FrameSize, 0)))
	assert.True(t, d.Push(frame(cfg.FrameSize, 0)))
}

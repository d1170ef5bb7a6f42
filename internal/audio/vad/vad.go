// Package vad decides where one spoken utterance starts and ends in a
// stream of fixed-size PCM frames.
package vad

import (
	"math"
	"time"
)

type Config struct {
	SampleRate int
	FrameSize  int

	// Calibration is the leading window used to measure ambient noise.
	Calibration time.Duration
	// Silence after speech that ends the utterance.
	Silence time.Duration
	// MaxLength caps the utterance, counted from its first speech frame.
	MaxLength time.Duration

	// Threshold is max(Floor, noise*Factor).
	Floor  float64
	Factor float64
}

func DefaultConfig() Config {
	return Config{
		SampleRate:  16000,
		FrameSize:   320, // 20ms
		Calibration: 300 * time.Millisecond,
		Silence:     600 * time.Millisecond,
		MaxLength:   10 * time.Second,
		Floor:       0.015,
		Factor:      3,
	}
}

func (c Config) frames(d time.Duration) int {
	n := int(int64(d) * int64(c.SampleRate) / (int64(c.FrameSize) * int64(time.Second)))
	if n < 1 && d > 0 {
		n = 1
	}
	return n
}

type Detector struct {
	cfg Config

	calFrames     int
	silenceFrames int
	maxFrames     int

	seen      int
	noise     float64
	threshold float64

	speaking bool
	spoken   int
	silent   int
	out      []float32
}

func New(cfg Config) *Detector {
	d := &Detector{
		cfg:           cfg,
		calFrames:     cfg.frames(cfg.Calibration),
		silenceFrames: cfg.frames(cfg.Silence),
		maxFrames:     cfg.frames(cfg.MaxLength),
		threshold:     cfg.Floor,
	}
	return d
}

// Push feeds one frame and reports whether the utterance is complete.
// Before the first speech frame it never is. The frame is copied.
func (d *Detector) Push(frame []float32) bool {
	rms := RMS(frame)
	d.seen++

	if d.seen <= d.calFrames {
		d.noise += rms
		if d.seen == d.calFrames {
			d.noise /= float64(d.calFrames)
			d.threshold = math.Max(d.cfg.Floor, d.noise*d.cfg.Factor)
		}
		return false
	}

	loud := rms > d.threshold
	if loud {
		d.speaking = true
	}
	if !d.speaking {
		return false
	}

	d.spoken++
	if loud {
		d.silent = 0
	} else {
		d.silent++
		if d.silent >= d.silenceFrames {
			return true
		}
	}
	d.out = append(d.out, frame...)

	return d.spoken >= d.maxFrames
}

func (d *Detector) Threshold() float64 { return d.threshold }

// Speech reports whether any frame crossed the threshold.
func (d *Detector) Speech() bool { return d.speaking }

func (d *Detector) Samples() []float32 { return d.out }

func RMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}

// Package mixer lowers the volume of other applications while the assistant
// listens, using PulseAudio's pactl.
package mixer

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

const maxVolume = 150

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

// SinkInput is one playback stream as reported by pactl.
type SinkInput struct {
	ID      int
	Volume  int
	AppName string
}

// Pactl abstracts the two pactl calls the Ducker needs.
type Pactl interface {
	SinkInputs(ctx context.Context) ([]SinkInput, error)
	SetVolume(ctx context.Context, id, percent int) error
}

type fade struct {
	id, from, to int
}

// Ducker fades every sink input except those whose application.name is in
// its own list. Duck and Restore are idempotent.
type Ducker struct {
	mu       sync.Mutex
	pactl    Pactl
	self     []string
	factor   float64
	min      int
	duration time.Duration

	active   bool
	original map[int]int
}

type Options struct {
	// SelfNames are application names never touched.
	SelfNames []string
	// Factor scales the current volume, 0.3 keeps 30%.
	Factor   float64
	Min      int
	Duration time.Duration
}

func NewDucker(p Pactl, opts Options) *Ducker {
	if p == nil {
		p = CLI{}
	}
	if opts.Factor <= 0 || opts.Factor > 1 {
		opts.Factor = 0.3
	}
	return &Ducker{
		pactl:    p,
		self:     slices.Clone(opts.SelfNames),
		factor:   opts.Factor,
		min:      clamp(opts.Min),
		duration: opts.Duration,
		original: make(map[int]int),
	}
}

func (d *Ducker) Duck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	inputs, err := d.pactl.SinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list sink inputs: %w", err)
	}

	d.original = make(map[int]int)
	var targets []fade
	for _, s := range inputs {
		if slices.Contains(d.self, s.AppName) {
			continue
		}
		to := max(float64(s.Volume)*d.factor, float64(d.min))
		d.original[s.ID] = s.Volume
		targets = append(targets, fade{id: s.ID, from: s.Volume, to: clamp(int(math.Round(to)))})
	}

	if err := d.run(ctx, targets); err != nil {
		return err
	}
	d.active = true
	return nil
}

// Restore fades ducked streams back. Streams that appeared after Duck are
// left alone.
func (d *Ducker) Restore(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	inputs, err := d.pactl.SinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list sink inputs: %w", err)
	}

	var targets []fade
	for _, s := range inputs {
		orig, ok := d.original[s.ID]
		if !ok || slices.Contains(d.self, s.AppName) {
			continue
		}
		targets = append(targets, fade{id: s.ID, from: s.Volume, to: orig})
	}

	if err := d.run(ctx, targets); err != nil {
		return err
	}
	d.original = make(map[int]int)
	d.active = false
	return nil
}

func (d *Ducker) run(ctx context.Context, targets []fade) error {
	if len(targets) == 0 {
		return nil
	}

	const minStep = 10 * time.Millisecond
	steps := max(int(d.duration/minStep), 1)
	if d.duration <= 0 {
		steps = 0
	}
	var pause time.Duration
	if steps > 0 {
		pause = d.duration / time.Duration(steps)
	}

	for i := 0; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frac := 1.0
		if steps > 0 {
			frac = float64(i) / float64(steps)
		}
		for _, t := range targets {
			v := int(math.Round(float64(t.from) + float64(t.to-t.from)*frac))
			if err := d.pactl.SetVolume(ctx, t.id, v); err != nil {
				return fmt.Errorf("set volume id=%d: %w", t.id, err)
			}
		}

		if i < steps {
			time.Sleep(pause)
		}
	}
	return nil
}

func clamp(v int) int {
	return min(max(v, 0), maxVolume)
}

// CLI shells out to pactl.
type CLI struct{}

func (CLI) SinkInputs(ctx context.Context) ([]SinkInput, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}
	return ParseSinkInputs(string(out)), nil
}

func (CLI) SetVolume(ctx context.Context, id, percent int) error {
	arg := fmt.Sprintf("%d%%", clamp(percent))
	return exec.CommandContext(ctx, "pactl", "set-sink-input-volume", strconv.Itoa(id), arg).Run()
}

// ParseSinkInputs reads the output of `pactl list sink-inputs`. The first
// volume percentage of each block is taken as its volume.
func ParseSinkInputs(text string) []SinkInput {
	blocks := strings.Split(text, "Sink Input #")
	var res []SinkInput

	for _, block := range blocks[1:] {
		head, body, ok := strings.Cut(block, "\n")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(head))
		if err != nil {
			continue
		}

		s := SinkInput{ID: id, Volume: -1}
		for line := range strings.SplitSeq(body, "\n") {
			line = strings.TrimSpace(line)

			if strings.HasPrefix(line, "Volume:") && s.Volume < 0 {
				if m := percentRe.FindStringSubmatch(line); m != nil {
					if v, err := strconv.Atoi(m[1]); err == nil {
						s.Volume = v
					}
				}
			}

			if rest, ok := strings.CutPrefix(line, "application.name ="); ok && s.AppName == "" {
				s.AppName = strings.Trim(strings.TrimSpace(rest), `"`)
			}
		}

		if s.Volume < 0 {
			continue
		}
		res = append(res, s)
	}
	return res
}

// Package dispatch runs the listen, resolve, execute, speak cycle.
package dispatch

import (
	"context"
	"errors"
	"io"
	log "log/slog"
	"time"

	"github.com/google/uuid"

	"deskvox/internal/action"
	"deskvox/internal/intent"
)

type State int

const (
	Listening State = iota
	Resolving
	Executing
	Speaking
	Exit
)

func (s State) String() string {
	switch s {
	case Listening:
		return "listening"
	case Resolving:
		return "resolving"
	case Executing:
		return "executing"
	case Speaking:
		return "speaking"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Executor runs one resolved action and always yields result text.
type Executor interface {
	Run(ctx context.Context, name string, args map[string]any) string
}

// Messages are the fixed phrases the loop speaks on its own.
type Messages struct {
	Announcement string
	Apology      string
	Farewell     string
	// Failure is spoken when the resolver itself errors.
	Failure string
}

func DefaultMessages() Messages {
	return Messages{
		Announcement: "Desktop assistant activated",
		Apology:      "Sorry, I didn't understand.",
		Farewell:     "Goodbye",
		Failure:      "Sorry, something went wrong.",
	}
}

type Config struct {
	Listener Listener
	Speaker  Speaker
	Resolver intent.Resolver
	Executor Executor
	Catalog  *action.Catalog

	// ExitPhrases defaults to DefaultExitPhrases.
	ExitPhrases []string
	// Zero fields fall back to DefaultMessages.
	Messages Messages
	// ResolveTimeout bounds one resolver call, zero means no bound.
	ResolveTimeout time.Duration
}

// Loop is strictly sequential: a cycle completes before the next listen.
type Loop struct {
	listener Listener
	speaker  Speaker
	resolver intent.Resolver
	executor Executor
	catalog  *action.Catalog

	exit    PhraseSet
	msgs    Messages
	timeout time.Duration

	state State
}

func New(cfg Config) (*Loop, error) {
	switch {
	case cfg.Listener == nil:
		return nil, errors.New("dispatch: nil listener")
	case cfg.Speaker == nil:
		return nil, errors.New("dispatch: nil speaker")
	case cfg.Resolver == nil:
		return nil, errors.New("dispatch: nil resolver")
	case cfg.Executor == nil:
		return nil, errors.New("dispatch: nil executor")
	case cfg.Catalog == nil:
		return nil, errors.New("dispatch: nil catalog")
	}

	phrases := cfg.ExitPhrases
	if len(phrases) == 0 {
		phrases = DefaultExitPhrases
	}

	return &Loop{
		listener: cfg.Listener,
		speaker:  cfg.Speaker,
		resolver: cfg.Resolver,
		executor: cfg.Executor,
		catalog:  cfg.Catalog,
		exit:     NewPhraseSet(phrases...),
		msgs:     withDefaults(cfg.Messages),
		timeout:  cfg.ResolveTimeout,
		state:    Listening,
	}, nil
}

func withDefaults(m Messages) Messages {
	d := DefaultMessages()
	if m.Announcement == "" {
		m.Announcement = d.Announcement
	}
	if m.Apology == "" {
		m.Apology = d.Apology
	}
	if m.Farewell == "" {
		m.Farewell = d.Farewell
	}
	if m.Failure == "" {
		m.Failure = d.Failure
	}
	return m
}

func (l *Loop) State() State { return l.state }

// Run announces itself and cycles until an exit phrase, exhausted input or
// context cancellation. Only cancellation returns an error.
func (l *Loop) Run(ctx context.Context) error {
	l.say(ctx, log.Default(), l.msgs.Announcement)
	l.enter(log.Default(), Listening)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		done, err := l.cycle(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (l *Loop) cycle(ctx context.Context) (bool, error) {
	lg := log.With("cycle", uuid.NewString()[:8])

	utt, err := l.listener.Listen(ctx)
	switch {
	case errors.Is(err, io.EOF):
		lg.Info("Input exhausted")
		l.finish(ctx, lg)
		return true, nil
	case ctx.Err() != nil:
		return false, ctx.Err()
	case err != nil:
		lg.Error("Failed to listen", "err", err)
		l.respond(ctx, lg, l.msgs.Apology)
		return false, nil
	}

	if !utt.Recognized {
		lg.Info("Speech not understood")
		l.respond(ctx, lg, l.msgs.Apology)
		return false, nil
	}

	lg.Info("User", "text", utt.Text)

	if l.exit.Match(utt.Text) {
		l.finish(ctx, lg)
		return true, nil
	}

	l.enter(lg, Resolving)
	res, err := l.resolve(ctx, utt.Text)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		lg.Error("Failed to resolve", "err", err)
		l.respond(ctx, lg, l.msgs.Failure)
		return false, nil
	}

	if !res.Matched() {
		lg.Info("No action for utterance")
		l.enter(lg, Listening)
		return false, nil
	}

	l.enter(lg, Executing)
	result := l.executor.Run(ctx, res.Call.Name, res.Call.Args)

	l.respond(ctx, lg, result)
	return false, nil
}

func (l *Loop) resolve(ctx context.Context, text string) (intent.Resolution, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	return l.resolver.Resolve(ctx, intent.Request{Catalog: l.catalog, Utterance: text})
}

// respond speaks once and returns to listening.
func (l *Loop) respond(ctx context.Context, lg *log.Logger, text string) {
	l.enter(lg, Speaking)
	l.say(ctx, lg, text)
	l.enter(lg, Listening)
}

func (l *Loop) finish(ctx context.Context, lg *log.Logger) {
	l.enter(lg, Speaking)
	l.say(ctx, lg, l.msgs.Farewell)
	l.enter(lg, Exit)
}

func (l *Loop) say(ctx context.Context, lg *log.Logger, text string) {
	lg.Info("Assistant", "text", text)
	if err := l.speaker.Speak(ctx, text); err != nil {
		lg.Error("Failed to voice out", "err", err)
	}
}

func (l *Loop) enter(lg *log.Logger, s State) {
	if l.state != s {
		lg.Debug("State", "from", l.state, "to", s)
	}
	l.state = s
}

package intent

import (
	"context"
	"strings"
	"sync"
)

// Static is a deterministic resolver keyed by lowercased utterance. It
// records what it was asked and still applies the resolution policy.
type Static struct {
	mu    sync.Mutex
	calls map[string][]Call
	err   error
	seen  []string
}

func NewStatic(calls map[string][]Call) *Static {
	norm := make(map[string][]Call, len(calls))
	for k, v := range calls {
		norm[strings.ToLower(k)] = v
	}
	return &Static{calls: norm}
}

// Fail makes every later Resolve return err.
func (s *Static) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Seen returns the utterances resolved so far.
func (s *Static) Seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.seen...)
}

func (s *Static) Resolve(_ context.Context, req Request) (Resolution, error) {
	s.mu.Lock()
	s.seen = append(s.seen, req.Utterance)
	calls, err := s.calls[strings.ToLower(req.Utterance)], s.err
	s.mu.Unlock()

	if err != nil {
		return Resolution{}, err
	}
	return Decide("static", req, calls), nil
}

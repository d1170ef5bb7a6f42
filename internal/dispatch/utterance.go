package dispatch

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Utterance is one transcribed unit of speech, or the explicit marker that
// nothing intelligible was heard.
type Utterance struct {
	Text       string
	Recognized bool
}

// Heard wraps a transcript. Blank text counts as unrecognized.
func Heard(text string) Utterance {
	text = strings.TrimSpace(text)
	if text == "" {
		return Unrecognized()
	}
	return Utterance{Text: text, Recognized: true}
}

func Unrecognized() Utterance { return Utterance{} }

// Listener blocks until the next utterance. io.EOF reports that the input
// is exhausted.
type Listener interface {
	Listen(ctx context.Context) (Utterance, error)
}

// Speaker voices text and returns once playback is complete.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// PhraseSet matches utterances against configured phrases, ignoring case,
// surrounding space and trailing punctuation added by transcribers.
type PhraseSet struct {
	folded map[string]struct{}
}

var DefaultExitPhrases = []string{"exit", "quit", "stop"}

func NewPhraseSet(phrases ...string) PhraseSet {
	s := PhraseSet{folded: make(map[string]struct{}, len(phrases))}
	for _, p := range phrases {
		if k := normalizePhrase(p); k != "" {
			s.folded[k] = struct{}{}
		}
	}
	return s
}

func (s PhraseSet) Match(text string) bool {
	_, ok := s.folded[normalizePhrase(text)]
	return ok
}

func (s PhraseSet) Len() int { return len(s.folded) }

func normalizePhrase(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	return cases.Fold().String(s)
}

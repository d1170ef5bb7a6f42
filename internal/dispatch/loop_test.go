package dispatch

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deskvox/internal/action"
	"deskvox/internal/intent"
)

type step struct {
	utt Utterance
	err error
}

// scripted replays steps and then reports exhausted input.
type scripted struct {
	steps []step
}

func script(texts ...string) *scripted {
	s := &scripted{}
	for _, t := range texts {
		s.steps = append(s.steps, step{utt: Heard(t)})
	}
	return s
}

func (s *scripted) then(st step) *scripted {
	s.steps = append(s.steps, st)
	return s
}

func (s *scripted) Listen(ctx context.Context) (Utterance, error) {
	if err := ctx.Err(); err != nil {
		return Utterance{}, err
	}
	if len(s.steps) == 0 {
		return Utterance{}, io.EOF
	}
	st := s.steps[0]
	s.steps = s.steps[1:]
	return st.utt, st.err
}

type recorder struct {
	mu     sync.Mutex
	spoken []string
}

func (r *recorder) Speak(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, text)
	return nil
}

type desk struct {
	urls []string
}

func (d *desk) OpenURL(_ context.Context, u string) error {
	d.urls = append(d.urls, u)
	return nil
}

func (d *desk) Launch(context.Context, string) error { return nil }

type fixture struct {
	loop     *Loop
	speaker  *recorder
	resolver *intent.Static
	desk     *desk
}

func newFixture(t *testing.T, l Listener, calls map[string][]intent.Call) *fixture {
	t.Helper()

	catalog := action.Builtin()
	d := &desk{}
	sp := &recorder{}
	res := intent.NewStatic(calls)

	loop, err := New(Config{
		Listener: l,
		Speaker:  sp,
		Resolver: res,
		Executor: action.NewExecutor(catalog, action.Env{BaseDir: t.TempDir(), Desktop: d}),
		Catalog:  catalog,
	})
	require.NoError(t, err)

	return &fixture{loop: loop, speaker: sp, resolver: res, desk: d}
}

func TestExitPhrases(t *testing.T) {
	for _, phrase := range []string{"exit", "Quit", "STOP", " stop. ", "Exit!"} {
		t.Run(phrase, func(t *testing.T) {
			f := newFixture(t, script(phrase, "search for dogs"), nil)

			require.NoError(t, f.loop.Run(context.Background()))

			want := []string{"Desktop assistant activated", "Goodbye"}
			if diff := cmp.Diff(want, f.speaker.spoken); diff != "" {
				t.Errorf("spoken mismatch (-want +got):\n%s", diff)
			}
			assert.Empty(t, f.resolver.Seen(), "exit phrase must not reach the resolver")
			assert.Equal(t, Exit, f.loop.State())
		})
	}
}

func TestUnrecognizedSpeaksOneApology(t *testing.T) {
	l := (&scripted{}).then(step{utt: Unrecognized()})
	f := newFixture(t, l, nil)

	require.NoError(t, f.loop.Run(context.Background()))

	want := []string{"Desktop assistant activated", "Sorry, I didn't understand.", "Goodbye"}
	assert.Equal(t, want, f.speaker.spoken)
	assert.Empty(t, f.resolver.Seen())
}

func TestListenerErrorApologizes(t *testing.T) {
	l := (&scripted{}).then(step{err: errors.New("mic unplugged")})
	f := newFixture(t, l, nil)

	require.NoError(t, f.loop.Run(context.Background()))

	assert.Equal(t, []string{"Desktop assistant activated", "Sorry, I didn't understand.", "Goodbye"}, f.speaker.spoken)
}

func TestSearchSpeaksResultWithoutOpeningBrowser(t *testing.T) {
	calls := map[string][]intent.Call{
		"search for cats": {
			{Name: action.OpenBrowser, Args: map[string]any{}},
			{Name: action.Search, Args: map[string]any{"query": "cats"}},
		},
	}
	f := newFixture(t, script("Search for cats"), calls)

	require.NoError(t, f.loop.Run(context.Background()))

	assert.Equal(t, []string{"Desktop assistant activated", "Searched for cats", "Goodbye"}, f.speaker.spoken)
	assert.Equal(t, []string{"https://www.google.com/search?q=cats"}, f.desk.urls)
	assert.Equal(t, []string{"Search for cats"}, f.resolver.Seen())
}

func TestNoMatchIsSilent(t *testing.T) {
	f := newFixture(t, script("what a lovely day"), nil)

	require.NoError(t, f.loop.Run(context.Background()))

	assert.Equal(t, []string{"Desktop assistant activated", "Goodbye"}, f.speaker.spoken)
	assert.Equal(t, []string{"what a lovely day"}, f.resolver.Seen())
}

func TestResolverFailureIsSpoken(t *testing.T) {
	f := newFixture(t, script("open the browser"), nil)
	f.resolver.Fail(errors.New("upstream 503"))

	require.NoError(t, f.loop.Run(context.Background()))

	assert.Equal(t, []string{"Desktop assistant activated", "Sorry, something went wrong.", "Goodbye"}, f.speaker.spoken)
	assert.Empty(t, f.desk.urls)
}

func TestFailedActionIsSpoken(t *testing.T) {
	calls := map[string][]intent.Call{
		"read notes": {{Name: action.ReadFile, Args: map[string]any{"path": "notes.txt"}}},
	}
	f := newFixture(t, script("read notes"), calls)

	require.NoError(t, f.loop.Run(context.Background()))

	require.Len(t, f.speaker.spoken, 3)
	assert.Contains(t, f.speaker.spoken[1], "Error reading file")
}

func TestCyclesAreSequential(t *testing.T) {
	calls := map[string][]intent.Call{
		"open browser": {{Name: action.OpenBrowser}},
		"search go":    {{Name: action.Search, Args: map[string]any{"query": "go"}}},
	}
	f := newFixture(t, script("open browser", "search go", "quit", "open browser"), calls)

	require.NoError(t, f.loop.Run(context.Background()))

	want := []string{"Desktop assistant activated", "Browser opened", "Searched for go", "Goodbye"}
	assert.Equal(t, want, f.speaker.spoken)
	assert.Equal(t, []string{action.HomeURL, "https://www.google.com/search?q=go"}, f.desk.urls)
}

func TestCancelledContextStops(t *testing.T) {
	f := newFixture(t, script("open browser"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.loop.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"Desktop assistant activated"}, f.speaker.spoken)
}

func TestCustomMessages(t *testing.T) {
	catalog := action.Builtin()
	sp := &recorder{}
	loop, err := New(Config{
		Listener:    script("bye"),
		Speaker:     sp,
		Resolver:    intent.NewStatic(nil),
		Executor:    action.NewExecutor(catalog, action.Env{}),
		Catalog:     catalog,
		ExitPhrases: []string{"bye"},
		Messages:    Messages{Farewell: "See you"},
	})
	require.NoError(t, err)

	require.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, []string{"Desktop assistant activated", "See you"}, sp.spoken)
}

func TestNewRejectsMissingParts(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestPhraseSet(t *testing.T) {
	s := NewPhraseSet("Exit", "", "  quit ")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Match("exit?"))
	assert.True(t, s.Match("QUIT"))
	assert.False(t, s.Match("exit now"))
}

func TestHeard(t *testing.T) {
	assert.Equal(t, Utterance{Text: "hello", Recognized: true}, Heard("  hello \n"))
	assert.False(t, Heard("   ").Recognized)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "resolving", Resolving.String())
	assert.Equal(t, "unknown", State(42).String())
}

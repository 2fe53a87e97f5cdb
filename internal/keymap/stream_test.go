package keymap

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lmorel/tremolo/internal/input"
)

// chanSource feeds bytes to a stream under test control and supports the
// cancellation hook Close relies on.
type chanSource struct {
	ch       chan byte
	quit     chan struct{}
	canceled bool
}

func newChanSource() *chanSource {
	return &chanSource{ch: make(chan byte), quit: make(chan struct{})}
}

func (s *chanSource) ReadByte() (byte, error) {
	select {
	case b, ok := <-s.ch:
		if !ok {
			return 0, io.EOF
		}
		return b, nil
	case <-s.quit:
		return 0, errors.New("read canceled")
	}
}

func (s *chanSource) Cancel() bool {
	s.canceled = true
	close(s.quit)
	return true
}

func nextAction(t *testing.T, ch <-chan Action) (Action, bool) {
	t.Helper()
	select {
	case a, ok := <-ch:
		return a, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for action")
		return Action{}, false
	}
}

func TestStreamDeliversAndClosesOnEOF(t *testing.T) {
	s := Start(strings.NewReader("q\n"), NewResolver(NewBindingTable(nil)), zerolog.Nop())
	defer s.Close()

	if a, ok := nextAction(t, s.Actions()); !ok || a != CharAction('q') {
		t.Errorf("first action = %v, %v; want Char('q')", a, ok)
	}
	if a, ok := nextAction(t, s.Actions()); !ok || a != NewAction(ActionEnter) {
		t.Errorf("second action = %v, %v; want Enter", a, ok)
	}
	if a, ok := nextAction(t, s.Actions()); ok {
		t.Errorf("channel still open after EOF, got %v", a)
	}
}

func TestStreamStartsInSearchContext(t *testing.T) {
	s := Start(strings.NewReader(""), NewResolver(NewBindingTable(nil)), zerolog.Nop())
	defer s.Close()

	if got := s.Context(); got != SearchContext() {
		t.Errorf("initial context = %v, want search", got)
	}
}

func TestStreamContextSwitch(t *testing.T) {
	ev := input.NewKeyEvent(input.Rune('x'))
	table := NewBindingTable(map[input.Event][]ContextedAction{
		ev: {
			{Context: SearchContext(), Action: NewAction(ActionStop)},
			{Context: PlaylistContext(), Action: NewAction(ActionRefresh)},
		},
	})
	src := newChanSource()
	s := Start(src, NewResolver(table), zerolog.Nop())
	defer s.Close()

	src.ch <- 'x'
	if a, ok := nextAction(t, s.Actions()); !ok || a != NewAction(ActionStop) {
		t.Fatalf("action in search context = %v, %v; want Stop", a, ok)
	}

	s.SetContext(PlaylistContext())
	src.ch <- 'x'
	if a, ok := nextAction(t, s.Actions()); !ok || a != NewAction(ActionRefresh) {
		t.Fatalf("action in playlist context = %v, %v; want Refresh", a, ok)
	}

	close(src.ch)
	if a, ok := nextAction(t, s.Actions()); ok {
		t.Errorf("channel still open after EOF, got %v", a)
	}
}

// The producer side must accept an arbitrary backlog while nothing consumes,
// and deliver every action afterwards in order.
func TestStreamBuffersWithoutConsumer(t *testing.T) {
	const n = 500
	src := newChanSource()
	s := Start(src, NewResolver(NewBindingTable(nil)), zerolog.Nop())
	defer s.Close()

	for i := 0; i < n; i++ {
		select {
		case src.ch <- 'a':
		case <-time.After(2 * time.Second):
			t.Fatalf("producer blocked after %d bytes", i)
		}
	}
	close(src.ch)

	for i := 0; i < n; i++ {
		if a, ok := nextAction(t, s.Actions()); !ok || a != CharAction('a') {
			t.Fatalf("action %d = %v, %v; want Char('a')", i, a, ok)
		}
	}
	if a, ok := nextAction(t, s.Actions()); ok {
		t.Errorf("channel still open after draining, got %v", a)
	}
}

func TestStreamSkipsUndecodableInput(t *testing.T) {
	// ESC O X is not a valid function key sequence; the stream drops it and
	// keeps decoding.
	s := Start(strings.NewReader("\x1bOXa"), NewResolver(NewBindingTable(nil)), zerolog.Nop())
	defer s.Close()

	if a, ok := nextAction(t, s.Actions()); !ok || a != CharAction('a') {
		t.Errorf("action after bad sequence = %v, %v; want Char('a')", a, ok)
	}
	if a, ok := nextAction(t, s.Actions()); ok {
		t.Errorf("channel still open after EOF, got %v", a)
	}
}

func TestStreamDropsUnresolvedEvents(t *testing.T) {
	// Mouse events have no defaults and no configured binding here, so only
	// the trailing key press surfaces.
	s := Start(strings.NewReader("\x1b[<0;10;20Mz"), NewResolver(NewBindingTable(nil)), zerolog.Nop())
	defer s.Close()

	if a, ok := nextAction(t, s.Actions()); !ok || a != CharAction('z') {
		t.Errorf("action = %v, %v; want Char('z')", a, ok)
	}
	if a, ok := nextAction(t, s.Actions()); ok {
		t.Errorf("channel still open after EOF, got %v", a)
	}
}

func TestStreamClose(t *testing.T) {
	src := newChanSource()
	s := Start(src, NewResolver(NewBindingTable(nil)), zerolog.Nop())

	s.Close()
	s.Close() // safe to call twice

	if !src.canceled {
		t.Error("Close did not cancel the pending read")
	}
	if a, ok := nextAction(t, s.Actions()); ok {
		t.Errorf("channel still open after Close, got %v", a)
	}
}

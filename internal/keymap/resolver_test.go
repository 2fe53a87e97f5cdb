package keymap

import (
	"testing"

	"github.com/lmorel/tremolo/internal/input"
)

func TestDefaultActionTable(t *testing.T) {
	tests := []struct {
		name string
		key  input.Key
		want Action
	}{
		{"up", input.Key{Type: input.KeyUp}, NewAction(ActionPointerUp)},
		{"down", input.Key{Type: input.KeyDown}, NewAction(ActionPointerDown)},
		{"right", input.Key{Type: input.KeyRight}, NewAction(ActionNextTrack)},
		{"left", input.Key{Type: input.KeyLeft}, NewAction(ActionPrevTrack)},
		{"delete", input.Key{Type: input.KeyDelete}, NewAction(ActionQuit)},
		{"backspace", input.Key{Type: input.KeyBackspace}, NewAction(ActionBackspace)},
		{"ctrl-c", input.Ctrl('c'), NewAction(ActionQuit)},
		{"ctrl-p", input.Ctrl('p'), NewAction(ActionFlipPause)},
		{"ctrl-r", input.Ctrl('r'), NewAction(ActionRefresh)},
		{"ctrl-s", input.Ctrl('s'), NewAction(ActionStop)},
		{"ctrl-a", input.Ctrl('a'), NewAction(ActionAddAll)},
		{"alt-p", input.Alt('p'), NewAction(ActionShowPlaylist)},
		{"alt-a", input.Alt('a'), NewAction(ActionSwitchToAlbums)},
		{"alt-t", input.Alt('t'), NewAction(ActionSwitchToTracks)},
		{"alt-s", input.Alt('s'), NewAction(ActionSwitchToArtists)},
		{"forward", input.Rune(']'), NewAction(ActionForward5)},
		{"backward", input.Rune('['), NewAction(ActionBackward5)},
		{"newline", input.Rune('\n'), NewAction(ActionEnter)},
		{"tab", input.Rune('\t'), NewAction(ActionSwitchView)},
		{"plain rune", input.Rune('q'), CharAction('q')},
		{"unicode rune", input.Rune('é'), CharAction('é')},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DefaultAction(input.NewKeyEvent(tt.key))
			if !ok {
				t.Fatalf("DefaultAction(%v) not bound", tt.key)
			}
			if got != tt.want {
				t.Errorf("DefaultAction(%v) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestDefaultActionUnbound(t *testing.T) {
	unbound := []input.Event{
		input.NewKeyEvent(input.Ctrl('x')),
		input.NewKeyEvent(input.Alt('z')),
		input.NewKeyEvent(input.Key{Type: input.KeyHome}),
		input.NewKeyEvent(input.Key{Type: input.KeyEnd}),
		input.NewKeyEvent(input.Key{Type: input.KeyPageUp}),
		input.NewKeyEvent(input.Key{Type: input.KeyEsc}),
		input.NewKeyEvent(input.Fn(5)),
		input.NewMouseEvent(input.Mouse{Type: input.MousePress, Button: input.ButtonLeft, X: 3, Y: 4}),
	}
	for _, ev := range unbound {
		if a, ok := DefaultAction(ev); ok {
			t.Errorf("DefaultAction(%v) = %v, want no binding", ev, a)
		}
	}
}

func TestResolveConfiguredOverridesDefault(t *testing.T) {
	ev := input.NewKeyEvent(input.Rune('q'))
	table := NewBindingTable(map[input.Event][]ContextedAction{
		ev: {
			{Context: AllContexts(), Action: NewAction(ActionStop)},
		},
	})
	r := NewResolver(table)

	got, ok := r.Resolve(SearchContext(), ev)
	if !ok || got != NewAction(ActionStop) {
		t.Errorf("Resolve = %v, %v; want configured Stop over Char default", got, ok)
	}
}

func TestResolveContextScoping(t *testing.T) {
	ev := input.NewKeyEvent(input.Rune('x'))
	table := NewBindingTable(map[input.Event][]ContextedAction{
		ev: {
			{Context: PlaylistContext(), Action: NewAction(ActionRefresh)},
		},
	})
	r := NewResolver(table)

	got, ok := r.Resolve(PlaylistContext(), ev)
	if !ok || got != NewAction(ActionRefresh) {
		t.Errorf("Resolve(playlist) = %v, %v; want Refresh", got, ok)
	}
	// Out of scope, so the default character passthrough applies.
	got, ok = r.Resolve(SearchContext(), ev)
	if !ok || got != CharAction('x') {
		t.Errorf("Resolve(search) = %v, %v; want Char('x')", got, ok)
	}
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	r := NewResolver(NewBindingTable(nil))

	got, ok := r.Resolve(TracklistContext(), input.NewKeyEvent(input.Ctrl('c')))
	if !ok || got != NewAction(ActionQuit) {
		t.Errorf("Resolve(ctrl-c) = %v, %v; want Quit", got, ok)
	}
	if _, ok := r.Resolve(TracklistContext(), input.NewKeyEvent(input.Ctrl('x'))); ok {
		t.Error("Resolve(ctrl-x) resolved with an empty table and no default")
	}
}

package keymap

import (
	"fmt"
	"sort"
)

// ActionKind enumerates the application commands an event can resolve to.
type ActionKind int

const (
	ActionQuit ActionKind = iota
	ActionPointerUp
	ActionPointerDown
	ActionNextTrack
	ActionPrevTrack
	ActionFlipPause
	ActionStop
	ActionForward5
	ActionBackward5
	ActionRefresh
	ActionAddAll
	ActionShowPlaylist
	ActionSwitchToAlbums
	ActionSwitchToTracks
	ActionSwitchToArtists
	ActionEnter
	ActionSwitchView
	ActionBackspace
	ActionChar
)

// Action is a resolved application command. Char is the only kind carrying a
// payload: the typed rune, destined for a text buffer. It is produced by the
// default table's passthrough and can never be bound from configuration.
type Action struct {
	Kind ActionKind
	Ch   rune
}

// NewAction returns a payload-free action of the given kind.
func NewAction(k ActionKind) Action { return Action{Kind: k} }

// CharAction returns the typed-character action.
func CharAction(r rune) Action { return Action{Kind: ActionChar, Ch: r} }

var actionNames = map[string]ActionKind{
	"Quit":            ActionQuit,
	"PointerUp":       ActionPointerUp,
	"PointerDown":     ActionPointerDown,
	"NextTrack":       ActionNextTrack,
	"PrevTrack":       ActionPrevTrack,
	"FlipPause":       ActionFlipPause,
	"Stop":            ActionStop,
	"Forward5":        ActionForward5,
	"Backward5":       ActionBackward5,
	"Refresh":         ActionRefresh,
	"AddAll":          ActionAddAll,
	"ShowPlaylist":    ActionShowPlaylist,
	"SwitchToAlbums":  ActionSwitchToAlbums,
	"SwitchToTracks":  ActionSwitchToTracks,
	"SwitchToArtists": ActionSwitchToArtists,
	"Enter":           ActionEnter,
	"SwitchView":      ActionSwitchView,
	"Backspace":       ActionBackspace,
}

// ParseActionName maps a configuration action name to its Action. Every
// configurable kind is accepted; anything else, including "Char", is an
// error.
func ParseActionName(name string) (Action, error) {
	k, ok := actionNames[name]
	if !ok {
		return Action{}, fmt.Errorf("unknown action %q", name)
	}
	return NewAction(k), nil
}

// ActionNames lists the configurable action names in sorted order.
func ActionNames() []string {
	names := make([]string, 0, len(actionNames))
	for name := range actionNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (k ActionKind) String() string {
	for name, kind := range actionNames {
		if kind == k {
			return name
		}
	}
	if k == ActionChar {
		return "Char"
	}
	return "Unknown"
}

func (a Action) String() string {
	if a.Kind == ActionChar {
		return fmt.Sprintf("Char(%q)", a.Ch)
	}
	return a.Kind.String()
}

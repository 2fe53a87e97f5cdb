package keymap

import "github.com/lmorel/tremolo/internal/input"

// DefaultAction maps the always-available keys to their built-in actions.
// Defaults deliberately ignore the current context: every entry here fires
// in every mode. Mouse events have no defaults.
func DefaultAction(ev input.Event) (Action, bool) {
	if ev.Type != input.EventKey {
		return Action{}, false
	}
	k := ev.Key
	switch k.Type {
	case input.KeyUp:
		return NewAction(ActionPointerUp), true
	case input.KeyDown:
		return NewAction(ActionPointerDown), true
	case input.KeyRight:
		return NewAction(ActionNextTrack), true
	case input.KeyLeft:
		return NewAction(ActionPrevTrack), true
	case input.KeyDelete:
		return NewAction(ActionQuit), true
	case input.KeyBackspace:
		return NewAction(ActionBackspace), true
	case input.KeyCtrl:
		switch k.Rune {
		case 'c':
			return NewAction(ActionQuit), true
		case 'p':
			return NewAction(ActionFlipPause), true
		case 'r':
			return NewAction(ActionRefresh), true
		case 's':
			return NewAction(ActionStop), true
		case 'a':
			return NewAction(ActionAddAll), true
		}
	case input.KeyAlt:
		switch k.Rune {
		case 'p':
			return NewAction(ActionShowPlaylist), true
		case 'a':
			return NewAction(ActionSwitchToAlbums), true
		case 't':
			return NewAction(ActionSwitchToTracks), true
		case 's':
			return NewAction(ActionSwitchToArtists), true
		}
	case input.KeyRune:
		switch k.Rune {
		case ']':
			return NewAction(ActionForward5), true
		case '[':
			return NewAction(ActionBackward5), true
		case '\n':
			return NewAction(ActionEnter), true
		case '\t':
			return NewAction(ActionSwitchView), true
		default:
			return CharAction(k.Rune), true
		}
	}
	return Action{}, false
}

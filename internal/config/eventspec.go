package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lmorel/tremolo/internal/input"
)

// literalEvents maps the named spellings accepted in binding values to
// their keys.
var literalEvents = map[string]input.Key{
	"ArrowUp":    {Type: input.KeyUp},
	"ArrowDown":  {Type: input.KeyDown},
	"ArrowRight": {Type: input.KeyRight},
	"ArrowLeft":  {Type: input.KeyLeft},
	"Del":        {Type: input.KeyDelete},
	"Backspace":  {Type: input.KeyBackspace},
	"Home":       {Type: input.KeyHome},
	"End":        {Type: input.KeyEnd},
	"PageUp":     {Type: input.KeyPageUp},
	"PageDown":   {Type: input.KeyPageDown},
	"Insert":     {Type: input.KeyInsert},
	"Esc":        {Type: input.KeyEsc},
}

// parseEventSpec reads a binding value: one of the literal spellings, a
// Ctrl+ or Alt+ chord carrying exactly one character, Fn+ carrying exactly
// one digit, or a bare single character.
func parseEventSpec(s string) (input.Event, error) {
	if k, ok := literalEvents[s]; ok {
		return input.NewKeyEvent(k), nil
	}
	if rest, found := strings.CutPrefix(s, "Ctrl+"); found {
		if r, ok := singleRune(rest); ok {
			return input.NewKeyEvent(input.Ctrl(r)), nil
		}
		return input.Event{}, fmt.Errorf("unknown event %q", s)
	}
	if rest, found := strings.CutPrefix(s, "Alt+"); found {
		if r, ok := singleRune(rest); ok {
			return input.NewKeyEvent(input.Alt(r)), nil
		}
		return input.Event{}, fmt.Errorf("unknown event %q", s)
	}
	if rest, found := strings.CutPrefix(s, "Fn+"); found {
		if len(rest) == 1 && rest[0] >= '0' && rest[0] <= '9' {
			return input.NewKeyEvent(input.Fn(int(rest[0] - '0'))), nil
		}
		return input.Event{}, fmt.Errorf("unknown event %q", s)
	}
	if r, ok := singleRune(s); ok {
		return input.NewKeyEvent(input.Rune(r)), nil
	}
	return input.Event{}, fmt.Errorf("unknown event %q", s)
}

// singleRune returns s decoded as exactly one rune.
func singleRune(s string) (rune, bool) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) {
		return 0, false
	}
	return r, true
}

// Package input decodes raw terminal bytes into discrete key and mouse
// events. It speaks the VT100 family dialect: SS3 function keys, CSI cursor
// and named keys, and the X10, SGR and rxvt mouse encodings.
package input

import (
	"fmt"
	"strconv"
)

// KeyType discriminates the Key union.
type KeyType int

const (
	KeyRune KeyType = iota
	KeyCtrl
	KeyAlt
	KeyFn
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyEsc
	KeyNull
	// KeyTab and KeyEnter never come out of the decoder, which normalizes
	// those bytes to Rune('\t') and Rune('\n').
	KeyTab
	KeyEnter
)

// Key is a single decoded keyboard input. Rune carries the scalar for
// KeyRune, KeyCtrl and KeyAlt; Num carries the 1-based function key number
// for KeyFn. Keys are plain comparable values and are used as map keys.
type Key struct {
	Type KeyType
	Rune rune
	Num  int
}

// Rune returns a plain character key.
func Rune(r rune) Key { return Key{Type: KeyRune, Rune: r} }

// Ctrl returns a control-chord key.
func Ctrl(r rune) Key { return Key{Type: KeyCtrl, Rune: r} }

// Alt returns an alt-chord key.
func Alt(r rune) Key { return Key{Type: KeyAlt, Rune: r} }

// Fn returns the n-th function key.
func Fn(n int) Key { return Key{Type: KeyFn, Num: n} }

func (k Key) String() string {
	switch k.Type {
	case KeyRune:
		switch k.Rune {
		case '\n':
			return "Enter"
		case '\t':
			return "Tab"
		case ' ':
			return "Space"
		}
		return string(k.Rune)
	case KeyCtrl:
		return "Ctrl+" + string(k.Rune)
	case KeyAlt:
		return "Alt+" + string(k.Rune)
	case KeyFn:
		return "F" + strconv.Itoa(k.Num)
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	case KeyInsert:
		return "Insert"
	case KeyDelete:
		return "Delete"
	case KeyBackspace:
		return "Backspace"
	case KeyEsc:
		return "Esc"
	case KeyNull:
		return "Null"
	case KeyTab:
		return "Tab"
	case KeyEnter:
		return "Enter"
	}
	return "Unknown"
}

// MouseType discriminates press, release and drag reports.
type MouseType int

const (
	MousePress MouseType = iota
	MouseRelease
	MouseHold
)

// MouseButton identifies the pressed button. Release and hold reports carry
// ButtonNone because the wire encodings do not include one.
type MouseButton int

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
)

func (b MouseButton) String() string {
	switch b {
	case ButtonLeft:
		return "Left"
	case ButtonMiddle:
		return "Middle"
	case ButtonRight:
		return "Right"
	case ButtonWheelUp:
		return "WheelUp"
	case ButtonWheelDown:
		return "WheelDown"
	}
	return "None"
}

// Mouse is a single decoded mouse report. Coordinates are one-based with
// (1, 1) at the upper left, as sent by the terminal.
type Mouse struct {
	Type   MouseType
	Button MouseButton
	X, Y   uint16
}

func (m Mouse) String() string {
	switch m.Type {
	case MousePress:
		return fmt.Sprintf("Press(%s, %d, %d)", m.Button, m.X, m.Y)
	case MouseRelease:
		return fmt.Sprintf("Release(%d, %d)", m.X, m.Y)
	}
	return fmt.Sprintf("Hold(%d, %d)", m.X, m.Y)
}

// EventType discriminates the Event union.
type EventType int

const (
	EventKey EventType = iota
	EventMouse
)

// Event is one decoded terminal input: either a Key or a Mouse report.
// Events are immutable comparable values.
type Event struct {
	Type  EventType
	Key   Key
	Mouse Mouse
}

// NewKeyEvent wraps a Key into an Event.
func NewKeyEvent(k Key) Event { return Event{Type: EventKey, Key: k} }

// NewMouseEvent wraps a Mouse report into an Event.
func NewMouseEvent(m Mouse) Event { return Event{Type: EventMouse, Mouse: m} }

func (e Event) String() string {
	if e.Type == EventMouse {
		return e.Mouse.String()
	}
	return e.Key.String()
}

// Package ui draws the screens. It owns the terminal surface for the whole
// session: the alternate screen, the cursor, mouse reporting and every
// frame written in between. Nothing else may write to the terminal while a
// Screen is entered.
package ui

import (
	"io"
	"strings"
)

const (
	enterAltScreen = "\x1b[?1049h"
	leaveAltScreen = "\x1b[?1049l"
	hideCursor     = "\x1b[?25l"
	showCursor     = "\x1b[?25h"
	clearScreen    = "\x1b[2J"
	cursorHome     = "\x1b[H"
	clearLineTail  = "\x1b[K"
	clearBelow     = "\x1b[J"

	// Mouse reporting: press (1000), press-and-drag (1002), rxvt (1015)
	// and SGR (1006) encodings, the set the input decoder understands.
	// Disabled in reverse order.
	enableMouse  = "\x1b[?1000h\x1b[?1002h\x1b[?1015h\x1b[?1006h"
	disableMouse = "\x1b[?1006l\x1b[?1015l\x1b[?1002l\x1b[?1000l"
)

// Screen paints frames onto a terminal writer.
type Screen struct {
	w       io.Writer
	entered bool
}

func NewScreen(w io.Writer) *Screen {
	return &Screen{w: w}
}

// Enter switches to the alternate screen, hides the cursor and turns on
// mouse reporting. Call Leave before giving the terminal back.
func (s *Screen) Enter() error {
	if s.entered {
		return nil
	}
	_, err := io.WriteString(s.w, enterAltScreen+clearScreen+cursorHome+hideCursor+enableMouse)
	if err != nil {
		return err
	}
	s.entered = true
	return nil
}

// Leave restores the terminal: mouse reporting off, cursor back, primary
// screen. Safe to call when not entered.
func (s *Screen) Leave() error {
	if !s.entered {
		return nil
	}
	s.entered = false
	_, err := io.WriteString(s.w, disableMouse+showCursor+leaveAltScreen)
	return err
}

// Paint writes a full frame. Each line is terminated with an erase to the
// end of the row, and anything below the last line is cleared, so a frame
// fully replaces its predecessor without an intermediate blank screen. The
// frame goes out in a single write to keep flicker down.
func (s *Screen) Paint(lines []string) error {
	var b strings.Builder
	b.WriteString(cursorHome)
	for i, line := range lines {
		b.WriteString(line)
		b.WriteString(clearLineTail)
		if i < len(lines)-1 {
			b.WriteString("\r\n")
		}
	}
	b.WriteString(clearBelow)
	_, err := io.WriteString(s.w, b.String())
	return err
}

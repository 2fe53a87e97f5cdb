package input

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrDecode tags recoverable parse failures: unknown escape forms, malformed
// numeric fields, invalid UTF-8 accumulation and streams that end in the
// middle of a sequence. Callers log these and keep decoding; io.EOF before
// the first byte of an event is the clean termination signal instead.
var ErrDecode = errors.New("cannot decode input")

// Decoder turns a byte stream into Events, one logical event per Next call.
// It holds no lookahead: each call consumes exactly the bytes of the event it
// returns and blocks on the reader in between, so a canceled or exhausted
// reader surfaces at a byte boundary.
type Decoder struct {
	r io.ByteReader
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.ByteReader) *Decoder {
	return &Decoder{r: r}
}

// Next decodes and returns the next event. It returns io.EOF when the stream
// is exhausted before a new event begins, an ErrDecode-wrapped error for
// recoverable parse failures, and any other reader error verbatim.
func (d *Decoder) Next() (Event, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return Event{}, err
	}
	switch {
	case b == 0x1b:
		return d.escape()
	case b == '\n' || b == '\r':
		return NewKeyEvent(Rune('\n')), nil
	case b == '\t':
		return NewKeyEvent(Rune('\t')), nil
	case b == 0x7f:
		return NewKeyEvent(Key{Type: KeyBackspace}), nil
	case b >= 0x01 && b <= 0x19:
		return NewKeyEvent(Ctrl(rune(b-0x01) + 'a')), nil
	case b >= 0x1c && b <= 0x1f:
		return NewKeyEvent(Ctrl(rune(b-0x1c) + '4')), nil
	case b == 0x00:
		return NewKeyEvent(Key{Type: KeyNull}), nil
	default:
		r, err := d.utf8Rune(b)
		if err != nil {
			return Event{}, err
		}
		return NewKeyEvent(Rune(r)), nil
	}
}

// readByte fetches the next byte inside a sequence, where running out of
// input is a parse failure rather than a clean end of stream.
func (d *Decoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("%w: stream ended mid-sequence", ErrDecode)
		}
		return 0, err
	}
	return b, nil
}

// escape handles everything after a leading 0x1b.
func (d *Decoder) escape() (Event, error) {
	b, err := d.readByte()
	if err != nil {
		return Event{}, err
	}
	switch b {
	case 'O':
		// SS3 function keys F1-F4.
		v, err := d.readByte()
		if err != nil {
			return Event{}, err
		}
		if v < 'P' || v > 'S' {
			return Event{}, fmt.Errorf("%w: unknown ss3 byte %#x", ErrDecode, v)
		}
		return NewKeyEvent(Fn(1 + int(v) - 'P')), nil
	case '[':
		return d.csi()
	default:
		r, err := d.utf8Rune(b)
		if err != nil {
			return Event{}, err
		}
		return NewKeyEvent(Alt(r)), nil
	}
}

// csi handles everything after ESC [.
func (d *Decoder) csi() (Event, error) {
	b, err := d.readByte()
	if err != nil {
		return Event{}, err
	}
	switch {
	case b == '[':
		// Linux console function keys: ESC [ [ V.
		v, err := d.readByte()
		if err != nil {
			return Event{}, err
		}
		return NewKeyEvent(Fn(1 + int(v) - 'A')), nil
	case b == 'A':
		return NewKeyEvent(Key{Type: KeyUp}), nil
	case b == 'B':
		return NewKeyEvent(Key{Type: KeyDown}), nil
	case b == 'C':
		return NewKeyEvent(Key{Type: KeyRight}), nil
	case b == 'D':
		return NewKeyEvent(Key{Type: KeyLeft}), nil
	case b == 'H':
		return NewKeyEvent(Key{Type: KeyHome}), nil
	case b == 'F':
		return NewKeyEvent(Key{Type: KeyEnd}), nil
	case b == 'M':
		return d.x10Mouse()
	case b == '<':
		return d.sgrMouse()
	case b >= '0' && b <= '9':
		return d.numberedCSI(b)
	default:
		return Event{}, fmt.Errorf("%w: unknown csi byte %#x", ErrDecode, b)
	}
}

// x10Mouse parses ESC [ M cb cx cy: three raw bytes offset by 32. The low
// two bits of cb select the button or a release, bit 0x40 flags the wheel.
func (d *Decoder) x10Mouse() (Event, error) {
	cbb, err := d.readByte()
	if err != nil {
		return Event{}, err
	}
	cxb, err := d.readByte()
	if err != nil {
		return Event{}, err
	}
	cyb, err := d.readByte()
	if err != nil {
		return Event{}, err
	}
	cb := int8(cbb) - 32
	cx := x10Coord(cxb)
	cy := x10Coord(cyb)
	switch cb & 0b11 {
	case 0:
		if cb&0x40 != 0 {
			return NewMouseEvent(Mouse{Type: MousePress, Button: ButtonWheelUp, X: cx, Y: cy}), nil
		}
		return NewMouseEvent(Mouse{Type: MousePress, Button: ButtonLeft, X: cx, Y: cy}), nil
	case 1:
		if cb&0x40 != 0 {
			return NewMouseEvent(Mouse{Type: MousePress, Button: ButtonWheelDown, X: cx, Y: cy}), nil
		}
		return NewMouseEvent(Mouse{Type: MousePress, Button: ButtonMiddle, X: cx, Y: cy}), nil
	case 2:
		return NewMouseEvent(Mouse{Type: MousePress, Button: ButtonRight, X: cx, Y: cy}), nil
	default:
		return NewMouseEvent(Mouse{Type: MouseRelease, X: cx, Y: cy}), nil
	}
}

func x10Coord(b byte) uint16 {
	if b < 32 {
		return 0
	}
	return uint16(b - 32)
}

// sgrMouse parses ESC [ < cb ; cx ; cy (M|m): ASCII decimal fields, final M
// for press or hold, final m for release.
func (d *Decoder) sgrMouse() (Event, error) {
	var raw strings.Builder
	c, err := d.readByte()
	if err != nil {
		return Event{}, err
	}
	for c != 'm' && c != 'M' {
		raw.WriteByte(c)
		c, err = d.readByte()
		if err != nil {
			return Event{}, err
		}
	}
	cb, cx, cy, err := mouseFields(raw.String())
	if err != nil {
		return Event{}, err
	}
	switch {
	case cb <= 2 || cb == 64 || cb == 65:
		if c == 'm' {
			return NewMouseEvent(Mouse{Type: MouseRelease, X: cx, Y: cy}), nil
		}
		var button MouseButton
		switch cb {
		case 0:
			button = ButtonLeft
		case 1:
			button = ButtonMiddle
		case 2:
			button = ButtonRight
		case 64:
			button = ButtonWheelUp
		case 65:
			button = ButtonWheelDown
		}
		return NewMouseEvent(Mouse{Type: MousePress, Button: button, X: cx, Y: cy}), nil
	case cb == 32:
		return NewMouseEvent(Mouse{Type: MouseHold, X: cx, Y: cy}), nil
	case cb == 3:
		return NewMouseEvent(Mouse{Type: MouseRelease, X: cx, Y: cy}), nil
	default:
		return Event{}, fmt.Errorf("%w: unknown sgr mouse code %d", ErrDecode, cb)
	}
}

// numberedCSI accumulates a digit-led sequence until a final byte in
// [64, 126], then dispatches on it: M is the rxvt mouse encoding, ~ selects
// a named key by a single numeric parameter.
func (d *Decoder) numberedCSI(first byte) (Event, error) {
	buf := []byte{first}
	b, err := d.readByte()
	if err != nil {
		return Event{}, err
	}
	for b < 64 || b > 126 {
		buf = append(buf, b)
		b, err = d.readByte()
		if err != nil {
			return Event{}, err
		}
	}
	switch b {
	case 'M':
		// rxvt mouse encoding: ESC [ cb ; cx ; cy M.
		cb, cx, cy, err := mouseFields(string(buf))
		if err != nil {
			return Event{}, err
		}
		switch cb {
		case 32:
			return NewMouseEvent(Mouse{Type: MousePress, Button: ButtonLeft, X: cx, Y: cy}), nil
		case 33:
			return NewMouseEvent(Mouse{Type: MousePress, Button: ButtonMiddle, X: cx, Y: cy}), nil
		case 34:
			return NewMouseEvent(Mouse{Type: MousePress, Button: ButtonRight, X: cx, Y: cy}), nil
		case 35:
			return NewMouseEvent(Mouse{Type: MouseRelease, X: cx, Y: cy}), nil
		case 64:
			return NewMouseEvent(Mouse{Type: MouseHold, X: cx, Y: cy}), nil
		case 96, 97:
			return NewMouseEvent(Mouse{Type: MousePress, Button: ButtonWheelUp, X: cx, Y: cy}), nil
		default:
			return Event{}, fmt.Errorf("%w: unknown rxvt mouse code %d", ErrDecode, cb)
		}
	case '~':
		fields := strings.Split(string(buf), ";")
		// Multi-parameter forms carry key modifiers and are not supported.
		if len(fields) > 1 {
			return Event{}, fmt.Errorf("%w: unsupported modifier parameters %q", ErrDecode, string(buf))
		}
		v, err := strconv.ParseUint(fields[0], 10, 8)
		if err != nil {
			return Event{}, fmt.Errorf("%w: bad numeric field %q", ErrDecode, fields[0])
		}
		switch {
		case v == 1 || v == 7:
			return NewKeyEvent(Key{Type: KeyHome}), nil
		case v == 2:
			return NewKeyEvent(Key{Type: KeyInsert}), nil
		case v == 3:
			return NewKeyEvent(Key{Type: KeyDelete}), nil
		case v == 4 || v == 8:
			return NewKeyEvent(Key{Type: KeyEnd}), nil
		case v == 5:
			return NewKeyEvent(Key{Type: KeyPageUp}), nil
		case v == 6:
			return NewKeyEvent(Key{Type: KeyPageDown}), nil
		case v >= 11 && v <= 15:
			return NewKeyEvent(Fn(int(v) - 10)), nil
		case v >= 17 && v <= 21:
			return NewKeyEvent(Fn(int(v) - 11)), nil
		case v == 23 || v == 24:
			return NewKeyEvent(Fn(int(v) - 12)), nil
		default:
			return Event{}, fmt.Errorf("%w: unknown named key code %d", ErrDecode, v)
		}
	default:
		return Event{}, fmt.Errorf("%w: unknown csi final byte %#x", ErrDecode, b)
	}
}

// mouseFields splits a buffered parameter string into the three decimal
// fields shared by the SGR and rxvt encodings. Extra fields are ignored.
func mouseFields(raw string) (cb uint16, cx uint16, cy uint16, err error) {
	fields := strings.Split(raw, ";")
	if len(fields) < 3 {
		return 0, 0, 0, fmt.Errorf("%w: expected three mouse fields in %q", ErrDecode, raw)
	}
	vals := make([]uint16, 3)
	for i, f := range fields[:3] {
		v, perr := strconv.ParseUint(f, 10, 16)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("%w: bad numeric field %q", ErrDecode, f)
		}
		vals[i] = uint16(v)
	}
	return vals[0], vals[1], vals[2], nil
}

// utf8Rune finishes decoding a scalar whose first byte is b, pulling up to
// three continuation bytes. Four bytes without a valid encoding is a parse
// failure.
func (d *Decoder) utf8Rune(b byte) (rune, error) {
	if b < utf8.RuneSelf {
		return rune(b), nil
	}
	buf := make([]byte, 1, utf8.UTFMax)
	buf[0] = b
	for {
		nb, err := d.readByte()
		if err != nil {
			return 0, err
		}
		buf = append(buf, nb)
		if utf8.Valid(buf) {
			r, _ := utf8.DecodeRune(buf)
			return r, nil
		}
		if len(buf) >= utf8.UTFMax {
			return 0, fmt.Errorf("%w: invalid utf-8 sequence % x", ErrDecode, buf)
		}
	}
}

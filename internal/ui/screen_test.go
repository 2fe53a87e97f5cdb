package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestScreenEnterLeave(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf)

	if err := s.Enter(); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	out := buf.String()
	for _, seq := range []string{"\x1b[?1049h", "\x1b[?25l", "\x1b[?1000h", "\x1b[?1002h", "\x1b[?1015h", "\x1b[?1006h"} {
		if !strings.Contains(out, seq) {
			t.Errorf("Enter output missing %q", seq)
		}
	}

	// A second Enter is a no-op.
	n := buf.Len()
	if err := s.Enter(); err != nil {
		t.Fatalf("second Enter: %v", err)
	}
	if buf.Len() != n {
		t.Error("second Enter wrote to the terminal")
	}

	buf.Reset()
	if err := s.Leave(); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	out = buf.String()
	for _, seq := range []string{"\x1b[?1006l", "\x1b[?1015l", "\x1b[?1002l", "\x1b[?1000l", "\x1b[?25h", "\x1b[?1049l"} {
		if !strings.Contains(out, seq) {
			t.Errorf("Leave output missing %q", seq)
		}
	}

	// Mouse reporting must be off before the primary screen comes back.
	if strings.Index(out, "\x1b[?1006l") > strings.Index(out, "\x1b[?1049l") {
		t.Error("mouse disabled after leaving the alternate screen")
	}
}

func TestScreenLeaveWithoutEnter(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf)
	if err := s.Leave(); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Leave without Enter wrote %q", buf.String())
	}
}

func TestScreenPaint(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf)

	if err := s.Paint([]string{"one", "two"}); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	want := "\x1b[Hone\x1b[K\r\ntwo\x1b[K\x1b[J"
	if got := buf.String(); got != want {
		t.Errorf("Paint wrote %q, want %q", got, want)
	}
}

func TestScreenPaintEmptyFrame(t *testing.T) {
	var buf bytes.Buffer
	s := NewScreen(&buf)

	if err := s.Paint(nil); err != nil {
		t.Fatalf("Paint: %v", err)
	}
	if got := buf.String(); got != "\x1b[H\x1b[J" {
		t.Errorf("Paint wrote %q", got)
	}
}

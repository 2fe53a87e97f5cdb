// Package term owns the terminal: raw mode, size queries, resize signals
// and a cancelable byte source for the input pipeline.
package term

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"
	"github.com/muesli/cancelreader"
)

// Input reads the terminal one byte at a time. It never reads ahead, so a
// canceled read loses nothing that was already consumed, and it exposes
// Cancel to unblock a pending read from another goroutine.
type Input struct {
	r   cancelreader.CancelReader
	buf [1]byte
}

func NewInput(f *os.File) (*Input, error) {
	r, err := cancelreader.NewReader(f)
	if err != nil {
		return nil, err
	}
	return &Input{r: r}, nil
}

func (i *Input) ReadByte() (byte, error) {
	for {
		n, err := i.r.Read(i.buf[:])
		if n == 1 {
			return i.buf[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}

// Cancel unblocks the pending read, if any. It reports whether the
// cancellation took effect.
func (i *Input) Cancel() bool {
	return i.r.Cancel()
}

func (i *Input) Close() error {
	return i.r.Close()
}

// MakeRaw switches f into raw mode and returns the restore function.
func MakeRaw(f *os.File) (func() error, error) {
	state, err := term.MakeRaw(f.Fd())
	if err != nil {
		return nil, err
	}
	return func() error { return term.Restore(f.Fd(), state) }, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(f.Fd())
}

// Size returns the terminal dimensions in cells.
func Size(f *os.File) (width, height int, err error) {
	return term.GetSize(f.Fd())
}

// NotifyResize delivers SIGWINCH on ch until StopResize is called.
func NotifyResize(ch chan<- os.Signal) {
	signal.Notify(ch, syscall.SIGWINCH)
}

// StopResize undoes NotifyResize.
func StopResize(ch chan<- os.Signal) {
	signal.Stop(ch)
}

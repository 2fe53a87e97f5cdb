//go:build !windows

// Package stderr captures writes to file descriptor 2 while the terminal is
// in raw mode. The player process and the dbus session library occasionally
// write straight to stderr; without the capture those lines would tear the
// screen apart. Captured lines are surfaced on a channel for the status bar.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"
)

// Messages receives captured stderr lines. The UI drains this channel and
// shows the lines in the status bar.
var Messages = make(chan string, 100)

var (
	origStderr int
	pipeRead   *os.File
	pipeWrite  *os.File
	started    bool
)

// Start redirects file descriptor 2 into a pipe. Call it before the
// terminal enters raw mode and before the player process is spawned. On
// failure the program can continue; stderr just stays on the terminal.
func Start() error {
	if started {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	origStderr, err = syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(origStderr)
		r.Close()
		w.Close()
		return err
	}

	pipeRead = r
	pipeWrite = w
	started = true

	go func() {
		scanner := bufio.NewScanner(pipeRead)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case Messages <- line:
			default:
				// Nobody is draining; drop rather than block the writer.
			}
		}
	}()

	return nil
}

// WriteOriginal writes directly to the saved stderr, bypassing the capture.
// Used for fatal errors that must reach the user even mid-capture.
func WriteOriginal(msg string) {
	if origStderr > 0 {
		_, _ = syscall.Write(origStderr, []byte(msg))
	}
}

// Stop restores the original stderr. Call on program exit.
func Stop() {
	if !started {
		return
	}

	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)

	pipeWrite.Close()
	pipeRead.Close()

	close(Messages)
	started = false
}

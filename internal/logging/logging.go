// Package logging configures the file-backed zerolog logger. Nothing may
// write to the terminal while the UI owns it, so log output goes to a file
// under the XDG state directory and the most recent message is mirrored
// into a StatusLine the UI renders for a few ticks.
package logging

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

const (
	appName     = "tremolo"
	logFileName = "tremolo.log"
)

// Setup opens the log file and returns the root logger and a close
// function. Messages at info level and above also land in status.
func Setup(level zerolog.Level, status *StatusLine) (zerolog.Logger, func() error, error) {
	path, err := xdg.StateFile(filepath.Join(appName, logFileName))
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	out := zerolog.ConsoleWriter{Out: f, TimeFormat: time.RFC3339, NoColor: true}
	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if status != nil {
		logger = logger.Hook(status)
	}
	return logger, f.Close, nil
}

// LevelFromEnv reads TREMOLO_LOG_LEVEL, defaulting to info.
func LevelFromEnv() zerolog.Level {
	if s := os.Getenv("TREMOLO_LOG_LEVEL"); s != "" {
		if level, err := zerolog.ParseLevel(s); err == nil {
			return level
		}
	}
	return zerolog.InfoLevel
}

// statusTTL is how many render ticks a message stays on screen.
const statusTTL = 4

// StatusLine holds the most recent log message for the status bar. Every
// Current call ages it one tick; after statusTTL ticks it expires.
type StatusLine struct {
	mu    sync.Mutex
	line  string
	ticks int
}

// Run implements zerolog.Hook. Debug and trace messages stay file-only.
func (s *StatusLine) Run(_ *zerolog.Event, level zerolog.Level, message string) {
	if level < zerolog.InfoLevel || message == "" {
		return
	}
	s.mu.Lock()
	s.line = message
	s.ticks = 0
	s.mu.Unlock()
}

// Current returns the message to display, aging it by one tick.
func (s *StatusLine) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.line == "" {
		return "", false
	}
	s.ticks++
	if s.ticks > statusTTL {
		s.line = ""
		return "", false
	}
	return s.line, true
}

// Package app runs the main loop. It consumes resolved input actions,
// drives the screens and the player, and repaints the terminal after
// every change.
package app

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/lmorel/tremolo/internal/catalog"
	"github.com/lmorel/tremolo/internal/errmsg"
	"github.com/lmorel/tremolo/internal/keymap"
	"github.com/lmorel/tremolo/internal/logging"
	"github.com/lmorel/tremolo/internal/player"
	"github.com/lmorel/tremolo/internal/state"
	"github.com/lmorel/tremolo/internal/term"
	"github.com/lmorel/tremolo/internal/ui"
	"github.com/lmorel/tremolo/internal/view"
)

// Control is the slice of the player the action loop drives.
type Control interface {
	Enqueue(path string)
	Load(path string)
	Stop()
	NextTrack()
	PrevTrack()
	FlipPause()
	Forward()
	Backward()
}

var _ Control = (*player.Player)(nil)

// Options carries the collaborators an App needs. The caller owns their
// lifecycles; Run only borrows them.
type Options struct {
	Log     zerolog.Logger
	Stream  *keymap.Stream
	Catalog *catalog.Catalog
	States  *state.Manager
	Player  Control
	Events  *player.Subscription
	Screen  *ui.Screen
	Status  *logging.StatusLine
	Stderr  <-chan string
	TTY     *os.File
}

// App holds the loop state: the screen model, the last known playback
// facts and the in-flight rescan, if any.
type App struct {
	log    zerolog.Logger
	stream *keymap.Stream
	cat    *catalog.Catalog
	states *state.Manager
	ctrl   Control
	events *player.Subscription
	screen *ui.Screen
	status *logging.StatusLine
	msgs   <-chan string
	tty    *os.File

	views      *view.State
	playback   ui.Playback
	trackCount int

	scanning bool
	scanDone chan *catalog.ScanStats
}

// New assembles an App. It does not touch the terminal.
func New(opts Options) *App {
	return &App{
		log:      opts.Log,
		stream:   opts.Stream,
		cat:      opts.Catalog,
		states:   opts.States,
		ctrl:     opts.Player,
		events:   opts.Events,
		screen:   opts.Screen,
		status:   opts.Status,
		msgs:     opts.Stderr,
		tty:      opts.TTY,
		views:    view.NewState(),
		scanDone: make(chan *catalog.ScanStats, 1),
	}
}

// Run restores the previous session and drives the loop until the user
// quits, the input stream ends or the player process dies.
func (a *App) Run() error {
	resize := make(chan os.Signal, 1)
	term.NotifyResize(resize)
	defer term.StopResize(resize)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	a.restore()
	a.refreshTrackCount()
	a.stream.SetContext(a.views.Context())
	a.paint()

	for {
		select {
		case action, ok := <-a.stream.Actions():
			if !ok {
				return nil
			}
			if quit := a.apply(action); quit {
				return nil
			}
			a.stream.SetContext(a.views.Context())
			a.saveView()
			a.paint()

		case ev := <-a.events.StateChanged:
			a.playback.State = ev.Current
			if ev.Current == player.StateStopped {
				a.playback.Title = ""
				a.playback.Position = 0
				a.playback.Duration = 0
			}
			a.paint()

		case ev := <-a.events.TrackChanged:
			a.playback.Title = ev.Title
			a.views.Playlist.Current = ev.Index
			a.paint()

		case ev := <-a.events.PositionChanged:
			a.playback.Position = ev.Position
			a.playback.Duration = ev.Duration
			a.paint()

		case <-a.events.Done:
			return errors.New("player exited")

		case line, ok := <-a.msgs:
			if !ok {
				a.msgs = nil
				continue
			}
			// Captured stderr surfaces through the status line hook.
			a.log.Info().Str("source", "stderr").Msg(line)
			a.paint()

		case stats := <-a.scanDone:
			a.scanning = false
			if stats != nil {
				a.log.Info().
					Int("added", stats.Added).
					Int("updated", stats.Updated).
					Int("removed", stats.Removed).
					Msg("library refreshed")
			}
			a.refreshTrackCount()
			a.paint()

		case <-resize:
			a.paint()

		case <-ticker.C:
			// Ages the status line even when nothing else happens.
			a.paint()
		}
	}
}

func (a *App) paint() {
	width, height, err := term.Size(a.tty)
	if err != nil {
		a.log.Debug().Err(err).Msg("terminal size unavailable")
		return
	}
	var message string
	if a.status != nil {
		message, _ = a.status.Current()
	}
	frame := ui.Frame(a.views, a.playback, ui.Status{Message: message, Tracks: a.trackCount}, width, height)
	if err := a.screen.Paint(frame); err != nil {
		a.log.Error().Err(err).Msg("paint failed")
	}
}

func (a *App) refreshTrackCount() {
	n, err := a.cat.TrackCount()
	if err != nil {
		a.log.Error().Msg(errmsg.Format(errmsg.OpCatalogSearch, err))
		return
	}
	a.trackCount = n
}

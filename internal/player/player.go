// Package player drives an external mpv process over its JSON IPC socket.
// A single worker goroutine owns the connection: it applies commands and
// folds mpv property changes into a state snapshot that subscribers are
// notified about.
package player

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"

	"github.com/lmorel/tremolo/internal/errmsg"
)

const appName = "tremolo"

type commandKind int

const (
	cmdEnqueue commandKind = iota
	cmdLoad
	cmdStop
	cmdNext
	cmdPrev
	cmdFlipPause
	cmdForward
	cmdBackward
)

func (k commandKind) String() string {
	switch k {
	case cmdEnqueue:
		return "enqueue"
	case cmdLoad:
		return "load"
	case cmdStop:
		return "stop"
	case cmdNext:
		return "next"
	case cmdPrev:
		return "prev"
	case cmdFlipPause:
		return "flip-pause"
	case cmdForward:
		return "forward"
	case cmdBackward:
		return "backward"
	default:
		return "unknown"
	}
}

type command struct {
	kind commandKind
	path string
}

// seekStep is how far Forward and Backward jump.
const seekStep = 5 * time.Second

// Properties observed on startup; mpv reports the initial value of each
// and every later change.
var observedProperties = []string{
	"pause",
	"idle-active",
	"media-title",
	"path",
	"playlist-pos",
	"time-pos",
	"duration",
}

type Player struct {
	log zerolog.Logger

	cmds      chan command
	done      chan struct{}
	closeOnce sync.Once

	proc       *exec.Cmd
	conn       *ipcConn
	socketPath string

	mu       sync.RWMutex
	state    State
	idle     bool
	paused   bool
	title    string
	path     string
	index    int
	position time.Duration
	duration time.Duration

	subsMu sync.Mutex
	subs   []*Subscription
}

func New(log zerolog.Logger) *Player {
	return &Player{
		log:   log,
		cmds:  make(chan command, 64),
		done:  make(chan struct{}),
		state: StateStopped,
		idle:  true,
		index: -1,
	}
}

// Start launches mpv, connects to its IPC socket and begins processing
// commands and events.
func (p *Player) Start() error {
	socket, err := socketPath()
	if err != nil {
		return err
	}
	p.socketPath = socket

	proc := exec.Command("mpv",
		"--idle=yes",
		"--no-video",
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server="+socket,
	)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("starting mpv: %w", err)
	}
	p.proc = proc

	conn, err := dialSocket(socket, 5*time.Second)
	if err != nil {
		_ = proc.Process.Kill()
		_ = proc.Wait()
		return err
	}
	p.conn = newIPCConn(conn)

	for i, name := range observedProperties {
		if err := p.conn.ObserveProperty(int64(i+1), name); err != nil {
			p.Close()
			return fmt.Errorf("observing %s: %w", name, err)
		}
	}

	go p.worker()
	return nil
}

// Close tears down the worker and the mpv process. Safe to call twice.
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		if p.conn != nil {
			_ = p.conn.Close()
		}
		if p.proc != nil {
			// mpv quits cleanly on SIGINT; force it if that stalls
			_ = p.proc.Process.Signal(os.Interrupt)
			waited := make(chan struct{})
			go func() {
				_ = p.proc.Wait()
				close(waited)
			}()
			select {
			case <-waited:
			case <-time.After(2 * time.Second):
				_ = p.proc.Process.Kill()
				<-waited
			}
		}
		if p.socketPath != "" {
			_ = os.Remove(p.socketPath)
		}

		p.subsMu.Lock()
		for _, sub := range p.subs {
			sub.close()
		}
		p.subs = nil
		p.subsMu.Unlock()
	})
	return nil
}

// Subscribe creates a new event subscription.
func (p *Player) Subscribe() *Subscription {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	sub := newSubscription()
	p.subs = append(p.subs, sub)
	return sub
}

// Enqueue appends a file to the mpv playlist and starts playback if
// nothing is playing.
func (p *Player) Enqueue(path string) { p.send(command{kind: cmdEnqueue, path: path}) }

// Load appends a file to the mpv playlist without starting playback.
// Used to restore a saved playlist on startup.
func (p *Player) Load(path string) { p.send(command{kind: cmdLoad, path: path}) }

// Stop ends playback and clears the mpv playlist.
func (p *Player) Stop() { p.send(command{kind: cmdStop}) }

// NextTrack skips to the next playlist entry.
func (p *Player) NextTrack() { p.send(command{kind: cmdNext}) }

// PrevTrack returns to the previous playlist entry.
func (p *Player) PrevTrack() { p.send(command{kind: cmdPrev}) }

// FlipPause toggles between playing and paused.
func (p *Player) FlipPause() { p.send(command{kind: cmdFlipPause}) }

// Forward seeks five seconds ahead.
func (p *Player) Forward() { p.send(command{kind: cmdForward}) }

// Backward seeks five seconds back.
func (p *Player) Backward() { p.send(command{kind: cmdBackward}) }

func (p *Player) send(cmd command) {
	select {
	case p.cmds <- cmd:
	case <-p.done:
	default:
		p.log.Warn().Str("command", cmd.kind.String()).Msg("player busy, dropping command")
	}
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Current returns what mpv is playing. ok is false when stopped.
func (p *Player) Current() (TrackInfo, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.idle || p.index < 0 {
		return TrackInfo{}, false
	}
	return TrackInfo{
		Index:    p.index,
		Title:    p.title,
		Path:     p.path,
		Duration: p.duration,
	}, true
}

// Position returns the playback position within the current track.
func (p *Player) Position() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.position
}

func (p *Player) worker() {
	for {
		select {
		case <-p.done:
			return
		case ev, ok := <-p.conn.events:
			if !ok {
				select {
				case <-p.done:
				default:
					p.log.Warn().Msg("mpv connection lost")
				}
				return
			}
			p.handleEvent(ev)
		case cmd := <-p.cmds:
			p.handleCommand(cmd)
		}
	}
}

func (p *Player) handleCommand(cmd command) {
	var err error
	switch cmd.kind {
	case cmdEnqueue:
		_, err = p.conn.Command("loadfile", cmd.path, "append-play")
	case cmdLoad:
		_, err = p.conn.Command("loadfile", cmd.path, "append")
	case cmdStop:
		_, err = p.conn.Command("stop")
	case cmdNext:
		_, err = p.conn.Command("playlist-next")
	case cmdPrev:
		_, err = p.conn.Command("playlist-prev")
	case cmdFlipPause:
		p.mu.RLock()
		paused := p.paused
		p.mu.RUnlock()
		err = p.conn.SetProperty("pause", !paused)
	case cmdForward:
		err = p.seekBy(seekStep)
	case cmdBackward:
		err = p.seekBy(-seekStep)
	}
	if err != nil {
		p.log.Error().Str("command", cmd.kind.String()).Msg(errmsg.Format(errmsg.OpPlayerCommand, err))
	}
}

// seekBy reads the playback position and writes it back shifted, which
// also works while paused.
func (p *Player) seekBy(delta time.Duration) error {
	raw, err := p.conn.GetProperty("time-pos")
	if err != nil {
		return err
	}
	var pos float64
	if err := json.Unmarshal(raw, &pos); err != nil {
		return err
	}
	return p.conn.SetProperty("time-pos", pos+delta.Seconds())
}

func (p *Player) handleEvent(ev mpvEvent) {
	switch ev.Kind {
	case "property-change":
		p.handleProperty(ev.Name, ev.Data)
	case "shutdown":
		p.log.Warn().Msg("mpv is shutting down")
	case "file-loaded":
		p.log.Debug().Msg("mpv loaded a file")
	}
}

func (p *Player) handleProperty(name string, data json.RawMessage) {
	// Properties report no data while unavailable, e.g. time-pos when idle
	if len(data) == 0 || string(data) == "null" {
		return
	}
	switch name {
	case "pause":
		var paused bool
		if json.Unmarshal(data, &paused) == nil {
			p.mu.Lock()
			p.paused = paused
			p.mu.Unlock()
			p.updateState()
		}
	case "idle-active":
		var idle bool
		if json.Unmarshal(data, &idle) == nil {
			p.mu.Lock()
			p.idle = idle
			if idle {
				p.title = ""
				p.path = ""
				p.index = -1
				p.position = 0
				p.duration = 0
			}
			p.mu.Unlock()
			p.updateState()
			if idle {
				p.publishTrack()
			}
		}
	case "media-title":
		var title string
		if json.Unmarshal(data, &title) == nil {
			p.mu.Lock()
			changed := p.title != title
			p.title = title
			p.mu.Unlock()
			if changed {
				p.publishTrack()
			}
		}
	case "path":
		var path string
		if json.Unmarshal(data, &path) == nil {
			p.mu.Lock()
			p.path = path
			p.mu.Unlock()
		}
	case "playlist-pos":
		var pos float64
		if json.Unmarshal(data, &pos) == nil {
			p.mu.Lock()
			changed := p.index != int(pos)
			p.index = int(pos)
			p.mu.Unlock()
			if changed {
				p.publishTrack()
			}
		}
	case "time-pos":
		var pos float64
		if json.Unmarshal(data, &pos) == nil {
			p.mu.Lock()
			p.position = time.Duration(pos * float64(time.Second))
			e := PositionChange{Position: p.position, Duration: p.duration}
			p.mu.Unlock()
			p.publishPosition(e)
		}
	case "duration":
		var dur float64
		if json.Unmarshal(data, &dur) == nil {
			p.mu.Lock()
			p.duration = time.Duration(dur * float64(time.Second))
			p.mu.Unlock()
		}
	}
}

func (p *Player) updateState() {
	p.mu.Lock()
	var next State
	switch {
	case p.idle:
		next = StateStopped
	case p.paused:
		next = StatePaused
	default:
		next = StatePlaying
	}
	prev := p.state
	p.state = next
	p.mu.Unlock()

	if prev != next {
		p.publishState(StateChange{Previous: prev, Current: next})
	}
}

func (p *Player) publishState(e StateChange) {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for _, sub := range p.subs {
		sub.sendState(e)
	}
}

func (p *Player) publishTrack() {
	p.mu.RLock()
	e := TrackChange{Index: p.index, Title: p.title, Path: p.path}
	p.mu.RUnlock()

	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for _, sub := range p.subs {
		sub.sendTrack(e)
	}
}

func (p *Player) publishPosition(e PositionChange) {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	for _, sub := range p.subs {
		sub.sendPosition(e)
	}
}

func socketPath() (string, error) {
	dir := filepath.Join(xdg.RuntimeDir, appName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("mpv-%d.sock", os.Getpid())), nil
}

// dialSocket polls the socket until mpv has created it.
func dialSocket(path string, timeout time.Duration) (net.Conn, error) {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.Dial("unix", path)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("mpv socket %s: %w", path, err)
		}
		time.Sleep(50 * time.Millisecond)
	}
}

//go:build linux

// Package mpris exposes the player on the session bus so desktop media
// keys and applets can drive it.
package mpris

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/lmorel/tremolo/internal/player"
)

// Adapter connects the player facade to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(p *player.Player) (*Adapter, error) {
	a := &Adapter{}
	a.server = server.NewServer("tremolo", &rootAdapter{}, &playerAdapter{player: p})

	// Serve in background; failures only cost media-key support
	go func() {
		_ = a.server.Listen()
	}()

	return a, nil
}

// Close releases the D-Bus name.
func (a *Adapter) Close() error {
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error { return nil }

func (r *rootAdapter) Quit() error { return nil }

func (r *rootAdapter) CanQuit() (bool, error) { return false, nil }

func (r *rootAdapter) CanRaise() (bool, error) { return false, nil }

func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }

func (r *rootAdapter) Identity() (string, error) { return "Tremolo", nil }

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/mp4"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter.
type playerAdapter struct {
	player *player.Player
}

func (p *playerAdapter) Next() error {
	p.player.NextTrack()
	return nil
}

func (p *playerAdapter) Previous() error {
	p.player.PrevTrack()
	return nil
}

func (p *playerAdapter) Pause() error {
	if p.player.State() == player.StatePlaying {
		p.player.FlipPause()
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.player.FlipPause()
	return nil
}

func (p *playerAdapter) Stop() error {
	p.player.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	if p.player.State() == player.StatePaused {
		p.player.FlipPause()
	}
	return nil
}

// Seeking is not part of the player command set; media keys only need
// transport control.
func (p *playerAdapter) Seek(_ types.Microseconds) error { return nil }

func (p *playerAdapter) SetPosition(_ string, _ types.Microseconds) error { return nil }

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error { return nil }

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.player.State() {
	case player.StatePlaying:
		return types.PlaybackStatusPlaying, nil
	case player.StatePaused:
		return types.PlaybackStatusPaused, nil
	default:
		return types.PlaybackStatusStopped, nil
	}
}

func (p *playerAdapter) Rate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) SetRate(_ float64) error { return nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	info, ok := p.player.Current()
	if !ok {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(info.Path)),
		Length:  types.Microseconds(info.Duration.Microseconds()),
		Title:   info.Title,
	}
	if artPath := findAlbumArt(info.Path); artPath != "" {
		meta.ArtUrl = "file://" + artPath
	}
	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) { return 1.0, nil }

func (p *playerAdapter) SetVolume(_ float64) error { return nil }

func (p *playerAdapter) Position() (int64, error) {
	return p.player.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) CanGoNext() (bool, error) {
	return p.player.State().IsActive(), nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return p.player.State().IsActive(), nil
}

func (p *playerAdapter) CanPlay() (bool, error) { return true, nil }

func (p *playerAdapter) CanPause() (bool, error) { return true, nil }

func (p *playerAdapter) CanSeek() (bool, error) { return false, nil }

func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}

// findAlbumArt looks for an art file next to the track.
func findAlbumArt(trackPath string) string {
	dir := filepath.Dir(trackPath)
	for _, base := range []string{"cover", "folder", "front"} {
		for _, ext := range []string{".jpg", ".jpeg", ".png"} {
			path := filepath.Join(dir, base+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

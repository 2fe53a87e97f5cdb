//go:build !linux

package mpris

import "github.com/lmorel/tremolo/internal/player"

// Adapter is a no-op off Linux; there is no session bus to talk to.
type Adapter struct{}

func New(_ *player.Player) (*Adapter, error) {
	return &Adapter{}, nil
}

func (a *Adapter) Close() error {
	return nil
}

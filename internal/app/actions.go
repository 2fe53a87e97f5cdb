package app

import (
	"github.com/lmorel/tremolo/internal/catalog"
	"github.com/lmorel/tremolo/internal/errmsg"
	"github.com/lmorel/tremolo/internal/keymap"
	"github.com/lmorel/tremolo/internal/ui"
	"github.com/lmorel/tremolo/internal/view"
)

// apply reacts to one resolved action and reports whether the loop
// should exit.
func (a *App) apply(act keymap.Action) bool {
	switch act.Kind {
	case keymap.ActionQuit:
		return true
	case keymap.ActionPointerUp:
		a.views.CursorUp()
	case keymap.ActionPointerDown:
		a.views.CursorDown()
	case keymap.ActionNextTrack:
		a.ctrl.NextTrack()
	case keymap.ActionPrevTrack:
		a.ctrl.PrevTrack()
	case keymap.ActionFlipPause:
		a.ctrl.FlipPause()
	case keymap.ActionStop:
		a.stop()
	case keymap.ActionForward5:
		a.ctrl.Forward()
	case keymap.ActionBackward5:
		a.ctrl.Backward()
	case keymap.ActionRefresh:
		a.refreshLibrary()
	case keymap.ActionAddAll:
		a.addAll()
	case keymap.ActionShowPlaylist:
		a.showPlaylist()
	case keymap.ActionSwitchToAlbums:
		a.views.SetMode(view.AlbumSearch)
	case keymap.ActionSwitchToTracks:
		a.showTracks()
	case keymap.ActionSwitchToArtists:
		a.views.SetMode(view.ArtistSearch)
	case keymap.ActionEnter:
		a.enter()
	case keymap.ActionSwitchView:
		a.switchView()
	case keymap.ActionBackspace:
		a.backspace()
	case keymap.ActionChar:
		a.views.InsertRune(act.Ch)
	}
	return false
}

// enter is the per-screen confirm. A search screen with a pending query
// runs the search; with an empty query it descends into the selection.
// The track list enqueues the selected track.
func (a *App) enter() {
	switch a.views.Mode() {
	case view.ArtistSearch:
		if a.views.Artists.Query != "" {
			a.searchArtists()
			return
		}
		artist, ok := a.views.Artists.Selected()
		if !ok {
			return
		}
		albums, err := a.cat.ArtistAlbums(artist.Name)
		if err != nil {
			a.log.Error().Msg(errmsg.Format(errmsg.OpCatalogSearch, err))
			return
		}
		a.views.Albums.SetItems(albums)
		a.views.Descend(view.AlbumSearch)

	case view.AlbumSearch:
		if a.views.Albums.Query != "" {
			a.searchAlbums()
			return
		}
		album, ok := a.views.Albums.Selected()
		if !ok {
			return
		}
		tracks, err := a.cat.AlbumTracks(album.Artist, album.Title)
		if err != nil {
			a.log.Error().Msg(errmsg.Format(errmsg.OpCatalogSearch, err))
			return
		}
		a.views.Tracks.SetItems(tracks)
		a.views.Descend(view.TrackList)

	case view.TrackList:
		if track, ok := a.views.Tracks.Selected(); ok {
			a.appendPlaylist(track)
		}
	}
}

// searchArtists runs the typed artist query and clears it, so the next
// Enter descends into the results.
func (a *App) searchArtists() {
	artists, err := a.cat.Artists(a.views.Artists.Query)
	if err != nil {
		a.log.Error().Msg(errmsg.Format(errmsg.OpCatalogSearch, err))
		return
	}
	a.views.Artists.Query = ""
	a.views.Artists.SetItems(artists)
}

func (a *App) searchAlbums() {
	albums, err := a.cat.Albums(a.views.Albums.Query)
	if err != nil {
		a.log.Error().Msg(errmsg.Format(errmsg.OpCatalogSearch, err))
		return
	}
	a.views.Albums.Query = ""
	a.views.Albums.SetItems(albums)
}

// backspace deletes from the active query first; with nothing left to
// delete it returns to the screen Enter descended from.
func (a *App) backspace() {
	if a.views.DeleteRune() {
		return
	}
	a.views.Back()
}

// appendPlaylist hands tracks to the player and mirrors them in the
// playlist pane. Both sides only ever append, so indices stay aligned.
func (a *App) appendPlaylist(tracks ...catalog.Track) {
	if len(tracks) == 0 {
		return
	}
	for _, t := range tracks {
		a.ctrl.Enqueue(t.Path)
	}
	cursor := a.views.Playlist.Cursor()
	a.views.Playlist.SetItems(append(a.views.Playlist.Items(), tracks...))
	a.views.Playlist.SetCursor(cursor)
	a.savePlaylist()
}

// addAll queues the whole visible track list. Only meaningful on the
// track screen; elsewhere it is ignored.
func (a *App) addAll() {
	if a.views.Mode() != view.TrackList {
		return
	}
	a.appendPlaylist(a.views.Tracks.Items()...)
}

// stop halts playback and clears the playlist. mpv drops its playlist on
// stop, so the pane follows.
func (a *App) stop() {
	a.ctrl.Stop()
	a.views.Playlist.SetItems(nil)
	a.views.Playlist.Current = -1
	a.playback = ui.Playback{}
	a.savePlaylist()
}

func (a *App) showPlaylist() {
	if a.views.Mode() == view.Playlist {
		return
	}
	a.views.Descend(view.Playlist)
}

// showTracks switches to the track screen, filling it with the whole
// catalog when nothing was searched yet.
func (a *App) showTracks() {
	a.views.SetMode(view.TrackList)
	a.populateTracks()
}

func (a *App) populateTracks() {
	if a.views.Tracks.Len() > 0 {
		return
	}
	tracks, err := a.cat.SearchTracks("")
	if err != nil {
		a.log.Error().Msg(errmsg.Format(errmsg.OpCatalogSearch, err))
		return
	}
	a.views.Tracks.SetItems(tracks)
}

func (a *App) switchView() {
	a.views.SwitchView()
	if a.views.Mode() == view.TrackList {
		a.populateTracks()
	}
}

// refreshLibrary rescans the music sources in the background. A second
// refresh while one is running is ignored.
func (a *App) refreshLibrary() {
	if a.scanning {
		return
	}
	sources, err := a.cat.Sources()
	if err != nil {
		a.log.Error().Msg(errmsg.Format(errmsg.OpCatalogRefresh, err))
		return
	}
	if len(sources) == 0 {
		a.log.Warn().Msg("no music sources configured, run tremolo import first")
		return
	}
	a.scanning = true
	a.log.Info().Msg("refreshing library...")
	go func() {
		progress := make(chan catalog.ScanProgress, 64)
		errCh := make(chan error, 1)
		go func() { errCh <- a.cat.Scan(sources, progress) }()
		var stats *catalog.ScanStats
		for p := range progress {
			if p.Stats != nil {
				stats = p.Stats
			}
		}
		if err := <-errCh; err != nil {
			a.log.Error().Msg(errmsg.Format(errmsg.OpCatalogScan, err))
		}
		a.scanDone <- stats
	}()
}

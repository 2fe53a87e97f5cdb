package app

import (
	"github.com/lmorel/tremolo/internal/errmsg"
	"github.com/lmorel/tremolo/internal/state"
	"github.com/lmorel/tremolo/internal/view"
)

// restore brings back the last session: the playlist first, then the
// active screen with its query and cursor. The playlist is reloaded into
// the player without starting playback.
func (a *App) restore() {
	a.restorePlaylist()

	vs, err := a.states.GetView()
	if err != nil {
		a.log.Warn().Msg(errmsg.Format(errmsg.OpStateLoad, err))
		return
	}
	if vs != nil {
		a.restoreView(vs)
	}
}

func (a *App) restorePlaylist() {
	ids, err := a.states.GetPlaylist()
	if err != nil {
		a.log.Warn().Msg(errmsg.Format(errmsg.OpStateLoad, err))
		return
	}
	if len(ids) == 0 {
		return
	}
	tracks, err := a.cat.TracksByID(ids)
	if err != nil {
		a.log.Warn().Msg(errmsg.Format(errmsg.OpStateLoad, err))
		return
	}
	for _, t := range tracks {
		a.ctrl.Load(t.Path)
	}
	a.views.Playlist.SetItems(tracks)
	if len(tracks) != len(ids) {
		// Some saved tracks left the catalog; persist the trimmed list.
		a.savePlaylist()
	}
}

// restoreView reapplies a saved screen state. Search panes start empty,
// so the cursor only sticks where the pane has content again.
func (a *App) restoreView(vs *state.ViewState) {
	mode := view.Mode(vs.View)
	if !mode.Valid() {
		return
	}
	a.views.SetMode(mode)
	switch mode {
	case view.ArtistSearch:
		a.views.Artists.Query = vs.SearchQuery
		a.views.Artists.SetCursor(vs.Cursor)
	case view.AlbumSearch:
		a.views.Albums.Query = vs.SearchQuery
		a.views.Albums.SetCursor(vs.Cursor)
	case view.TrackList:
		a.populateTracks()
		a.views.Tracks.SetCursor(vs.Cursor)
	case view.Playlist:
		a.views.Playlist.SetCursor(vs.Cursor)
	}
}

// saveView schedules a persist of the current screen position.
func (a *App) saveView() {
	a.states.SaveView(state.ViewState{
		View:        string(a.views.Mode()),
		SearchQuery: a.views.Query(),
		Cursor:      a.views.Cursor(),
	})
}

// savePlaylist schedules a persist of the playlist track IDs.
func (a *App) savePlaylist() {
	items := a.views.Playlist.Items()
	ids := make([]int64, 0, len(items))
	for _, t := range items {
		ids = append(ids, t.ID)
	}
	a.states.SavePlaylist(ids)
}

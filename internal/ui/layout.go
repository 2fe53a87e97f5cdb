package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/lmorel/tremolo/internal/catalog"
	"github.com/lmorel/tremolo/internal/player"
	"github.com/lmorel/tremolo/internal/ui/render"
	"github.com/lmorel/tremolo/internal/ui/styles"
	"github.com/lmorel/tremolo/internal/view"
)

// Playback is the player snapshot a frame renders from.
type Playback struct {
	State    player.State
	Title    string
	Position time.Duration
	Duration time.Duration
}

// Status feeds the bottom bar.
type Status struct {
	Message string // transient log or stderr line
	Tracks  int    // catalog size, shown when nothing else is
}

const (
	headerHeight = 5 // bordered search box, borders included

	minWidth  = 20
	minHeight = 12

	brandName = "tremolo"
)

// Frame renders one complete screen as exactly height lines. The layout
// keeps a one-cell margin on every side: a five-row search header, the
// list pane below it and a one-row status bar at the bottom. Screens
// without a query leave the header rows blank.
func Frame(st *view.State, pb Playback, status Status, width, height int) []string {
	if width < minWidth || height < minHeight {
		lines := []string{render.TruncateAndPad("terminal too small", max(width, 0))}
		for len(lines) < height {
			lines = append(lines, render.EmptyLine(width))
		}
		return lines
	}

	inner := width - 2
	listRows := height - headerHeight - 3

	lines := make([]string, 0, height)
	lines = append(lines, render.EmptyLine(width))
	lines = append(lines, headerLines(st, inner)...)
	lines = append(lines, listLines(st, inner, listRows)...)
	lines = append(lines, statusLine(pb, status, inner))
	lines = append(lines, render.EmptyLine(width))
	return lines
}

func margined(content string) string {
	return " " + content + " "
}

func headerLines(st *view.State, inner int) []string {
	mode := st.Mode()
	if mode != view.ArtistSearch && mode != view.AlbumSearch {
		blank := make([]string, headerHeight)
		for i := range blank {
			blank[i] = margined(render.EmptyLine(inner))
		}
		return blank
	}

	s := styles.T().S()
	title := render.Truncate(searchTitle(mode), inner-2)
	return []string{
		margined(render.BoxTop(s.Title.Render(title), inner)),
		margined(render.BoxRow(s.Input.Render(render.Center(st.Query(), inner-2)), inner)),
		margined(render.BoxRow(render.EmptyLine(inner-2), inner)),
		margined(render.BoxRow(render.EmptyLine(inner-2), inner)),
		margined(render.BoxBottom(inner)),
	}
}

func searchTitle(m view.Mode) string {
	if m == view.ArtistSearch {
		return "Artist Search String"
	}
	return "Album Search String"
}

func listTitle(m view.Mode) string {
	switch m {
	case view.ArtistSearch:
		return "Artists"
	case view.AlbumSearch:
		return "Albums"
	case view.TrackList:
		return "Found Tracks"
	case view.Playlist:
		return "Playlist"
	}
	return ""
}

func listLines(st *view.State, inner, rows int) []string {
	itemRows := rows - 2
	texts, cursor, playing := itemTexts(st)
	skip := windowSkip(cursor, itemRows)
	s := styles.T().S()

	lines := make([]string, 0, rows)
	lines = append(lines, margined(render.BoxTop(listTitle(st.Mode()), inner)))
	for i := 0; i < itemRows; i++ {
		idx := skip + i
		var row string
		switch {
		case idx >= len(texts):
			row = render.EmptyLine(inner - 2)
		case idx == cursor:
			row = s.Cursor.Render(render.TruncateAndPad(texts[idx], inner-2))
		case idx == playing:
			row = s.Playing.Render(render.TruncateAndPad(texts[idx], inner-2))
		default:
			row = render.TruncateAndPad(texts[idx], inner-2)
		}
		lines = append(lines, margined(render.BoxRow(row, inner)))
	}
	lines = append(lines, margined(render.BoxBottom(inner)))
	return lines
}

// windowSkip returns how many leading items to drop so the cursor row sits
// near the middle of a window of the given height.
func windowSkip(cursor, height int) int {
	skip := cursor - height/2
	if skip < 0 {
		return 0
	}
	return skip
}

func itemTexts(st *view.State) (texts []string, cursor, playing int) {
	playing = -1
	switch st.Mode() {
	case view.ArtistSearch:
		for _, a := range st.Artists.Items() {
			texts = append(texts, a.Name)
		}
		cursor = st.Artists.Cursor()
	case view.AlbumSearch:
		for _, a := range st.Albums.Items() {
			texts = append(texts, formatAlbum(a))
		}
		cursor = st.Albums.Cursor()
	case view.TrackList:
		for _, tr := range st.Tracks.Items() {
			texts = append(texts, formatTrack(tr))
		}
		cursor = st.Tracks.Cursor()
	case view.Playlist:
		for i, tr := range st.Playlist.Items() {
			text := formatTrack(tr)
			if i == st.Playlist.Current {
				text = "▶ " + text
			}
			texts = append(texts, text)
		}
		cursor = st.Playlist.Cursor()
		playing = st.Playlist.Current
	}
	return texts, cursor, playing
}

func formatAlbum(a catalog.Album) string {
	if a.Year > 0 {
		return fmt.Sprintf("%s: %s (year: %d)", a.Artist, a.Title, a.Year)
	}
	return fmt.Sprintf("%s: %s", a.Artist, a.Title)
}

func formatTrack(t catalog.Track) string {
	return fmt.Sprintf("%s (%s)", t.Title, t.Artist)
}

func statusLine(pb Playback, status Status, inner int) string {
	t := styles.T()
	s := t.S()

	left := status.Message
	if left == "" {
		left = playbackSummary(pb)
	}
	if left == "" && status.Tracks > 0 {
		left = fmt.Sprintf("%s tracks", humanize.Comma(int64(status.Tracks)))
	}

	leftWidth := inner - runewidth.StringWidth(brandName) - 1
	leftText := render.TruncateAndPad(left, leftWidth)
	return margined(s.Muted.Render(leftText) + " " + t.Brand(brandName))
}

func playbackSummary(pb Playback) string {
	if !pb.State.IsActive() {
		return ""
	}
	icon := "▶"
	if pb.State == player.StatePaused {
		icon = "⏸"
	}
	return fmt.Sprintf("%s %s  %s / %s",
		icon, pb.Title, formatDuration(pb.Position), formatDuration(pb.Duration))
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

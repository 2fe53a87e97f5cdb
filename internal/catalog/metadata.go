package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

var musicExts = map[string]bool{
	".mp3":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
	".opus": true,
}

// IsMusicFile reports whether path has a supported music file extension.
func IsMusicFile(path string) bool {
	return musicExts[strings.ToLower(filepath.Ext(path))]
}

type trackTags struct {
	artist      string
	albumArtist string
	album       string
	title       string
	trackNumber int
	year        int
}

func readTags(path string) (*trackTags, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	title := m.Title()
	if title == "" {
		title = filepath.Base(path)
	}

	trackNum, _ := m.Track()

	albumArtist := m.AlbumArtist()
	if albumArtist == "" {
		albumArtist = m.Artist()
	}

	return &trackTags{
		artist:      m.Artist(),
		albumArtist: albumArtist,
		album:       m.Album(),
		title:       title,
		trackNumber: trackNum,
		year:        m.Year(),
	}, nil
}

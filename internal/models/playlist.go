package models

import (
	"fmt"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/guhcampos/guhcampos/internal/shared"
)

// Playlist represents a Spotify playlist with the tracks fetched for it.
//
// Tracks starts empty and is filled by a second fetch.
type Playlist struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Tracks      []Track `json:"tracks"`
	URL         string  `json:"url"`
	Description string  `json:"description"`
	Owner       string  `json:"owner"`

	// TrackCount is the total reported by the playlist listing, before tracks are fetched.
	TrackCount int `json:"-"`
}

// NewPlaylist builds a validated playlist with an empty track list.
func NewPlaylist(id, name, description, owner, url string) (Playlist, error) {
	p := Playlist{
		ID:          id,
		Name:        name,
		Tracks:      []Track{},
		URL:         url,
		Description: description,
		Owner:       owner,
	}
	if err := p.Validate(); err != nil {
		return Playlist{}, fmt.Errorf("%w: playlist %q: %v", shared.ErrInvalidRecord, name, err)
	}
	return p, nil
}

// Slug derives the output file name from the playlist name.
func (p Playlist) Slug() string {
	return shared.Slugify(p.Name)
}

// Validate checks the playlist identity and URL.
func (p Playlist) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ID, validation.Required),
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.URL, absoluteURL...),
	)
}

// Track represents one song of a playlist.
type Track struct {
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	DurationMS int      `json:"duration_ms"`
	URL        string   `json:"url"`
}

// NewTrack builds a validated track. Artists keep their source order.
func NewTrack(name string, artists []string, album string, durationMS int, url string) (Track, error) {
	if artists == nil {
		artists = []string{}
	}
	t := Track{Name: name, Artists: artists, Album: album, DurationMS: durationMS, URL: url}
	if err := t.Validate(); err != nil {
		return Track{}, fmt.Errorf("%w: track %q: %v", shared.ErrInvalidRecord, name, err)
	}
	return t, nil
}

// DurationSeconds is the duration truncated to whole seconds.
func (t Track) DurationSeconds() int {
	return t.DurationMS / 1000
}

// FirstArtist returns the leading artist, or "" for tracks without artists.
func (t Track) FirstArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// Validate checks the duration and URL.
func (t Track) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.DurationMS, validation.Min(0)),
		validation.Field(&t.URL, absoluteURL...),
	)
}

// SortTracks orders tracks by first artist, then by name.
//
// It is two stable passes, name first and artist second, so the artist
// pass decides the order and equal artists keep their name order.
func SortTracks(tracks []Track) {
	slices.SortStableFunc(tracks, func(a, b Track) int {
		return strings.Compare(a.Name, b.Name)
	})
	slices.SortStableFunc(tracks, func(a, b Track) int {
		return strings.Compare(a.FirstArtist(), b.FirstArtist())
	})
}

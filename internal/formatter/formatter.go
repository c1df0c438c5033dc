// package formatter renders pipeline records into the files the site consumes (M3U, JSON, Hugo posts)
package formatter

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/guhcampos/guhcampos/internal/models"
	"github.com/guhcampos/guhcampos/internal/shared"
	"gopkg.in/yaml.v3"
)

// ToM3U renders a playlist in extended M3U format.
//
// The header carries the playlist metadata as comments, then each track contributes
// an "#EXTINF:<seconds>,<artists> - <album> - <name>" line followed by its URL.
func ToM3U(p models.Playlist) []byte {
	lines := []string{
		"#EXTM3U",
		fmt.Sprintf("# %s", p.Name),
		fmt.Sprintf("# Description:%s", p.Description),
		fmt.Sprintf("# Created by: %s", p.Owner),
		fmt.Sprintf("# Tracks: %d", len(p.Tracks)),
		fmt.Sprintf("# Spotify URL: %s", p.URL),
	}

	for _, track := range p.Tracks {
		lines = append(lines, ExtInf(track), track.URL)
	}

	return []byte(strings.Join(lines, "\n"))
}

// ExtInf returns the #EXTINF line of a track.
func ExtInf(t models.Track) string {
	return fmt.Sprintf("#EXTINF:%d,%s - %s - %s", t.DurationSeconds(), strings.Join(t.Artists, ", "), t.Album, t.Name)
}

// ToJSON renders a playlist, tracks included, as compact JSON.
func ToJSON(p models.Playlist) ([]byte, error) {
	if p.Tracks == nil {
		p.Tracks = []models.Track{}
	}
	data, err := shared.MarshalJSON(p, false)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal playlist %q: %w", p.Name, err)
	}
	return data, nil
}

// PlaylistFiles contains the paths written by [WritePlaylistFiles].
type PlaylistFiles struct {
	M3U  string
	JSON string
}

// WritePlaylistFiles writes <slug>.m3u and <slug>.json into dir, replacing existing files.
func WritePlaylistFiles(p models.Playlist, dir string) (*PlaylistFiles, error) {
	files := &PlaylistFiles{
		M3U:  filepath.Join(dir, p.Slug()+".m3u"),
		JSON: filepath.Join(dir, p.Slug()+".json"),
	}

	if err := shared.WriteFile(files.M3U, ToM3U(p)); err != nil {
		return nil, err
	}

	data, err := ToJSON(p)
	if err != nil {
		return nil, err
	}
	if err := shared.WriteFile(files.JSON, data); err != nil {
		return nil, err
	}

	return files, nil
}

// ToHugoPost renders a note as a Hugo post: a date/title/tags front matter block followed by the raw body.
//
// The front matter is rebuilt from the parsed note, so it never matches the source header byte for byte.
func ToHugoPost(n models.Note) ([]byte, error) {
	title, err := yamlScalar(n.Title)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	fmt.Fprintf(&buf, "date: %s\n", n.PublishDate)
	fmt.Fprintf(&buf, "title: %s\n", title)
	if len(n.Tags) == 0 {
		buf.WriteString("tags: []\n")
	} else {
		tagList, err := yaml.Marshal(n.Tags)
		if err != nil {
			return nil, fmt.Errorf("failed to render tags: %w", err)
		}
		fmt.Fprintf(&buf, "tags: \n%s", tagList)
	}
	buf.WriteString("---\n")
	buf.WriteString(n.Content)

	return buf.Bytes(), nil
}

// yamlScalar quotes s only when YAML needs it, e.g. "Go: tips".
func yamlScalar(s string) (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to render %q: %w", s, err)
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

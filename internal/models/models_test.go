package models

import (
	"errors"
	"testing"
	"time"

	"github.com/guhcampos/guhcampos/internal/shared"
	"gopkg.in/yaml.v3"
)

func TestTagSet(t *testing.T) {
	tc := []struct {
		name string
		tags []string
		want []string
	}{
		{
			name: "hierarchical tags share parents",
			tags: []string{"work/project/a", "work/project/b"},
			want: []string{"a", "b", "project", "work"},
		},
		{
			name: "flat tags",
			tags: []string{"go", "music"},
			want: []string{"go", "music"},
		},
		{
			name: "duplicates and empty segments collapse",
			tags: []string{"a//b", "b/a", "a"},
			want: []string{"a", "b"},
		},
		{
			name: "no tags",
			tags: []string{},
			want: []string{},
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := TagSet(tt.tags)
			if len(got) != len(tt.want) {
				t.Fatalf("TagSet(%v) = %v, want %v", tt.tags, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("TagSet(%v) = %v, want %v", tt.tags, got, tt.want)
				}
			}
		})
	}
}

func TestDate(t *testing.T) {
	t.Run("ParseDate", func(t *testing.T) {
		tc := []struct {
			input   string
			want    string
			wantErr bool
		}{
			{input: "2024-03-05", want: "2024-03-05"},
			{input: "2024-03-05T22:10:00Z", want: "2024-03-05"},
			{input: "05/03/2024", wantErr: true},
			{input: "", wantErr: true},
		}

		for _, tt := range tc {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				continue
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		}
	})

	t.Run("YAML round trip", func(t *testing.T) {
		var v struct {
			Date Date `yaml:"date"`
		}
		if err := yaml.Unmarshal([]byte("date: 2023-12-31\n"), &v); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if v.Date.String() != "2023-12-31" {
			t.Errorf("expected 2023-12-31, got %s", v.Date)
		}

		out, err := yaml.Marshal(v)
		if err != nil {
			t.Fatalf("failed to encode: %v", err)
		}
		if string(out) != "date: \"2023-12-31\"\n" && string(out) != "date: 2023-12-31\n" {
			t.Errorf("unexpected encoding %q", out)
		}
	})

	t.Run("quoted YAML date", func(t *testing.T) {
		var v struct {
			Date Date `yaml:"date"`
		}
		if err := yaml.Unmarshal([]byte(`date: "2023-01-02"`), &v); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if v.Date.Month() != time.January || v.Date.Day() != 2 {
			t.Errorf("unexpected date %s", v.Date)
		}
	})
}

func TestNote(t *testing.T) {
	note := Note{Title: "My Post", Language: "en", PublishDate: NewDate(2024, 1, 2)}

	if note.Slug() != "my-post" {
		t.Errorf("expected slug my-post, got %s", note.Slug())
	}

	if err := note.Validate(); err != nil {
		t.Errorf("expected valid note, got %v", err)
	}

	note.PublishDate = Date{}
	if err := note.Validate(); !errors.Is(err, shared.ErrInvalidRecord) {
		t.Errorf("expected missing publish date to fail with ErrInvalidRecord, got %v", err)
	}

	t.Run("language", func(t *testing.T) {
		tc := []struct {
			language string
			valid    bool
		}{
			{"en", true},
			{"pt-br", true},
			{"zh-hant", true},
			{"", false},
			{"EN", false},
			{"english", false},
			{"../../escape", false},
			{"en/posts", false},
		}

		for _, tt := range tc {
			n := Note{Title: "My Post", Language: tt.language, PublishDate: NewDate(2024, 1, 2)}
			err := n.Validate()
			if tt.valid && err != nil {
				t.Errorf("language %q: expected valid, got %v", tt.language, err)
			}
			if !tt.valid && !errors.Is(err, shared.ErrInvalidRecord) {
				t.Errorf("language %q: expected ErrInvalidRecord, got %v", tt.language, err)
			}
		}
	})

	t.Run("non-latin title", func(t *testing.T) {
		a := Note{Title: "日本語のノート", Language: "en", PublishDate: NewDate(2024, 1, 2)}
		b := Note{Title: "Привет мир", Language: "en", PublishDate: NewDate(2024, 1, 2)}
		if a.Slug() == "" || b.Slug() == "" || a.Slug() == b.Slug() {
			t.Errorf("expected distinct non-empty slugs, got %q and %q", a.Slug(), b.Slug())
		}
	})
}

func TestTrack(t *testing.T) {
	t.Run("DurationSeconds floors", func(t *testing.T) {
		tc := []struct {
			ms   int
			want int
		}{
			{ms: 180000, want: 180},
			{ms: 180999, want: 180},
			{ms: 999, want: 0},
			{ms: 0, want: 0},
		}

		for _, tt := range tc {
			track := Track{DurationMS: tt.ms}
			if got := track.DurationSeconds(); got != tt.want {
				t.Errorf("DurationSeconds(%d) = %d, want %d", tt.ms, got, tt.want)
			}
		}
	})

	t.Run("NewTrack validates", func(t *testing.T) {
		track, err := NewTrack("Test Song", []string{"Test Artist"}, "Test Album", 180000, "https://open.spotify.com/track/4iV5W9uYEdYUVa79Axb7Rh")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.Artists[0] != "Test Artist" {
			t.Errorf("unexpected artists %v", track.Artists)
		}

		if _, err := NewTrack("Bad", nil, "", 1000, "not a url"); !errors.Is(err, shared.ErrInvalidRecord) {
			t.Errorf("expected ErrInvalidRecord for relative url, got %v", err)
		}

		if _, err := NewTrack("Bad", nil, "", -1, "https://open.spotify.com/track/x"); !errors.Is(err, shared.ErrInvalidRecord) {
			t.Errorf("expected ErrInvalidRecord for negative duration, got %v", err)
		}
	})

	t.Run("NewTrack without artists", func(t *testing.T) {
		track, err := NewTrack("Lonely", nil, "", 1000, "https://open.spotify.com/track/x")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.Artists == nil || track.FirstArtist() != "" {
			t.Errorf("expected empty artist list, got %v", track.Artists)
		}
	})
}

func TestSortTracks(t *testing.T) {
	tracks := []Track{
		{Name: "Zebra", Artists: []string{"Beta"}},
		{Name: "Yellow", Artists: []string{"Alpha"}},
		{Name: "Apple", Artists: []string{"Beta"}},
		{Name: "Mango", Artists: []string{"Alpha", "Zeta"}},
		{Name: "Solo", Artists: []string{}},
	}

	SortTracks(tracks)

	want := []string{"Solo", "Mango", "Yellow", "Apple", "Zebra"}
	for i, name := range want {
		if tracks[i].Name != name {
			t.Fatalf("position %d = %s, want %s (got %v)", i, tracks[i].Name, name, tracks)
		}
	}
}

func TestPlaylist(t *testing.T) {
	p, err := NewPlaylist("test_id", "Test Playlist", "Test description", "Test User", "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if p.Slug() != "test-playlist" {
		t.Errorf("expected slug test-playlist, got %s", p.Slug())
	}
	if p.Tracks == nil || len(p.Tracks) != 0 {
		t.Errorf("expected empty, non-nil tracks, got %v", p.Tracks)
	}

	emoji, err := NewPlaylist("p2", "🔥", "", "", "https://open.spotify.com/playlist/2")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if emoji.Slug() != "98e9d955" {
		t.Errorf("expected hashed slug 98e9d955, got %q", emoji.Slug())
	}

	if _, err := NewPlaylist("", "No ID", "", "", "https://open.spotify.com/playlist/1"); err == nil {
		t.Error("expected missing id to fail")
	}
}

func TestRun(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("ok", func(t *testing.T) {
		r := NewRun(RunNotes, start)
		r.ID = "id"
		r.Processed = 3
		r.Finish(start.Add(time.Second), nil)

		if r.Status != RunOK {
			t.Errorf("expected ok, got %s", r.Status)
		}
		if r.Duration() != time.Second {
			t.Errorf("expected 1s, got %s", r.Duration())
		}
		if err := r.Validate(); err != nil {
			t.Errorf("expected valid run, got %v", err)
		}
	})

	t.Run("partial", func(t *testing.T) {
		r := NewRun(RunNotes, start)
		r.Failed = 1
		r.Finish(start, nil)
		if r.Status != RunPartial {
			t.Errorf("expected partial, got %s", r.Status)
		}
	})

	t.Run("failed", func(t *testing.T) {
		r := NewRun(RunBuild, start)
		r.Finish(start, errors.New("boom"))
		if r.Status != RunFailed || r.Message != "boom" {
			t.Errorf("expected failed with message, got %s %q", r.Status, r.Message)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		r := NewRun(RunKind("other"), start)
		r.ID = "id"
		if err := r.Validate(); err == nil {
			t.Error("expected unknown kind to fail validation")
		}
	})
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/guhcampos/guhcampos/internal/shared"
)

// fakeSpotify serves the token endpoint under /api/token and the Web API under /v1.
type fakeSpotify struct {
	*httptest.Server
	playlistPages  []int // item count of each playlist page, by request order
	failAtOffset   int   // playlist offset answered with 500, -1 disables
	trackPages     [][]map[string]any
	failTrackPage  int // track page answered with 500, -1 disables
	playlistCalls  atomic.Int32
	trackCalls     atomic.Int32
	tokenRequests  atomic.Int32
	rejectToken    bool
	unauthorized   bool
	lastAuthHeader atomic.Value
}

func newFakeSpotify(t *testing.T) *fakeSpotify {
	t.Helper()
	f := &fakeSpotify{failAtOffset: -1, failTrackPage: -1}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/token", f.handleToken)
	mux.HandleFunc("/v1/users/test_user/playlists", f.handlePlaylists)
	mux.HandleFunc("/v1/playlists/p1/tracks", f.handleTracks)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeSpotify) handleToken(w http.ResponseWriter, r *http.Request) {
	f.tokenRequests.Add(1)
	id, secret, ok := r.BasicAuth()
	if f.rejectToken || !ok || id != "test_client_id" || secret != "test_client_secret" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
		return
	}
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"access_token":"test_access_token","token_type":"Bearer","expires_in":3600}`))
}

func (f *fakeSpotify) handlePlaylists(w http.ResponseWriter, r *http.Request) {
	call := int(f.playlistCalls.Add(1)) - 1
	f.lastAuthHeader.Store(r.Header.Get("Authorization"))

	if f.unauthorized {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if r.URL.Query().Get("limit") != "50" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if offset == f.failAtOffset {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	count := 0
	if call < len(f.playlistPages) {
		count = f.playlistPages[call]
	}

	items := make([]map[string]any, 0, count)
	for i := range count {
		n := offset + i
		items = append(items, map[string]any{
			"id":            fmt.Sprintf("p%d", n),
			"name":          fmt.Sprintf("Playlist %d", n),
			"description":   "desc",
			"owner":         map[string]any{"id": "test_user", "display_name": "Test User"},
			"tracks":        map[string]any{"total": 3},
			"external_urls": map[string]any{"spotify": fmt.Sprintf("https://open.spotify.com/playlist/p%d", n)},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"items": items, "limit": 50, "offset": offset})
}

func (f *fakeSpotify) handleTracks(w http.ResponseWriter, r *http.Request) {
	f.trackCalls.Add(1)
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page == f.failTrackPage {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	var next any
	if page+1 < len(f.trackPages) {
		next = fmt.Sprintf("%s/v1/playlists/p1/tracks?page=%d", f.URL, page+1)
	}

	var items []map[string]any
	if page < len(f.trackPages) {
		items = f.trackPages[page]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"items": items, "next": next})
}

func trackItem(name, artist string) map[string]any {
	return map[string]any{
		"added_at": "2024-01-01T00:00:00Z",
		"track": map[string]any{
			"id":            name,
			"name":          name,
			"artists":       []map[string]any{{"name": artist}},
			"album":         map[string]any{"name": "Album"},
			"duration_ms":   180999,
			"external_urls": map[string]any{"spotify": "https://open.spotify.com/track/" + name},
		},
	}
}

func newTestService(t *testing.T, f *fakeSpotify) *SpotifyService {
	t.Helper()
	srv, err := NewSpotifyService(SpotifyOpts{
		ClientID:     "test_client_id",
		ClientSecret: "test_client_secret",
		TokenURL:     f.URL + "/api/token",
		BaseURL:      f.URL + "/v1",
		HTTPClient:   f.Client(),
		Logger:       log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return srv
}

func authenticated(t *testing.T, f *fakeSpotify) *SpotifyService {
	t.Helper()
	srv := newTestService(t, f)
	if err := srv.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	return srv
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(SpotifyOpts{ClientID: "id", ClientSecret: "secret"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
			if srv.config.TokenURL != spotifyTokenURL {
				t.Errorf("expected default token URL, got %s", srv.config.TokenURL)
			}
			if srv.baseURL != spotifyBaseURL {
				t.Errorf("expected default base URL, got %s", srv.baseURL)
			}
			if srv.limiter != nil {
				t.Error("expected no rate limiter by default")
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(SpotifyOpts{ClientSecret: "secret"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(SpotifyOpts{ClientID: "id"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Rate Limit", func(t *testing.T) {
			srv, err := NewSpotifyService(SpotifyOpts{ClientID: "id", ClientSecret: "secret", RequestsPerSecond: 5})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.limiter == nil {
				t.Error("expected rate limiter to be configured")
			}
		})
	})

	t.Run("Service Interface", func(t *testing.T) {
		var _ Catalog = &SpotifyService{}
	})

	t.Run("Authenticate", func(t *testing.T) {
		t.Run("stores bearer token", func(t *testing.T) {
			f := newFakeSpotify(t)
			srv := newTestService(t, f)

			if err := srv.Authenticate(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !srv.Authenticated() {
				t.Fatal("expected token to be set")
			}
			if srv.token.AccessToken != "test_access_token" {
				t.Errorf("expected access token 'test_access_token', got %s", srv.token.AccessToken)
			}
		})

		t.Run("rejected credentials", func(t *testing.T) {
			f := newFakeSpotify(t)
			f.rejectToken = true
			srv := newTestService(t, f)

			err := srv.Authenticate(context.Background())
			if !errors.Is(err, shared.ErrAuthFailed) {
				t.Fatalf("expected ErrAuthFailed, got %v", err)
			}
			if srv.Authenticated() {
				t.Error("expected no token after failure")
			}
			if got := f.tokenRequests.Load(); got != 1 {
				t.Errorf("expected a single token request, got %d", got)
			}
		})
	})

	t.Run("Requests before Authenticate", func(t *testing.T) {
		f := newFakeSpotify(t)
		srv := newTestService(t, f)

		result := srv.AllPlaylists(context.Background(), "test_user")
		if !result.Fatal() || !errors.Is(result.Err, shared.ErrNotAuthenticated) {
			t.Errorf("expected fatal ErrNotAuthenticated, got %v %v", result.Status, result.Err)
		}

		tracks := srv.PlaylistTracks(context.Background(), "p1")
		if !tracks.Fatal() {
			t.Errorf("expected fatal result, got %v", tracks.Status)
		}
		if f.playlistCalls.Load() != 0 || f.trackCalls.Load() != 0 {
			t.Error("expected no API requests")
		}
	})
}

func TestPlaylistPagination(t *testing.T) {
	t.Run("short page ends pagination", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.playlistPages = []int{50, 3}
		srv := authenticated(t, f)

		var names []string
		for p := range srv.FetchPlaylists(context.Background(), "test_user") {
			names = append(names, p.Name)
			if len(p.Tracks) != 0 {
				t.Errorf("expected empty tracks for %s", p.Name)
			}
		}

		if len(names) != 53 {
			t.Errorf("expected 53 playlists, got %d", len(names))
		}
		if got := f.playlistCalls.Load(); got != 2 {
			t.Errorf("expected 2 requests, got %d", got)
		}
		if names[52] != "Playlist 52" {
			t.Errorf("expected offsets to advance by 50, last was %s", names[52])
		}
		if h, _ := f.lastAuthHeader.Load().(string); h != "Bearer test_access_token" {
			t.Errorf("expected bearer header, got %q", h)
		}
	})

	t.Run("full last page costs one empty request", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.playlistPages = []int{50, 0}
		srv := authenticated(t, f)

		result := srv.AllPlaylists(context.Background(), "test_user")
		if !result.OK() {
			t.Fatalf("expected ok result, got %v: %v", result.Status, result.Err)
		}
		if len(result.Items) != 50 {
			t.Errorf("expected 50 playlists, got %d", len(result.Items))
		}
		if got := f.playlistCalls.Load(); got != 2 {
			t.Errorf("expected 2 requests, got %d", got)
		}
	})

	t.Run("no playlists", func(t *testing.T) {
		f := newFakeSpotify(t)
		srv := authenticated(t, f)

		result := srv.AllPlaylists(context.Background(), "test_user")
		if !result.OK() || len(result.Items) != 0 {
			t.Errorf("expected empty ok result, got %v with %d items", result.Status, len(result.Items))
		}
	})

	t.Run("pager reports more", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.playlistPages = []int{50, 1}
		srv := authenticated(t, f)
		pager := srv.Playlists("test_user")

		page, more, err := pager.Next(context.Background())
		if err != nil || len(page) != 50 || !more {
			t.Fatalf("first page: got %d items, more=%v, err=%v", len(page), more, err)
		}
		page, more, err = pager.Next(context.Background())
		if err != nil || len(page) != 1 || more {
			t.Fatalf("second page: got %d items, more=%v, err=%v", len(page), more, err)
		}
		page, more, _ = pager.Next(context.Background())
		if page != nil || more {
			t.Error("expected exhausted pager")
		}
		if got := f.playlistCalls.Load(); got != 2 {
			t.Errorf("expected 2 requests, got %d", got)
		}
	})

	t.Run("error after first page is partial", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.playlistPages = []int{50, 50}
		f.failAtOffset = 50
		srv := authenticated(t, f)

		result := srv.AllPlaylists(context.Background(), "test_user")
		if !result.Partial() {
			t.Fatalf("expected partial result, got %v", result.Status)
		}
		if len(result.Items) != 50 {
			t.Errorf("expected 50 playlists, got %d", len(result.Items))
		}
		if !errors.Is(result.Err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", result.Err)
		}
	})

	t.Run("error on first page is fatal", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.failAtOffset = 0
		srv := authenticated(t, f)

		result := srv.AllPlaylists(context.Background(), "test_user")
		if !result.Fatal() {
			t.Errorf("expected fatal result, got %v", result.Status)
		}
	})

	t.Run("sequence ends silently on error", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.playlistPages = []int{50, 50}
		f.failAtOffset = 50
		srv := authenticated(t, f)

		count := 0
		for range srv.FetchPlaylists(context.Background(), "test_user") {
			count++
		}
		if count != 50 {
			t.Errorf("expected 50 playlists before the error, got %d", count)
		}
	})

	t.Run("unauthorized maps to token expired", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.unauthorized = true
		srv := authenticated(t, f)

		result := srv.AllPlaylists(context.Background(), "test_user")
		if !errors.Is(result.Err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", result.Err)
		}
	})

	t.Run("consumer can stop early", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.playlistPages = []int{50, 50, 10}
		srv := authenticated(t, f)

		for range srv.FetchPlaylists(context.Background(), "test_user") {
			break
		}
		if got := f.playlistCalls.Load(); got != 1 {
			t.Errorf("expected 1 request, got %d", got)
		}
	})
}

func TestPlaylistTracks(t *testing.T) {
	t.Run("follows cursor and sorts", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.trackPages = [][]map[string]any{
			{trackItem("b", "Y"), trackItem("a", "Z")},
			{trackItem("a", "Y"), {"added_at": "2024-01-01T00:00:00Z", "track": nil}},
		}
		srv := authenticated(t, f)

		result := srv.PlaylistTracks(context.Background(), "p1")
		if !result.OK() {
			t.Fatalf("expected ok result, got %v: %v", result.Status, result.Err)
		}
		if got := f.trackCalls.Load(); got != 2 {
			t.Errorf("expected 2 requests, got %d", got)
		}

		want := []string{"Y/a", "Y/b", "Z/a"}
		if len(result.Items) != len(want) {
			t.Fatalf("expected %d tracks, got %d", len(want), len(result.Items))
		}
		for i, track := range result.Items {
			if got := track.FirstArtist() + "/" + track.Name; got != want[i] {
				t.Errorf("track %d = %s, want %s", i, got, want[i])
			}
		}
		if result.Items[0].DurationSeconds() != 180 {
			t.Errorf("expected 180 seconds, got %d", result.Items[0].DurationSeconds())
		}
	})

	t.Run("error keeps gathered tracks", func(t *testing.T) {
		f := newFakeSpotify(t)
		f.trackPages = [][]map[string]any{
			{trackItem("a", "A")},
			{trackItem("b", "B")},
		}
		f.failTrackPage = 1
		srv := authenticated(t, f)

		result := srv.PlaylistTracks(context.Background(), "p1")
		if !result.Partial() {
			t.Fatalf("expected partial result, got %v", result.Status)
		}
		if len(result.Items) != 1 {
			t.Errorf("expected 1 track, got %d", len(result.Items))
		}
	})

	t.Run("invalid track URL is skipped", func(t *testing.T) {
		f := newFakeSpotify(t)
		bad := trackItem("bad", "A")
		bad["track"].(map[string]any)["external_urls"] = map[string]any{"spotify": "not a url"}
		f.trackPages = [][]map[string]any{{bad, trackItem("good", "A")}}
		srv := authenticated(t, f)

		result := srv.PlaylistTracks(context.Background(), "p1")
		if !result.OK() || len(result.Items) != 1 || result.Items[0].Name != "good" {
			t.Errorf("expected only the valid track, got %+v", result.Items)
		}
	})
}

func TestResult(t *testing.T) {
	tests := []struct {
		name   string
		result Result[int]
		status Status
	}{
		{"ok", OKResult([]int{1}), StatusOK},
		{"partial", PartialResult([]int{1}, errors.New("boom")), StatusPartial},
		{"fatal", FatalResult[int](errors.New("boom")), StatusFatal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.result.Status != tt.status {
				t.Errorf("expected %v, got %v", tt.status, tt.result.Status)
			}
			if tt.result.Status.String() != tt.name {
				t.Errorf("expected %q, got %q", tt.name, tt.result.Status.String())
			}
			if tt.result.Items == nil {
				t.Error("expected non-nil items")
			}
			if (tt.result.Err == nil) != tt.result.OK() {
				t.Error("expected Err to be nil only for ok results")
			}
		})
	}
}

// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/guhcampos/guhcampos/internal/models"
	"github.com/guhcampos/guhcampos/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// PageLimit is the page size requested from offset-paginated endpoints, the API maximum.
	PageLimit = 50
)

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	URI         string `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	ExternalURLs externalURLs    `json:"external_urls"`
	URI          string          `json:"uri"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type simplePlaylistTrack struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Owner        Owner               `json:"owner"`
	Public       bool                `json:"public"`
	Tracks       simplePlaylistTrack `json:"tracks"`
	ExternalURLs externalURLs        `json:"external_urls"`
	URI          string              `json:"uri"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items    []SpotifySimplePlaylist `json:"items"`
	Total    int                     `json:"total"`
	Limit    int                     `json:"limit"`
	Offset   int                     `json:"offset"`
	Next     *string                 `json:"next"`
	Previous *string                 `json:"previous"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
//
// Track is nil for local files and tracks removed from the catalog.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPaginatedPlaylistTracks represents a cursor-paginated response of playlist tracks.
type SpotifyPaginatedPlaylistTracks struct {
	Items []SpotifyPlaylistTrack `json:"items"`
	Total int                    `json:"total"`
	Next  *string                `json:"next"`
}

// SpotifyOpts configures a [SpotifyService].
type SpotifyOpts struct {
	ClientID          string
	ClientSecret      string
	TokenURL          string       // defaults to the Spotify accounts service
	BaseURL           string       // defaults to the Spotify Web API
	HTTPClient        *http.Client // defaults to [http.DefaultClient]
	RequestsPerSecond float64      // 0 disables rate limiting
	Logger            *log.Logger
}

// SpotifyService implements the [Catalog] interface for the Spotify Web API.
// Uses the [clientcredentials] flow, so only public data is reachable.
type SpotifyService struct {
	config     *clientcredentials.Config
	token      *oauth2.Token
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSpotifyService creates a new Spotify service with the given client credentials.
func NewSpotifyService(opts SpotifyOpts) (*SpotifyService, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}
	if opts.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.BaseURL == "" {
		opts.BaseURL = spotifyBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &SpotifyService{
		config: &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		limiter:    limiter,
		logger:     opts.Logger,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate requests an access token with the client-credentials grant. It is not retried.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	s.logger.Info("Authenticating with Spotify...")

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := s.config.Token(ctx)
	if err != nil {
		s.logger.Error("Authentication failed", "error", err)
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("%w: empty access token", shared.ErrAuthFailed)
	}

	s.token = token
	s.logger.Info("Authentication successful!")
	return nil
}

// Authenticated reports whether a token is held.
func (s *SpotifyService) Authenticated() bool {
	return s.token != nil
}

// doRequest performs an authenticated GET of rawURL and decodes the JSON body into result.
//
// rawURL is either absolute (a pagination cursor) or a path relative to the base URL.
func (s *SpotifyService) doRequest(ctx context.Context, rawURL string, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := rawURL
	if u, err := url.Parse(rawURL); err != nil || !u.IsAbs() {
		apiURL = s.baseURL + rawURL
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: GET %s", shared.ErrTokenExpired, apiURL)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: GET %s: status %d", shared.ErrAPIRequest, apiURL, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
		}
	}

	return nil
}

// PlaylistPager walks the playlists of a user one page at a time.
type PlaylistPager struct {
	svc    *SpotifyService
	userID string
	offset int
	done   bool
}

// Playlists returns a pager over the playlists owned by userID.
func (s *SpotifyService) Playlists(userID string) *PlaylistPager {
	return &PlaylistPager{svc: s, userID: userID}
}

// Next fetches the next page. more is false once the last page has been returned.
//
// A page with no items, or fewer than [PageLimit] items, is the last one.
// After an error the pager is exhausted.
func (p *PlaylistPager) Next(ctx context.Context) (page []models.Playlist, more bool, err error) {
	if p.done {
		return nil, false, nil
	}

	endpoint := fmt.Sprintf("/users/%s/playlists?limit=%d&offset=%d", url.PathEscape(p.userID), PageLimit, p.offset)

	var response SpotifyPaginatedPlaylists
	if err := p.svc.doRequest(ctx, endpoint, &response); err != nil {
		p.done = true
		return nil, false, err
	}

	if len(response.Items) == 0 {
		p.done = true
		return nil, false, nil
	}

	page = make([]models.Playlist, 0, len(response.Items))
	for _, sp := range response.Items {
		playlist, err := sp.toPlaylist()
		if err != nil {
			p.svc.logger.Warn("skipping playlist", "id", sp.ID, "error", err)
			continue
		}
		page = append(page, playlist)
	}

	if len(response.Items) < PageLimit {
		p.done = true
	} else {
		p.offset += PageLimit
	}

	return page, !p.done, nil
}

func (sp SpotifySimplePlaylist) toPlaylist() (models.Playlist, error) {
	playlist, err := models.NewPlaylist(sp.ID, sp.Name, sp.Description, sp.Owner.DisplayName, sp.ExternalURLs.Spotify)
	if err != nil {
		return playlist, err
	}
	playlist.TrackCount = sp.Tracks.Total
	return playlist, nil
}

// FetchPlaylists lazily yields every playlist of userID.
//
// A request error is logged and ends the sequence; consumers cannot tell it
// from a normal end. Use [SpotifyService.AllPlaylists] when that matters.
func (s *SpotifyService) FetchPlaylists(ctx context.Context, userID string) iter.Seq[models.Playlist] {
	return func(yield func(models.Playlist) bool) {
		pager := s.Playlists(userID)
		for {
			page, more, err := pager.Next(ctx)
			if err != nil {
				s.logger.Error("Failed to fetch playlists", "user", userID, "error", err)
				return
			}
			for _, playlist := range page {
				if !yield(playlist) {
					return
				}
			}
			if !more {
				return
			}
		}
	}
}

// AllPlaylists drains the playlists of userID.
//
// The result is fatal when the first page fails and partial when a later one does.
func (s *SpotifyService) AllPlaylists(ctx context.Context, userID string) Result[models.Playlist] {
	if !s.Authenticated() {
		return FatalResult[models.Playlist](fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated))
	}

	var playlists []models.Playlist
	pager := s.Playlists(userID)
	for first := true; ; first = false {
		page, more, err := pager.Next(ctx)
		if err != nil {
			if first {
				return FatalResult[models.Playlist](err)
			}
			return PartialResult(playlists, err)
		}
		playlists = append(playlists, page...)
		if !more {
			return OKResult(playlists)
		}
	}
}

// PlaylistTracks follows the "next" cursor of a playlist's tracks until it is null.
//
// Entries without a track and tracks failing validation are skipped.
// A request error keeps what was gathered and marks the result partial.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) Result[models.Track] {
	if !s.Authenticated() {
		return FatalResult[models.Track](fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated))
	}

	var (
		entries  []SpotifyPlaylistTrack
		fetchErr error
	)
	next := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	for next != "" {
		var page SpotifyPaginatedPlaylistTracks
		if err := s.doRequest(ctx, next, &page); err != nil {
			s.logger.Error("Failed to fetch tracks", "playlist", playlistID, "error", err)
			fetchErr = err
			break
		}

		entries = append(entries, page.Items...)

		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}

	tracks := make([]models.Track, 0, len(entries))
	for _, entry := range entries {
		if entry.Track == nil {
			continue
		}
		track, err := entry.Track.toTrack()
		if err != nil {
			s.logger.Warn("skipping track", "playlist", playlistID, "error", err)
			continue
		}
		tracks = append(tracks, track)
	}
	models.SortTracks(tracks)

	if fetchErr != nil {
		return PartialResult(tracks, fetchErr)
	}
	return OKResult(tracks)
}

func (st SpotifyTrack) toTrack() (models.Track, error) {
	artists := make([]string, 0, len(st.Artists))
	for _, artist := range st.Artists {
		artists = append(artists, artist.Name)
	}
	return models.NewTrack(st.Name, artists, st.Album.Name, st.DurationMS, st.ExternalURLs.Spotify)
}

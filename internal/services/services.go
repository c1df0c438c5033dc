package services

import (
	"context"
	"iter"

	"github.com/guhcampos/guhcampos/internal/models"
)

// Catalog is a remote music catalog that playlists are fetched from.
type Catalog interface {
	// Authenticate obtains the credentials used by every later call.
	Authenticate(ctx context.Context) error

	// FetchPlaylists lazily yields the playlists owned by userID, without tracks.
	// A request error ends the sequence early.
	FetchPlaylists(ctx context.Context, userID string) iter.Seq[models.Playlist]

	// AllPlaylists reads every playlist of userID, without tracks.
	AllPlaylists(ctx context.Context, userID string) Result[models.Playlist]

	// PlaylistTracks reads every track of a playlist, sorted by first artist then name.
	PlaylistTracks(ctx context.Context, playlistID string) Result[models.Track]

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

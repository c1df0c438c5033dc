// Package services talks to the music catalog that playlists are fetched from.
//
// # Catalog Interface
//
// [Catalog] is the narrow surface the pipeline needs: authenticate, enumerate a user's
// playlists and fetch the tracks of one playlist. [SpotifyService] implements it against
// the Spotify Web API; tests substitute a mock.
//
// # Authentication
//
// [SpotifyService.Authenticate] performs the OAuth2 client-credentials grant
// (HTTP Basic client id and secret, form body grant_type=client_credentials) and keeps
// the bearer token for every later request. There is no refresh: a 401 surfaces as
// [shared.ErrTokenExpired].
//
// # Pagination
//
// Playlists are paged by offset with a limit of 50. A page with no items, or with fewer
// than 50 items, is the last one, so an exactly-full final page costs one extra request.
// Tracks are paged by following the "next" cursor until it is null.
//
// # Results
//
// Multi-page reads return a [Result] carrying the items gathered so far, a [Status]
// (ok, partial or fatal) and the error that stopped the read. Callers decide whether a
// partial result is acceptable.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : client id or secret not configured
//   - [shared.ErrAuthFailed] : token request failed
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : the API answered 401
//   - [shared.ErrAPIRequest] : HTTP request failed or returned non-2xx
package services

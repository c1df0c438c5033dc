// Package tasks orchestrates the site pipelines with real-time progress reporting.
//
// # Core Operations
//
// [Pipeline] exposes four operations:
//
//  1. [Pipeline.FetchPlaylists] : Spotify playlists to .m3u and .json files
//     - Authenticates, then walks the user's playlists lazily
//     - Fetches tracks only for playlists whose name is requested
//     - Writes <slug>.m3u and <slug>.json, replacing earlier files
//
//  2. [Pipeline.ListPlaylists] : every playlist of a user, without tracks
//     - A partial or fatal read is reported as a failure
//
//  3. [Pipeline.PullNotes] : published Obsidian notes to Hugo posts
//
//  4. [Pipeline.Build] : validate the site, then run Hugo and collect output statistics
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters and a message.
// Updates use select with default to prevent blocking.
//
// # Run History
//
// The optional [RunRecorder] receives one [models.Run] per operation, with counters only.
// Recording failures are logged and never fail the operation.
package tasks

// Package repositories implements SQLite persistence for the pipeline run history.
//
// Key Implementations:
//   - [RunRepository] : one row per pipeline invocation, counters only
//
// Note and playlist contents are never stored; the files written by the pipeline are
// the only source of truth for those.
package repositories

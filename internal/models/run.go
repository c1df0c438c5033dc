package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RunKind names the pipeline a [Run] belongs to.
type RunKind string

const (
	RunBuild          RunKind = "build"
	RunNotes          RunKind = "notes"
	RunPlaylistsFetch RunKind = "playlists.fetch"
	RunPlaylistsList  RunKind = "playlists.list"
)

// RunStatus is the outcome of a [Run].
type RunStatus string

const (
	RunOK      RunStatus = "ok"
	RunPartial RunStatus = "partial"
	RunFailed  RunStatus = "failed"
)

// Run records one pipeline invocation in the history database.
type Run struct {
	ID         string
	Kind       RunKind
	Status     RunStatus
	Processed  int
	Failed     int
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRun starts a run of the given kind at now.
func NewRun(kind RunKind, now time.Time) *Run {
	return &Run{Kind: kind, Status: RunOK, StartedAt: now}
}

// Finish stamps the run and derives its status from err and the failure counter.
func (r *Run) Finish(now time.Time, err error) {
	r.FinishedAt = now
	switch {
	case err != nil:
		r.Status = RunFailed
		r.Message = err.Error()
	case r.Failed > 0:
		r.Status = RunPartial
	default:
		r.Status = RunOK
	}
}

// Duration is the wall time between start and finish.
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Validate checks the run is complete enough to store.
func (r *Run) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.Kind, validation.Required, validation.In(RunBuild, RunNotes, RunPlaylistsFetch, RunPlaylistsList)),
		validation.Field(&r.Status, validation.Required, validation.In(RunOK, RunPartial, RunFailed)),
		validation.Field(&r.Processed, validation.Min(0)),
		validation.Field(&r.Failed, validation.Min(0)),
		validation.Field(&r.StartedAt, validation.Required),
	)
}

package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase, 0 when unknown
	Message string // Human-readable message for display
}

// Operation phase enumeration
type Phase int

const (
	Authenticate Phase = iota
	FetchPlaylists
	FetchTracks
	WritePlaylist
	PullNotes
	ValidateSite
	BuildSite
)

func (p Phase) String() string {
	switch p {
	case Authenticate:
		return "authenticate"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchTracks:
		return "fetch_tracks"
	case WritePlaylist:
		return "write_playlist"
	case PullNotes:
		return "pull_notes"
	case ValidateSite:
		return "validate_site"
	case BuildSite:
		return "build_site"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// String formats the update for a log line, e.g. "[fetch_tracks 2/3] Processing 'Focus'".
func (u ProgressUpdate) String() string {
	if u.Total > 0 {
		return fmt.Sprintf("[%s %d/%d] %s", u.Phase, u.Step, u.Total, u.Message)
	}
	if u.Step > 0 {
		return fmt.Sprintf("[%s %d] %s", u.Phase, u.Step, u.Message)
	}
	return fmt.Sprintf("[%s] %s", u.Phase, u.Message)
}

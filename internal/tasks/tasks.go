package tasks

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guhcampos/guhcampos/internal/formatter"
	"github.com/guhcampos/guhcampos/internal/hugo"
	"github.com/guhcampos/guhcampos/internal/models"
	"github.com/guhcampos/guhcampos/internal/obsidian"
	"github.com/guhcampos/guhcampos/internal/services"
	"github.com/guhcampos/guhcampos/internal/shared"
)

// RunRecorder stores finished runs (repositories.RunRepository).
type RunRecorder interface {
	Create(ctx context.Context, run *models.Run) error
}

// FetchOpts selects the playlists written by [Pipeline.FetchPlaylists].
type FetchOpts struct {
	UserID    string
	Names     []string // exact playlist names, other playlists are skipped
	OutputDir string
}

// WrittenPlaylist describes one playlist written to disk.
type WrittenPlaylist struct {
	Name    string
	Tracks  int
	Partial bool // tracks were cut short by a request error
	Files   formatter.PlaylistFiles
}

// FetchResult contains the outcome of [Pipeline.FetchPlaylists].
type FetchResult struct {
	Written []WrittenPlaylist
	Missing []string // requested names that matched no playlist
}

// ListResult contains the outcome of [Pipeline.ListPlaylists].
type ListResult struct {
	Playlists []models.Playlist
}

// BuildResult contains the outcome of [Pipeline.Build].
type BuildResult struct {
	Version string
	Output  *hugo.BuildOutput
	Stats   *hugo.Stats // nil when the destination does not exist
}

// Pipeline runs the site pipelines. The catalog is only needed for playlist operations.
type Pipeline struct {
	catalog  services.Catalog
	recorder RunRecorder
	logger   *log.Logger
	now      func() time.Time
}

// NewPipeline creates a Pipeline. catalog and recorder may be nil.
func NewPipeline(catalog services.Catalog, recorder RunRecorder, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Pipeline{catalog: catalog, recorder: recorder, logger: logger, now: time.Now}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (p *Pipeline) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// record finishes run with err and hands it to the recorder, if any.
func (p *Pipeline) record(ctx context.Context, run *models.Run, err error) {
	if p.recorder == nil {
		return
	}
	run.ID = shared.GenerateID()
	run.Finish(p.now(), err)
	if recErr := p.recorder.Create(context.WithoutCancel(ctx), run); recErr != nil {
		p.logger.Warn("failed to record run", "kind", run.Kind, "error", recErr)
	}
}

func (p *Pipeline) authenticate(ctx context.Context, progress chan<- ProgressUpdate) error {
	if p.catalog == nil {
		return fmt.Errorf("%w: no music catalog configured", shared.ErrMissingConfig)
	}
	p.sendProgress(progress, ProgressUpdate{Phase: Authenticate, Message: "Authenticating with " + p.catalog.Name()})
	if err := p.catalog.Authenticate(ctx); err != nil {
		return fmt.Errorf("failed to authenticate with %s: %w", p.catalog.Name(), err)
	}
	return nil
}

// FetchPlaylists writes the requested playlists of opts.UserID into opts.OutputDir.
//
// Playlists are enumerated lazily and only those named in opts.Names get their tracks
// fetched. A partial track list is written with a warning. Authentication and write
// failures abort the operation.
func (p *Pipeline) FetchPlaylists(ctx context.Context, opts FetchOpts, progress chan<- ProgressUpdate) (result *FetchResult, err error) {
	run := models.NewRun(models.RunPlaylistsFetch, p.now())
	defer func() { p.record(ctx, run, err) }()

	if err := p.authenticate(ctx, progress); err != nil {
		return nil, err
	}

	if err := shared.EnsureDir(opts.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result = &FetchResult{}
	found := make(map[string]bool, len(opts.Names))

	for playlist := range p.catalog.FetchPlaylists(ctx, opts.UserID) {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !slices.Contains(opts.Names, playlist.Name) {
			continue
		}
		found[playlist.Name] = true

		step := len(result.Written) + 1
		p.sendProgress(progress, ProgressUpdate{
			Phase: FetchTracks, Step: step, Total: len(opts.Names),
			Message: fmt.Sprintf("Processing '%s'...", playlist.Name),
		})

		tracks := p.catalog.PlaylistTracks(ctx, playlist.ID)
		switch {
		case tracks.Fatal():
			run.Failed++
			p.logger.Error("failed to fetch tracks", "playlist", playlist.Name, "error", tracks.Err)
			continue
		case tracks.Partial():
			run.Failed++
			p.logger.Warn("writing partial playlist", "playlist", playlist.Name, "tracks", len(tracks.Items), "error", tracks.Err)
		}

		playlist.Tracks = tracks.Items
		files, err := formatter.WritePlaylistFiles(playlist, opts.OutputDir)
		if err != nil {
			return result, err
		}
		run.Processed++

		p.logger.Info("wrote playlist", "name", playlist.Name, "tracks", len(playlist.Tracks), "m3u", files.M3U)
		p.sendProgress(progress, ProgressUpdate{
			Phase: WritePlaylist, Step: step, Total: len(opts.Names),
			Message: fmt.Sprintf("Processed '%s' (%d tracks)", playlist.Name, len(playlist.Tracks)),
		})

		result.Written = append(result.Written, WrittenPlaylist{
			Name:    playlist.Name,
			Tracks:  len(playlist.Tracks),
			Partial: tracks.Partial(),
			Files:   *files,
		})
	}

	for _, name := range opts.Names {
		if !found[name] {
			result.Missing = append(result.Missing, name)
			p.logger.Warn("playlist not found", "name", name, "user", opts.UserID)
		}
	}

	return result, nil
}

// ListPlaylists reads every playlist of userID, without tracks.
//
// Anything short of a complete read is an error; the playlists gathered so far
// are still returned.
func (p *Pipeline) ListPlaylists(ctx context.Context, userID string, progress chan<- ProgressUpdate) (result *ListResult, err error) {
	run := models.NewRun(models.RunPlaylistsList, p.now())
	defer func() { p.record(ctx, run, err) }()

	if err := p.authenticate(ctx, progress); err != nil {
		return nil, err
	}

	p.sendProgress(progress, ProgressUpdate{Phase: FetchPlaylists, Message: "Fetching playlists..."})

	playlists := p.catalog.AllPlaylists(ctx, userID)
	result = &ListResult{Playlists: playlists.Items}
	run.Processed = len(playlists.Items)

	if !playlists.OK() {
		return result, fmt.Errorf("failed to list playlists (%s): %w", playlists.Status, playlists.Err)
	}

	p.sendProgress(progress, ProgressUpdate{
		Phase:   FetchPlaylists,
		Message: fmt.Sprintf("Found %d playlists", len(playlists.Items)),
	})
	return result, nil
}

// PullNotes converts published notes into Hugo posts.
func (p *Pipeline) PullNotes(ctx context.Context, opts obsidian.PullOpts, progress chan<- ProgressUpdate) (result *obsidian.PullResult, err error) {
	run := models.NewRun(models.RunNotes, p.now())
	defer func() {
		if result != nil {
			run.Processed = len(result.Written)
			run.Failed = result.Stats.Failed
		}
		p.record(ctx, run, err)
	}()

	p.sendProgress(progress, ProgressUpdate{Phase: PullNotes, Message: "Pulling notes from " + opts.VaultRoot})

	result, err = obsidian.Pull(ctx, opts, p.logger)
	if err != nil {
		return result, err
	}

	p.sendProgress(progress, ProgressUpdate{
		Phase:   PullNotes,
		Message: fmt.Sprintf("Wrote %d posts, %d notes failed to parse", len(result.Written), result.Stats.Failed),
	})
	return result, nil
}

// Build validates the site and runs Hugo. Statistics are best effort.
func (p *Pipeline) Build(ctx context.Context, builder *hugo.Builder, opts hugo.BuildOpts, progress chan<- ProgressUpdate) (result *BuildResult, err error) {
	run := models.NewRun(models.RunBuild, p.now())
	defer func() {
		if result != nil && result.Stats != nil {
			run.Processed = result.Stats.Files
		}
		p.record(ctx, run, err)
	}()

	p.sendProgress(progress, ProgressUpdate{Phase: ValidateSite, Message: "Validating Hugo setup"})
	if err := builder.Validate(); err != nil {
		return nil, err
	}

	version, err := builder.Version(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.Info("Found Hugo", "version", version)

	p.sendProgress(progress, ProgressUpdate{Phase: BuildSite, Message: builder.CommandLine(opts)})
	output, err := builder.Build(ctx, opts)
	if err != nil {
		return nil, err
	}

	result = &BuildResult{Version: version, Output: output}
	stats, statsErr := builder.Stats()
	if statsErr != nil {
		p.logger.Warn("failed to collect build statistics", "error", statsErr)
	}
	result.Stats = stats

	return result, nil
}


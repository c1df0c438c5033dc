package main

import (
	"context"
	"fmt"

	"github.com/guhcampos/guhcampos/internal/tasks"
	"github.com/guhcampos/guhcampos/internal/ui"
	"github.com/urfave/cli/v3"
)

// SpotifyFetch writes the selected playlists as .m3u and .json files.
func (r *Runner) SpotifyFetch(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.spotifyCatalog()
	if err != nil {
		return err
	}

	opts := tasks.FetchOpts{
		UserID:    r.config.Spotify.UserID,
		Names:     cmd.StringSlice("playlist"),
		OutputDir: cmd.String("output"),
	}
	if len(opts.Names) == 0 {
		opts.Names = r.config.Spotify.Playlists
	}
	if opts.OutputDir == "" {
		opts.OutputDir = r.config.Spotify.PlaylistsOutputDir
	}

	pipeline, cleanup, err := r.pipeline(catalog)
	if err != nil {
		return err
	}
	defer cleanup()

	progress, wait := r.progress()
	result, err := pipeline.FetchPlaylists(ctx, opts, progress)
	wait()
	if err != nil {
		return err
	}

	for _, p := range result.Written {
		kind := ui.OK
		if p.Partial {
			kind = ui.Warn
		}
		r.printer.Status(kind, fmt.Sprintf("%s: %d tracks -> %s, %s", p.Name, p.Tracks, p.Files.M3U, p.Files.JSON))
	}
	for _, name := range result.Missing {
		r.printer.Status(ui.Warn, fmt.Sprintf("playlist %q not found", name))
	}
	return nil
}

// SpotifyList prints every playlist of the configured user.
func (r *Runner) SpotifyList(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.spotifyCatalog()
	if err != nil {
		return err
	}

	pipeline, cleanup, err := r.pipeline(catalog)
	if err != nil {
		return err
	}
	defer cleanup()

	progress, wait := r.progress()
	result, err := pipeline.ListPlaylists(ctx, r.config.Spotify.UserID, progress)
	wait()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Playlists, cmd.Bool("pretty"))
	}

	items := make([]string, len(result.Playlists))
	for i, p := range result.Playlists {
		items[i] = fmt.Sprintf("%s (%d tracks) - %s", p.Name, p.TrackCount, p.URL)
	}
	body := fmt.Sprintf("Found %d playlists", len(result.Playlists))
	if len(items) > 0 {
		body += "\n\n" + ui.Bullets(items)
	}
	r.printer.Panel("All Playlists", body, ui.Green)
	return nil
}

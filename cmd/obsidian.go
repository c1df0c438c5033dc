package main

import (
	"context"
	"fmt"

	"github.com/guhcampos/guhcampos/internal/obsidian"
	"github.com/guhcampos/guhcampos/internal/ui"
	"github.com/urfave/cli/v3"
)

// ObsidianPull converts published notes into Hugo posts, once or on every vault change.
func (r *Runner) ObsidianPull(ctx context.Context, cmd *cli.Command) error {
	lock, err := r.lock()
	if err != nil {
		return err
	}
	defer r.unlock(lock)

	pipeline, cleanup, err := r.pipeline(nil)
	if err != nil {
		return err
	}
	defer cleanup()

	opts := obsidian.PullOpts{
		VaultRoot: r.config.Obsidian.PostsRoot(),
		OutputDir: r.config.Obsidian.ContentOutputDir,
	}

	pull := func(ctx context.Context) error {
		progress, wait := r.progress()
		result, err := pipeline.PullNotes(ctx, opts, progress)
		wait()
		if err != nil {
			return err
		}

		kind := ui.OK
		if result.Stats.Failed > 0 {
			kind = ui.Warn
		}
		r.printer.Status(kind, fmt.Sprintf("Wrote %d posts to %s (%d notes failed)",
			len(result.Written), opts.OutputDir, result.Stats.Failed))
		return nil
	}

	if err := pull(ctx); err != nil {
		return err
	}
	if !cmd.Bool("watch") {
		return nil
	}

	err = obsidian.Watch(ctx, opts.VaultRoot, r.logger, pull)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

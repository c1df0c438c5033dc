package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guhcampos/guhcampos/internal/hugo"
	"github.com/guhcampos/guhcampos/internal/ui"
	"github.com/urfave/cli/v3"
)

// Build runs Hugo against the configured site and reports the generated output.
func (r *Runner) Build(ctx context.Context, cmd *cli.Command) error {
	lock, err := r.lock()
	if err != nil {
		return err
	}
	defer r.unlock(lock)

	builder := hugo.NewBuilder(hugo.BuilderOpts{
		Binary:         r.config.Hugo.Binary,
		SourceDir:      r.config.Hugo.SrcDir,
		DestinationDir: r.config.Hugo.DstDir,
		Logger:         r.logger,
	})

	opts := hugo.DefaultBuildOpts()
	opts.Drafts = cmd.Bool("drafts")
	opts.Future = cmd.Bool("future")
	opts.Minify = !cmd.Bool("no-minify")
	opts.Verbose = cmd.Bool("verbose")

	r.printer.Panel("Build Configuration", buildSummary(builder, opts), ui.Blue)

	pipeline, cleanup, err := r.pipeline(nil)
	if err != nil {
		return err
	}
	defer cleanup()

	progress, wait := r.progress()
	result, err := pipeline.Build(ctx, builder, opts, progress)
	wait()

	if err != nil {
		var buildErr *hugo.BuildError
		if errors.As(err, &buildErr) {
			if werr := r.writeBuildOutput(buildErr); werr != nil {
				r.logger.Warn("failed to print hugo output", "error", werr)
			}
		}
		r.printer.Status(ui.Error, "Build failed")
		return err
	}

	r.printer.Status(ui.OK, "Site built into "+r.config.Hugo.DstDir)
	if result.Stats != nil {
		r.printer.Status(ui.Info, result.Stats.String())
	}
	return nil
}

// writeBuildOutput prints what Hugo wrote before failing, stdout first.
func (r *Runner) writeBuildOutput(buildErr *hugo.BuildError) error {
	for _, out := range []string{buildErr.Stdout, buildErr.Stderr} {
		if out == "" {
			continue
		}
		if err := r.writePlain("%s\n", strings.TrimRight(out, "\n")); err != nil {
			return err
		}
	}
	return nil
}

func buildSummary(b *hugo.Builder, opts hugo.BuildOpts) string {
	lines := []string{
		fmt.Sprintf("Drafts: %t", opts.Drafts),
		fmt.Sprintf("Future: %t", opts.Future),
		fmt.Sprintf("Minify: %t", opts.Minify),
		"Command: " + b.CommandLine(opts),
	}
	return strings.Join(lines, "\n")
}

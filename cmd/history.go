package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guhcampos/guhcampos/internal/models"
	"github.com/guhcampos/guhcampos/internal/repositories"
	"github.com/guhcampos/guhcampos/internal/shared"
	"github.com/guhcampos/guhcampos/internal/ui"
	"github.com/urfave/cli/v3"
)

// History prints the most recent pipeline runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if r.config.Database.Path == "" {
		return fmt.Errorf("%w: database.path is not set, run history is disabled", shared.ErrMissingConfig)
	}

	limit := cmd.Int("limit")
	if limit <= 0 {
		return fmt.Errorf("%w: limit must be positive, got %d", shared.ErrInvalidArgument, limit)
	}

	db, err := shared.OpenHistory(r.config.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).List(ctx, models.RunKind(cmd.String("kind")), limit)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, true)
	}

	if len(runs) == 0 {
		r.printer.Status(ui.Info, "No runs recorded yet")
		return nil
	}

	for _, run := range runs {
		line := fmt.Sprintf("%-8s %-16s %s  processed=%d failed=%d  took %s",
			run.Status, run.Kind, humanize.Time(run.StartedAt), run.Processed, run.Failed, run.Duration().Round(time.Millisecond))
		if run.Message != "" {
			line += "  " + run.Message
		}
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

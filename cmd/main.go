package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/guhcampos/guhcampos/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{})
	app := newApp(runner)

	if err := app.Run(ctx, os.Args); err != nil {
		stop()
		runner.Close()
		shared.NewLogger(nil).Fatalf("application error: %v", err)
	}
	runner.Close()
}

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/guhcampos/guhcampos/internal/repositories"
	"github.com/guhcampos/guhcampos/internal/services"
	"github.com/guhcampos/guhcampos/internal/shared"
	"github.com/guhcampos/guhcampos/internal/tasks"
	"github.com/guhcampos/guhcampos/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    services.Catalog
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	printer    *ui.Printer
	closer     io.Closer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is loaded from the --config flag before any command runs.
// A nil Catalog is built from the Spotify section of the configuration.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		printer:    ui.NewPrinter(opts.Output),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		buildCommand, obsidianCommand, spotifyCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration and sets up logging, unless a configuration was injected.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config != nil {
		return ctx, nil
	}

	config, err := shared.LoadConfig(cmd.String("config"))
	if err != nil {
		return ctx, err
	}

	logger, closer, err := shared.SetupLogging(config.Log, nil)
	if err != nil {
		return ctx, err
	}

	r.config = config
	r.logger = logger
	r.closer = closer
	return ctx, nil
}

// Close releases the log file opened by [Runner.Before].
func (r *Runner) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// pipeline builds a [tasks.Pipeline] backed by the run history, when one is configured.
// The returned function closes the history database.
func (r *Runner) pipeline(catalog services.Catalog) (*tasks.Pipeline, func(), error) {
	if r.config.Database.Path == "" {
		return tasks.NewPipeline(catalog, nil, r.logger), func() {}, nil
	}

	db, err := shared.OpenHistory(r.config.Database.Path)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			r.logger.Warn("failed to close history database", "error", err)
		}
	}
	return tasks.NewPipeline(catalog, repositories.NewRunRepository(db), r.logger), cleanup, nil
}

// spotifyCatalog validates the Spotify credentials and returns the catalog to use.
func (r *Runner) spotifyCatalog() (services.Catalog, error) {
	if err := r.config.Spotify.Validate(); err != nil {
		return nil, err
	}
	if r.catalog != nil {
		return r.catalog, nil
	}

	spotify, err := services.NewSpotifyService(services.SpotifyOpts{
		ClientID:          r.config.Spotify.ClientID,
		ClientSecret:      r.config.Spotify.ClientSecret,
		HTTPClient:        r.httpClient,
		RequestsPerSecond: r.config.Spotify.RequestsPerSecond,
		Logger:            r.logger,
	})
	if err != nil {
		return nil, err
	}
	r.catalog = spotify
	return spotify, nil
}

// lock takes the workspace lock for commands that write into the site tree.
func (r *Runner) lock() (*shared.Lock, error) {
	lock, err := shared.AcquireLock(r.config.LockFile)
	if err != nil {
		return nil, err
	}
	if lock.Path() != "" {
		r.logger.Debug("acquired lock", "path", lock.Path())
	}
	return lock, nil
}

func (r *Runner) unlock(lock *shared.Lock) {
	if err := lock.Release(); err != nil {
		r.logger.Warn("failed to release lock", "path", lock.Path(), "error", err)
	}
}

// progress starts a goroutine that logs pipeline updates. The returned function
// closes the channel and waits for the last update to be logged.
func (r *Runner) progress() (chan tasks.ProgressUpdate, func()) {
	ch := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range ch {
			r.logger.Info(update.String())
		}
	}()

	return ch, func() {
		close(ch)
		<-done
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

package hugo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/guhcampos/guhcampos/internal/shared"
)

var commandContext = exec.CommandContext

// SiteConfig is the file that marks a directory as a Hugo site.
const SiteConfig = "hugo.toml"

// BuilderOpts configures a [Builder].
type BuilderOpts struct {
	Binary         string // defaults to "hugo" resolved through PATH
	SourceDir      string
	DestinationDir string
	Logger         *log.Logger
}

// Builder runs Hugo builds for one site.
type Builder struct {
	binary string
	src    string
	dst    string
	logger *log.Logger
}

// NewBuilder constructs a Builder using defaults. Site paths are made absolute
// since Hugo runs from inside the source directory.
func NewBuilder(opts BuilderOpts) *Builder {
	for _, dir := range []*string{&opts.SourceDir, &opts.DestinationDir} {
		if abs, err := filepath.Abs(*dir); err == nil {
			*dir = abs
		}
	}
	if opts.Binary == "" {
		opts.Binary = "hugo"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	return &Builder{binary: opts.Binary, src: opts.SourceDir, dst: opts.DestinationDir, logger: opts.Logger}
}

// BuildOpts toggles Hugo flags.
type BuildOpts struct {
	Drafts           bool // --buildDrafts
	Future           bool // --buildFuture
	Minify           bool // --minify
	CleanDestination bool // --cleanDestinationDir
	Verbose          bool // log captured stdout after a successful build
}

// DefaultBuildOpts produces the standard production build.
func DefaultBuildOpts() BuildOpts {
	return BuildOpts{Minify: true, CleanDestination: true}
}

// BuildOutput is the captured output of a successful build.
type BuildOutput struct {
	Args   []string
	Stdout string
	Stderr string
}

// BuildError reports a non-zero Hugo exit.
type BuildError struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("hugo build failed with exit code %d", e.ExitCode)
}

func (e *BuildError) Unwrap() error {
	return shared.ErrBuildFailed
}

// Validate checks that the source directory exists and holds a [SiteConfig].
func (b *Builder) Validate() error {
	info, err := os.Stat(b.src)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: hugo directory %q does not exist", shared.ErrInvalidConfig, b.src)
	}
	if _, err := os.Stat(filepath.Join(b.src, SiteConfig)); err != nil {
		return fmt.Errorf("%w: no %s found in %q", shared.ErrInvalidConfig, SiteConfig, b.src)
	}
	return nil
}

// Version runs "hugo version" and returns its trimmed output.
func (b *Builder) Version(ctx context.Context) (string, error) {
	cmd := commandContext(ctx, b.binary, "version") //nolint:gosec
	out, err := cmd.Output()
	if err != nil {
		if notInstalled(err) {
			return "", fmt.Errorf("%w: %w", shared.ErrHugoNotInstalled, err)
		}
		return "", fmt.Errorf("hugo version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Args returns the Hugo arguments for opts, without the binary.
//
// With [DefaultBuildOpts] this is exactly
// --minify --source <src> --destination <dst> --cleanDestinationDir.
func (b *Builder) Args(opts BuildOpts) []string {
	var args []string
	if opts.Minify {
		args = append(args, "--minify")
	}
	args = append(args, "--source", b.src, "--destination", b.dst)
	if opts.CleanDestination {
		args = append(args, "--cleanDestinationDir")
	}
	if opts.Drafts {
		args = append(args, "--buildDrafts")
	}
	if opts.Future {
		args = append(args, "--buildFuture")
	}
	return args
}

// CommandLine renders the full command for display.
func (b *Builder) CommandLine(opts BuildOpts) string {
	return strings.Join(append([]string{b.binary}, b.Args(opts)...), " ")
}

// Build runs Hugo from the source directory and waits for it to exit.
//
// Stdout and stderr are captured, never streamed. A missing binary returns
// [shared.ErrHugoNotInstalled] and a non-zero exit returns a [*BuildError].
func (b *Builder) Build(ctx context.Context, opts BuildOpts) (*BuildOutput, error) {
	args := b.Args(opts)
	b.logger.Info("Building Hugo site", "command", b.CommandLine(opts))

	var stdout, stderr bytes.Buffer
	cmd := commandContext(ctx, b.binary, args...) //nolint:gosec
	cmd.Dir = b.src
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			berr := &BuildError{ExitCode: exitErr.ExitCode(), Stdout: stdout.String(), Stderr: stderr.String()}
			b.logger.Error(berr.Error())
			return nil, berr
		}
		if notInstalled(err) {
			return nil, fmt.Errorf("%w: %w", shared.ErrHugoNotInstalled, err)
		}
		return nil, fmt.Errorf("failed to run hugo: %w", err)
	}

	out := &BuildOutput{Args: args, Stdout: stdout.String(), Stderr: stderr.String()}
	if opts.Verbose && out.Stdout != "" {
		b.logger.Info("Build output:\n" + out.Stdout)
	}
	return out, nil
}

// notInstalled matches a binary missing from PATH or a configured path that does not exist.
func notInstalled(err error) bool {
	var execErr *exec.Error
	return errors.As(err, &execErr) || errors.Is(err, fs.ErrNotExist)
}

// Stats describes the generated destination tree.
type Stats struct {
	Files     int
	SizeBytes int64
}

// HumanSize formats the total size, e.g. "1.2 MB".
func (s Stats) HumanSize() string {
	return humanize.Bytes(uint64(s.SizeBytes))
}

func (s Stats) String() string {
	return fmt.Sprintf("%s files, %s", humanize.Comma(int64(s.Files)), s.HumanSize())
}

// Stats walks the destination directory. It returns nil when nothing has been built.
func (b *Builder) Stats() (*Stats, error) {
	if _, err := os.Stat(b.dst); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	stats := &Stats{}
	err := filepath.WalkDir(b.dst, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		stats.Files++
		stats.SizeBytes += info.Size()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read build output: %w", err)
	}
	return stats, nil
}

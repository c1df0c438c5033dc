package obsidian

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/guhcampos/guhcampos/internal/formatter"
	"github.com/guhcampos/guhcampos/internal/models"
	"github.com/guhcampos/guhcampos/internal/shared"
)

// NoteExt is the extension of note files scanned in the vault.
const NoteExt = ".md"

// DefaultLanguages get their posts directory created even when no note targets them.
var DefaultLanguages = []string{"en", "pt-br"}

// Stats counts what a [Scanner] saw.
type Stats struct {
	Parsed    int // notes that parsed, published or not
	Published int // notes yielded
	Failed    int // files that could not be read or parsed
}

// Scanner enumerates publishable notes under a vault directory.
type Scanner struct {
	root   string
	logger *log.Logger
	stats  Stats
	err    error
	used   bool
}

// Scan prepares a scan of root. Nothing is read until [Scanner.Notes] is ranged over.
func Scan(root string, logger *log.Logger) *Scanner {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Scanner{root: root, logger: logger}
}

// Notes yields every note under root marked publish, in lexical path order.
//
// The sequence is single-use: ranging over it a second time yields nothing.
// Unreadable and malformed files are logged, counted and skipped.
func (s *Scanner) Notes() iter.Seq[models.Note] {
	return func(yield func(models.Note) bool) {
		if s.used {
			s.logger.Warn("note scan already consumed", "root", s.root)
			return
		}
		s.used = true

		err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == s.root {
					return err
				}
				s.logger.Warn("skipping unreadable path", "path", path, "error", err)
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), NoteExt) {
				return nil
			}

			note, ok := s.parseFile(path)
			if !ok || !note.Publish {
				return nil
			}

			s.stats.Published++
			if !yield(*note) {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			s.err = fmt.Errorf("failed to scan %s: %w", s.root, err)
			s.logger.Error("note scan aborted", "root", s.root, "error", err)
			return
		}

		s.logger.Info(fmt.Sprintf("Failed to parse %d obsidian notes", s.stats.Failed), "root", s.root)
	}
}

func (s *Scanner) parseFile(path string) (*models.Note, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		s.stats.Failed++
		s.logger.Warn("failed to read obsidian note", "path", path, "error", err)
		return nil, false
	}

	note, err := Parse(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		s.stats.Failed++
		s.logger.Warn("failed to parse an obsidian note", "path", path)
		s.logger.Debug(err.Error())
		return nil, false
	}

	s.stats.Parsed++
	return note, true
}

// Stats returns the counters accumulated so far.
func (s *Scanner) Stats() Stats {
	return s.stats
}

// Err returns the error that stopped the walk, if any.
func (s *Scanner) Err() error {
	return s.err
}

// PullOpts configures [Pull].
type PullOpts struct {
	VaultRoot string   // directory scanned recursively for notes
	OutputDir string   // Hugo content directory
	Languages []string // posts directories always created, defaults to [DefaultLanguages]
}

// PullResult describes a finished [Pull].
type PullResult struct {
	Written []string
	Stats   Stats
}

// PostPath is where a note is written: <dst>/<language>/posts/<slug>.md.
func PostPath(outputDir string, note models.Note) string {
	return filepath.Join(outputDir, note.Language, "posts", note.Slug()+NoteExt)
}

// Pull converts every published note under opts.VaultRoot into a Hugo post, overwriting existing posts.
func Pull(ctx context.Context, opts PullOpts, logger *log.Logger) (*PullResult, error) {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.Languages == nil {
		opts.Languages = DefaultLanguages
	}

	for _, lang := range opts.Languages {
		if err := shared.EnsureDir(filepath.Join(opts.OutputDir, lang, "posts")); err != nil {
			return nil, fmt.Errorf("failed to create posts directory: %w", err)
		}
	}

	scanner := Scan(opts.VaultRoot, logger)
	result := &PullResult{}

	for note := range scanner.Notes() {
		if err := ctx.Err(); err != nil {
			result.Stats = scanner.Stats()
			return result, err
		}

		filename := PostPath(opts.OutputDir, note)
		if err := shared.EnsureDir(filepath.Dir(filename)); err != nil {
			result.Stats = scanner.Stats()
			return result, fmt.Errorf("failed to create posts directory: %w", err)
		}

		post, err := formatter.ToHugoPost(note)
		if err != nil {
			result.Stats = scanner.Stats()
			return result, err
		}

		logger.Info("writing post", "file", filename)
		if err := shared.WriteFile(filename, post); err != nil {
			result.Stats = scanner.Stats()
			return result, err
		}
		result.Written = append(result.Written, filename)
	}

	result.Stats = scanner.Stats()
	return result, scanner.Err()
}

package obsidian

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/guhcampos/guhcampos/internal/models"
	"gopkg.in/yaml.v3"
)

// FrontmatterMarker delimits the YAML header of a note.
const FrontmatterMarker = "---"

// ErrMalformedNote matches every error returned by [Parse].
var ErrMalformedNote = errors.New("malformed obsidian note")

// johnnyDecimalRe matches an organisational id such as "01.02 " or "11.22.3 ".
var johnnyDecimalRe = regexp.MustCompile(`^\d+(\.\d+)+\s`)

// ParseError wraps the cause of a failed parse. Path is set by the scanner.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to parse obsidian note: %v", e.Err)
	}
	return fmt.Sprintf("failed to parse obsidian note %s: %v", e.Path, e.Err)
}

// Unwrap exposes both [ErrMalformedNote] and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedNote, e.Err}
}

// frontmatter is the strict shape of a note header.
type frontmatter struct {
	Tags        []string     `yaml:"tags"`
	Publish     *bool        `yaml:"publish"`
	Language    string       `yaml:"language"`
	PublishDate *models.Date `yaml:"publish_date"`
	Series      *string      `yaml:"series"`
}

func (f *frontmatter) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Tags, validation.NotNil),
		validation.Field(&f.Publish, validation.NotNil),
		validation.Field(&f.Language, validation.Required),
		validation.Field(&f.PublishDate, validation.NotNil),
	)
}

// Parse converts raw note text into a [models.Note].
func Parse(data []byte) (note *models.Note, err error) {
	defer func() {
		if r := recover(); r != nil {
			note, err = nil, &ParseError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	header, body, err := splitFrontmatter(string(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	var fm frontmatter
	dec := yaml.NewDecoder(strings.NewReader(header))
	dec.KnownFields(true)
	if err := dec.Decode(&fm); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("front matter: %w", err)}
	}
	if err := fm.Validate(); err != nil {
		return nil, &ParseError{Err: fmt.Errorf("front matter: %w", err)}
	}

	titleLine, content, ok := strings.Cut(strings.Trim(body, "\n"), "\n")
	if !ok {
		return nil, &ParseError{Err: errors.New("note has a title line but no content")}
	}

	note = &models.Note{
		Content:     strings.Trim(content, "\n"),
		Title:       CleanTitle(titleLine),
		Tags:        models.TagSet(fm.Tags),
		Publish:     *fm.Publish,
		Language:    fm.Language,
		PublishDate: *fm.PublishDate,
		Series:      fm.Series,
	}
	if err := note.Validate(); err != nil {
		return nil, &ParseError{Err: err}
	}

	return note, nil
}

// CleanTitle removes heading marks and surrounding spaces, then a leading Johnny Decimal id.
func CleanTitle(line string) string {
	title := strings.Trim(strings.TrimRight(line, "\r"), "# ")
	return StripID(title)
}

// StripID removes a leading hierarchical numeric identifier: "01.02 My Post" becomes "My Post".
func StripID(s string) string {
	return johnnyDecimalRe.ReplaceAllString(s, "")
}

// splitFrontmatter cuts the text on the first two markers. Only blank text may precede the first one.
func splitFrontmatter(text string) (header, body string, err error) {
	parts := strings.SplitN(text, FrontmatterMarker, 3)
	if len(parts) != 3 {
		return "", "", fmt.Errorf("expected a %q delimited front matter block", FrontmatterMarker)
	}
	if strings.TrimSpace(parts[0]) != "" {
		return "", "", errors.New("front matter must open the note")
	}
	return parts[1], parts[2], nil
}

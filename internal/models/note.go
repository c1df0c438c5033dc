package models

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/guhcampos/guhcampos/internal/shared"
	"gopkg.in/yaml.v3"
)

// Note is a publishable Obsidian note.
type Note struct {
	Content     string
	Title       string
	Tags        []string
	Publish     bool
	Language    string
	PublishDate Date
	Series      *string
}

// Slug derives the post file name from the title.
func (n Note) Slug() string {
	return shared.Slugify(n.Title)
}

// languageRe matches the language codes used as post directories, e.g. "en" or "pt-br".
var languageRe = regexp.MustCompile(`^[a-z]{2}(-[a-z]{2,4})?$`)

// Validate checks the fields every Hugo post needs.
func (n Note) Validate() error {
	if n.PublishDate.IsZero() {
		return fmt.Errorf("%w: note %q: publish_date: cannot be blank", shared.ErrInvalidRecord, n.Title)
	}
	err := validation.ValidateStruct(&n,
		validation.Field(&n.Title, validation.Required),
		validation.Field(&n.Language, validation.Required, validation.Match(languageRe)),
	)
	if err != nil {
		return fmt.Errorf("%w: note %q: %v", shared.ErrInvalidRecord, n.Title, err)
	}
	return nil
}

// TagSet flattens hierarchical tags: every "a/b/c" contributes "a", "b" and "c".
//
// Duplicates and empty segments are dropped. The result is sorted.
func TagSet(tags []string) []string {
	seen := make(map[string]struct{})
	for _, tag := range tags {
		for _, part := range strings.Split(tag, "/") {
			if part = strings.TrimSpace(part); part != "" {
				seen[part] = struct{}{}
			}
		}
	}

	set := make([]string, 0, len(seen))
	for tag := range seen {
		set = append(set, tag)
	}
	sort.Strings(set)
	return set
}

// DateLayout is the calendar date format used in note headers and generated posts.
const DateLayout = "2006-01-02"

// Date is a calendar date decoded from YAML front matter.
type Date struct {
	time.Time
}

// NewDate returns the date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "2006-01-02" or an RFC 3339 timestamp, keeping only the calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// UnmarshalYAML implements [yaml.Unmarshaler].
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: publish date must be a scalar", value.Line)
	}
	parsed, err := ParseDate(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*d = parsed
	return nil
}

// MarshalYAML implements [yaml.Marshaler].
func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

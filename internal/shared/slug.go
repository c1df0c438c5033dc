package shared

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	quoteRe    = regexp.MustCompile(`['"]+`)
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify returns a lowercase, hyphenated ASCII form of s suitable for file names and URLs.
//
// Accents are folded ("Canção" becomes "cancao"), quotes are dropped, and every other run of
// characters outside [a-z0-9] collapses into a single hyphen. A non-blank s with nothing left
// after folding ("日本語", "🔥") gets a stable 8-character hash of s instead.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(folded)
	folded = quoteRe.ReplaceAllString(folded, "")
	folded = nonAlnumRe.ReplaceAllString(folded, "-")

	slug := strings.Trim(folded, "-")
	if slug == "" && strings.TrimSpace(s) != "" {
		return hashSlug(s)
	}
	return slug
}

func hashSlug(s string) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(s)).String()
	return id[:8]
}

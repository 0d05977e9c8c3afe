// Package slugger derives URL-safe post identifiers from titles.
//
// A candidate is "<slugified-title>-MM-DD" with "-n" appended for the
// n-th collision on the same title and day. Uniqueness is only verified
// against the store at insert time; the unique constraint on the slug
// column is the authoritative guarantee.
package slugger

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

var dashRun = regexp.MustCompile(`-{2,}`)

// Candidate builds the n-th slug candidate for a title at the given time.
// n starts at 1 (no suffix); n >= 2 appends "-n". An empty title slugs
// to "untitled".
func Candidate(title string, now time.Time, n int) string {
	// slug.Make keeps underscores; slugs here are hyphen-only.
	base := slug.Make(title)
	base = strings.ReplaceAll(base, "_", "-")
	base = dashRun.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if base == "" {
		base = "untitled"
	}

	candidate := fmt.Sprintf("%s-%s", base, now.Format("01-02"))
	if n >= 2 {
		candidate = fmt.Sprintf("%s-%d", candidate, n)
	}
	return candidate
}

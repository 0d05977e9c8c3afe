// Package sanitize enforces the HTML allow-list for post content.
//
// All submitted content must pass through sanitize.Clean before hitting
// the DB. The view layer assumes already-sanitized content and renders it
// without re-escaping.
package sanitize

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var policyFile []byte

type policyTable struct {
	Tags map[string][]string `yaml:"tags"`
}

// policy is the cached bluemonday policy built from the embedded table.
// It's safe for concurrent use as bluemonday.Policy is read-only after
// build. Never call mutating helpers (AllowAttrs, AllowElements) on it
// after init as that would create a data race.
var policy = func() *bluemonday.Policy {
	p, err := buildPolicy(policyFile)
	if err != nil {
		panic(fmt.Sprintf("sanitize: bad embedded policy: %v", err))
	}
	return p
}()

func buildPolicy(raw []byte) (*bluemonday.Policy, error) {
	var table policyTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("unmarshal policy: %w", err)
	}
	if len(table.Tags) == 0 {
		return nil, fmt.Errorf("policy allows no tags")
	}

	p := bluemonday.NewPolicy()

	// http/https/mailto only, relative URLs allowed (uploaded media is
	// referenced as /static/uploads/...). javascript: never parses past
	// this, and event-handler attributes are not in the table at all.
	p.AllowStandardURLs()

	// Deterministic build order; bluemonday doesn't care, tests do.
	tags := make([]string, 0, len(table.Tags))
	for tag := range table.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		if attrs := table.Tags[tag]; len(attrs) > 0 {
			p.AllowAttrs(attrs...).OnElements(tag)
		}
		// A tag whose attributes were all stripped is still kept; the
		// allow-list gates tags and attributes independently.
		p.AllowElements(tag)
		p.AllowNoAttrs().OnElements(tag)
	}

	return p, nil
}

// Clean returns content containing only allow-listed tags and attributes.
// Disallowed tags are removed but their inner text is kept. Never errors:
// malformed HTML yields a best-effort cleaned string. Idempotent.
func Clean(content string) string {
	return policy.Sanitize(content)
}

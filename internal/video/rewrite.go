// Package video rewrites bare links to known video platforms into embed
// markup. It runs before sanitization so the injected iframes pass the
// content allow-list.
package video

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// urlPattern matches bare http(s) URLs: anything up to whitespace, quotes,
// angle brackets or the other delimiters a URL cannot legally contain.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)

// RewriteLinks replaces every recognized video URL in content with its
// embed fragment. URLs on unrecognized hosts, or recognized hosts where
// no video ID can be extracted, are left untouched. Each unique URL is
// rewritten in a single pass, so two textually identical links are not
// double-processed.
func RewriteLinks(content string) string {
	matches := urlPattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return content
	}

	seen := make(map[string]bool, len(matches))
	for _, raw := range matches {
		if seen[raw] {
			continue
		}
		seen[raw] = true

		embed := embedFor(raw)
		if embed == "" {
			continue
		}
		content = strings.ReplaceAll(content, raw, embed)
	}

	return content
}

// embedFor returns the embed fragment for a video URL, or "" when the URL
// is not a recognizable video link.
func embedFor(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	switch {
	case host == "youtube.com" || host == "m.youtube.com":
		if id := u.Query().Get("v"); id != "" && u.Path == "/watch" {
			return youtubeEmbed(id)
		}
	case host == "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return youtubeEmbed(id)
		}
	case host == "vimeo.com" || host == "player.vimeo.com":
		if id := lastSegment(u.Path); id != "" {
			return fmt.Sprintf(`<div class="video-wrapper"><iframe src="https://player.vimeo.com/video/%s" frameborder="0" allow="autoplay; fullscreen; picture-in-picture" allowfullscreen></iframe></div>`, id)
		}
	case host == "dailymotion.com":
		id := ""
		if _, after, ok := strings.Cut(u.Path, "/video/"); ok {
			id, _, _ = strings.Cut(after, "/")
		} else {
			id = lastSegment(u.Path)
		}
		if id != "" {
			return fmt.Sprintf(`<div class="video-wrapper"><iframe src="https://www.dailymotion.com/embed/video/%s" frameborder="0" allowfullscreen></iframe></div>`, id)
		}
	}

	return ""
}

func youtubeEmbed(id string) string {
	return fmt.Sprintf(`<div class="video-wrapper"><iframe src="https://www.youtube.com/embed/%s" frameborder="0" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen></iframe></div>`, id)
}

func lastSegment(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return ""
	}
	parts := strings.Split(path, "/")
	return parts[len(parts)-1]
}

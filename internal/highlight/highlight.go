// Package highlight wraps query matches in marker tags for display.
package highlight

import (
	"regexp"
	"strings"
)

// Marker tags wrapped around each match
const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// Options controls how the query is interpreted
type Options struct {
	CaseSensitive bool
	UseRegex      bool
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Highlight returns text with every match of query wrapped in MarkOpen and
// MarkClose, the rest escaped and otherwise unaltered. An empty query
// returns the sanitized input unchanged. A malformed regex pattern never
// propagates an error: matching falls back to the literal query.
func Highlight(text, query string, opts Options) string {
	if query == "" {
		return escaper.Replace(text)
	}

	re := compilePattern(query, opts)

	var b strings.Builder
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] == loc[1] {
			continue
		}
		b.WriteString(escaper.Replace(text[last:loc[0]]))
		b.WriteString(MarkOpen)
		b.WriteString(escaper.Replace(text[loc[0]:loc[1]]))
		b.WriteString(MarkClose)
		last = loc[1]
	}
	b.WriteString(escaper.Replace(text[last:]))
	return b.String()
}

func compilePattern(query string, opts Options) *regexp.Regexp {
	if opts.UseRegex {
		if re, err := regexp.Compile(withFolding(query, opts)); err == nil {
			return re
		}
		// Malformed pattern at render time: fall back to literal matching
	}
	return regexp.MustCompile(withFolding(regexp.QuoteMeta(query), opts))
}

func withFolding(pattern string, opts Options) string {
	if opts.CaseSensitive {
		return pattern
	}
	return "(?i)" + pattern
}

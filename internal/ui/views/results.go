package views

import (
	"fmt"
	"strings"

	"grepscope/internal/domain"
	"grepscope/internal/highlight"
)

var unescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

// ResultRenderer renders the result list with query matches styled
type ResultRenderer struct {
	styles *Styles
}

// NewResultRenderer creates a new result renderer
func NewResultRenderer(styles *Styles) *ResultRenderer {
	return &ResultRenderer{styles: styles}
}

// RenderLine styles one content line, with every query match highlighted.
// Marker tags from the highlighter are translated into terminal styles and
// the escaping it applied is undone for plain display.
func (r *ResultRenderer) RenderLine(content, query string, opts highlight.Options) string {
	marked := highlight.Highlight(content, query, opts)

	var b strings.Builder
	for {
		open := strings.Index(marked, highlight.MarkOpen)
		if open < 0 {
			b.WriteString(unescaper.Replace(marked))
			break
		}
		rest := marked[open+len(highlight.MarkOpen):]
		closeIdx := strings.Index(rest, highlight.MarkClose)
		if closeIdx < 0 {
			b.WriteString(unescaper.Replace(marked))
			break
		}

		b.WriteString(unescaper.Replace(marked[:open]))
		b.WriteString(r.styles.Highlight.Render(unescaper.Replace(rest[:closeIdx])))
		marked = rest[closeIdx+len(highlight.MarkClose):]
	}
	return b.String()
}

// RenderResults renders the visible window of the result list
func (r *ResultRenderer) RenderResults(results []domain.SearchResult, query string, opts highlight.Options, selected, offset, height int, showContext bool) string {
	if len(results) == 0 {
		return r.styles.Dim.Render("  No results")
	}

	if height < 1 {
		height = 1
	}
	end := offset + height
	if end > len(results) {
		end = len(results)
	}
	if offset > end {
		offset = end
	}

	var b strings.Builder
	for i := offset; i < end; i++ {
		res := results[i]

		header := fmt.Sprintf("%s%s",
			r.styles.FilePath.Render(res.FilePath),
			r.styles.LineNum.Render(fmt.Sprintf(":%d", res.LineNum)))

		line := fmt.Sprintf("  %s  %s", header, r.RenderLine(res.Content, query, opts))
		if i == selected {
			line = "> " + line[2:]
			line = r.styles.SelectionBg.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")

		if showContext && i == selected {
			for _, ctx := range res.ContextBefore {
				b.WriteString(r.styles.Context.Render("      | " + ctx))
				b.WriteString("\n")
			}
			for _, ctx := range res.ContextAfter {
				b.WriteString(r.styles.Context.Render("      | " + ctx))
				b.WriteString("\n")
			}
		}
	}

	if end < len(results) {
		b.WriteString(r.styles.Dim.Render(fmt.Sprintf("  ... %d more", len(results)-end)))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

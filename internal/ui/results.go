package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/GaryOcean428/qsearch/internal/search"
)

// renderOutcome renders the result list with mode-appropriate scoring
// columns. The backend's order is the ranking; rows are rendered as
// received, never re-sorted.
func renderOutcome(out *search.Outcome, cursor int, s Styles, width int) string {
	var b strings.Builder

	b.WriteString(renderProvenance(out, s) + "\n\n")

	if len(out.Results) == 0 {
		b.WriteString(s.StatusText.Render("  no results") + "\n")
		return b.String()
	}

	for i, r := range out.Results {
		badge := scoreBadge(out, r)
		title := r.Title
		if title == "" {
			title = r.URL
		}
		line := fmt.Sprintf("%s %s", s.ScoreBadge.Render(badge), truncate(title, width-len(badge)-6))
		if i == cursor {
			line = s.SelectedItem.Render(fmt.Sprintf("%s %s", badge, truncate(title, width-len(badge)-6)))
		}
		b.WriteString(line + "\n")
		if r.Snippet != "" {
			b.WriteString(s.Snippet.Render(truncate(r.Snippet, width-6)) + "\n")
		}
	}
	return b.String()
}

// scoreBadge formats the mode-specific scoring payload for one row.
func scoreBadge(out *search.Outcome, r search.Result) string {
	if out.Hybrid != nil {
		return fmt.Sprintf("#%d d=%.3f s=%.3f", r.SerperPosition, r.BasinDistance, r.HybridScore)
	}
	return fmt.Sprintf("d=%.3f", r.Distance)
}

// renderProvenance renders the outcome's mode-specific provenance line.
func renderProvenance(out *search.Outcome, s Styles) string {
	elapsed := out.Elapsed.Round(time.Millisecond).String()
	count := fmt.Sprintf("%d results", len(out.Results))

	if out.Hybrid != nil {
		return s.StatusText.Render(fmt.Sprintf("  %s · hybrid alpha=%.2f · %s", count, out.Hybrid.Alpha, elapsed))
	}

	cache := "cache: miss"
	if out.Local != nil && out.Local.CacheHit {
		cache = s.CacheBadge.Render("cache: hit")
	}
	return s.StatusText.Render(fmt.Sprintf("  %s · %s · %s", count, cache, elapsed))
}

// truncate shortens a string to max runes, appending "..." if truncated.
func truncate(str string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(str)
	if len(runes) <= max {
		return str
	}
	return string(runes[:max-3]) + "..."
}

package components

import (
	"fmt"
	"strings"

	"github.com/completeditmate/mate/internal/browse"
	"github.com/completeditmate/mate/internal/tui/styles"
)

// Pagination renders the page strip for the browse footer. Hidden
// entirely when there is a single page; prev/next render disabled at
// the edges.
func Pagination(page, totalPages int) string {
	items := browse.PageRange(page, totalPages)
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder

	if page <= 1 {
		b.WriteString(styles.DimStyle.Render("‹ prev"))
	} else {
		b.WriteString(styles.SubtitleStyle.Render("‹ prev"))
	}
	b.WriteString("  ")

	for i, item := range items {
		if i > 0 {
			b.WriteString(" ")
		}
		switch {
		case item.Ellipsis:
			b.WriteString(styles.DimStyle.Render("…"))
		case item.Page == page:
			b.WriteString(styles.HighlightStyle.Render(fmt.Sprintf("%d", item.Page)))
		default:
			b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("%d", item.Page)))
		}
	}

	b.WriteString("  ")
	if page >= totalPages {
		b.WriteString(styles.DimStyle.Render("next ›"))
	} else {
		b.WriteString(styles.SubtitleStyle.Render("next ›"))
	}

	return b.String()
}

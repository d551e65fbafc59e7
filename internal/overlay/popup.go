package overlay

import (
	"strings"

	"github.com/joeblew999/plat-mission/internal/geodoc"
)

// BuildPopup renders the popup markup: the bold title, then one
// "key: value" line per attribute in attribute order.
//
// Values are inserted verbatim. The mission files are operator-controlled
// static data, so no escaping is applied.
func BuildPopup(title string, attrs geodoc.Attributes) string {
	var b strings.Builder
	b.WriteString("<strong>")
	b.WriteString(title)
	b.WriteString("</strong><br/>")
	for _, a := range attrs {
		b.WriteString("<strong>")
		b.WriteString(a.Key)
		b.WriteString(":</strong> ")
		b.WriteString(a.Text())
		b.WriteString("<br/>")
	}
	return b.String()
}

// PopupLines returns the popup as plain text lines.
func PopupLines(title string, attrs geodoc.Attributes) []string {
	lines := make([]string, 0, len(attrs)+1)
	lines = append(lines, title)
	for _, a := range attrs {
		lines = append(lines, a.Key+": "+a.Text())
	}
	return lines
}

package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	domain "github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// WriteMarkdown writes the list as a GitHub-flavoured markdown agenda table.
// PRE: events are sorted by date
// POST: a heading, the export date and one table row per event are written to w
func WriteMarkdown(w io.Writer, events []domain.Event, now time.Time) error {
	_, err := w.Write(renderMarkdown(events, now, false))
	return err
}

// WriteHTML renders the markdown agenda to a standalone HTML page.
// PRE: events are sorted by date
// POST: a complete HTML document is written to w; user text is entity-escaped
func WriteHTML(w io.Writer, events []domain.Event, now time.Time) error {
	var body bytes.Buffer
	if err := markdownRenderer.Convert(renderMarkdown(events, now, true), &body); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Event List</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	_, err := w.Write(page.Bytes())
	return err
}

func renderMarkdown(events []domain.Event, now time.Time, escapeHTML bool) []byte {
	var b bytes.Buffer
	b.WriteString("# Event List\n\n")
	fmt.Fprintf(&b, "_Exported %s_\n\n", now.Format(domain.DateLayout))

	if len(events) == 0 {
		b.WriteString("No events.\n")
		return b.Bytes()
	}

	b.WriteString("| ID | Date | Title | Description |\n")
	b.WriteString("| --: | --- | --- | --- |\n")
	for _, e := range events {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
			e.ID, e.Date, cell(e.Title, escapeHTML), cell(e.Description, escapeHTML))
	}
	return b.Bytes()
}

func cell(s string, escapeHTML bool) string {
	if escapeHTML {
		s = html.EscapeString(s)
	}
	return cellReplacer.Replace(s)
}

package export

import (
	"fmt"
	"io"
	"strings"

	domain "github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

// EmptyText is the whole text export of an empty list.
const EmptyText = "No events.\n"

const ruleWidth = 60

var (
	headerRule = strings.Repeat("=", ruleWidth)
	eventRule  = strings.Repeat("-", ruleWidth)
)

// WriteText writes the fixed-width text report.
// PRE: events are sorted by date
// POST: "No events.\n" for an empty list; otherwise a header and a four-line block per event
func WriteText(w io.Writer, events []domain.Event) error {
	if len(events) == 0 {
		_, err := io.WriteString(w, EmptyText)
		return err
	}

	var b strings.Builder
	b.WriteString("Event List\n")
	b.WriteString(headerRule + "\n")
	for _, e := range events {
		fmt.Fprintf(&b, "ID: %d\n", e.ID)
		fmt.Fprintf(&b, "Title: %s\n", e.Title)
		fmt.Fprintf(&b, "Date: %s\n", e.Date)
		fmt.Fprintf(&b, "Description: %s\n", e.Description)
		b.WriteString(eventRule + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Package export writes one-way, human-oriented renderings of the event list.
// None of these formats can be loaded back.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	domain "github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

// Format identifies an export rendering.
type Format string

// Format constants.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatICS      Format = "ics"
)

// ErrUnknownFormat is returned for a Format outside the constants above.
var ErrUnknownFormat = errors.New("unknown export format")

// FormatFromPath picks a format from the file extension; anything unrecognised is text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".html", ".htm":
		return FormatHTML
	case ".ics", ".ical":
		return FormatICS
	default:
		return FormatText
	}
}

// Write renders events in the given format.
// PRE: events are sorted by date
// POST: the full rendering is written to w, or an error is returned
func Write(w io.Writer, format Format, events []domain.Event, now time.Time) error {
	switch format {
	case FormatText:
		return WriteText(w, events)
	case FormatMarkdown:
		return WriteMarkdown(w, events, now)
	case FormatHTML:
		return WriteHTML(w, events, now)
	case FormatICS:
		return WriteICS(w, events, now)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile renders events into path, replacing any existing content.
// PRE: path is writable
// POST: nothing is created when rendering fails; the file is closed on every
// return path; returns the number of bytes written
func WriteFile(path string, format Format, events []domain.Event, now time.Time) (n int, err error) {
	var buf bytes.Buffer
	if err := Write(&buf, format, events, now); err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
	}()

	n, err = f.Write(buf.Bytes())
	if err != nil {
		return n, fmt.Errorf("write export file: %w", err)
	}
	return n, nil
}

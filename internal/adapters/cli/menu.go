// Package cli is the interactive text menu over the reminder orchestrators.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/TalalLiaquat/event-reminder/internal/application/orchestrators"
	"github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

// Table layout for event listings.
const (
	idWidth          = 5
	titleWidth       = 20
	dateWidth        = 12
	descriptionWidth = 30
	ruleWidth        = 75
)

// Menu drives the numbered menu loop.
type Menu struct {
	in         *bufio.Scanner
	out        *bufio.Writer
	deps       orchestrators.ReminderDeps
	dataFile   string
	exportFile string
}

// NewMenu creates a Menu reading commands from in and printing to out.
// PRE: deps.EventStore is non-nil; dataFile and exportFile are the defaults offered
// when the user enters no filename
// POST: menu is ready to Run
func NewMenu(in io.Reader, out io.Writer, deps orchestrators.ReminderDeps, dataFile, exportFile string) *Menu {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanLines)
	return &Menu{
		in:         scanner,
		out:        bufio.NewWriter(out),
		deps:       deps,
		dataFile:   dataFile,
		exportFile: exportFile,
	}
}

// Run shows the menu until the user picks 0 or input ends.
// PRE: none
// POST: returns nil on exit or end of input; errors are only returned for output failures
func (m *Menu) Run(ctx context.Context) error {
	for {
		m.say("\nEvent Reminder Menu")
		m.say("1. Add event")
		m.say("2. Show upcoming events")
		m.say("3. Delete past events now")
		m.say("4. Export events")
		m.say("5. Save events to file")
		m.say("6. Load events from file")
		m.say("7. Delete an event by ID")
		m.say("0. Exit")

		choice, ok := m.ask("Enter choice: ")
		if !ok {
			return m.out.Flush()
		}

		switch choice {
		case "1":
			if !m.addEvents(ctx) {
				return m.out.Flush()
			}
		case "2":
			m.showUpcoming(ctx)
		case "3":
			orchestrators.ExecuteDeletePast(ctx, m.deps)
			m.say("Past events deleted (if any).")
		case "4":
			if !m.export(ctx) {
				return m.out.Flush()
			}
		case "5":
			if !m.save(ctx) {
				return m.out.Flush()
			}
		case "6":
			if !m.load(ctx) {
				return m.out.Flush()
			}
		case "7":
			if !m.remove(ctx) {
				return m.out.Flush()
			}
		case "0":
			m.say("Goodbye!")
			return m.out.Flush()
		default:
			m.say("Invalid choice. Try again.")
		}
	}
}

// addEvents prompts until an event is accepted, then offers another.
// Invalid input re-prompts; any other error returns to the menu.
// Returns false when input ended.
func (m *Menu) addEvents(ctx context.Context) bool {
	for {
		title, ok := m.ask("Title: ")
		if !ok {
			return false
		}
		date, ok := m.ask("Date (YYYY-MM-DD): ")
		if !ok {
			return false
		}
		description, ok := m.ask("Description (optional): ")
		if !ok {
			return false
		}

		_, err := orchestrators.ExecuteAddEvent(ctx, orchestrators.AddEventInput{
			Title:       title,
			Date:        date,
			Description: description,
		}, m.deps)
		if event.IsValidation(err) {
			m.say("Error: %v", err)
			m.say("Please try again.\n")
			continue
		}
		if err != nil {
			m.say("Error: %v", err)
			return true
		}
		m.say("Event added")

		again, ok := m.ask("Would you like to add another event? (y/n): ")
		if !ok {
			return false
		}
		if strings.ToLower(again) != "y" {
			return true
		}
	}
}

func (m *Menu) showUpcoming(ctx context.Context) {
	res := orchestrators.ExecuteShowUpcoming(ctx, m.deps)
	m.say("\nUpcoming events:")
	m.printTable(res.Events)
}

func (m *Menu) export(ctx context.Context) bool {
	path, ok := m.askPath("Enter filename (default: %s): ", m.exportFile)
	if !ok {
		return false
	}
	written, err := orchestrators.ExecuteExport(ctx, orchestrators.ExportInput{Path: path}, m.deps)
	if err != nil {
		m.say("Error: %v", err)
		return true
	}
	m.say("Exported to %s%s", written, fileSize(written))
	return true
}

func (m *Menu) save(ctx context.Context) bool {
	path, ok := m.askPath("Enter filename to save (default: %s): ", m.dataFile)
	if !ok {
		return false
	}
	written, err := orchestrators.ExecuteSave(ctx, orchestrators.FileInput{Path: path}, m.deps)
	if err != nil {
		m.say("Error: %v", err)
		return true
	}
	m.say("Saved to %s%s", written, fileSize(written))
	return true
}

func (m *Menu) load(ctx context.Context) bool {
	path, ok := m.askPath("Enter filename to load (default: %s): ", m.dataFile)
	if !ok {
		return false
	}
	res, err := orchestrators.ExecuteLoad(ctx, orchestrators.FileInput{Path: path}, m.deps)
	if err != nil {
		m.say("Error: %v", err)
		m.say("Events in memory were kept.")
		return true
	}
	if res.Snapshot == nil {
		m.say("Loaded %d events from %s", res.Count, path)
		return true
	}
	m.say("Loaded %d events from %s (last saved %s)", res.Count, path, humanize.Time(res.Snapshot.SavedAt))
	return true
}

func (m *Menu) remove(ctx context.Context) bool {
	id, ok := m.ask("Enter event ID to delete: ")
	if !ok {
		return false
	}
	removed, err := orchestrators.ExecuteRemoveEvent(ctx, orchestrators.RemoveEventInput{ID: id}, m.deps)
	if err != nil {
		m.say("Error: %v", err)
		return true
	}
	m.say("Removed %d event(s).", removed)
	return true
}

// printTable writes events as a fixed-width table.
func (m *Menu) printTable(events []event.Event) {
	if len(events) == 0 {
		m.say("No events found.")
		return
	}
	m.say("\n%s", formatRow("ID", "Title", "Date", "Description"))
	m.say("%s", strings.Repeat("-", ruleWidth))
	for _, e := range events {
		m.say("%s", formatRow(fmt.Sprint(e.ID), e.Title, e.Date, e.Description))
	}
}

// formatRow left-aligns each column to its width; longer values are not cut.
func formatRow(id, title, date, description string) string {
	return fmt.Sprintf("%-*s | %-*s | %-*s | %-*s",
		idWidth, id, titleWidth, title, dateWidth, date, descriptionWidth, description)
}

// fileSize renders " (12 kB)" for an existing file, or nothing.
func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf(" (%s)", humanize.Bytes(uint64(info.Size())))
}

// askPath prompts for a filename, falling back to def on empty input.
func (m *Menu) askPath(prompt, def string) (string, bool) {
	path, ok := m.ask(fmt.Sprintf(prompt, def))
	if !ok {
		return "", false
	}
	if path == "" {
		path = def
	}
	return path, true
}

// ask prints prompt without a newline and reads one trimmed line.
// Returns false at end of input.
func (m *Menu) ask(prompt string) (string, bool) {
	fmt.Fprint(m.out, prompt)
	m.out.Flush()
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) say(format string, args ...any) {
	fmt.Fprintf(m.out, format+"\n", args...)
	m.out.Flush()
}

package event

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the stored and displayed date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// inputDateLayout also accepts month and day without zero padding.
const inputDateLayout = "2006-1-2"

// Max length constants.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Event is a single dated reminder.
// PRE: ID > 0. Title is non-empty and trimmed.
// INVARIANT: Date is always stored in its canonical YYYY-MM-DD form.
type Event struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// New builds an event from raw user input.
// PRE: id > 0
// POST: returns a trimmed, validated Event or a *ValidationError
func New(id int, title, dateText, description string) (Event, error) {
	day, err := ParseDate(dateText)
	if err != nil {
		return Event{}, err
	}
	e := Event{
		ID:          id,
		Title:       strings.TrimSpace(title),
		Date:        day.Format(DateLayout),
		Description: strings.TrimSpace(description),
	}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Validate checks the event's invariants.
// PRE: none
// POST: returns nil if valid, *ValidationError describing the first violation otherwise
func (e *Event) Validate() error {
	if e.ID <= 0 {
		return invalid("id", "must be a positive integer", ErrInvalidID)
	}
	if e.Title == "" {
		return invalid("title", "cannot be empty", ErrEmptyTitle)
	}
	if utf8.RuneCountInString(e.Title) > MaxTitleLength {
		return invalid("title", fmt.Sprintf("cannot exceed %d characters", MaxTitleLength), ErrFieldTooLong)
	}
	if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
		return invalid("description", fmt.Sprintf("cannot exceed %d characters", MaxDescriptionLength), ErrFieldTooLong)
	}
	day, err := time.Parse(DateLayout, e.Date)
	if err != nil || day.Format(DateLayout) != e.Date {
		return invalid("date", fmt.Sprintf("%q is not a YYYY-MM-DD date", e.Date), ErrInvalidDate)
	}
	return nil
}

// Day returns the event date at midnight UTC.
// PRE: e.Date is valid (Validate returned nil)
// POST: returns the parsed day; zero time if the date is malformed
func (e Event) Day() time.Time {
	t, _ := time.Parse(DateLayout, e.Date)
	return t
}

// ParseDate parses user-typed text as year-month-day; month and day may omit
// the leading zero ("2024-1-5"). No other format is tried.
// PRE: none
// POST: returns the day at midnight UTC, or a *ValidationError wrapping ErrInvalidDate
func ParseDate(text string) (time.Time, error) {
	t, err := time.Parse(inputDateLayout, strings.TrimSpace(text))
	if err != nil {
		return time.Time{}, invalid("date", fmt.Sprintf("invalid date format %q, use YYYY-MM-DD", text), ErrInvalidDate)
	}
	return t, nil
}

// DayOf returns the local wall-clock calendar day of t, at midnight UTC, so it
// compares directly against Event.Day.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseID normalises an externally supplied identifier to the internal int form.
// PRE: none
// POST: returns id > 0, or a *ValidationError wrapping ErrInvalidID
func ParseID(text string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || id <= 0 {
		return 0, invalid("id", fmt.Sprintf("%q is not a valid event id", text), ErrInvalidID)
	}
	return id, nil
}

// SortByDate stably sorts events ascending by date; equal dates keep their
// relative order.
func SortByDate(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Day().Compare(b.Day())
	})
}

// MaxID returns the largest id in events, or 0 when events is empty.
func MaxID(events []Event) int {
	if len(events) == 0 {
		return 0
	}
	return slices.MaxFunc(events, func(a, b Event) int { return cmp.Compare(a.ID, b.ID) }).ID
}

// ValidateAll checks every event and that ids are unique.
// PRE: none
// POST: returns nil when the whole batch could be stored, otherwise the first violation
func ValidateAll(events []Event) error {
	seen := make(map[int]bool, len(events))
	for i := range events {
		if err := events[i].Validate(); err != nil {
			return fmt.Errorf("event #%d: %w", i+1, err)
		}
		if seen[events[i].ID] {
			return fmt.Errorf("event #%d: %w", i+1, invalid("id", fmt.Sprintf("duplicate id %d", events[i].ID), ErrDuplicateID))
		}
		seen[events[i].ID] = true
	}
	return nil
}

// IsValidation reports whether err is (or wraps) a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// SnapshotInfo describes the most recent save of a snapshot file.
type SnapshotInfo struct {
	ID         string // empty for formats that do not record one
	SavedAt    time.Time
	EventCount int
}

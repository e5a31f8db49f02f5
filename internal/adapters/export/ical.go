package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	domain "github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

// ProductID identifies this program in exported calendars.
const ProductID = "-//event-reminder//Event Reminder//EN"

// uidNamespace seeds stable per-event UIDs so a re-export updates rather than
// duplicates entries in calendar clients.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/TalalLiaquat/event-reminder"))

// ErrEmptyCalendar is returned when asked to write a calendar with no events;
// RFC 5545 requires at least one component.
var ErrEmptyCalendar = errors.New("no events to put in a calendar")

// EventUID returns the calendar UID for an event id.
func EventUID(id int) string {
	return uuid.NewSHA1(uidNamespace, []byte(fmt.Sprintf("event:%d", id))).String() + "@event-reminder"
}

// WriteICS writes the list as an iCalendar file with one all-day VEVENT per event.
// PRE: every event date is valid
// POST: a VCALENDAR with VERSION and PRODID is written to w; ErrEmptyCalendar for no events
func WriteICS(w io.Writer, events []domain.Event, now time.Time) error {
	if len(events) == 0 {
		return ErrEmptyCalendar
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	stamp := now.UTC()
	for _, e := range events {
		day := e.Day()

		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, EventUID(e.ID))
		ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		ev.Props.SetText(ical.PropSummary, e.Title)
		ev.Props.SetDate(ical.PropDateTimeStart, day)
		ev.Props.SetDate(ical.PropDateTimeEnd, day.AddDate(0, 0, 1))
		if e.Description != "" {
			ev.Props.SetText(ical.PropDescription, e.Description)
		}
		cal.Children = append(cal.Children, ev.Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

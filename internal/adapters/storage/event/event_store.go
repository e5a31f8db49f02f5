package event

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/TalalLiaquat/event-reminder/internal/adapters/export"
	domain "github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

// EventStore owns the in-memory event list and its snapshots.
// INVARIANT: events is sorted ascending by date, stable on insertion order.
// INVARIANT: nextID > every id ever assigned or loaded; ids are never reused.
type EventStore struct {
	events       []domain.Event
	nextID       int
	now          func() time.Time
	slowQueryMs  int
	openSnapshot func(path string, slowQueryMs int) Snapshotter
}

// NewEventStore creates an empty EventStore using the wall clock.
// PRE: slowQueryMs is the SQLite slow-query log threshold; <= 0 means the default
// POST: store is empty and NextID() == 1
func NewEventStore(slowQueryMs int) *EventStore {
	s := NewEventStoreWithClock(time.Now)
	s.slowQueryMs = slowQueryMs
	return s
}

// NewEventStoreWithClock creates an empty EventStore reading time from now.
// PRE: now is non-nil
// POST: store is empty and NextID() == 1
func NewEventStoreWithClock(now func() time.Time) *EventStore {
	return &EventStore{
		events:       []domain.Event{},
		nextID:       1,
		now:          now,
		openSnapshot: OpenSnapshot,
	}
}

// Add validates and inserts a new event with the next id.
// PRE: none
// POST: on success the event is stored, the list is re-sorted and NextID() advanced by 1;
// on failure (*domain.ValidationError) nothing changes
func (s *EventStore) Add(title, dateText, description string) (domain.Event, error) {
	e, err := domain.New(s.nextID, title, dateText, description)
	if err != nil {
		return domain.Event{}, err
	}
	s.events = append(s.events, e)
	domain.SortByDate(s.events)
	s.nextID++
	return e, nil
}

// Upcoming returns the events dated on or after ref's calendar day.
// A zero ref means now.
// PRE: none
// POST: returns a sorted copy; the store is not modified
func (s *EventStore) Upcoming(ref time.Time) []domain.Event {
	cutoff := s.cutoff(ref)
	upcoming := []domain.Event{}
	for _, e := range s.events {
		if !e.Day().Before(cutoff) {
			upcoming = append(upcoming, e)
		}
	}
	return upcoming
}

// DeletePast removes every event dated strictly before ref's calendar day.
// A zero ref means now.
// PRE: none
// POST: returns the number removed; remaining order is unchanged
func (s *EventStore) DeletePast(ref time.Time) int {
	cutoff := s.cutoff(ref)
	before := len(s.events)
	s.events = slices.DeleteFunc(s.events, func(e domain.Event) bool {
		return e.Day().Before(cutoff)
	})
	return before - len(s.events)
}

// RemoveByID removes the event with the given id.
// PRE: none
// POST: returns 1 if it existed, 0 otherwise; NextID() is unchanged
func (s *EventStore) RemoveByID(id int) int {
	before := len(s.events)
	s.events = slices.DeleteFunc(s.events, func(e domain.Event) bool {
		return e.ID == id
	})
	return before - len(s.events)
}

// RemoveByIDText parses an id typed by a user and removes that event.
// PRE: none
// POST: same as RemoveByID; non-numeric text returns a *domain.ValidationError and removes nothing
func (s *EventStore) RemoveByIDText(text string) (int, error) {
	id, err := domain.ParseID(text)
	if err != nil {
		return 0, err
	}
	return s.RemoveByID(id), nil
}

// ExportHumanReadable writes the plain-text report to path.
// PRE: path is writable
// POST: path holds the report ("No events.\n" when empty); returns path
func (s *EventStore) ExportHumanReadable(path string) (string, error) {
	return s.ExportAs(context.Background(), path, export.FormatText)
}

// ExportAs writes the event list to path in the given format.
// PRE: path is writable
// POST: path holds the rendering; returns path
func (s *EventStore) ExportAs(_ context.Context, path string, format export.Format) (string, error) {
	if _, err := export.WriteFile(path, format, s.events, s.now()); err != nil {
		return "", err
	}
	return path, nil
}

// SaveToFile writes a snapshot of every event to path, replacing its content.
// PRE: path is writable
// POST: LoadFromFile(path) reproduces the same events and NextID(); returns path
func (s *EventStore) SaveToFile(ctx context.Context, path string) (string, error) {
	if err := s.openSnapshot(path, s.slowQueryMs).Save(ctx, s.events); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// LoadFromFile replaces the store content with the snapshot at path.
// PRE: none
// POST: missing path returns 0 and leaves the store unchanged; malformed content
// returns *domain.CorruptDataError and leaves the store unchanged; otherwise the
// store holds exactly the loaded events, sorted, with NextID() == max id + 1
func (s *EventStore) LoadFromFile(ctx context.Context, path string) (int, error) {
	loaded, err := s.openSnapshot(path, s.slowQueryMs).Load(ctx)
	if errors.Is(err, ErrSnapshotNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if err := domain.ValidateAll(loaded); err != nil {
		return 0, domain.NewCorruptDataError(path, err)
	}

	domain.SortByDate(loaded)
	s.events = loaded
	s.nextID = domain.MaxID(loaded) + 1
	return len(loaded), nil
}

// LastSnapshot describes the snapshot at path without loading it into the store.
// PRE: none
// POST: ErrSnapshotNotFound if path does not exist or records no save
func (s *EventStore) LastSnapshot(ctx context.Context, path string) (domain.SnapshotInfo, error) {
	return s.openSnapshot(path, s.slowQueryMs).LastSnapshot(ctx)
}

// Events returns a copy of the stored events in date order.
func (s *EventStore) Events() []domain.Event {
	return slices.Clone(s.events)
}

// NextID returns the id the next Add will assign.
func (s *EventStore) NextID() int {
	return s.nextID
}

// Len returns the number of stored events.
func (s *EventStore) Len() int {
	return len(s.events)
}

func (s *EventStore) cutoff(ref time.Time) time.Time {
	if ref.IsZero() {
		ref = s.now()
	}
	return domain.DayOf(ref)
}

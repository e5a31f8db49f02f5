package orchestrators

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/TalalLiaquat/event-reminder/internal/adapters/export"
	eventStore "github.com/TalalLiaquat/event-reminder/internal/adapters/storage/event"
	"github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

// mockEventStoreForOrch implements EventStoreForOrchestrator for testing.
type mockEventStoreForOrch struct {
	events      []event.Event
	addErr      error
	saveErr     error
	loadCount   int
	loadErr     error
	snapshot    *event.SnapshotInfo
	snapshotErr error
	pastRef     time.Time
	upcomingRef time.Time
	exportPath  string
	exportFmt   export.Format
	calls       []string
}

func (m *mockEventStoreForOrch) Add(title, dateText, description string) (event.Event, error) {
	m.calls = append(m.calls, "add")
	if m.addErr != nil {
		return event.Event{}, m.addErr
	}
	e := event.Event{ID: len(m.events) + 1, Title: title, Date: dateText, Description: description}
	m.events = append(m.events, e)
	return e, nil
}

func (m *mockEventStoreForOrch) Upcoming(ref time.Time) []event.Event {
	m.calls = append(m.calls, "upcoming")
	m.upcomingRef = ref
	return m.events
}

func (m *mockEventStoreForOrch) DeletePast(ref time.Time) int {
	m.calls = append(m.calls, "delete_past")
	m.pastRef = ref
	if len(m.events) == 0 {
		return 0
	}
	m.events = m.events[1:]
	return 1
}

func (m *mockEventStoreForOrch) RemoveByIDText(text string) (int, error) {
	m.calls = append(m.calls, "remove")
	id, err := event.ParseID(text)
	if err != nil {
		return 0, err
	}
	for i, e := range m.events {
		if e.ID == id {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockEventStoreForOrch) ExportAs(_ context.Context, path string, format export.Format) (string, error) {
	m.calls = append(m.calls, "export")
	m.exportPath = path
	m.exportFmt = format
	return path, nil
}

func (m *mockEventStoreForOrch) SaveToFile(_ context.Context, path string) (string, error) {
	m.calls = append(m.calls, "save")
	if m.saveErr != nil {
		return "", m.saveErr
	}
	return path, nil
}

func (m *mockEventStoreForOrch) LoadFromFile(_ context.Context, _ string) (int, error) {
	m.calls = append(m.calls, "load")
	return m.loadCount, m.loadErr
}

func (m *mockEventStoreForOrch) LastSnapshot(_ context.Context, _ string) (event.SnapshotInfo, error) {
	m.calls = append(m.calls, "last_snapshot")
	if m.snapshotErr != nil {
		return event.SnapshotInfo{}, m.snapshotErr
	}
	if m.snapshot == nil {
		return event.SnapshotInfo{}, eventStore.ErrSnapshotNotFound
	}
	return *m.snapshot, nil
}

func (m *mockEventStoreForOrch) Len() int { return len(m.events) }

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// --- ExecuteAddEvent tests ---

// TestExecuteAddEvent_Valid tests that input is passed through to the store.
func TestExecuteAddEvent_Valid(t *testing.T) {
	store := &mockEventStoreForOrch{}
	e, err := ExecuteAddEvent(context.Background(), AddEventInput{
		Title:       "Dentist",
		Date:        "2026-04-01",
		Description: "bring card",
	}, ReminderDeps{EventStore: store, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.ID != 1 || e.Title != "Dentist" {
		t.Errorf("unexpected event %+v", e)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 stored event, got %d", store.Len())
	}
}

// TestExecuteAddEvent_Invalid tests that store errors are returned unchanged.
func TestExecuteAddEvent_Invalid(t *testing.T) {
	_, parseErr := event.ParseDate("2024-13-40")
	store := &mockEventStoreForOrch{addErr: parseErr}

	_, err := ExecuteAddEvent(context.Background(), AddEventInput{Title: "X", Date: "2024-13-40"},
		ReminderDeps{EventStore: store, Now: fixedNow})
	if !errors.Is(err, event.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

// --- ExecuteShowUpcoming tests ---

// TestExecuteShowUpcoming tests that past events are pruned before listing.
func TestExecuteShowUpcoming(t *testing.T) {
	store := &mockEventStoreForOrch{events: []event.Event{
		{ID: 1, Title: "old", Date: "2020-01-01"},
		{ID: 2, Title: "new", Date: "2099-01-01"},
	}}

	res := ExecuteShowUpcoming(context.Background(), ReminderDeps{EventStore: store, Now: fixedNow})
	if res.Removed != 1 {
		t.Errorf("expected 1 removed, got %d", res.Removed)
	}
	if len(res.Events) != 1 || res.Events[0].Title != "new" {
		t.Errorf("expected [new], got %+v", res.Events)
	}
	if len(store.calls) != 2 || store.calls[0] != "delete_past" || store.calls[1] != "upcoming" {
		t.Errorf("expected delete_past then upcoming, got %v", store.calls)
	}
	if !store.pastRef.Equal(fixedTime) || !store.upcomingRef.Equal(fixedTime) {
		t.Errorf("expected both calls at %v, got %v and %v", fixedTime, store.pastRef, store.upcomingRef)
	}
}

// --- ExecuteDeletePast tests ---

// TestExecuteDeletePast tests the removal count.
func TestExecuteDeletePast(t *testing.T) {
	store := &mockEventStoreForOrch{events: []event.Event{{ID: 1}}}
	if got := ExecuteDeletePast(context.Background(), ReminderDeps{EventStore: store, Now: fixedNow}); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := ExecuteDeletePast(context.Background(), ReminderDeps{EventStore: store, Now: fixedNow}); got != 0 {
		t.Errorf("expected 0 on empty store, got %d", got)
	}
}

// --- ExecuteRemoveEvent tests ---

// TestExecuteRemoveEvent tests removal by typed id.
func TestExecuteRemoveEvent(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    int
		wantErr error
	}{
		{"existing", "2", 1, nil},
		{"missing", "9", 0, nil},
		{"not a number", "two", 0, event.ErrInvalidID},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockEventStoreForOrch{events: []event.Event{{ID: 1}, {ID: 2}}}
			got, err := ExecuteRemoveEvent(context.Background(), RemoveEventInput{ID: tc.id},
				ReminderDeps{EventStore: store, Now: fixedNow})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if got != tc.want {
				t.Errorf("expected %d removed, got %d", tc.want, got)
			}
		})
	}
}

// --- ExecuteSave / ExecuteLoad tests ---

// TestExecuteSave tests path handling and error propagation.
func TestExecuteSave(t *testing.T) {
	store := &mockEventStoreForOrch{}
	deps := ReminderDeps{EventStore: store, Now: fixedNow}

	if _, err := ExecuteSave(context.Background(), FileInput{}, deps); !errors.Is(err, ErrPathRequired) {
		t.Errorf("expected ErrPathRequired, got %v", err)
	}
	if len(store.calls) != 0 {
		t.Errorf("store must not be called without a path, got %v", store.calls)
	}

	path, err := ExecuteSave(context.Background(), FileInput{Path: "events.json"}, deps)
	if err != nil || path != "events.json" {
		t.Errorf("ExecuteSave = %q, %v", path, err)
	}

	store.saveErr = errors.New("disk full")
	if _, err := ExecuteSave(context.Background(), FileInput{Path: "events.json"}, deps); err == nil {
		t.Error("expected save error")
	}
}

// TestExecuteLoad tests count and error propagation.
func TestExecuteLoad(t *testing.T) {
	store := &mockEventStoreForOrch{loadCount: 3}
	deps := ReminderDeps{EventStore: store, Now: fixedNow}

	res, err := ExecuteLoad(context.Background(), FileInput{Path: "events.json"}, deps)
	if err != nil || res.Count != 3 || res.Snapshot != nil {
		t.Fatalf("ExecuteLoad = %+v, %v", res, err)
	}

	store.loadErr = event.NewCorruptDataError("events.json", errors.New("bad"))
	store.calls = nil
	res, err = ExecuteLoad(context.Background(), FileInput{Path: "events.json"}, deps)
	var ce *event.CorruptDataError
	if !errors.As(err, &ce) || res.Count != 0 {
		t.Fatalf("expected CorruptDataError and 0, got %+v, %v", res, err)
	}
	if len(store.calls) != 1 {
		t.Errorf("snapshot info must not be read after a failed load, got %v", store.calls)
	}

	if _, err := ExecuteLoad(context.Background(), FileInput{}, deps); !errors.Is(err, ErrPathRequired) {
		t.Errorf("expected ErrPathRequired, got %v", err)
	}
}

// TestExecuteLoad_SnapshotInfo tests that the last save is reported with the load.
func TestExecuteLoad_SnapshotInfo(t *testing.T) {
	info := event.SnapshotInfo{ID: "abc", SavedAt: fixedTime.Add(-time.Hour), EventCount: 2}
	store := &mockEventStoreForOrch{loadCount: 2, snapshot: &info}
	deps := ReminderDeps{EventStore: store, Now: fixedNow}

	res, err := ExecuteLoad(context.Background(), FileInput{Path: "events.db"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Snapshot == nil || *res.Snapshot != info {
		t.Fatalf("expected snapshot %+v, got %+v", info, res.Snapshot)
	}

	// metadata failures do not fail a successful load
	store.snapshot = nil
	store.snapshotErr = errors.New("locked")
	res, err = ExecuteLoad(context.Background(), FileInput{Path: "events.db"}, deps)
	if err != nil || res.Count != 2 || res.Snapshot != nil {
		t.Errorf("expected count 2 without snapshot, got %+v, %v", res, err)
	}
}

// --- ExecuteExport tests ---

// TestExecuteExport_FormatSelection tests extension-based and explicit formats.
func TestExecuteExport_FormatSelection(t *testing.T) {
	tests := []struct {
		name   string
		input  ExportInput
		format export.Format
	}{
		{"text by default", ExportInput{Path: "events_export.txt"}, export.FormatText},
		{"markdown by extension", ExportInput{Path: "agenda.md"}, export.FormatMarkdown},
		{"ics by extension", ExportInput{Path: "cal.ics"}, export.FormatICS},
		{"explicit wins", ExportInput{Path: "agenda.txt", Format: export.FormatHTML}, export.FormatHTML},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockEventStoreForOrch{}
			path, err := ExecuteExport(context.Background(), tc.input, ReminderDeps{EventStore: store, Now: fixedNow})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if path != tc.input.Path || store.exportPath != tc.input.Path {
				t.Errorf("expected path %q, got %q", tc.input.Path, path)
			}
			if store.exportFmt != tc.format {
				t.Errorf("expected format %s, got %s", tc.format, store.exportFmt)
			}
		})
	}
}

// TestReminderOrchestrators_WithEventStore runs the orchestrators against the real store.
func TestReminderOrchestrators_WithEventStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := eventStore.NewEventStoreWithClock(fixedNow)
	deps := ReminderDeps{EventStore: store, Now: fixedNow}

	if _, err := ExecuteAddEvent(ctx, AddEventInput{Title: "Meeting", Date: "2099-01-01"}, deps); err != nil {
		t.Fatalf("add Meeting: %v", err)
	}
	if _, err := ExecuteAddEvent(ctx, AddEventInput{Title: "Party", Date: "2020-01-01", Description: "Fun"}, deps); err != nil {
		t.Fatalf("add Party: %v", err)
	}

	dataPath := filepath.Join(dir, "events.json")
	if _, err := ExecuteSave(ctx, FileInput{Path: dataPath}, deps); err != nil {
		t.Fatalf("save: %v", err)
	}

	res := ExecuteShowUpcoming(ctx, deps)
	if res.Removed != 1 || len(res.Events) != 1 || res.Events[0].Title != "Meeting" {
		t.Fatalf("unexpected upcoming result %+v", res)
	}

	loaded, err := ExecuteLoad(ctx, FileInput{Path: dataPath}, deps)
	if err != nil || loaded.Count != 2 {
		t.Fatalf("load = %+v, %v", loaded, err)
	}
	if loaded.Snapshot == nil || loaded.Snapshot.EventCount != 2 {
		t.Errorf("expected snapshot info for 2 events, got %+v", loaded.Snapshot)
	}
	if store.NextID() != 3 {
		t.Errorf("expected NextID 3 after load, got %d", store.NextID())
	}
}

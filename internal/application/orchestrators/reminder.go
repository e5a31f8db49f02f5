package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/TalalLiaquat/event-reminder/internal/adapters/export"
	eventStore "github.com/TalalLiaquat/event-reminder/internal/adapters/storage/event"
	"github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

// EventStoreForOrchestrator defines the store interface needed by reminder orchestrators.
type EventStoreForOrchestrator interface {
	Add(title, dateText, description string) (event.Event, error)
	Upcoming(ref time.Time) []event.Event
	DeletePast(ref time.Time) int
	RemoveByIDText(text string) (int, error)
	ExportAs(ctx context.Context, path string, format export.Format) (string, error)
	SaveToFile(ctx context.Context, path string) (string, error)
	LoadFromFile(ctx context.Context, path string) (int, error)
	LastSnapshot(ctx context.Context, path string) (event.SnapshotInfo, error)
	Len() int
}

// ErrPathRequired is returned when a file operation has no path.
var ErrPathRequired = errors.New("file path is required")

// ReminderDeps holds dependencies shared by the reminder orchestrators.
type ReminderDeps struct {
	EventStore EventStoreForOrchestrator
	Now        func() time.Time
}

func (d ReminderDeps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// --- Add Event ---

// AddEventInput carries input for the add event orchestrator.
type AddEventInput struct {
	Title       string
	Date        string // YYYY-MM-DD
	Description string
}

// ExecuteAddEvent adds a single event.
// PRE: none; validation is done by the store
// POST: event stored with the next id, or a *event.ValidationError and no change
func ExecuteAddEvent(_ context.Context, input AddEventInput, deps ReminderDeps) (event.Event, error) {
	e, err := deps.EventStore.Add(input.Title, input.Date, input.Description)
	if err != nil {
		slog.Debug("reminder_event", "event", "event_rejected", "error", err)
		return event.Event{}, err
	}

	slog.Info("reminder_event", "event", "event_added", "event_id", e.ID, "date", e.Date)
	return e, nil
}

// --- Show Upcoming ---

// ShowUpcomingResult carries what the upcoming listing produced.
type ShowUpcomingResult struct {
	Events  []event.Event
	Removed int
}

// ExecuteShowUpcoming drops past events and lists the rest.
// PRE: none
// POST: events dated before today are removed from the store; Events holds the
// remaining events in date order
func ExecuteShowUpcoming(_ context.Context, deps ReminderDeps) ShowUpcomingResult {
	now := deps.now()
	removed := deps.EventStore.DeletePast(now)
	upcoming := deps.EventStore.Upcoming(now)

	if removed > 0 {
		slog.Info("reminder_event", "event", "past_events_pruned", "removed", removed)
	}
	return ShowUpcomingResult{Events: upcoming, Removed: removed}
}

// --- Delete Past ---

// ExecuteDeletePast removes every event dated before today.
// PRE: none
// POST: returns the number removed
func ExecuteDeletePast(_ context.Context, deps ReminderDeps) int {
	removed := deps.EventStore.DeletePast(deps.now())
	slog.Info("reminder_event", "event", "past_events_deleted", "removed", removed, "remaining", deps.EventStore.Len())
	return removed
}

// --- Remove Event ---

// RemoveEventInput carries input for the remove event orchestrator.
type RemoveEventInput struct {
	ID string // as typed by the user
}

// ExecuteRemoveEvent removes one event by id.
// PRE: none
// POST: returns 1 if removed, 0 if no such id; non-numeric ids return a *event.ValidationError
func ExecuteRemoveEvent(_ context.Context, input RemoveEventInput, deps ReminderDeps) (int, error) {
	removed, err := deps.EventStore.RemoveByIDText(input.ID)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		slog.Info("reminder_event", "event", "event_removed", "event_id", input.ID)
	} else {
		slog.Debug("reminder_event", "event", "event_not_found", "event_id", input.ID)
	}
	return removed, nil
}

// --- Save / Load ---

// FileInput carries the target path for save, load and export.
type FileInput struct {
	Path string
}

// ExecuteSave writes a snapshot of the store.
// PRE: Path is non-empty
// POST: returns the written path
func ExecuteSave(ctx context.Context, input FileInput, deps ReminderDeps) (string, error) {
	if input.Path == "" {
		return "", ErrPathRequired
	}

	path, err := deps.EventStore.SaveToFile(ctx, input.Path)
	if err != nil {
		slog.Error("reminder_event", "event", "save_failed", "path", input.Path, "error", err)
		return "", err
	}

	slog.Info("reminder_event", "event", "events_saved", "path", path, "count", deps.EventStore.Len())
	return path, nil
}

// LoadResult carries what a load produced.
type LoadResult struct {
	Count    int
	Snapshot *event.SnapshotInfo // nil when the file records no save
}

// ExecuteLoad replaces the store content with the snapshot at Path.
// PRE: Path is non-empty
// POST: Count is the number loaded; 0 with no error when the file does not exist;
// on *event.CorruptDataError the store is unchanged
func ExecuteLoad(ctx context.Context, input FileInput, deps ReminderDeps) (LoadResult, error) {
	if input.Path == "" {
		return LoadResult{}, ErrPathRequired
	}

	n, err := deps.EventStore.LoadFromFile(ctx, input.Path)
	if err != nil {
		slog.Error("reminder_event", "event", "load_failed", "path", input.Path, "error", err)
		return LoadResult{}, err
	}

	res := LoadResult{Count: n}
	info, err := deps.EventStore.LastSnapshot(ctx, input.Path)
	switch {
	case err == nil:
		res.Snapshot = &info
	case !errors.Is(err, eventStore.ErrSnapshotNotFound):
		slog.Warn("reminder_event", "event", "snapshot_info_failed", "path", input.Path, "error", err)
	}

	slog.Info("reminder_event", "event", "events_loaded", "path", input.Path, "count", n)
	return res, nil
}

// --- Export ---

// ExportInput carries input for the export orchestrator.
type ExportInput struct {
	Path   string
	Format export.Format // empty means pick by extension
}

// ExecuteExport writes a human-oriented rendering of the store.
// PRE: Path is non-empty
// POST: returns the written path
func ExecuteExport(ctx context.Context, input ExportInput, deps ReminderDeps) (string, error) {
	if input.Path == "" {
		return "", ErrPathRequired
	}

	format := input.Format
	if format == "" {
		format = export.FormatFromPath(input.Path)
	}

	path, err := deps.EventStore.ExportAs(ctx, input.Path, format)
	if err != nil {
		slog.Error("reminder_event", "event", "export_failed", "path", input.Path, "format", string(format), "error", err)
		return "", err
	}

	slog.Info("reminder_event", "event", "events_exported", "path", path, "format", string(format), "count", deps.EventStore.Len())
	return path, nil
}

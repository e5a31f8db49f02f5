package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/TalalLiaquat/event-reminder/internal/adapters/storage"
	domain "github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

// SQLiteStore implements Snapshotter on a SQLite file.
// The database is opened per call and closed before returning.
type SQLiteStore struct {
	path        string
	slowQueryMs int
	generateID  func() string
	now         func() time.Time
}

// NewSQLiteStore creates a new SQLiteStore.
// PRE: path is a file path; slowQueryMs <= 0 means storage.DefaultSlowQueryMs
// POST: store is ready for use; nothing is touched on disk yet
func NewSQLiteStore(path string, slowQueryMs int) *SQLiteStore {
	return &SQLiteStore{
		path:        path,
		slowQueryMs: slowQueryMs,
		generateID:  func() string { return uuid.NewString() },
		now:         time.Now,
	}
}

// Save replaces the stored events with events in a single transaction and
// records a snapshot row.
// PRE: events hold valid Events with unique ids
// POST: event table holds exactly events; on failure the previous content is kept
func (s *SQLiteStore) Save(ctx context.Context, events []domain.Event) error {
	db, err := storage.OpenSQLite(ctx, s.path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.InitDB(db); err != nil {
		return err
	}

	snap := domain.SnapshotInfo{ID: s.generateID(), SavedAt: s.now(), EventCount: len(events)}
	return saveEvents(ctx, storage.NewTimedDB(db, s.slowQueryMs), events, snap)
}

// Load reads every stored event.
// PRE: none
// POST: ErrSnapshotNotFound if the file is missing; *domain.CorruptDataError if it
// is not a readable snapshot database
func (s *SQLiteStore) Load(ctx context.Context) ([]domain.Event, error) {
	tdb, err := s.openExisting(ctx)
	if err != nil {
		return nil, err
	}
	defer tdb.Close()

	events, err := loadEvents(ctx, tdb)
	if err != nil {
		return nil, domain.NewCorruptDataError(s.path, err)
	}
	return events, nil
}

// LastSnapshot returns metadata for the most recent Save.
// PRE: none
// POST: ErrSnapshotNotFound if the file is missing or holds no snapshot rows
func (s *SQLiteStore) LastSnapshot(ctx context.Context) (domain.SnapshotInfo, error) {
	tdb, err := s.openExisting(ctx)
	if err != nil {
		return domain.SnapshotInfo{}, err
	}
	defer tdb.Close()

	info, err := lastSnapshot(ctx, tdb)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SnapshotInfo{}, ErrSnapshotNotFound
	}
	if err != nil {
		return domain.SnapshotInfo{}, domain.NewCorruptDataError(s.path, err)
	}
	return info, nil
}

// openExisting opens the snapshot file without creating it.
func (s *SQLiteStore) openExisting(ctx context.Context) (*storage.TimedDB, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSnapshotNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	db, err := storage.OpenSQLite(ctx, s.path)
	if err != nil {
		return nil, domain.NewCorruptDataError(s.path, err)
	}
	return storage.NewTimedDB(db, s.slowQueryMs), nil
}

// saveEvents replaces the event table content and records snap, all in one transaction.
func saveEvents(ctx context.Context, db storage.SQLDB, events []domain.Event, snap domain.SnapshotInfo) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM event`); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	for _, e := range events {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO event (id, title, date, description) VALUES (?, ?, ?, ?)`,
			e.ID, e.Title, e.Date, e.Description,
		); err != nil {
			return fmt.Errorf("failed to insert event %d: %w", e.ID, err)
		}
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO snapshot (id, saved_at, event_count) VALUES (?, ?, ?)`,
		snap.ID, snap.SavedAt.UTC().Format(time.RFC3339), snap.EventCount,
	); err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// loadEvents reads the event table in date order.
func loadEvents(ctx context.Context, db storage.SQLDB) ([]domain.Event, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, date, description FROM event ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Description); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// lastSnapshot reads the newest snapshot row; sql.ErrNoRows when there is none.
func lastSnapshot(ctx context.Context, db storage.SQLDB) (domain.SnapshotInfo, error) {
	var info domain.SnapshotInfo
	var savedAt string
	err := db.QueryRowContext(ctx,
		`SELECT id, saved_at, event_count FROM snapshot ORDER BY saved_at DESC, rowid DESC LIMIT 1`,
	).Scan(&info.ID, &savedAt, &info.EventCount)
	if err != nil {
		return domain.SnapshotInfo{}, err
	}
	info.SavedAt, err = time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("snapshot %s: bad saved_at %q: %w", info.ID, savedAt, err)
	}
	return info, nil
}

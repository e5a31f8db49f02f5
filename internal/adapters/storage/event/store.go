package event

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	domain "github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

// ErrSnapshotNotFound is returned by Load when the snapshot file does not exist.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshotter persists the full event list as one snapshot.
type Snapshotter interface {
	Save(ctx context.Context, events []domain.Event) error
	Load(ctx context.Context) ([]domain.Event, error)
	LastSnapshot(ctx context.Context) (domain.SnapshotInfo, error)
}

// OpenSnapshot picks the snapshot backend for path by extension:
// .db, .sqlite and .sqlite3 use SQLite, everything else is JSON.
// slowQueryMs is the SQLite slow-query log threshold.
func OpenSnapshot(path string, slowQueryMs int) Snapshotter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewSQLiteStore(path, slowQueryMs)
	default:
		return NewJSONFileStore(path)
	}
}

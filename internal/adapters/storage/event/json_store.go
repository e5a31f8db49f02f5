package event

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	domain "github.com/TalalLiaquat/event-reminder/internal/domain/event"
)

// JSONFileStore implements Snapshotter as an indented JSON array.
type JSONFileStore struct {
	path string
}

// NewJSONFileStore creates a new JSONFileStore.
// PRE: path is non-empty
// POST: store is ready for use; nothing is touched on disk yet
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// jsonRecord mirrors domain.Event with pointers so missing fields are detectable.
type jsonRecord struct {
	ID          *int    `json:"id"`
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

// Save writes events as a JSON array, replacing the file.
// PRE: events hold valid Events
// POST: the file holds exactly events; on failure the previous file is left in place
func (s *JSONFileStore) Save(_ context.Context, events []domain.Event) error {
	if events == nil {
		events = []domain.Event{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(events); err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	return writeFileAtomic(s.path, buf.Bytes())
}

// Load reads the JSON array back.
// PRE: none
// POST: ErrSnapshotNotFound if the file is missing; *domain.CorruptDataError if it
// is not an array of {id,title,date,description} objects
func (s *JSONFileStore) Load(_ context.Context) ([]domain.Event, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, domain.NewCorruptDataError(s.path, errors.New("expected a JSON array of events"))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var records []jsonRecord
	if err := dec.Decode(&records); err != nil {
		return nil, domain.NewCorruptDataError(s.path, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, domain.NewCorruptDataError(s.path, errors.New("unexpected data after the event array"))
	}

	events := make([]domain.Event, 0, len(records))
	for i, r := range records {
		if r.ID == nil || r.Title == nil || r.Date == nil {
			return nil, domain.NewCorruptDataError(s.path, fmt.Errorf("event #%d: id, title and date are required", i+1))
		}
		e := domain.Event{ID: *r.ID, Title: *r.Title, Date: *r.Date}
		if r.Description != nil {
			e.Description = *r.Description
		}
		events = append(events, e)
	}
	return events, nil
}

// LastSnapshot reports the file modification time and the number of events in it.
// PRE: none
// POST: ErrSnapshotNotFound if the file is missing; *domain.CorruptDataError as for Load
func (s *JSONFileStore) LastSnapshot(ctx context.Context) (domain.SnapshotInfo, error) {
	info, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.SnapshotInfo{}, ErrSnapshotNotFound
	}
	if err != nil {
		return domain.SnapshotInfo{}, fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	events, err := s.Load(ctx)
	if err != nil {
		return domain.SnapshotInfo{}, err
	}
	return domain.SnapshotInfo{SavedAt: info.ModTime(), EventCount: len(events)}, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it over path.
func writeFileAtomic(path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

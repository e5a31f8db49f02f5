package event

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// TestNew tests building events from raw input.
func TestNew(t *testing.T) {
	e, err := New(1, "  Dentist  ", "2026-03-15", "  bring card ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Title != "Dentist" {
		t.Errorf("expected trimmed title, got %q", e.Title)
	}
	if e.Description != "bring card" {
		t.Errorf("expected trimmed description, got %q", e.Description)
	}
	if e.Date != "2026-03-15" {
		t.Errorf("expected date 2026-03-15, got %s", e.Date)
	}
}

// TestNew_Invalid tests that bad input is rejected with a ValidationError.
func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		date    string
		desc    string
		wantErr error
	}{
		{"month out of range", "X", "2024-13-40", "", ErrInvalidDate},
		{"day out of range", "X", "2024-02-30", "", ErrInvalidDate},
		{"slashes", "X", "2024/01/01", "", ErrInvalidDate},
		{"day first", "X", "01-02-2024", "", ErrInvalidDate},
		{"two digit year", "X", "24-01-05", "", ErrInvalidDate},
		{"with time", "X", "2024-01-05T10:00:00", "", ErrInvalidDate},
		{"empty date", "X", "", "", ErrInvalidDate},
		{"empty title", "   ", "2024-01-05", "", ErrEmptyTitle},
		{"title too long", strings.Repeat("a", MaxTitleLength+1), "2024-01-05", "", ErrFieldTooLong},
		{"description too long", "X", "2024-01-05", strings.Repeat("d", MaxDescriptionLength+1), ErrFieldTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(1, tc.title, tc.date, tc.desc)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got: %v", tc.wantErr, err)
			}
			if !IsValidation(err) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
		})
	}
}

// TestNew_UnpaddedDate tests that month and day may omit the leading zero.
func TestNew_UnpaddedDate(t *testing.T) {
	for _, in := range []string{"2024-1-5", "2024-01-5", "2024-1-05", "2024-01-05"} {
		t.Run(in, func(t *testing.T) {
			e, err := New(1, "X", in, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.Date != "2024-01-05" {
				t.Errorf("expected canonical 2024-01-05, got %q", e.Date)
			}
		})
	}
}

// TestValidate_NonCanonicalDate tests that a stored date must already be YYYY-MM-DD.
func TestValidate_NonCanonicalDate(t *testing.T) {
	for _, date := range []string{" 2099-01-01", "2099-01-01 ", "2099-1-1", "2099-01-1"} {
		t.Run(date, func(t *testing.T) {
			e := Event{ID: 1, Title: "Future", Date: date}
			if err := e.Validate(); !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("expected ErrInvalidDate for %q, got %v", date, err)
			}
		})
	}
}

// TestNew_NonASCII tests that multi-byte titles count runes, not bytes.
func TestNew_NonASCII(t *testing.T) {
	title := strings.Repeat("é", MaxTitleLength)
	if _, err := New(1, title, "2026-01-01", ""); err != nil {
		t.Fatalf("expected %d runes to be accepted, got: %v", MaxTitleLength, err)
	}
}

// TestParseID tests identifier normalisation.
func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{" 42 ", 42, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"3.0", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseID(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidID) {
					t.Fatalf("expected ErrInvalidID, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

// TestSortByDate tests that sorting is ascending and stable.
func TestSortByDate(t *testing.T) {
	events := []Event{
		{ID: 1, Title: "late", Date: "2030-01-01"},
		{ID: 2, Title: "tie-a", Date: "2025-06-01"},
		{ID: 3, Title: "early", Date: "2020-01-01"},
		{ID: 4, Title: "tie-b", Date: "2025-06-01"},
	}
	SortByDate(events)

	want := []int{3, 2, 4, 1}
	for i, id := range want {
		if events[i].ID != id {
			t.Fatalf("position %d: expected id %d, got %d", i, id, events[i].ID)
		}
	}
}

// TestMaxID tests max id lookup.
func TestMaxID(t *testing.T) {
	if got := MaxID(nil); got != 0 {
		t.Errorf("expected 0 for empty slice, got %d", got)
	}
	events := []Event{{ID: 4}, {ID: 9}, {ID: 2}}
	if got := MaxID(events); got != 9 {
		t.Errorf("expected 9, got %d", got)
	}
}

// TestValidateAll tests batch validation used when loading snapshots.
func TestValidateAll(t *testing.T) {
	ok := []Event{
		{ID: 1, Title: "a", Date: "2026-01-01"},
		{ID: 2, Title: "b", Date: "2026-01-02"},
	}
	if err := ValidateAll(ok); err != nil {
		t.Fatalf("expected valid batch, got: %v", err)
	}

	dup := []Event{
		{ID: 1, Title: "a", Date: "2026-01-01"},
		{ID: 1, Title: "b", Date: "2026-01-02"},
	}
	if err := ValidateAll(dup); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	badDate := []Event{{ID: 1, Title: "a", Date: "01/01/2026"}}
	if err := ValidateAll(badDate); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

// TestDayOf tests that the wall-clock day is kept regardless of zone.
func TestDayOf(t *testing.T) {
	zone := time.FixedZone("UTC+13", 13*3600)
	ref := time.Date(2026, 3, 15, 23, 30, 0, 0, zone)
	got := DayOf(ref)
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// TestCorruptDataError tests unwrapping of the corrupt data error.
func TestCorruptDataError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := NewCorruptDataError("events.json", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected CorruptDataError to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "events.json") {
		t.Errorf("expected path in message, got %q", err.Error())
	}
}

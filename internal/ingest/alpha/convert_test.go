package alpha

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/gymlog/internal/models"
)

// TestToHistory verifies that working sets become history sets and warmups are dropped.
func TestToHistory(t *testing.T) {
	entries := ToHistory(parseExport(t))
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	e := entries[0]
	if e.ID != "alpha-20260303T1810" {
		t.Errorf("id = %q", e.ID)
	}
	if e.ProgramName != "Upper-Lower" || e.DayName != "Upper" {
		t.Errorf("program/day = %q/%q", e.ProgramName, e.DayName)
	}
	if e.PerformedAt != "2026-03-03T18:10:00.000Z" {
		t.Errorf("performedAt = %q", e.PerformedAt)
	}
	if e.ProgramID != "" || e.DayID != "" {
		t.Errorf("imported entries should not reference programs: %+v", e)
	}
	if len(e.Exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(e.Exercises))
	}

	bench := e.Exercises[0]
	if bench.Name != "Bench Press" || len(bench.Sets) != 2 {
		t.Fatalf("bench = %+v", bench)
	}
	first := bench.Sets[0]
	if first.Target != 8 || *first.Reps != 8 || *first.Weight != 82.5 {
		t.Errorf("first set = target %d reps %d weight %v", first.Target, *first.Reps, *first.Weight)
	}

	pullups := e.Exercises[1]
	if len(pullups.Sets) != 2 || *pullups.Sets[0].Weight != 10 {
		t.Errorf("pull-ups = %+v", pullups.Sets)
	}

	if full := entries[1]; full.ProgramName != "Full Body" || full.DayName != "Full Body" {
		t.Errorf("program/day = %q/%q", full.ProgramName, full.DayName)
	}
}

// TestSplitSessionName covers names with and without the " · " separator.
func TestSplitSessionName(t *testing.T) {
	tests := []struct {
		name, program, day string
	}{
		{"Legs · Day 2 · Week 4 · Push-Pull-Legs", "Push-Pull-Legs", "Legs"},
		{"Full Body", "Full Body", "Full Body"},
	}
	for _, tt := range tests {
		program, day := splitSessionName(tt.name)
		if program != tt.program || day != tt.day {
			t.Errorf("splitSessionName(%q) = %q, %q; want %q, %q", tt.name, program, day, tt.program, tt.day)
		}
	}
}

type fakeImporter struct {
	got   []models.HistoryEntry
	added int
	err   error
}

func (f *fakeImporter) ImportHistory(_ context.Context, entries []models.HistoryEntry) (int, error) {
	f.got = entries
	return f.added, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestProviderIngest verifies counts reported back to the caller.
func TestProviderIngest(t *testing.T) {
	dst := &fakeImporter{added: 1}
	res, err := NewProvider(dst, discardLogger()).Ingest(context.Background(), strings.NewReader(exportCSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(dst.got) != 2 {
		t.Fatalf("imported %d entries, want 2", len(dst.got))
	}
	if res.SessionsReceived != 2 || res.SessionsInserted != 1 || res.SessionsReplaced != 1 {
		t.Errorf("result = %+v", res)
	}
	// 2+2 working sets in the first session, 3 in the second.
	if res.SetsReceived != 7 {
		t.Errorf("sets = %d, want 7", res.SetsReceived)
	}
}

// TestProviderIngestEmpty does not touch history when the export is empty.
func TestProviderIngestEmpty(t *testing.T) {
	dst := &fakeImporter{}
	res, err := NewProvider(dst, discardLogger()).Ingest(context.Background(), strings.NewReader("\n"))
	if err != nil {
		t.Fatal(err)
	}
	if dst.got != nil {
		t.Error("importer should not be called")
	}
	if res.Message == "" {
		t.Error("expected a message for an empty export")
	}
}

// TestProviderIngestError wraps importer failures.
func TestProviderIngestError(t *testing.T) {
	boom := errors.New("disk full")
	_, err := NewProvider(&fakeImporter{err: boom}, discardLogger()).Ingest(context.Background(), strings.NewReader(exportCSV))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

// TestProviderIngestInvalid reports unparseable exports as ErrInvalidExport.
func TestProviderIngestInvalid(t *testing.T) {
	csv := "\"Push\";\"2026-02-17 5:04 h\";\"1:12 hr\"\n1;100;6;0\n"
	_, err := NewProvider(&fakeImporter{}, discardLogger()).Ingest(context.Background(), strings.NewReader(csv))
	if !errors.Is(err, ErrInvalidExport) {
		t.Fatalf("err = %v, want ErrInvalidExport", err)
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/gymlog/internal/history"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/rotation"
	"github.com/claude/gymlog/internal/session"
	"github.com/claude/gymlog/internal/tracker"
)

// fakeSource is an in-memory DataSource.
type fakeSource struct {
	programs  []models.Program
	exercises []models.Exercise
	entries   []models.HistoryEntry
	view      *session.View
	err       error

	gotStart, gotEnd, gotExercise string
}

func (f *fakeSource) ListPrograms(context.Context) ([]models.Program, error) {
	return f.programs, f.err
}

func (f *fakeSource) ListExercises(context.Context) ([]models.Exercise, error) {
	return f.exercises, f.err
}

func (f *fakeSource) NextDay(_ context.Context, id string) (tracker.DayChoice, error) {
	for _, p := range f.programs {
		if p.ID == id {
			day, idx := rotation.ResolveDefaultDay(&p)
			return tracker.DayChoice{ProgramID: p.ID, ProgramName: p.Name, Day: day, DayIndex: idx}, nil
		}
	}
	return tracker.DayChoice{}, tracker.ErrNotFound
}

func (f *fakeSource) QueryHistory(_ context.Context, start, end, exercise string) ([]models.HistoryEntry, error) {
	f.gotStart, f.gotEnd, f.gotExercise = start, end, exercise
	return history.NewestFirst(history.Between(f.entries, start, end)), f.err
}

func (f *fakeSource) LatestPerformance(_ context.Context, exercise string) (*history.Performance, error) {
	p, ok := history.LatestPerformance(f.entries, exercise)
	if !ok {
		return nil, f.err
	}
	return &p, f.err
}

func (f *fakeSource) WeightProgress(_ context.Context, exercise string) (tracker.Progress, error) {
	points := history.WeightSeries(f.entries, exercise)
	p := tracker.Progress{Exercise: exercise, Points: points}
	if s, ok := history.Summarize(points); ok {
		p.Summary = &s
	}
	return p, f.err
}

func (f *fakeSource) ActiveSession(context.Context) (*session.View, error) {
	return f.view, f.err
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func sampleSource() *fakeSource {
	return &fakeSource{
		exercises: []models.Exercise{{ID: "bench", Name: "Bench Press"}, {ID: "row", Name: "Row"}},
		programs: []models.Program{{
			ID:           "pp",
			Name:         "Push Pull",
			NextDayIndex: 1,
			Days: []models.Day{
				{ID: "a", Name: "Push", Items: []models.DayItem{{ID: "i1", ExerciseID: "bench", Sets: 2, TargetReps: []int{8, 6}}}},
				{ID: "b", Name: "Pull", Items: []models.DayItem{{ID: "i2", ExerciseID: "row", Sets: 1, TargetReps: []int{10}}, {ID: "i3", ExerciseID: "gone", Sets: 1, TargetReps: []int{5}}}},
			},
		}},
		entries: []models.HistoryEntry{
			{ID: "h1", PerformedAt: "2026-02-10T18:00:00.000Z", Exercises: []models.HistoryExercise{{Name: "Bench Press", Sets: []models.SetResult{{Target: 8, Reps: intp(8), Weight: floatp(60)}}}}},
			{ID: "h2", PerformedAt: "2026-02-24T18:00:00.000Z", Exercises: []models.HistoryExercise{{Name: "Bench Press", Sets: []models.SetResult{{Target: 8, Reps: intp(7), Weight: floatp(62.5)}}}}},
		},
	}
}

func testHandlers(ds DataSource) *handlers {
	h := newHandlers(ds, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.now = func() time.Time { return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC) }
	return h
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestNewRegistersTools verifies that the server can be built from any DataSource.
func TestNewRegistersTools(t *testing.T) {
	if s := New(sampleSource(), "test", slog.New(slog.NewTextHandler(io.Discard, nil))); s == nil {
		t.Fatal("New returned nil")
	}
}

// TestListProgramsResolvesNames verifies exercise ids are replaced by names
// and that the next day is flagged.
func TestListProgramsResolvesNames(t *testing.T) {
	h := testHandlers(sampleSource())
	res, err := h.listPrograms(context.Background(), callTool("list_programs", nil))
	if err != nil || res.IsError {
		t.Fatalf("listPrograms: %v %v", err, res)
	}

	var got []programSummary
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || len(got[0].Days) != 2 {
		t.Fatalf("programs = %+v", got)
	}
	if got[0].Days[0].Next || !got[0].Days[1].Next {
		t.Errorf("next flags = %v/%v, want false/true", got[0].Days[0].Next, got[0].Days[1].Next)
	}
	if push := got[0].Days[0].Exercises; push[0].Targets != "8/6" {
		t.Errorf("push targets = %q, want 8/6", push[0].Targets)
	}
	pull := got[0].Days[1].Exercises
	if pull[0].Name != "Row" || pull[1].Name != "Unknown Exercise" {
		t.Errorf("pull exercises = %+v", pull)
	}
}

// TestGetNextDayByName verifies programs can be referenced by name.
func TestGetNextDayByName(t *testing.T) {
	h := testHandlers(sampleSource())
	res, err := h.getNextDay(context.Background(), callTool("get_next_day", map[string]any{"program": "push pull"}))
	if err != nil || res.IsError {
		t.Fatalf("getNextDay: %v %+v", err, res)
	}
	text := resultText(t, res)
	if !strings.Contains(text, `"dayIndex":1`) || !strings.Contains(text, `"Pull"`) {
		t.Errorf("result = %s", text)
	}

	res, _ = h.getNextDay(context.Background(), callTool("get_next_day", map[string]any{"program": "Legs"}))
	if !res.IsError {
		t.Error("expected error for unknown program")
	}
	res, _ = h.getNextDay(context.Background(), callTool("get_next_day", nil))
	if !res.IsError {
		t.Error("expected error for missing program")
	}
}

// TestGetHistoryBounds verifies date and timestamp arguments are normalized
// before reaching the data source.
func TestGetHistoryBounds(t *testing.T) {
	ds := sampleSource()
	h := testHandlers(ds)

	res, err := h.getHistory(context.Background(), callTool("get_history", map[string]any{
		"start":    "2026-02-20T00:00:00+01:00",
		"end":      "2026-02-24",
		"exercise": "bench press",
	}))
	if err != nil || res.IsError {
		t.Fatalf("getHistory: %v %+v", err, res)
	}
	if ds.gotStart != "2026-02-19T23:00:00.000Z" || ds.gotEnd != "2026-02-24" || ds.gotExercise != "bench press" {
		t.Errorf("bounds = %q %q %q", ds.gotStart, ds.gotEnd, ds.gotExercise)
	}
	var entries []models.HistoryEntry
	if err := json.Unmarshal([]byte(resultText(t, res)), &entries); err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != "h2" {
		t.Errorf("entries = %+v", entries)
	}

	res, _ = h.getHistory(context.Background(), callTool("get_history", map[string]any{"start": "yesterday"}))
	if !res.IsError {
		t.Error("expected error for invalid date")
	}
}

// TestGetLatestPerformance covers both a hit and an exercise without history.
func TestGetLatestPerformance(t *testing.T) {
	h := testHandlers(sampleSource())
	res, _ := h.getLatestPerformance(context.Background(), callTool("get_latest_performance", map[string]any{"exercise": "BENCH PRESS"}))
	if res.IsError || !strings.Contains(resultText(t, res), `"weight":62.5`) {
		t.Errorf("result = %s", resultText(t, res))
	}

	res, _ = h.getLatestPerformance(context.Background(), callTool("get_latest_performance", map[string]any{"exercise": "Squat"}))
	if res.IsError || !strings.Contains(resultText(t, res), "no recorded sets") {
		t.Errorf("result = %s", resultText(t, res))
	}
}

// TestGetWeightProgress verifies the series and summary are returned.
func TestGetWeightProgress(t *testing.T) {
	h := testHandlers(sampleSource())
	res, _ := h.getWeightProgress(context.Background(), callTool("get_weight_progress", map[string]any{"exercise": "Bench Press"}))
	var p tracker.Progress
	if err := json.Unmarshal([]byte(resultText(t, res)), &p); err != nil {
		t.Fatal(err)
	}
	if len(p.Points) != 2 || p.Summary == nil || p.Summary.Delta != 2.5 {
		t.Errorf("progress = %+v", p)
	}
}

// TestGetActiveSession reports an idle tracker as text rather than an error.
func TestGetActiveSession(t *testing.T) {
	ds := sampleSource()
	h := testHandlers(ds)
	res, _ := h.getActiveSession(context.Background(), callTool("get_active_session", nil))
	if res.IsError || resultText(t, res) != "no active session" {
		t.Errorf("idle result = %+v", res)
	}

	ds.view = &session.View{ProgramName: "Push Pull", DayName: "Pull", Position: "1/2"}
	res, _ = h.getActiveSession(context.Background(), callTool("get_active_session", nil))
	if !strings.Contains(resultText(t, res), `"position":"1/2"`) {
		t.Errorf("active result = %s", resultText(t, res))
	}

	ds.err = errors.New("boom")
	res, _ = h.getActiveSession(context.Background(), callTool("get_active_session", nil))
	if !res.IsError {
		t.Error("expected tool error when the source fails")
	}
}

// TestRecentHistoryWindow verifies the resource only asks for the last 14 days.
func TestRecentHistoryWindow(t *testing.T) {
	ds := sampleSource()
	h := testHandlers(ds)

	var req mcp.ReadResourceRequest
	req.Params.URI = "gymlog://recent_history"
	contents, err := h.recentHistory(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if ds.gotStart != "2026-02-16T12:00:00.000Z" {
		t.Errorf("start = %q", ds.gotStart)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, `"h2"`) || strings.Contains(text, `"h1"`) {
		t.Errorf("recent history = %s", text)
	}
}

// TestExerciseCatalogUsage lists where each exercise is used.
func TestExerciseCatalogUsage(t *testing.T) {
	h := testHandlers(sampleSource())

	var req mcp.ReadResourceRequest
	req.Params.URI = "gymlog://exercise_catalog"
	contents, err := h.exerciseCatalog(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	var catalog []catalogEntry
	if err := json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &catalog); err != nil {
		t.Fatal(err)
	}
	if len(catalog) != 2 || len(catalog[0].UsedIn) != 1 || catalog[0].UsedIn[0] != "Push Pull / Push" {
		t.Errorf("catalog = %+v", catalog)
	}
}

package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/gymlog/internal/models"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// historyBound turns a tool argument into a performedAt bound. Dates are
// kept as-is so an end date covers the whole day; timestamps are converted
// to the stored UTC layout.
func historyBound(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := parseFlexTime(s)
	if err != nil {
		return "", err
	}
	if len(s) == len("2006-01-02") {
		return s, nil
	}
	return t.UTC().Format(models.TimestampLayout), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// --- Tool definitions ---

var toolListPrograms = mcp.NewTool("list_programs",
	mcp.WithDescription("List training programs with their days in rotation order, each day's exercises with sets and target reps per set (e.g. \"8/8/6\"), and which day comes next."),
)

var toolGetNextDay = mcp.NewTool("get_next_day",
	mcp.WithDescription("Return the day the next session of a program will train, with its exercises."),
	mcp.WithString("program", mcp.Required(), mcp.Description("Program id or name (case-insensitive)")),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Completed sessions, newest first. Each entry holds the performed sets (target, reps, weight) per exercise."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to the first session.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD, inclusive). Defaults to now.")),
	mcp.WithString("exercise", mcp.Description("Only sessions containing this exercise (case-insensitive exact name)")),
)

var toolGetLatestPerformance = mcp.NewTool("get_latest_performance",
	mcp.WithDescription("The most recent recorded sets for an exercise, as shown as 'last time' during a session."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (case-insensitive)")),
)

var toolGetWeightProgress = mcp.NewTool("get_weight_progress",
	mcp.WithDescription("Top set weight per session for an exercise, oldest first, with first, latest and delta."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name exactly as recorded in history")),
)

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("The session in progress: day, current exercise, sets logged so far and last time's values. Reports when no session is active."),
)

// --- Tool handlers ---

type programDay struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Next      bool             `json:"next"`
	Exercises []programDayItem `json:"exercises"`
}

type programDayItem struct {
	Name    string `json:"name"`
	Sets    int    `json:"sets"`
	Targets string `json:"targets"`
}

type programSummary struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Days []programDay `json:"days"`
}

func summarizeProgram(p models.Program, names map[string]string) programSummary {
	out := programSummary{ID: p.ID, Name: p.Name, Days: []programDay{}}
	for i, d := range p.Days {
		day := programDay{ID: d.ID, Name: d.Name, Next: i == p.NextDayIndex, Exercises: []programDayItem{}}
		for _, it := range d.Items {
			name, ok := names[it.ExerciseID]
			if !ok {
				name = "Unknown Exercise"
			}
			day.Exercises = append(day.Exercises, programDayItem{Name: name, Sets: it.Sets, Targets: models.FormatTargetReps(it.TargetReps)})
		}
		out.Days = append(out.Days, day)
	}
	return out
}

func (h *handlers) exerciseNames(ctx context.Context) (map[string]string, error) {
	exercises, err := h.ds.ListExercises(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(exercises))
	for _, e := range exercises {
		names[e.ID] = e.Name
	}
	return names, nil
}

func (h *handlers) listPrograms(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	programs, err := h.ds.ListPrograms(ctx)
	if err != nil {
		h.log.Error("mcp list_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	names, err := h.exerciseNames(ctx)
	if err != nil {
		h.log.Error("mcp list_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	out := make([]programSummary, 0, len(programs))
	for _, p := range programs {
		out = append(out, summarizeProgram(p, names))
	}
	return jsonResult(out)
}

func (h *handlers) getNextDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("program")
	if err != nil {
		return mcp.NewToolResultError("program parameter is required"), nil
	}

	programs, err := h.ds.ListPrograms(ctx)
	if err != nil {
		h.log.Error("mcp get_next_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	id := ""
	for _, p := range programs {
		if p.ID == ref {
			id = p.ID
			break
		}
		if id == "" && models.NormalizeName(p.Name) == models.NormalizeName(ref) {
			id = p.ID
		}
	}
	if id == "" {
		return mcp.NewToolResultError("program not found: " + ref), nil
	}

	next, err := h.ds.NextDay(ctx, id)
	if err != nil {
		h.log.Error("mcp get_next_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if next.Day == nil {
		return mcp.NewToolResultText("program " + next.ProgramName + " has no days"), nil
	}

	names, err := h.exerciseNames(ctx)
	if err != nil {
		h.log.Error("mcp get_next_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	day := summarizeProgram(models.Program{Days: []models.Day{*next.Day}}, names).Days[0]
	day.Next = true
	return jsonResult(map[string]any{
		"programId":   next.ProgramID,
		"programName": next.ProgramName,
		"dayIndex":    next.DayIndex,
		"day":         day,
	})
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, err := historyBound(req.GetString("start", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	end, err := historyBound(req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	entries, err := h.ds.QueryHistory(ctx, start, end, req.GetString("exercise", ""))
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(entries)
}

func (h *handlers) getLatestPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	perf, err := h.ds.LatestPerformance(ctx, exercise)
	if err != nil {
		h.log.Error("mcp get_latest_performance", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if perf == nil {
		return mcp.NewToolResultText("no recorded sets for " + exercise), nil
	}
	return jsonResult(map[string]any{"exercise": exercise, "performedAt": perf.PerformedAt, "sets": perf.Sets})
}

func (h *handlers) getWeightProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	progress, err := h.ds.WeightProgress(ctx, exercise)
	if err != nil {
		h.log.Error("mcp get_weight_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(progress)
}

func (h *handlers) getActiveSession(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	v, err := h.ds.ActiveSession(ctx)
	if err != nil {
		h.log.Error("mcp get_active_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if v == nil {
		return mcp.NewToolResultText("no active session"), nil
	}
	return jsonResult(v)
}

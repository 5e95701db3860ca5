package mcp

import (
	"context"

	"github.com/claude/gymlog/internal/history"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/session"
	"github.com/claude/gymlog/internal/tracker"
)

// DataSource abstracts the workout data behind the MCP tools. Local (in
// process) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListPrograms(ctx context.Context) ([]models.Program, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	NextDay(ctx context.Context, programID string) (tracker.DayChoice, error)
	QueryHistory(ctx context.Context, start, end, exercise string) ([]models.HistoryEntry, error)
	// LatestPerformance returns nil when the exercise has no usable history.
	LatestPerformance(ctx context.Context, exercise string) (*history.Performance, error)
	WeightProgress(ctx context.Context, exercise string) (tracker.Progress, error)
	// ActiveSession returns nil when no session is running.
	ActiveSession(ctx context.Context) (*session.View, error)
}

// Local serves tools straight from a Tracker in the same process.
type Local struct {
	t *tracker.Tracker
}

// Compile-time check: Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal wraps t.
func NewLocal(t *tracker.Tracker) *Local {
	return &Local{t: t}
}

func (l *Local) ListPrograms(context.Context) ([]models.Program, error) {
	return l.t.Programs(), nil
}

func (l *Local) ListExercises(context.Context) ([]models.Exercise, error) {
	return l.t.Exercises(), nil
}

func (l *Local) NextDay(_ context.Context, programID string) (tracker.DayChoice, error) {
	return l.t.NextDay(programID)
}

func (l *Local) QueryHistory(_ context.Context, start, end, exercise string) ([]models.HistoryEntry, error) {
	return l.t.History(start, end, exercise), nil
}

func (l *Local) LatestPerformance(_ context.Context, exercise string) (*history.Performance, error) {
	p, ok := l.t.LatestPerformance(exercise)
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (l *Local) WeightProgress(_ context.Context, exercise string) (tracker.Progress, error) {
	return l.t.WeightProgress(exercise), nil
}

func (l *Local) ActiveSession(context.Context) (*session.View, error) {
	v, ok := l.t.Session()
	if !ok {
		return nil, nil
	}
	return &v, nil
}

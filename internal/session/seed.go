package session

import (
	"time"

	"github.com/claude/gymlog/internal/history"
	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/rotation"
)

// Request selects what to train. An empty DayID means the program's next day.
type Request struct {
	ProgramID string `json:"program_id"`
	DayID     string `json:"day_id,omitempty"`
}

// New resolves the program and day for req against st and seeds a session
// for them. It fails with an ErrInvalid error when nothing can be trained.
// st is not modified.
func New(st *models.State, req Request, now time.Time) (*Session, error) {
	program := st.FindProgram(req.ProgramID)
	if program == nil {
		return nil, ErrNoProgram
	}
	if len(program.Days) == 0 {
		return nil, ErrNoDays
	}

	var day *models.Day
	var dayIndex int
	if req.DayID != "" {
		day, dayIndex = program.FindDay(req.DayID)
	} else {
		day, dayIndex = rotation.ResolveDefaultDay(program)
	}
	if day == nil {
		return nil, ErrNoDay
	}
	return Seed(st, program, day, dayIndex, now)
}

// Seed builds the initial plan and log for day. When history holds a previous
// performance of an exercise with at least one set, that set count replaces
// the planned one and the targets are resized to match.
func Seed(st *models.State, program *models.Program, day *models.Day, dayIndex int, now time.Time) (*Session, error) {
	if len(day.Items) == 0 {
		return nil, ErrEmptyDay
	}

	s := &Session{
		ProgramID:      program.ID,
		DayID:          day.ID,
		DayIndex:       dayIndex,
		Exercises:      make([]Exercise, len(day.Items)),
		PreviousByName: make(map[string]history.Performance),
		Log:            make([]LogEntry, len(day.Items)),
		StartedAt:      now,
	}
	for i, item := range day.Items {
		name := "Unknown Exercise"
		if ex := st.FindExercise(item.ExerciseID); ex != nil {
			name = ex.Name
		}
		sets := max(1, item.Sets)

		if prev, ok := history.LatestPerformance(st.History, name); ok {
			s.PreviousByName[models.NormalizeName(name)] = prev
			sets = len(prev.Sets)
		}

		s.Exercises[i] = Exercise{
			Name:       name,
			Sets:       sets,
			TargetReps: EnsureTargetRepsLength(item.TargetReps, sets),
		}
		s.Log[i] = LogEntry{Name: name}
		s.syncLog(i)
	}
	return s, nil
}

// Package session is the live workout: an exercise cursor over a day's
// exercises and a mutable grid of logged sets. A Session is created by New,
// mutated by its methods and turned into a history entry on completion.
//
// A Session has no locking of its own. The tracker owns the single active
// Session and serializes access to it.
package session

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/claude/gymlog/internal/history"
	"github.com/claude/gymlog/internal/models"
)

// Field selects which value of a set RecordSet writes.
type Field string

const (
	FieldReps   Field = "reps"
	FieldWeight Field = "weight"
)

// Exercise is one exercise of the session plan.
type Exercise struct {
	Name       string `json:"name"`
	Sets       int    `json:"sets"`
	TargetReps []int  `json:"targetReps"`
}

// LogEntry holds what was actually done for the exercise at the same index.
// TargetReps mirrors the plan and len(Sets) equals the planned set count.
type LogEntry struct {
	Name       string           `json:"name"`
	TargetReps []int            `json:"targetReps"`
	Sets       []history.SetLog `json:"sets"`
}

// Session is an in-progress workout.
type Session struct {
	ProgramID      string                         `json:"programId"`
	DayID          string                         `json:"dayId"`
	DayIndex       int                            `json:"dayIndex"`
	ExerciseIndex  int                            `json:"exerciseIndex"`
	Exercises      []Exercise                     `json:"exercises"`
	PreviousByName map[string]history.Performance `json:"previousByName"`
	Log            []LogEntry                     `json:"log"`
	StartedAt      time.Time                      `json:"startedAt"`
}

// EnsureTargetRepsLength returns a copy of reps truncated or extended to n
// entries. New slots repeat the last value, or 0 when reps is empty.
func EnsureTargetRepsLength(reps []int, n int) []int {
	n = max(n, 0)
	out := make([]int, n)
	copied := copy(out, reps)
	last := 0
	if len(reps) > 0 {
		last = reps[len(reps)-1]
	}
	for i := copied; i < n; i++ {
		out[i] = last
	}
	return out
}

// Cycle moves the cursor by delta, wrapping in both directions.
// No-op when the session has no exercises.
func (s *Session) Cycle(delta int) error {
	if delta != -1 && delta != 1 {
		return ErrInvalidDelta
	}
	n := len(s.Exercises)
	if n == 0 {
		return nil
	}
	s.ExerciseIndex = ((s.ExerciseIndex+delta)%n + n) % n
	return nil
}

// ChangeSetCount adds or removes one set of the current exercise, never going
// below one set. Reports whether anything changed.
func (s *Session) ChangeSetCount(delta int) (bool, error) {
	if delta != -1 && delta != 1 {
		return false, ErrInvalidDelta
	}
	i := s.ExerciseIndex
	if i < 0 || i >= len(s.Exercises) || i >= len(s.Log) {
		return false, nil
	}
	ex := &s.Exercises[i]
	next := max(1, ex.Sets+delta)
	if next == ex.Sets {
		return false, nil
	}

	ex.Sets = next
	ex.TargetReps = EnsureTargetRepsLength(ex.TargetReps, next)
	s.syncLog(i)
	return true, nil
}

// syncLog makes log entry i agree with exercise i: same targets, and the set
// list trimmed from the end or padded with unrecorded sets.
func (s *Session) syncLog(i int) {
	ex := s.Exercises[i]
	entry := &s.Log[i]
	entry.TargetReps = slices.Clone(ex.TargetReps)
	if len(entry.Sets) > ex.Sets {
		entry.Sets = entry.Sets[:ex.Sets]
	}
	for len(entry.Sets) < ex.Sets {
		entry.Sets = append(entry.Sets, history.SetLog{})
	}
}

// RecordSet parses raw and stores it into one set. Empty or unparseable input
// stores nil. No range checks are applied.
func (s *Session) RecordSet(exercise, set int, field Field, raw string) error {
	if exercise < 0 || exercise >= len(s.Log) || set < 0 || set >= len(s.Log[exercise].Sets) {
		return ErrSetOutOfRange
	}
	target := &s.Log[exercise].Sets[set]
	switch field {
	case FieldReps:
		target.Reps = parseReps(raw)
	case FieldWeight:
		target.Weight = parseWeight(raw)
	default:
		return ErrInvalidField
	}
	return nil
}

func parseReps(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	n := int(math.Trunc(f))
	return &n
}

// parseWeight accepts both "82.5" and "82,5".
func parseWeight(raw string) *float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Entry snapshots the log as a history entry. Program and day names are
// looked up in st and fall back to placeholders when they no longer exist.
func (s *Session) Entry(st *models.State, id, performedAt string) models.HistoryEntry {
	programName, dayName := "Unknown Program", "Unknown Day"
	if p := st.FindProgram(s.ProgramID); p != nil {
		programName = p.Name
		if d, _ := p.FindDay(s.DayID); d != nil {
			dayName = d.Name
		}
	}

	entry := models.HistoryEntry{
		ID:          id,
		ProgramID:   s.ProgramID,
		DayID:       s.DayID,
		ProgramName: programName,
		DayName:     dayName,
		PerformedAt: performedAt,
		Exercises:   make([]models.HistoryExercise, len(s.Log)),
	}
	for i, l := range s.Log {
		sets := make([]models.SetResult, len(l.Sets))
		for j, set := range l.Sets {
			target := 0
			if j < len(l.TargetReps) {
				target = l.TargetReps[j]
			}
			sets[j] = models.SetResult{Target: target, Reps: set.Reps, Weight: set.Weight}
		}
		entry.Exercises[i] = models.HistoryExercise{Name: l.Name, Sets: sets}
	}
	return entry
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Exercises = make([]Exercise, len(s.Exercises))
	for i, ex := range s.Exercises {
		ex.TargetReps = slices.Clone(ex.TargetReps)
		c.Exercises[i] = ex
	}
	c.Log = make([]LogEntry, len(s.Log))
	for i, l := range s.Log {
		l.TargetReps = slices.Clone(l.TargetReps)
		l.Sets = cloneSets(l.Sets)
		c.Log[i] = l
	}
	c.PreviousByName = make(map[string]history.Performance, len(s.PreviousByName))
	for k, v := range s.PreviousByName {
		v.Sets = cloneSets(v.Sets)
		c.PreviousByName[k] = v
	}
	return &c
}

func cloneSets(sets []history.SetLog) []history.SetLog {
	out := make([]history.SetLog, len(sets))
	for i, s := range sets {
		if s.Reps != nil {
			r := *s.Reps
			out[i].Reps = &r
		}
		if s.Weight != nil {
			w := *s.Weight
			out[i].Weight = &w
		}
	}
	return out
}

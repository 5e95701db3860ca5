package session

import (
	"fmt"
	"time"

	"github.com/claude/gymlog/internal/history"
	"github.com/claude/gymlog/internal/models"
)

// View is the read-only projection of a session shown while logging.
type View struct {
	ProgramID     string      `json:"programId"`
	ProgramName   string      `json:"programName"`
	DayID         string      `json:"dayId"`
	DayName       string      `json:"dayName"`
	ExerciseIndex int         `json:"exerciseIndex"`
	ExerciseCount int         `json:"exerciseCount"`
	Position      string      `json:"position"`
	Current       CurrentView `json:"current"`
	Log           []LogEntry  `json:"log"`
	StartedAt     time.Time   `json:"startedAt"`
}

// CurrentView is the exercise under the cursor.
type CurrentView struct {
	Name         string   `json:"name"`
	Sets         int      `json:"sets"`
	TargetReps   []int    `json:"targetReps"`
	CanRemoveSet bool     `json:"canRemoveSet"`
	Rows         []SetRow `json:"rows"`
}

// SetRow is one set of the current exercise with last time's values.
// Last is nil when the previous performance had fewer sets or none at all.
type SetRow struct {
	Index  int             `json:"index"`
	Target int             `json:"target"`
	Reps   *int            `json:"reps"`
	Weight *float64        `json:"weight"`
	Last   *history.SetLog `json:"last,omitempty"`
}

// View projects the session for display. Program and day names fall back to
// "Program" and "Day" when they were deleted from under the session.
func (s *Session) View(st *models.State) View {
	v := View{
		ProgramID:     s.ProgramID,
		ProgramName:   "Program",
		DayID:         s.DayID,
		DayName:       "Day",
		ExerciseIndex: s.ExerciseIndex,
		ExerciseCount: len(s.Exercises),
		Position:      fmt.Sprintf("%d/%d", s.ExerciseIndex+1, len(s.Exercises)),
		Log:           s.Clone().Log,
		StartedAt:     s.StartedAt,
	}
	if p := st.FindProgram(s.ProgramID); p != nil {
		if p.Name != "" {
			v.ProgramName = p.Name
		}
		if d, _ := p.FindDay(s.DayID); d != nil && d.Name != "" {
			v.DayName = d.Name
		}
	}

	i := s.ExerciseIndex
	if i < 0 || i >= len(s.Exercises) || i >= len(s.Log) {
		return v
	}
	ex := s.Exercises[i]
	v.Current = CurrentView{
		Name:         ex.Name,
		Sets:         ex.Sets,
		TargetReps:   append([]int(nil), ex.TargetReps...),
		CanRemoveSet: ex.Sets > 1,
		Rows:         make([]SetRow, len(v.Log[i].Sets)),
	}
	prev, hasPrev := s.PreviousByName[models.NormalizeName(ex.Name)]
	for j, set := range v.Log[i].Sets {
		row := SetRow{Index: j, Reps: set.Reps, Weight: set.Weight}
		if j < len(ex.TargetReps) {
			row.Target = ex.TargetReps[j]
		}
		if hasPrev && j < len(prev.Sets) {
			last := prev.Sets[j]
			row.Last = &last
		}
		v.Current.Rows[j] = row
	}
	return v
}

package example

import (
	"strings"

	"github.com/claude/gymlog/internal/models"
)

// Apply adds p to st as a new program and makes it the default. Exercises are
// matched to the library by normalized name and created when missing.
// Returns ErrNoDays when p has no days.
func Apply(st *models.State, p Program, newID func() string) (models.Program, error) {
	if len(p.Days) == 0 {
		return models.Program{}, ErrNoDays
	}

	exerciseID := func(name string) string {
		if models.NormalizeName(name) == "" {
			return ""
		}
		if ex := st.FindExerciseByName(name); ex != nil {
			return ex.ID
		}
		ex := models.Exercise{ID: newID(), Name: strings.TrimSpace(name)}
		st.Exercises = append(st.Exercises, ex)
		return ex.ID
	}

	program := models.Program{ID: newID(), Name: p.Name, Days: make([]models.Day, 0, len(p.Days))}
	for _, d := range p.Days {
		day := models.Day{ID: newID(), Name: d.Name, Items: []models.DayItem{}}
		for _, item := range d.Items {
			id := exerciseID(item.Exercise)
			if id == "" {
				continue
			}
			day.Items = append(day.Items, models.DayItem{
				ID:         newID(),
				ExerciseID: id,
				Sets:       item.Sets,
				TargetReps: models.ParseTargetReps(item.RepsCSV, item.Sets),
			})
		}
		program.Days = append(program.Days, day)
	}

	st.Programs = append(st.Programs, program)
	st.UI.DefaultProgramID = program.ID
	return program, nil
}

// ShouldAutoImport reports whether st is a fresh install that has never had
// the example program.
func ShouldAutoImport(st *models.State) bool {
	return len(st.Programs) == 0 && !st.UI.ExampleProgramImported
}

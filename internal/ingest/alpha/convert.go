package alpha

import (
	"strings"

	"github.com/claude/gymlog/internal/models"
)

// idLayout keys imported entries by session start so that re-importing an
// export replaces the earlier copies.
const idLayout = "20060102T1504"

// EntryID is the history id an imported session receives.
func EntryID(s Session) string {
	return "alpha-" + s.Date.Format(idLayout)
}

// splitSessionName turns "Legs · Day 2 · Week 4 · Push-Pull-Legs" into the
// day ("Legs") and program ("Push-Pull-Legs"). A name without separators is
// used for both.
func splitSessionName(name string) (program, day string) {
	parts := strings.Split(name, " · ")
	day = strings.TrimSpace(parts[0])
	program = strings.TrimSpace(parts[len(parts)-1])
	return program, day
}

// ToHistory converts sessions to history entries. Warmups are dropped and
// every working set targets the exercise's rep goal. The export carries no
// zone, so session times are taken as UTC.
func ToHistory(sessions []Session) []models.HistoryEntry {
	entries := make([]models.HistoryEntry, 0, len(sessions))
	for _, s := range sessions {
		program, day := splitSessionName(s.Name)
		entry := models.HistoryEntry{
			ID:          EntryID(s),
			ProgramName: program,
			DayName:     day,
			PerformedAt: s.Date.UTC().Format(models.TimestampLayout),
			Exercises:   make([]models.HistoryExercise, 0, len(s.Exercises)),
		}
		for _, ex := range s.Exercises {
			sets := []models.SetResult{}
			for _, set := range ex.Sets {
				if set.IsWarmup {
					continue
				}
				reps, weight := set.Reps, set.WeightKg
				sets = append(sets, models.SetResult{Target: ex.TargetReps, Reps: &reps, Weight: &weight})
			}
			entry.Exercises = append(entry.Exercises, models.HistoryExercise{Name: ex.Name, Sets: sets})
		}
		entries = append(entries, entry)
	}
	return entries
}

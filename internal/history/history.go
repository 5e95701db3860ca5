// Package history answers questions about completed sessions: what was done
// last time for an exercise, and how its top weight has moved over time.
package history

import (
	"math"
	"slices"
	"strings"

	"github.com/claude/gymlog/internal/models"
)

// SetLog is the reps and weight of one set. Nil means not recorded.
type SetLog struct {
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

// Performance is the most recent recorded performance of one exercise.
type Performance struct {
	PerformedAt string   `json:"performedAt"`
	Sets        []SetLog `json:"sets"`
}

// LatestPerformance finds the newest entry whose snapshotted exercise name
// matches name (trimmed, case-insensitive). Entries without a timestamp or an
// exercise list, and matches without a set list, are skipped. Returns false
// when nothing matches or the newest match recorded no sets.
func LatestPerformance(entries []models.HistoryEntry, name string) (Performance, bool) {
	key := models.NormalizeName(name)
	if key == "" {
		return Performance{}, false
	}

	var best *models.HistoryExercise
	var bestAt string
	for i := range entries {
		e := &entries[i]
		if e.PerformedAt == "" || e.Exercises == nil {
			continue
		}
		match := findByName(e.Exercises, key)
		if match == nil || match.Sets == nil {
			continue
		}
		if best == nil || e.PerformedAt > bestAt {
			best, bestAt = match, e.PerformedAt
		}
	}
	if best == nil || len(best.Sets) == 0 {
		return Performance{}, false
	}

	perf := Performance{PerformedAt: bestAt, Sets: make([]SetLog, len(best.Sets))}
	for i, s := range best.Sets {
		perf.Sets[i] = SetLog{Reps: copyPtr(s.Reps), Weight: copyPtr(s.Weight)}
	}
	return perf, true
}

func findByName(exercises []models.HistoryExercise, key string) *models.HistoryExercise {
	for i := range exercises {
		if models.NormalizeName(exercises[i].Name) == key {
			return &exercises[i]
		}
	}
	return nil
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Point is one sample of the weight progress chart.
type Point struct {
	PerformedAt string  `json:"performedAt"`
	Weight      float64 `json:"weight"`
}

// Summary describes a weight series from its first to its latest point.
type Summary struct {
	First  float64 `json:"first"`
	Latest float64 `json:"latest"`
	Delta  float64 `json:"delta"`
}

// WeightSeries returns one point per entry containing an exercise named
// exactly name with at least one recorded weight. The point carries the
// heaviest set. Points are ordered by performedAt.
func WeightSeries(entries []models.HistoryEntry, name string) []Point {
	points := []Point{}
	for _, e := range entries {
		var match *models.HistoryExercise
		for i := range e.Exercises {
			if e.Exercises[i].Name == name {
				match = &e.Exercises[i]
				break
			}
		}
		if match == nil {
			continue
		}

		top, found := 0.0, false
		for _, s := range match.Sets {
			if s.Weight == nil || math.IsNaN(*s.Weight) {
				continue
			}
			if !found || *s.Weight > top {
				top, found = *s.Weight, true
			}
		}
		if found {
			points = append(points, Point{PerformedAt: e.PerformedAt, Weight: top})
		}
	}
	slices.SortStableFunc(points, func(a, b Point) int {
		return strings.Compare(a.PerformedAt, b.PerformedAt)
	})
	return points
}

// Summarize reports the first and latest weight of a series. The delta is
// rounded to one decimal. Returns false for an empty series.
func Summarize(points []Point) (Summary, bool) {
	if len(points) == 0 {
		return Summary{}, false
	}
	first, latest := points[0].Weight, points[len(points)-1].Weight
	return Summary{
		First:  first,
		Latest: latest,
		Delta:  math.Round((latest-first)*10) / 10,
	}, true
}

// ExerciseNames lists the distinct non-empty exercise names across all
// entries, sorted.
func ExerciseNames(entries []models.HistoryEntry) []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, e := range entries {
		for _, ex := range e.Exercises {
			if ex.Name == "" {
				continue
			}
			if _, ok := seen[ex.Name]; ok {
				continue
			}
			seen[ex.Name] = struct{}{}
			names = append(names, ex.Name)
		}
	}
	slices.Sort(names)
	return names
}

// NewestFirst returns a copy of entries ordered by performedAt, newest first.
func NewestFirst(entries []models.HistoryEntry) []models.HistoryEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b models.HistoryEntry) int {
		return strings.Compare(b.PerformedAt, a.PerformedAt)
	})
	return out
}

// Between filters entries to those performed within [start, end]. Bounds are
// ISO-8601 strings or dates and compared lexicographically; an empty bound is
// open. A date-only end bound includes the whole day.
func Between(entries []models.HistoryEntry, start, end string) []models.HistoryEntry {
	if len(end) == len("2006-01-02") {
		end += "T23:59:59.999Z"
	}
	out := []models.HistoryEntry{}
	for _, e := range entries {
		if start != "" && e.PerformedAt < start {
			continue
		}
		if end != "" && e.PerformedAt > end {
			continue
		}
		out = append(out, e)
	}
	return out
}

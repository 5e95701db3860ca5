package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/claude/gymlog/internal/models"
)

// Migrate decodes a stored state document. A document with both "exercises"
// and "programs" arrays is current and decoded as is. Anything else is the
// first layout, where each day embedded its exercises by name; those are
// folded into a de-duplicated exercise library and history is carried over.
func Migrate(data json.RawMessage, newID func() string) (*models.State, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: state: %v", ErrInvalidJSON, err)
	}

	if isArray(fields["exercises"]) && isArray(fields["programs"]) {
		var st models.State
		if err := json.Unmarshal(data, &st); err != nil {
			return nil, fmt.Errorf("%w: state: %v", ErrInvalidJSON, err)
		}
		st.Normalize()
		return &st, nil
	}
	return migrateV1(fields, newID)
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

type v1Program struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Days []v1Day `json:"days"`
}

type v1Day struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Exercises []v1Exercise `json:"exercises"`
}

type v1Exercise struct {
	Name       string          `json:"name"`
	Sets       json.RawMessage `json:"sets"`
	TargetReps json.RawMessage `json:"targetReps"`
}

func migrateV1(fields map[string]json.RawMessage, newID func() string) (*models.State, error) {
	st := models.NewState()

	if isArray(fields["history"]) {
		if err := json.Unmarshal(fields["history"], &st.History); err != nil {
			return nil, fmt.Errorf("%w: history: %v", ErrInvalidJSON, err)
		}
	}

	var programs []v1Program
	if isArray(fields["programs"]) {
		if err := json.Unmarshal(fields["programs"], &programs); err != nil {
			return nil, fmt.Errorf("%w: programs: %v", ErrInvalidJSON, err)
		}
	}

	byName := make(map[string]string)
	exerciseID := func(name string) string {
		key := models.NormalizeName(name)
		if key == "" {
			return ""
		}
		if id, ok := byName[key]; ok {
			return id
		}
		ex := models.Exercise{ID: newID(), Name: strings.TrimSpace(name)}
		st.Exercises = append(st.Exercises, ex)
		byName[key] = ex.ID
		return ex.ID
	}

	for _, old := range programs {
		p := models.Program{ID: idOr(old.ID, newID), Name: old.Name, Days: []models.Day{}}
		if p.Name == "" {
			p.Name = "Program"
		}
		for _, od := range old.Days {
			d := models.Day{ID: idOr(od.ID, newID), Name: od.Name, Items: []models.DayItem{}}
			if d.Name == "" {
				d.Name = "Day"
			}
			for _, ox := range od.Exercises {
				name := ox.Name
				if name == "" {
					name = "Exercise"
				}
				id := exerciseID(name)
				if id == "" {
					continue
				}
				sets := legacySets(ox.Sets)
				d.Items = append(d.Items, models.DayItem{
					ID:         newID(),
					ExerciseID: id,
					Sets:       sets,
					TargetReps: legacyTargets(ox.TargetReps, sets),
				})
			}
			p.Days = append(p.Days, d)
		}
		st.Programs = append(st.Programs, p)
	}
	st.Normalize()
	return st, nil
}

func idOr(id string, newID func() string) string {
	if id != "" {
		return id
	}
	return newID()
}

// legacySets accepts a number or numeric string, defaulting to one set.
func legacySets(raw json.RawMessage) int {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 1
		}
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 1
		}
	}
	if math.IsNaN(f) || f < 1 || f > math.MaxInt32 {
		return 1
	}
	return int(f)
}

// legacyTargets accepts an array of numbers or a CSV string.
func legacyTargets(raw json.RawMessage, sets int) []int {
	if isArray(raw) {
		var values []float64
		if err := json.Unmarshal(raw, &values); err == nil {
			reps := make([]int, len(values))
			for i, v := range values {
				reps[i] = int(v)
			}
			return models.ParseTargetReps(joinInts(reps), sets)
		}
	}
	var csv string
	if err := json.Unmarshal(raw, &csv); err != nil {
		csv = strings.Trim(string(bytes.TrimSpace(raw)), `"`)
	}
	return models.ParseTargetReps(csv, sets)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

package tracker

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/rotation"
)

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return name, nil
}

func findProgram(st *models.State, id string) (*models.Program, error) {
	p := st.FindProgram(id)
	if p == nil {
		return nil, fmt.Errorf("program %q: %w", id, ErrNotFound)
	}
	return p, nil
}

func findDay(st *models.State, programID, dayID string) (*models.Program, *models.Day, int, error) {
	p, err := findProgram(st, programID)
	if err != nil {
		return nil, nil, -1, err
	}
	d, idx := p.FindDay(dayID)
	if d == nil {
		return nil, nil, -1, fmt.Errorf("day %q: %w", dayID, ErrNotFound)
	}
	return p, d, idx, nil
}

func findItem(st *models.State, programID, dayID, itemID string) (*models.Day, int, error) {
	_, d, _, err := findDay(st, programID, dayID)
	if err != nil {
		return nil, -1, err
	}
	_, idx := d.FindItem(itemID)
	if idx < 0 {
		return nil, -1, fmt.Errorf("item %q: %w", itemID, ErrNotFound)
	}
	return d, idx, nil
}

// Programs returns a copy of all programs.
func (t *Tracker) Programs() []models.Program {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Program, len(t.state.Programs))
	for i, p := range t.state.Programs {
		out[i] = p.Clone()
	}
	return out
}

// Program returns a copy of one program.
func (t *Tracker) Program(id string) (models.Program, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, err := findProgram(t.state, id)
	if err != nil {
		return models.Program{}, err
	}
	return p.Clone(), nil
}

// DefaultProgramID returns the program preselected when starting a session.
func (t *Tracker) DefaultProgramID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.DefaultProgramID()
}

// DayChoice is the day the rotation selects for a program. Day is nil when
// the program has no days.
type DayChoice struct {
	ProgramID   string      `json:"programId"`
	ProgramName string      `json:"programName"`
	Day         *models.Day `json:"day"`
	DayIndex    int         `json:"dayIndex"`
}

// NextDay returns the day a new session for programID would train.
func (t *Tracker) NextDay(programID string) (DayChoice, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, err := findProgram(t.state, programID)
	if err != nil {
		return DayChoice{}, err
	}
	p2 := p.Clone()
	day, idx := rotation.ResolveDefaultDay(&p2)
	return DayChoice{ProgramID: p2.ID, ProgramName: p2.Name, Day: day, DayIndex: idx}, nil
}

// CreateProgram adds an empty program and makes it the default.
func (t *Tracker) CreateProgram(ctx context.Context, name string) (models.Program, error) {
	name, err := requireName(name)
	if err != nil {
		return models.Program{}, err
	}
	p := models.Program{ID: t.newID(), Name: name, Days: []models.Day{}}
	err = t.Update(ctx, func(st *models.State) error {
		st.Programs = append(st.Programs, p)
		st.UI.DefaultProgramID = p.ID
		return nil
	})
	return p, err
}

// RenameProgram changes a program's name. History keeps the old name.
func (t *Tracker) RenameProgram(ctx context.Context, id, name string) error {
	name, err := requireName(name)
	if err != nil {
		return err
	}
	return t.Update(ctx, func(st *models.State) error {
		p, err := findProgram(st, id)
		if err != nil {
			return err
		}
		p.Name = name
		return nil
	})
}

// DeleteProgram removes a program. History entries for it are kept.
func (t *Tracker) DeleteProgram(ctx context.Context, id string) error {
	return t.Update(ctx, func(st *models.State) error {
		if _, err := findProgram(st, id); err != nil {
			return err
		}
		st.Programs = slices.DeleteFunc(st.Programs, func(p models.Program) bool { return p.ID == id })
		if st.UI.DefaultProgramID == id {
			st.UI.DefaultProgramID = st.DefaultProgramID()
		}
		return nil
	})
}

// SetDefaultProgram records the program preselected for the next session.
func (t *Tracker) SetDefaultProgram(ctx context.Context, id string) error {
	return t.Update(ctx, func(st *models.State) error {
		if _, err := findProgram(st, id); err != nil {
			return err
		}
		st.UI.DefaultProgramID = id
		return nil
	})
}

// AddDay appends an empty day to a program.
func (t *Tracker) AddDay(ctx context.Context, programID, name string) (models.Day, error) {
	name, err := requireName(name)
	if err != nil {
		return models.Day{}, err
	}
	d := models.Day{ID: t.newID(), Name: name, Items: []models.DayItem{}}
	err = t.Update(ctx, func(st *models.State) error {
		p, err := findProgram(st, programID)
		if err != nil {
			return err
		}
		p.Days = append(p.Days, d)
		return nil
	})
	return d, err
}

// RenameDay changes a day's name.
func (t *Tracker) RenameDay(ctx context.Context, programID, dayID, name string) error {
	name, err := requireName(name)
	if err != nil {
		return err
	}
	return t.Update(ctx, func(st *models.State) error {
		_, d, _, err := findDay(st, programID, dayID)
		if err != nil {
			return err
		}
		d.Name = name
		return nil
	})
}

// DeleteDay removes a day and keeps the rotation pointer on the same logical day.
func (t *Tracker) DeleteDay(ctx context.Context, programID, dayID string) error {
	return t.Update(ctx, func(st *models.State) error {
		p, _, idx, err := findDay(st, programID, dayID)
		if err != nil {
			return err
		}
		rotation.DeleteDay(p, idx)
		return nil
	})
}

// AddItem appends an exercise prescription to a day. targets is a CSV such
// as "8,8,6" resized to sets entries.
func (t *Tracker) AddItem(ctx context.Context, programID, dayID, exerciseID string, sets int, targets string) (models.DayItem, error) {
	if sets < 1 {
		return models.DayItem{}, fmt.Errorf("%w: sets must be at least 1", ErrInvalidInput)
	}
	item := models.DayItem{
		ID:         t.newID(),
		ExerciseID: exerciseID,
		Sets:       sets,
		TargetReps: models.ParseTargetReps(targets, sets),
	}
	err := t.Update(ctx, func(st *models.State) error {
		if st.FindExercise(exerciseID) == nil {
			return fmt.Errorf("exercise %q: %w", exerciseID, ErrNotFound)
		}
		_, d, _, err := findDay(st, programID, dayID)
		if err != nil {
			return err
		}
		d.Items = append(d.Items, item)
		return nil
	})
	return item, err
}

// UpdateItem replaces an item's sets and targets.
func (t *Tracker) UpdateItem(ctx context.Context, programID, dayID, itemID string, sets int, targets string) (models.DayItem, error) {
	if sets < 1 {
		return models.DayItem{}, fmt.Errorf("%w: sets must be at least 1", ErrInvalidInput)
	}
	var updated models.DayItem
	err := t.Update(ctx, func(st *models.State) error {
		d, idx, err := findItem(st, programID, dayID, itemID)
		if err != nil {
			return err
		}
		it := &d.Items[idx]
		it.Sets = sets
		it.TargetReps = models.ParseTargetReps(targets, sets)
		updated = *it
		return nil
	})
	return updated, err
}

// MoveItem swaps an item with its neighbour: -1 moves it up, 1 down.
// Moving past either end is a no-op.
func (t *Tracker) MoveItem(ctx context.Context, programID, dayID, itemID string, delta int) error {
	if delta != -1 && delta != 1 {
		return fmt.Errorf("%w: delta must be -1 or 1", ErrInvalidInput)
	}
	return t.Update(ctx, func(st *models.State) error {
		d, idx, err := findItem(st, programID, dayID, itemID)
		if err != nil {
			return err
		}
		j := idx + delta
		if j < 0 || j >= len(d.Items) {
			return nil
		}
		d.Items[idx], d.Items[j] = d.Items[j], d.Items[idx]
		return nil
	})
}

// RemoveItem deletes an item from a day.
func (t *Tracker) RemoveItem(ctx context.Context, programID, dayID, itemID string) error {
	return t.Update(ctx, func(st *models.State) error {
		d, idx, err := findItem(st, programID, dayID, itemID)
		if err != nil {
			return err
		}
		d.Items = append(d.Items[:idx], d.Items[idx+1:]...)
		return nil
	})
}

// Exercises returns a copy of the exercise library.
func (t *Tracker) Exercises() []models.Exercise {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Exercise{}, t.state.Exercises...)
}

// CreateExercise adds an exercise to the library.
func (t *Tracker) CreateExercise(ctx context.Context, name string) (models.Exercise, error) {
	name, err := requireName(name)
	if err != nil {
		return models.Exercise{}, err
	}
	ex := models.Exercise{ID: t.newID(), Name: name}
	err = t.Update(ctx, func(st *models.State) error {
		st.Exercises = append(st.Exercises, ex)
		return nil
	})
	return ex, err
}

// RenameExercise changes an exercise's name. Matching against history is by
// name, so past entries stay under the old name.
func (t *Tracker) RenameExercise(ctx context.Context, id, name string) error {
	name, err := requireName(name)
	if err != nil {
		return err
	}
	return t.Update(ctx, func(st *models.State) error {
		ex := st.FindExercise(id)
		if ex == nil {
			return fmt.Errorf("exercise %q: %w", id, ErrNotFound)
		}
		ex.Name = name
		return nil
	})
}

// DeleteExercise removes an exercise and every day item that uses it.
func (t *Tracker) DeleteExercise(ctx context.Context, id string) error {
	return t.Update(ctx, func(st *models.State) error {
		if st.FindExercise(id) == nil {
			return fmt.Errorf("exercise %q: %w", id, ErrNotFound)
		}
		st.Exercises = slices.DeleteFunc(st.Exercises, func(e models.Exercise) bool { return e.ID == id })
		for i := range st.Programs {
			for j := range st.Programs[i].Days {
				d := &st.Programs[i].Days[j]
				d.Items = slices.DeleteFunc(d.Items, func(it models.DayItem) bool { return it.ExerciseID == id })
			}
		}
		return nil
	})
}

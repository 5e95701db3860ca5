package models

import "slices"

// State is the full persisted snapshot: the exercise library, the programs
// referencing it, the append-only history and UI preferences.
type State struct {
	Programs  []Program      `json:"programs"`
	Exercises []Exercise     `json:"exercises"`
	History   []HistoryEntry `json:"history"`
	UI        UIState        `json:"ui"`
}

// NewState returns an empty state with non-nil collections.
func NewState() *State {
	return &State{
		Programs:  []Program{},
		Exercises: []Exercise{},
		History:   []HistoryEntry{},
	}
}

// Normalize replaces nil collections with empty ones so the state always
// serializes as arrays.
func (s *State) Normalize() {
	if s.Programs == nil {
		s.Programs = []Program{}
	}
	if s.Exercises == nil {
		s.Exercises = []Exercise{}
	}
	if s.History == nil {
		s.History = []HistoryEntry{}
	}
	for i := range s.Programs {
		if s.Programs[i].Days == nil {
			s.Programs[i].Days = []Day{}
		}
		for j := range s.Programs[i].Days {
			if s.Programs[i].Days[j].Items == nil {
				s.Programs[i].Days[j].Items = []DayItem{}
			}
		}
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{
		Programs:  make([]Program, len(s.Programs)),
		Exercises: slices.Clone(s.Exercises),
		History:   make([]HistoryEntry, len(s.History)),
		UI:        s.UI,
	}
	if out.Exercises == nil {
		out.Exercises = []Exercise{}
	}
	for i, p := range s.Programs {
		out.Programs[i] = p.Clone()
	}
	for i, h := range s.History {
		out.History[i] = h.Clone()
	}
	return out
}

// Clone returns a deep copy of the program.
func (p Program) Clone() Program {
	days := make([]Day, len(p.Days))
	for i, d := range p.Days {
		items := make([]DayItem, len(d.Items))
		for j, it := range d.Items {
			it.TargetReps = slices.Clone(it.TargetReps)
			items[j] = it
		}
		d.Items = items
		days[i] = d
	}
	p.Days = days
	return p
}

// Clone returns a deep copy of the history entry. Nil set lists stay nil so
// malformed entries keep looking malformed.
func (h HistoryEntry) Clone() HistoryEntry {
	if h.Exercises == nil {
		return h
	}
	exercises := make([]HistoryExercise, len(h.Exercises))
	for i, ex := range h.Exercises {
		if ex.Sets != nil {
			sets := make([]SetResult, len(ex.Sets))
			for j, set := range ex.Sets {
				sets[j] = SetResult{Target: set.Target, Reps: clonePtr(set.Reps), Weight: clonePtr(set.Weight)}
			}
			ex.Sets = sets
		}
		exercises[i] = ex
	}
	h.Exercises = exercises
	return h
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// FindProgram returns the program with the given id, or nil.
func (s *State) FindProgram(id string) *Program {
	for i := range s.Programs {
		if s.Programs[i].ID == id {
			return &s.Programs[i]
		}
	}
	return nil
}

// FindExercise returns the exercise with the given id, or nil.
func (s *State) FindExercise(id string) *Exercise {
	for i := range s.Exercises {
		if s.Exercises[i].ID == id {
			return &s.Exercises[i]
		}
	}
	return nil
}

// FindExerciseByName returns the first exercise whose normalized name matches.
func (s *State) FindExerciseByName(name string) *Exercise {
	key := NormalizeName(name)
	if key == "" {
		return nil
	}
	for i := range s.Exercises {
		if NormalizeName(s.Exercises[i].Name) == key {
			return &s.Exercises[i]
		}
	}
	return nil
}

// DefaultProgramID returns the stored default program if it still exists,
// otherwise the first program, otherwise "".
func (s *State) DefaultProgramID() string {
	if s.UI.DefaultProgramID != "" && s.FindProgram(s.UI.DefaultProgramID) != nil {
		return s.UI.DefaultProgramID
	}
	if len(s.Programs) > 0 {
		return s.Programs[0].ID
	}
	return ""
}

// FindDay returns the day with the given id and its index, or nil and -1.
func (p *Program) FindDay(id string) (*Day, int) {
	for i := range p.Days {
		if p.Days[i].ID == id {
			return &p.Days[i], i
		}
	}
	return nil, -1
}

// FindItem returns the item with the given id and its index, or nil and -1.
func (d *Day) FindItem(id string) (*DayItem, int) {
	for i := range d.Items {
		if d.Items[i].ID == id {
			return &d.Items[i], i
		}
	}
	return nil, -1
}

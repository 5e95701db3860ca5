package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/claude/gymlog/internal/backup"
	"github.com/claude/gymlog/internal/example"
	"github.com/claude/gymlog/internal/history"
	"github.com/claude/gymlog/internal/models"
)

// History returns history entries newest first, optionally limited to a date
// range and to entries containing an exercise.
func (t *Tracker) History(start, end, exercise string) []models.HistoryEntry {
	t.mu.Lock()
	entries := make([]models.HistoryEntry, len(t.state.History))
	for i, e := range t.state.History {
		entries[i] = e.Clone()
	}
	t.mu.Unlock()

	entries = history.NewestFirst(history.Between(entries, start, end))
	if exercise == "" {
		return entries
	}
	key := models.NormalizeName(exercise)
	out := []models.HistoryEntry{}
	for _, e := range entries {
		for _, ex := range e.Exercises {
			if models.NormalizeName(ex.Name) == key {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// LatestPerformance returns the newest recorded sets for an exercise name.
func (t *Tracker) LatestPerformance(name string) (history.Performance, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return history.LatestPerformance(t.state.History, name)
}

// Progress is the weight chart for one exercise.
type Progress struct {
	Exercise string           `json:"exercise"`
	Points   []history.Point  `json:"points"`
	Summary  *history.Summary `json:"summary,omitempty"`
}

// WeightProgress returns the top-weight series for an exact exercise name.
func (t *Tracker) WeightProgress(name string) Progress {
	t.mu.Lock()
	points := history.WeightSeries(t.state.History, name)
	t.mu.Unlock()

	p := Progress{Exercise: name, Points: points}
	if s, ok := history.Summarize(points); ok {
		p.Summary = &s
	}
	return p
}

// HistoryExerciseNames lists every exercise name that appears in history.
func (t *Tracker) HistoryExerciseNames() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return history.ExerciseNames(t.state.History)
}

// DeleteHistoryEntry removes one entry.
func (t *Tracker) DeleteHistoryEntry(ctx context.Context, id string) error {
	return t.Update(ctx, func(st *models.State) error {
		n := len(st.History)
		st.History = slices.DeleteFunc(st.History, func(e models.HistoryEntry) bool { return e.ID == id })
		if len(st.History) == n {
			return fmt.Errorf("history entry %q: %w", id, ErrNotFound)
		}
		return nil
	})
}

// ClearHistory removes every entry.
func (t *Tracker) ClearHistory(ctx context.Context) error {
	return t.Update(ctx, func(st *models.State) error {
		st.History = []models.HistoryEntry{}
		return nil
	})
}

// ImportHistory merges entries from an external log into history. An entry
// whose id is already stored replaces it; entries without an id get a new
// one. Returns how many entries were added.
func (t *Tracker) ImportHistory(ctx context.Context, entries []models.HistoryEntry) (int, error) {
	for _, e := range entries {
		if e.PerformedAt == "" {
			return 0, fmt.Errorf("%w: history entry %q has no timestamp", ErrInvalidInput, e.ID)
		}
	}

	added := 0
	err := t.Update(ctx, func(st *models.State) error {
		added = 0
		index := make(map[string]int, len(st.History))
		for i, e := range st.History {
			index[e.ID] = i
		}
		for _, e := range entries {
			e = e.Clone()
			if e.ID == "" {
				e.ID = t.newID()
			}
			if i, ok := index[e.ID]; ok {
				st.History[i] = e
				continue
			}
			index[e.ID] = len(st.History)
			st.History = append(st.History, e)
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	t.log.Info("history imported", "entries", len(entries), "added", added)
	return added, nil
}

// Export builds a backup of the state and file store.
func (t *Tracker) Export(ctx context.Context) (backup.Backup, error) {
	files, err := t.store.ListFiles(ctx)
	if err != nil {
		return backup.Backup{}, fmt.Errorf("listing files: %w", err)
	}
	return backup.Export(t.State(), files, t.now()), nil
}

// Restore replaces all data with a decoded backup document. Any active
// session is discarded. If the state was saved but the file store could not
// be replaced, the restore stands and an ErrFilesNotRestored error is
// returned.
func (t *Tracker) Restore(ctx context.Context, data []byte) error {
	contents, err := backup.Decode(data, t.newID)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.commit(ctx, contents.State); err != nil {
		return err
	}
	t.forceClear()
	t.log.Info("backup restored", "programs", len(contents.State.Programs), "history", len(contents.State.History))
	if contents.FilesPresent {
		if err := t.store.ReplaceFiles(ctx, contents.Files); err != nil {
			t.log.Warn("restoring files failed", "files", len(contents.Files), "error", err)
			return fmt.Errorf("%w: %w", ErrFilesNotRestored, err)
		}
	}
	return nil
}

// SeedExampleFile stores the bundled example document unless one is present.
func (t *Tracker) SeedExampleFile(ctx context.Context) error {
	_, ok, err := t.store.GetFile(ctx, example.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", example.Path, err)
	}
	if ok {
		return nil
	}
	return t.store.PutFile(ctx, models.File{
		Path:      example.Path,
		Content:   example.Document,
		CreatedAt: t.now().UTC().Format(models.TimestampLayout),
	})
}

// exampleDocument prefers the file store copy and falls back to the bundled one.
func (t *Tracker) exampleDocument(ctx context.Context) (string, error) {
	f, ok, err := t.store.GetFile(ctx, example.Path)
	if err != nil {
		t.log.Warn("reading example from file store", "error", err)
	}
	if ok && f.Content != "" {
		return f.Content, nil
	}
	if example.Document == "" {
		return "", example.ErrNoDocument
	}
	return example.Document, nil
}

// ImportExample parses the example document and adds it as a new default program.
func (t *Tracker) ImportExample(ctx context.Context) (models.Program, error) {
	doc, err := t.exampleDocument(ctx)
	if err != nil {
		return models.Program{}, err
	}
	parsed := example.Parse(doc)

	var program models.Program
	err = t.Update(ctx, func(st *models.State) error {
		p, err := example.Apply(st, parsed, t.newID)
		program = p
		return err
	})
	if err != nil {
		return models.Program{}, err
	}
	t.log.Info("example program imported", "program_id", program.ID, "days", len(program.Days))
	return program, nil
}

// AutoImportExample imports the example program on a fresh install. It
// reports whether an import happened. Failures are logged, not returned,
// unless saving fails.
func (t *Tracker) AutoImportExample(ctx context.Context) (bool, error) {
	t.mu.Lock()
	fresh := example.ShouldAutoImport(t.state)
	t.mu.Unlock()
	if !fresh {
		return false, nil
	}

	doc, err := t.exampleDocument(ctx)
	if err != nil {
		t.log.Warn("auto-import of example program skipped", "error", err)
		return false, nil
	}
	parsed := example.Parse(doc)

	err = t.Update(ctx, func(st *models.State) error {
		if !example.ShouldAutoImport(st) {
			return errSkip
		}
		if _, err := example.Apply(st, parsed, t.newID); err != nil {
			return err
		}
		st.UI.ExampleProgramImported = true
		return nil
	})
	switch {
	case errors.Is(err, errSkip):
		return false, nil
	case errors.Is(err, example.ErrNoDays):
		t.log.Warn("auto-import of example program skipped", "error", err)
		return false, nil
	case err != nil:
		return false, err
	}
	t.log.Info("example program auto-imported")
	return true, nil
}

var errSkip = errors.New("skip")

// Package tracker owns the workout state and the single active session.
// Every mutation is applied to a copy of the state, persisted, and only then
// made visible, so a failed save leaves both state and session as they were.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/claude/gymlog/internal/models"
	"github.com/claude/gymlog/internal/rotation"
	"github.com/claude/gymlog/internal/session"
)

var (
	ErrSessionActive        = errors.New("a session is already active")
	ErrNoActiveSession      = errors.New("no active session")
	ErrConfirmationRequired = errors.New("completing the session requires confirmation")
	ErrNotFound             = errors.New("not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrFilesNotRestored     = errors.New("backup files not restored")
)

// Persister loads and saves the full state snapshot. Save must be atomic.
type Persister interface {
	Load(ctx context.Context) (*models.State, error)
	Save(ctx context.Context, st *models.State) error
}

// FileStore keeps bundled documents such as the example program.
type FileStore interface {
	GetFile(ctx context.Context, path string) (models.File, bool, error)
	PutFile(ctx context.Context, f models.File) error
	ListFiles(ctx context.Context) ([]models.File, error)
	ReplaceFiles(ctx context.Context, files []models.File) error
}

// Store is what both storage backends provide.
type Store interface {
	Persister
	FileStore
}

// Observer receives lifecycle events, typically for metrics.
type Observer interface {
	SessionStarted()
	SessionCompleted()
	PersistFailed()
}

type nopObserver struct{}

func (nopObserver) SessionStarted()   {}
func (nopObserver) SessionCompleted() {}
func (nopObserver) PersistFailed()    {}

// ConfirmFunc asks the user whether to complete the session. It runs without
// the tracker lock held.
type ConfirmFunc func(ctx context.Context, v session.View) bool

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(t *Tracker) { t.now = now } }

// WithIDs replaces the uuid generator.
func WithIDs(newID func() string) Option { return func(t *Tracker) { t.newID = newID } }

// WithConfirm sets the confirmation used by a non-forced Complete.
func WithConfirm(confirm ConfirmFunc) Option { return func(t *Tracker) { t.confirm = confirm } }

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option { return func(t *Tracker) { t.obs = o } }

// Tracker is safe for concurrent use. All operations are serialized.
type Tracker struct {
	mu      sync.Mutex
	store   Store
	log     *slog.Logger
	now     func() time.Time
	newID   func() string
	confirm ConfirmFunc
	obs     Observer

	state  *models.State
	active *session.Session
}

// New loads the persisted state and returns a Tracker with no active session.
func New(ctx context.Context, store Store, log *slog.Logger, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store: store,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
		obs:   nopObserver{},
	}
	for _, opt := range opts {
		opt(t)
	}

	st, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}
	if st == nil {
		st = models.NewState()
	}
	st.Normalize()
	t.state = st
	return t, nil
}

// commit persists next and makes it current. On failure nothing changes.
// Caller must hold t.mu.
func (t *Tracker) commit(ctx context.Context, next *models.State) error {
	next.Normalize()
	if err := t.store.Save(ctx, next); err != nil {
		t.obs.PersistFailed()
		t.log.Error("saving state", "error", err)
		return fmt.Errorf("saving state: %w", err)
	}
	t.state = next
	return nil
}

// Update applies fn to a copy of the state and persists the result. If fn
// returns an error nothing is saved.
func (t *Tracker) Update(ctx context.Context, fn func(st *models.State) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := t.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	return t.commit(ctx, next)
}

// State returns a copy of the current state.
func (t *Tracker) State() *models.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Start begins a session. It fails with ErrSessionActive if one is running
// and with a session.ErrInvalid error when the request cannot be trained.
func (t *Tracker) Start(ctx context.Context, req session.Request) (session.View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active != nil {
		return session.View{}, ErrSessionActive
	}
	s, err := session.New(t.state, req, t.now())
	if err != nil {
		return session.View{}, err
	}
	t.active = s
	t.obs.SessionStarted()
	t.log.Info("session started", "program_id", s.ProgramID, "day_id", s.DayID, "day_index", s.DayIndex, "exercises", len(s.Exercises))
	return s.View(t.state), nil
}

// Session returns the view of the active session.
func (t *Tracker) Session() (session.View, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return session.View{}, false
	}
	return t.active.View(t.state), true
}

// Active reports whether a session is running.
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active != nil
}

// withSession runs fn against the active session and returns its new view.
func (t *Tracker) withSession(fn func(s *session.Session) error) (session.View, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return session.View{}, ErrNoActiveSession
	}
	if err := fn(t.active); err != nil {
		return session.View{}, err
	}
	return t.active.View(t.state), nil
}

// CycleExercise moves the cursor to the previous (-1) or next (1) exercise.
func (t *Tracker) CycleExercise(delta int) (session.View, error) {
	return t.withSession(func(s *session.Session) error { return s.Cycle(delta) })
}

// ChangeSetCount removes (-1) or adds (1) a set on the current exercise.
func (t *Tracker) ChangeSetCount(delta int) (session.View, error) {
	return t.withSession(func(s *session.Session) error {
		_, err := s.ChangeSetCount(delta)
		return err
	})
}

// RecordSet stores raw input for one set.
func (t *Tracker) RecordSet(exercise, set int, field session.Field, raw string) (session.View, error) {
	return t.withSession(func(s *session.Session) error { return s.RecordSet(exercise, set, field, raw) })
}

// Complete ends the session: the history entry and the rotation advance are
// saved together. Unless force is set the configured ConfirmFunc must agree,
// otherwise ErrConfirmationRequired is returned. If saving fails the session
// stays active so the caller can retry.
func (t *Tracker) Complete(ctx context.Context, force bool) (models.HistoryEntry, error) {
	var approved *session.Session
	if !force {
		var err error
		if approved, err = t.askConfirm(ctx); err != nil {
			return models.HistoryEntry{}, err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.active
	if s == nil {
		return models.HistoryEntry{}, ErrNoActiveSession
	}
	if !force && s != approved {
		// Replaced while the confirmation was pending.
		return models.HistoryEntry{}, ErrConfirmationRequired
	}

	next := t.state.Clone()
	entry := s.Entry(next, t.newID(), t.now().UTC().Format(models.TimestampLayout))
	next.History = append(next.History, entry)
	if p := next.FindProgram(s.ProgramID); p != nil && len(p.Days) > 0 {
		rotation.Advance(p, rotation.CompletedIndex(p, s.DayIndex, s.DayID))
	}

	if err := t.commit(ctx, next); err != nil {
		return models.HistoryEntry{}, err
	}
	t.active = nil
	t.obs.SessionCompleted()
	t.log.Info("session completed", "program_id", entry.ProgramID, "day_id", entry.DayID, "history_id", entry.ID)
	return entry.Clone(), nil
}

// askConfirm runs the ConfirmFunc without holding t.mu, so the callback may
// read the tracker. It returns the session the user approved.
func (t *Tracker) askConfirm(ctx context.Context) (*session.Session, error) {
	t.mu.Lock()
	s := t.active
	if s == nil {
		t.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	v := s.View(t.state)
	confirm := t.confirm
	t.mu.Unlock()

	if confirm == nil || !confirm(ctx, v) {
		return nil, ErrConfirmationRequired
	}
	return s, nil
}

// ForceClear discards the active session without recording it.
func (t *Tracker) ForceClear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.forceClear()
}

func (t *Tracker) forceClear() {
	if t.active == nil {
		return
	}
	t.log.Warn("discarding active session", "program_id", t.active.ProgramID, "day_id", t.active.DayID)
	t.active = nil
}

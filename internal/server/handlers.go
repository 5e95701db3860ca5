package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/gymlog/internal/backup"
	"github.com/claude/gymlog/internal/example"
	"github.com/claude/gymlog/internal/ingest/alpha"
	"github.com/claude/gymlog/internal/session"
	"github.com/claude/gymlog/internal/tracker"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrInvalid),
		errors.Is(err, tracker.ErrInvalidInput),
		errors.Is(err, backup.ErrUnrecognizedFormat),
		errors.Is(err, backup.ErrInvalidJSON),
		errors.Is(err, example.ErrNoDays),
		errors.Is(err, alpha.ErrInvalidExport):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrSessionActive), errors.Is(err, tracker.ErrNoActiveSession):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

type nameRequest struct {
	Name string `json:"name"`
}

type itemRequest struct {
	ExerciseID string `json:"exercise_id"`
	Sets       int    `json:"sets"`
	TargetReps string `json:"target_reps"`
}

type deltaRequest struct {
	Delta int `json:"delta"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.State())
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Programs())
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	p, err := s.tracker.Program(chi.URLParam(r, "programID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := s.tracker.CreateProgram(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleRenameProgram(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.tracker.RenameProgram(r.Context(), chi.URLParam(r, "programID"), req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteProgram(r.Context(), chi.URLParam(r, "programID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetDefaultProgram(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProgramID string `json:"program_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.tracker.SetDefaultProgram(r.Context(), req.ProgramID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNextDay(w http.ResponseWriter, r *http.Request) {
	next, err := s.tracker.NextDay(chi.URLParam(r, "programID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleAddDay(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	d, err := s.tracker.AddDay(r.Context(), chi.URLParam(r, "programID"), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleRenameDay(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := s.tracker.RenameDay(r.Context(), chi.URLParam(r, "programID"), chi.URLParam(r, "dayID"), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteDay(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteDay(r.Context(), chi.URLParam(r, "programID"), chi.URLParam(r, "dayID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := s.tracker.AddItem(r.Context(), chi.URLParam(r, "programID"), chi.URLParam(r, "dayID"),
		req.ExerciseID, req.Sets, req.TargetReps)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	item, err := s.tracker.UpdateItem(r.Context(), chi.URLParam(r, "programID"), chi.URLParam(r, "dayID"),
		chi.URLParam(r, "itemID"), req.Sets, req.TargetReps)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	var req deltaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	err := s.tracker.MoveItem(r.Context(), chi.URLParam(r, "programID"), chi.URLParam(r, "dayID"),
		chi.URLParam(r, "itemID"), req.Delta)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	err := s.tracker.RemoveItem(r.Context(), chi.URLParam(r, "programID"), chi.URLParam(r, "dayID"), chi.URLParam(r, "itemID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Exercises())
}

func (s *Server) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ex, err := s.tracker.CreateExercise(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ex)
}

func (s *Server) handleRenameExercise(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.tracker.RenameExercise(r.Context(), chi.URLParam(r, "exerciseID"), req.Name); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteExercise(r.Context(), chi.URLParam(r, "exerciseID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package server

import (
	"net/http"

	"github.com/claude/gymlog/internal/session"
)

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	v, ok := s.tracker.Session()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req session.Request
	if !decodeBody(w, r, &req) {
		return
	}
	v, err := s.tracker.Start(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	s.tracker.ForceClear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCycleExercise(w http.ResponseWriter, r *http.Request) {
	var req deltaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	v, err := s.tracker.CycleExercise(req.Delta)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleChangeSetCount(w http.ResponseWriter, r *http.Request) {
	var req deltaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	v, err := s.tracker.ChangeSetCount(req.Delta)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleRecordSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Exercise int    `json:"exercise"`
		Set      int    `json:"set"`
		Field    string `json:"field"`
		Value    string `json:"value"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	v, err := s.tracker.RecordSet(req.Exercise, req.Set, session.Field(req.Field), req.Value)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confirmed bool `json:"confirmed"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := s.tracker.Complete(r.Context(), req.Confirmed)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/claude/gymlog/internal/backup"
	"github.com/claude/gymlog/internal/tracker"
)

// maxBackupBytes bounds an uploaded backup document.
const maxBackupBytes = 32 << 20

// restoreWarningHeader is set on a restore whose state was applied but whose
// file store was not.
const restoreWarningHeader = "X-Gymlog-Restore-Warning"

func (s *Server) handleQueryHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.tracker.History(q.Get("start"), q.Get("end"), q.Get("exercise")))
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.ClearHistory(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteHistoryEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteHistoryEntry(r.Context(), chi.URLParam(r, "entryID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLatestPerformance(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	resp := map[string]any{"exercise": exercise, "performance": nil}
	if perf, ok := s.tracker.LatestPerformance(exercise); ok {
		resp["performance"] = perf
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWeightProgress(w http.ResponseWriter, r *http.Request) {
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exercise parameter required"})
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.WeightProgress(exercise))
}

func (s *Server) handleHistoryExercises(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.HistoryExerciseNames())
}

// handleAlphaImport merges an Alpha Progression CSV export into history.
func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	res, err := s.alpha.Ingest(r.Context(), http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	b, err := s.tracker.Export(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := backup.Encode(b)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="gym-log-backup-`+b.ExportedAt[:len("2006-01-02")]+`.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": err.Error()})
		return
	}
	if err := s.tracker.Restore(r.Context(), data); err != nil {
		if !errors.Is(err, tracker.ErrFilesNotRestored) {
			s.writeError(w, err)
			return
		}
		s.log.Warn("partial restore", "error", err)
		w.Header().Set(restoreWarningHeader, err.Error())
	}
	writeJSON(w, http.StatusOK, s.tracker.State())
}

func (s *Server) handleImportExample(w http.ResponseWriter, r *http.Request) {
	p, err := s.tracker.ImportExample(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

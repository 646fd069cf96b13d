package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/progress"
	"github.com/meltforce/liftlog/internal/workout"
)

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Programs())
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	p, ok := s.svc.GetProgram(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "program not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleAddProgram accepts an authored program. Missing ids are filled in
// server-side (the authoring UI builds nested entities without ids).
func (s *Server) handleAddProgram(w http.ResponseWriter, r *http.Request) {
	var p models.Program
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	assignIDs(&p)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	if err := s.svc.AddProgram(r.Context(), p); err != nil {
		status := http.StatusInternalServerError
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	var p models.Program
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	p.ID = chi.URLParam(r, "id")

	if err := s.svc.UpdateProgram(r.Context(), p); err != nil {
		status := http.StatusInternalServerError
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteProgram(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProgramID string `json:"programId"`
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ProgramID == "" || req.SessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "programId and sessionId are required"})
		return
	}

	active, err := s.svc.StartWorkout(r.Context(), req.ProgramID, req.SessionID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, active)
}

// handleCompleteSet records a performed set. The service treats this as a
// no-op without an active workout; remote callers get a 409 instead so they
// are not left guessing why nothing happened.
func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExerciseID string            `json:"exerciseId"`
		SetID      string            `json:"setId"`
		Set        models.WorkoutSet `json:"set"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.ExerciseID == "" || req.SetID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exerciseId and setId are required"})
		return
	}
	if _, ok := s.svc.ActiveWorkout(); !ok {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no active workout"})
		return
	}

	if err := s.svc.CompleteSet(r.Context(), req.ExerciseID, req.SetID, req.Set); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	active, _ := s.svc.ActiveWorkout()
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleAdvanceExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if err := s.svc.AdvanceExercise(r.Context(), req.Index); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, workout.ErrNoActiveWorkout) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	active, _ := s.svc.ActiveWorkout()
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleEndWorkout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.EndWorkout(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetActiveWorkout(w http.ResponseWriter, r *http.Request) {
	active, ok := s.svc.ActiveWorkout()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active workout"})
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func (s *Server) handleWorkoutProgress(w http.ResponseWriter, r *http.Request) {
	sum, ok := s.svc.Progress()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active workout"})
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	history := progress.Filter(s.svc.History(), q.Get("programId"), q.Get("sessionId"), q.Get("exerciseId"))
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleOccurrences(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	history := progress.Filter(s.svc.History(), q.Get("programId"), q.Get("sessionId"), "")
	writeJSON(w, http.StatusOK, progress.Occurrences(history))
}

func (s *Server) handleExerciseProgression(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	exerciseID := q.Get("exerciseId")
	if exerciseID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "exerciseId parameter required"})
		return
	}
	history := progress.Filter(s.svc.History(), q.Get("programId"), q.Get("sessionId"), "")
	writeJSON(w, http.StatusOK, progress.ExerciseProgression(history, exerciseID))
}

func (s *Server) handleSessionProgression(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	history := progress.Filter(s.svc.History(), q.Get("programId"), q.Get("sessionId"), "")
	writeJSON(w, http.StatusOK, progress.SessionProgression(history))
}

func (s *Server) handleLastPerformance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	for _, param := range []string{"programId", "sessionId", "exerciseId", "setId"} {
		if q.Get(param) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": param + " parameter required"})
			return
		}
	}

	entry, ok := s.svc.LastPerformance(q.Get("programId"), q.Get("sessionId"), q.Get("exerciseId"), q.Get("setId"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no performance recorded"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleTimerState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.timer.Snapshot())
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	s.timer.Start()
	writeJSON(w, http.StatusOK, s.timer.Snapshot())
}

func (s *Server) handleTimerPause(w http.ResponseWriter, r *http.Request) {
	s.timer.Pause()
	writeJSON(w, http.StatusOK, s.timer.Snapshot())
}

func (s *Server) handleTimerReset(w http.ResponseWriter, r *http.Request) {
	s.timer.Reset()
	writeJSON(w, http.StatusOK, s.timer.Snapshot())
}

func (s *Server) handleTimerDuration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seconds int `json:"seconds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	s.timer.SetDuration(req.Seconds)
	writeJSON(w, http.StatusOK, s.timer.Snapshot())
}

// assignIDs fills in missing ids throughout an authored program.
func assignIDs(p *models.Program) {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	for i := range p.Sessions {
		if p.Sessions[i].ID == "" {
			p.Sessions[i].ID = models.NewID()
		}
		for j := range p.Sessions[i].Exercises {
			ex := &p.Sessions[i].Exercises[j]
			if ex.ID == "" {
				ex.ID = models.NewID()
			}
			for k := range ex.Sets {
				if ex.Sets[k].ID == "" {
					ex.Sets[k].ID = models.NewID()
				}
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Package workout holds the mutable core: the three collections and every
// operation that changes them. All mutations go through the Service, which
// mirrors each change to the store before returning.
package workout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// ErrNoActiveWorkout is returned by operations that only make sense while a
// workout is running.
var ErrNoActiveWorkout = errors.New("no active workout")

// Service owns programs, history, and the active-workout singleton. Methods
// are safe for concurrent use; each one is atomic from the caller's point
// of view.
type Service struct {
	mu    sync.Mutex
	store *storage.Store
	log   *slog.Logger
	now   func() time.Time

	programs []models.Program
	history  []models.WorkoutHistoryEntry
	active   *models.ActiveWorkout
}

// NewService loads the persisted snapshot and constructs the service around
// it. No write can happen before this load, which keeps a fresh process
// from clobbering stored state with empty defaults.
func NewService(ctx context.Context, store *storage.Store, log *slog.Logger) (*Service, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading workout state: %w", err)
	}
	return &Service{
		store:    store,
		log:      log,
		now:      time.Now,
		programs: snap.Programs,
		history:  snap.History,
		active:   snap.ActiveWorkout,
	}, nil
}

// Programs returns a copy of all programs.
func (s *Service) Programs() []models.Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Program, len(s.programs))
	copy(out, s.programs)
	return out
}

// GetProgram returns the program with the given id, if present.
func (s *Service) GetProgram(id string) (models.Program, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findProgram(id)
}

func (s *Service) findProgram(id string) (models.Program, bool) {
	for _, p := range s.programs {
		if p.ID == id {
			return p, true
		}
	}
	return models.Program{}, false
}

// AddProgram validates and appends a program. The caller supplies the id
// (generated via models.NewID), so no duplicate check is performed.
func (s *Service) AddProgram(ctx context.Context, p models.Program) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs = append(s.programs, p)
	if err := s.store.SavePrograms(ctx, s.programs); err != nil {
		return err
	}
	s.log.Info("program added", "id", p.ID, "name", p.Name)
	return nil
}

// UpdateProgram replaces the program with a matching id. When no program
// matches, this is a silent no-op.
func (s *Service) UpdateProgram(ctx context.Context, p models.Program) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.programs {
		if s.programs[i].ID == p.ID {
			s.programs[i] = p
			return s.store.SavePrograms(ctx, s.programs)
		}
	}
	s.log.Debug("update of unknown program ignored", "id", p.ID)
	return nil
}

// DeleteProgram removes the matching program. History entries referencing
// it are kept: they are historical facts, not live joins. Unknown ids are a
// silent no-op.
func (s *Service) DeleteProgram(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.programs {
		if s.programs[i].ID == id {
			s.programs = append(s.programs[:i], s.programs[i+1:]...)
			return s.store.SavePrograms(ctx, s.programs)
		}
	}
	s.log.Debug("delete of unknown program ignored", "id", id)
	return nil
}

// StartWorkout begins a run of the given session. A workout that is already
// active is silently replaced (its completed sets are already in history,
// so nothing is lost); the replacement is logged so it stays observable.
func (s *Service) StartWorkout(ctx context.Context, programID, sessionID string) (models.ActiveWorkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		s.log.Warn("replacing active workout",
			"old_program", s.active.ProgramID, "old_session", s.active.SessionID,
			"new_program", programID, "new_session", sessionID)
	}

	s.active = &models.ActiveWorkout{
		ProgramID:            programID,
		SessionID:            sessionID,
		StartedAt:            s.now(),
		CurrentExerciseIndex: 0,
		CompletedSets:        map[string]models.WorkoutSet{},
	}
	if err := s.store.SaveActiveWorkout(ctx, s.active); err != nil {
		return models.ActiveWorkout{}, err
	}
	return s.active.Clone(), nil
}

// CompleteSet records one performed set. Without an active workout it is a
// silent no-op. Completing the same set again overwrites the snapshot in
// the active workout but still appends a fresh history entry: the active
// workout tracks current state, history records every fact.
func (s *Service) CompleteSet(ctx context.Context, exerciseID, setID string, completed models.WorkoutSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		s.log.Debug("complete set with no active workout ignored", "exercise", exerciseID, "set", setID)
		return nil
	}

	s.active.CompletedSets[models.SetKey(exerciseID, setID)] = completed

	entry := models.WorkoutHistoryEntry{
		ID:          models.NewEntryID(),
		ProgramID:   s.active.ProgramID,
		SessionID:   s.active.SessionID,
		ExerciseID:  exerciseID,
		SetID:       setID,
		Reps:        completed.ActualReps(),
		Weight:      completed.ActualWeight(),
		CompletedAt: s.now(),
	}
	s.history = append(s.history, entry)

	if err := s.store.SaveActiveWorkout(ctx, s.active); err != nil {
		return err
	}
	return s.store.SaveHistory(ctx, s.history)
}

// AdvanceExercise moves the active workout to the given exercise index and
// persists it, making the service the single source of truth for where the
// user is in the session.
func (s *Service) AdvanceExercise(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return ErrNoActiveWorkout
	}
	if index < 0 {
		return fmt.Errorf("exercise index %d out of range", index)
	}
	if p, ok := s.findProgram(s.active.ProgramID); ok {
		if sess, ok := p.Session(s.active.SessionID); ok && index >= len(sess.Exercises) {
			return fmt.Errorf("exercise index %d out of range (session has %d exercises)", index, len(sess.Exercises))
		}
	}

	s.active.CurrentExerciseIndex = index
	return s.store.SaveActiveWorkout(ctx, s.active)
}

// EndWorkout clears the active workout. History is untouched.
func (s *Service) EndWorkout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = nil
	return s.store.SaveActiveWorkout(ctx, nil)
}

// ActiveWorkout returns a snapshot of the workout in progress, if any.
func (s *Service) ActiveWorkout() (models.ActiveWorkout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return models.ActiveWorkout{}, false
	}
	return s.active.Clone(), true
}

// History returns a copy of the full history log, in append order.
func (s *Service) History() []models.WorkoutHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.WorkoutHistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// LastPerformance returns the most recent history entry matching all four
// ids. Entries sharing the maximum completedAt are tie-broken by entry id
// (greatest wins) so repeated calls see one stable winner.
func (s *Service) LastPerformance(programID, sessionID, exerciseID, setID string) (models.WorkoutHistoryEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best models.WorkoutHistoryEntry
	found := false
	for _, h := range s.history {
		if h.ProgramID != programID || h.SessionID != sessionID ||
			h.ExerciseID != exerciseID || h.SetID != setID {
			continue
		}
		if !found || h.CompletedAt.After(best.CompletedAt) ||
			(h.CompletedAt.Equal(best.CompletedAt) && h.ID > best.ID) {
			best = h
			found = true
		}
	}
	return best, found
}

// ProgressSummary counts completed sets against the session template.
type ProgressSummary struct {
	CompletedSets int `json:"completedSets"`
	TotalSets     int `json:"totalSets"`
}

// Progress reports how far the active workout has come. Total is taken
// from the session template; when the program or session has been deleted
// mid-run, total falls back to 0 and only the completed count is usable.
func (s *Service) Progress() (ProgressSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return ProgressSummary{}, false
	}

	var sum ProgressSummary
	for _, set := range s.active.CompletedSets {
		if set.IsCompleted {
			sum.CompletedSets++
		}
	}
	if p, ok := s.findProgram(s.active.ProgramID); ok {
		if sess, ok := p.Session(s.active.SessionID); ok {
			for _, ex := range sess.Exercises {
				sum.TotalSets += len(ex.Sets)
			}
		}
	}
	return sum, true
}

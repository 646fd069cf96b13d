package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/meltforce/liftlog/internal/models"
)

// Fixed keys for the three persisted collections.
const (
	ProgramsKey      = "workout_programs"
	HistoryKey       = "workout_history"
	ActiveWorkoutKey = "active_workout"
)

// Store mirrors the three top-level collections to the backing KV store as
// whole-collection JSON replacements. Load is called once at startup; the
// service then owns the in-memory state and calls the Save methods after
// every mutation.
type Store struct {
	kv  KV
	log *slog.Logger
}

// NewStore creates a Store over the given backing KV.
func NewStore(kv KV, log *slog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Snapshot is the full persisted state. ActiveWorkout is nil when no
// workout is in progress.
type Snapshot struct {
	Programs      []models.Program
	History       []models.WorkoutHistoryEntry
	ActiveWorkout *models.ActiveWorkout
}

// Load reads all three keys. Missing keys yield empty collections. Corrupt
// values fail open: the collection resets to empty with a warning, since
// this is local state, not a source of truth worth crashing over.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	if err := s.loadInto(ctx, ProgramsKey, &snap.Programs); err != nil {
		return nil, err
	}
	if err := s.loadInto(ctx, HistoryKey, &snap.History); err != nil {
		return nil, err
	}

	raw, ok, err := s.kv.Get(ctx, ActiveWorkoutKey)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", ActiveWorkoutKey, err)
	}
	if ok {
		var active models.ActiveWorkout
		if err := json.Unmarshal([]byte(raw), &active); err != nil {
			s.log.Warn("corrupt stored value, resetting", "key", ActiveWorkoutKey, "error", err)
		} else {
			snap.ActiveWorkout = &active
		}
	}

	return snap, nil
}

func (s *Store) loadInto(ctx context.Context, key string, dst any) error {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("loading %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.log.Warn("corrupt stored value, resetting", "key", key, "error", err)
	}
	return nil
}

// SavePrograms replaces the stored program collection.
func (s *Store) SavePrograms(ctx context.Context, programs []models.Program) error {
	return s.save(ctx, ProgramsKey, programs)
}

// SaveHistory replaces the stored history log.
func (s *Store) SaveHistory(ctx context.Context, history []models.WorkoutHistoryEntry) error {
	return s.save(ctx, HistoryKey, history)
}

// SaveActiveWorkout stores the active workout, or removes the key entirely
// when active is nil. Absence, not a stored null, is what tells a fresh
// process there is no workout in progress.
func (s *Store) SaveActiveWorkout(ctx context.Context, active *models.ActiveWorkout) error {
	if active == nil {
		if err := s.kv.Delete(ctx, ActiveWorkoutKey); err != nil {
			return fmt.Errorf("removing %s: %w", ActiveWorkoutKey, err)
		}
		return nil
	}
	return s.save(ctx, ActiveWorkoutKey, active)
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

package workout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func testStore(t *testing.T) *storage.Store {
	t.Helper()
	kv, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "liftlog.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return storage.NewStore(kv, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), testStore(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func sampleProgram() models.Program {
	return models.Program{
		ID:   "p1",
		Name: "Strength Block",
		Sessions: []models.Session{{
			ID:   "s1",
			Name: "Day A",
			Exercises: []models.Exercise{{
				ID:   "e1",
				Name: "Bench Press",
				Sets: []models.WorkoutSet{{
					ID: "set1", Type: models.SetTypeForce, TargetReps: 10, TargetWeight: 20,
				}},
			}},
		}},
		CreatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
	}
}

// TestAddProgramLookup verifies AddProgram then GetProgram returns a value
// deep-equal to the input.
func TestAddProgramLookup(t *testing.T) {
	svc := testService(t)
	p := sampleProgram()

	if err := svc.AddProgram(context.Background(), p); err != nil {
		t.Fatalf("AddProgram: %v", err)
	}
	got, ok := svc.GetProgram("p1")
	if !ok {
		t.Fatal("GetProgram(p1) not found")
	}
	if !reflect.DeepEqual(got, p) {
		t.Errorf("GetProgram = %+v, want %+v", got, p)
	}
}

// TestAddProgramInvalid verifies validation errors reject the input with no
// partial write.
func TestAddProgramInvalid(t *testing.T) {
	svc := testService(t)
	p := sampleProgram()
	p.Name = ""

	err := svc.AddProgram(context.Background(), p)
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("AddProgram = %v, want *ValidationError", err)
	}
	if len(svc.Programs()) != 0 {
		t.Error("invalid program was stored")
	}
}

// TestUpdateProgramAbsent verifies updating a program whose id is absent
// leaves the collection unchanged.
func TestUpdateProgramAbsent(t *testing.T) {
	svc := testService(t)
	if err := svc.AddProgram(context.Background(), sampleProgram()); err != nil {
		t.Fatalf("AddProgram: %v", err)
	}

	ghost := sampleProgram()
	ghost.ID = "p-unknown"
	ghost.Name = "Ghost"
	if err := svc.UpdateProgram(context.Background(), ghost); err != nil {
		t.Fatalf("UpdateProgram: %v", err)
	}

	programs := svc.Programs()
	if len(programs) != 1 || programs[0].Name != "Strength Block" {
		t.Errorf("programs = %+v, want the original single program", programs)
	}
}

// TestUpdateProgramReplaces verifies a matching id is replaced wholesale.
func TestUpdateProgramReplaces(t *testing.T) {
	svc := testService(t)
	if err := svc.AddProgram(context.Background(), sampleProgram()); err != nil {
		t.Fatalf("AddProgram: %v", err)
	}

	updated := sampleProgram()
	updated.Name = "Hypertrophy Block"
	if err := svc.UpdateProgram(context.Background(), updated); err != nil {
		t.Fatalf("UpdateProgram: %v", err)
	}

	got, _ := svc.GetProgram("p1")
	if got.Name != "Hypertrophy Block" {
		t.Errorf("name = %q, want %q", got.Name, "Hypertrophy Block")
	}
}

// TestDeleteProgramKeepsHistory verifies deletion removes exactly the
// matching program while history entries referencing it stay queryable.
func TestDeleteProgramKeepsHistory(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)
	if err := svc.AddProgram(ctx, sampleProgram()); err != nil {
		t.Fatalf("AddProgram: %v", err)
	}

	if _, err := svc.StartWorkout(ctx, "p1", "s1"); err != nil {
		t.Fatalf("StartWorkout: %v", err)
	}
	completed := models.WorkoutSet{
		ID: "set1", Type: models.SetTypeForce, TargetReps: 10, TargetWeight: 20,
		CompletedReps: intPtr(10), CompletedWeight: floatPtr(20), IsCompleted: true,
	}
	if err := svc.CompleteSet(ctx, "e1", "set1", completed); err != nil {
		t.Fatalf("CompleteSet: %v", err)
	}
	if err := svc.EndWorkout(ctx); err != nil {
		t.Fatalf("EndWorkout: %v", err)
	}

	if err := svc.DeleteProgram(ctx, "p1"); err != nil {
		t.Fatalf("DeleteProgram: %v", err)
	}
	if len(svc.Programs()) != 0 {
		t.Error("program still present after delete")
	}
	if len(svc.History()) != 1 {
		t.Errorf("history has %d entries after delete, want 1", len(svc.History()))
	}
	if _, ok := svc.LastPerformance("p1", "s1", "e1", "set1"); !ok {
		t.Error("orphaned history entry no longer queryable")
	}
}

// TestWorkoutScenario runs the end-to-end scenario: start, complete one set
// with actuals 12 reps at 22.5, and check history plus last performance.
func TestWorkoutScenario(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)
	if err := svc.AddProgram(ctx, sampleProgram()); err != nil {
		t.Fatalf("AddProgram: %v", err)
	}

	active, err := svc.StartWorkout(ctx, "p1", "s1")
	if err != nil {
		t.Fatalf("StartWorkout: %v", err)
	}
	if active.CurrentExerciseIndex != 0 || len(active.CompletedSets) != 0 {
		t.Errorf("fresh workout = %+v, want index 0 and no completed sets", active)
	}

	completed := models.WorkoutSet{
		ID: "set1", Type: models.SetTypeForce, TargetReps: 10, TargetWeight: 20,
		CompletedReps: intPtr(12), CompletedWeight: floatPtr(22.5), IsCompleted: true,
	}
	if err := svc.CompleteSet(ctx, "e1", "set1", completed); err != nil {
		t.Fatalf("CompleteSet: %v", err)
	}

	history := svc.History()
	if len(history) != 1 {
		t.Fatalf("history has %d entries, want 1", len(history))
	}
	if history[0].Reps != 12 || history[0].Weight != 22.5 {
		t.Errorf("entry = reps %d weight %v, want 12 and 22.5", history[0].Reps, history[0].Weight)
	}

	last, ok := svc.LastPerformance("p1", "s1", "e1", "set1")
	if !ok {
		t.Fatal("LastPerformance not found")
	}
	if last.ID != history[0].ID {
		t.Errorf("LastPerformance = %+v, want the single history entry", last)
	}
}

// TestCompleteSetNoActiveWorkout verifies completing a set while idle is a
// silent no-op: no error, no history entry.
func TestCompleteSetNoActiveWorkout(t *testing.T) {
	svc := testService(t)
	err := svc.CompleteSet(context.Background(), "e1", "set1", models.WorkoutSet{
		ID: "set1", Type: models.SetTypeForce, TargetReps: 10, TargetWeight: 20,
	})
	if err != nil {
		t.Fatalf("CompleteSet = %v, want nil", err)
	}
	if len(svc.History()) != 0 {
		t.Error("history grew without an active workout")
	}
}

// TestCompleteSetTwiceAppendsTwice verifies repeating a set overwrites the
// active-workout snapshot but always appends a new history entry, and that
// LastPerformance picks the later completedAt.
func TestCompleteSetTwiceAppendsTwice(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	base := time.Date(2026, 2, 2, 18, 0, 0, 0, time.UTC)
	clock := base
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	if _, err := svc.StartWorkout(ctx, "p1", "s1"); err != nil {
		t.Fatalf("StartWorkout: %v", err)
	}

	first := models.WorkoutSet{
		ID: "set1", Type: models.SetTypeForce, TargetReps: 10, TargetWeight: 20,
		CompletedReps: intPtr(10), CompletedWeight: floatPtr(20), IsCompleted: true,
	}
	second := first
	second.CompletedReps = intPtr(8)
	second.CompletedWeight = floatPtr(25)

	if err := svc.CompleteSet(ctx, "e1", "set1", first); err != nil {
		t.Fatalf("CompleteSet #1: %v", err)
	}
	if err := svc.CompleteSet(ctx, "e1", "set1", second); err != nil {
		t.Fatalf("CompleteSet #2: %v", err)
	}

	if got := len(svc.History()); got != 2 {
		t.Fatalf("history has %d entries, want 2", got)
	}
	active, _ := svc.ActiveWorkout()
	if got := len(active.CompletedSets); got != 1 {
		t.Errorf("active workout has %d completed sets, want 1 (overwrite)", got)
	}
	if got := active.CompletedSets[models.SetKey("e1", "set1")].ActualReps(); got != 8 {
		t.Errorf("active snapshot reps = %d, want the overwriting 8", got)
	}

	last, ok := svc.LastPerformance("p1", "s1", "e1", "set1")
	if !ok {
		t.Fatal("LastPerformance not found")
	}
	if last.Reps != 8 || last.Weight != 25 {
		t.Errorf("LastPerformance = reps %d weight %v, want the later completion (8, 25)", last.Reps, last.Weight)
	}
}

// TestLastPerformanceTieBreak verifies entries sharing a completedAt are
// tie-broken by entry id, deterministically.
func TestLastPerformanceTieBreak(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	stamp := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return stamp }

	if _, err := svc.StartWorkout(ctx, "p1", "s1"); err != nil {
		t.Fatalf("StartWorkout: %v", err)
	}
	set := models.WorkoutSet{
		ID: "set1", Type: models.SetTypeForce, TargetReps: 5, TargetWeight: 50,
		CompletedReps: intPtr(5), CompletedWeight: floatPtr(50), IsCompleted: true,
	}
	if err := svc.CompleteSet(ctx, "e1", "set1", set); err != nil {
		t.Fatalf("CompleteSet #1: %v", err)
	}
	if err := svc.CompleteSet(ctx, "e1", "set1", set); err != nil {
		t.Fatalf("CompleteSet #2: %v", err)
	}

	history := svc.History()
	wantID := history[0].ID
	if history[1].ID > wantID {
		wantID = history[1].ID
	}

	for range 5 {
		last, ok := svc.LastPerformance("p1", "s1", "e1", "set1")
		if !ok {
			t.Fatal("LastPerformance not found")
		}
		if last.ID != wantID {
			t.Fatalf("LastPerformance id = %q, want greatest id %q", last.ID, wantID)
		}
	}
}

// TestStartWorkoutReplacesActive verifies starting while active silently
// replaces the singleton rather than erroring.
func TestStartWorkoutReplacesActive(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	if _, err := svc.StartWorkout(ctx, "p1", "s1"); err != nil {
		t.Fatalf("StartWorkout #1: %v", err)
	}
	if _, err := svc.StartWorkout(ctx, "p2", "s2"); err != nil {
		t.Fatalf("StartWorkout #2: %v", err)
	}

	active, ok := svc.ActiveWorkout()
	if !ok {
		t.Fatal("no active workout")
	}
	if active.ProgramID != "p2" || active.SessionID != "s2" {
		t.Errorf("active = %s/%s, want p2/s2", active.ProgramID, active.SessionID)
	}
}

// TestEndWorkoutClearsState verifies the Idle transition: the singleton is
// cleared, history stays, and a reload observes no active workout.
func TestEndWorkoutClearsState(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := NewService(ctx, store, log)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.StartWorkout(ctx, "p1", "s1"); err != nil {
		t.Fatalf("StartWorkout: %v", err)
	}
	if err := svc.CompleteSet(ctx, "e1", "set1", models.WorkoutSet{
		ID: "set1", Type: models.SetTypeForce, TargetReps: 10, TargetWeight: 20,
		CompletedReps: intPtr(10), CompletedWeight: floatPtr(20), IsCompleted: true,
	}); err != nil {
		t.Fatalf("CompleteSet: %v", err)
	}
	if err := svc.EndWorkout(ctx); err != nil {
		t.Fatalf("EndWorkout: %v", err)
	}

	if _, ok := svc.ActiveWorkout(); ok {
		t.Error("active workout still present after EndWorkout")
	}

	// A fresh service over the same store must see the same picture.
	reloaded, err := NewService(ctx, store, log)
	if err != nil {
		t.Fatalf("NewService reload: %v", err)
	}
	if _, ok := reloaded.ActiveWorkout(); ok {
		t.Error("reloaded service sees an active workout after EndWorkout")
	}
	if len(reloaded.History()) != 1 {
		t.Errorf("reloaded history has %d entries, want 1", len(reloaded.History()))
	}
}

// TestAdvanceExercise verifies navigation writes CurrentExerciseIndex and
// rejects out-of-range indexes and the idle state.
func TestAdvanceExercise(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	if err := svc.AdvanceExercise(ctx, 1); !errors.Is(err, ErrNoActiveWorkout) {
		t.Errorf("AdvanceExercise while idle = %v, want ErrNoActiveWorkout", err)
	}

	p := sampleProgram()
	p.Sessions[0].Exercises = append(p.Sessions[0].Exercises, models.Exercise{
		ID: "e2", Name: "Row",
		Sets: []models.WorkoutSet{{ID: "set2", Type: models.SetTypeForce, TargetReps: 8, TargetWeight: 40}},
	})
	if err := svc.AddProgram(ctx, p); err != nil {
		t.Fatalf("AddProgram: %v", err)
	}
	if _, err := svc.StartWorkout(ctx, "p1", "s1"); err != nil {
		t.Fatalf("StartWorkout: %v", err)
	}

	if err := svc.AdvanceExercise(ctx, 1); err != nil {
		t.Fatalf("AdvanceExercise(1): %v", err)
	}
	active, _ := svc.ActiveWorkout()
	if active.CurrentExerciseIndex != 1 {
		t.Errorf("index = %d, want 1", active.CurrentExerciseIndex)
	}

	if err := svc.AdvanceExercise(ctx, 2); err == nil {
		t.Error("AdvanceExercise(2) = nil, want out-of-range error")
	}
	if err := svc.AdvanceExercise(ctx, -1); err == nil {
		t.Error("AdvanceExercise(-1) = nil, want out-of-range error")
	}
}

// TestProgress verifies the completed/total counts against the session
// template.
func TestProgress(t *testing.T) {
	ctx := context.Background()
	svc := testService(t)

	if _, ok := svc.Progress(); ok {
		t.Error("Progress while idle reported ok")
	}

	p := sampleProgram()
	p.Sessions[0].Exercises[0].Sets = append(p.Sessions[0].Exercises[0].Sets,
		models.WorkoutSet{ID: "set2", Type: models.SetTypeForce, TargetReps: 10, TargetWeight: 20})
	if err := svc.AddProgram(ctx, p); err != nil {
		t.Fatalf("AddProgram: %v", err)
	}
	if _, err := svc.StartWorkout(ctx, "p1", "s1"); err != nil {
		t.Fatalf("StartWorkout: %v", err)
	}
	if err := svc.CompleteSet(ctx, "e1", "set1", models.WorkoutSet{
		ID: "set1", Type: models.SetTypeForce, TargetReps: 10, TargetWeight: 20,
		CompletedReps: intPtr(10), CompletedWeight: floatPtr(20), IsCompleted: true,
	}); err != nil {
		t.Fatalf("CompleteSet: %v", err)
	}

	sum, ok := svc.Progress()
	if !ok {
		t.Fatal("Progress not ok with active workout")
	}
	if sum.CompletedSets != 1 || sum.TotalSets != 2 {
		t.Errorf("progress = %+v, want 1/2", sum)
	}
}

package models

import "time"

// SetType classifies how a set is performed.
type SetType string

const (
	SetTypeForce  SetType = "force"
	SetTypeMyoRep SetType = "myo-rep"
)

// Valid reports whether t is a known set type.
func (t SetType) Valid() bool {
	return t == SetTypeForce || t == SetTypeMyoRep
}

// WorkoutSet is one planned or executed unit of work. Target fields are
// fixed when the set is authored; the completion fields are filled in when
// the set is performed during a workout.
type WorkoutSet struct {
	ID              string   `json:"id"`
	Type            SetType  `json:"type"`
	TargetReps      int      `json:"targetReps"`
	TargetWeight    float64  `json:"targetWeight"`
	CompletedReps   *int     `json:"completedReps,omitempty"`
	CompletedWeight *float64 `json:"completedWeight,omitempty"`
	IsCompleted     bool     `json:"isCompleted"`
}

// ActualReps returns the completed rep count, or 0 when not recorded.
func (s WorkoutSet) ActualReps() int {
	if s.CompletedReps != nil {
		return *s.CompletedReps
	}
	return 0
}

// ActualWeight returns the completed weight, or 0 when not recorded.
func (s WorkoutSet) ActualWeight() float64 {
	if s.CompletedWeight != nil {
		return *s.CompletedWeight
	}
	return 0
}

// Exercise is a named movement with a planned sequence of sets.
type Exercise struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Sets  []WorkoutSet `json:"sets"`
	Notes string       `json:"notes,omitempty"`
}

// Session is one planned workout within a program. Exercise order is the
// execution order.
type Session struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

// Program is a named, reusable training plan. Sessions are owned by exactly
// one program and are never shared.
type Program struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Sessions    []Session `json:"sessions"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Session returns the session with the given id, if present.
func (p Program) Session(id string) (Session, bool) {
	for _, s := range p.Sessions {
		if s.ID == id {
			return s, true
		}
	}
	return Session{}, false
}

// WorkoutHistoryEntry records one completed set. Entries are append-only
// facts: the id fields are snapshots, not enforced references, so an entry
// stays valid after its program, session, or exercise is edited or deleted.
type WorkoutHistoryEntry struct {
	ID          string    `json:"id"`
	ProgramID   string    `json:"programId"`
	SessionID   string    `json:"sessionId"`
	ExerciseID  string    `json:"exerciseId"`
	SetID       string    `json:"setId"`
	Reps        int       `json:"reps"`
	Weight      float64   `json:"weight"`
	CompletedAt time.Time `json:"completedAt"`
}

// ActiveWorkout tracks an in-progress run of one session. At most one
// exists at a time. CompletedSets holds only the sets finished during this
// run, keyed by SetKey.
type ActiveWorkout struct {
	ProgramID            string                `json:"programId"`
	SessionID            string                `json:"sessionId"`
	StartedAt            time.Time             `json:"startedAt"`
	CurrentExerciseIndex int                   `json:"currentExerciseIndex"`
	CompletedSets        map[string]WorkoutSet `json:"completedSets"`
}

// SetKey builds the composite key used by ActiveWorkout.CompletedSets.
func SetKey(exerciseID, setID string) string {
	return exerciseID + "-" + setID
}

// Clone returns a deep copy, so callers can hand out snapshots without
// exposing the service's internal map.
func (a ActiveWorkout) Clone() ActiveWorkout {
	out := a
	out.CompletedSets = make(map[string]WorkoutSet, len(a.CompletedSets))
	for k, v := range a.CompletedSets {
		out.CompletedSets[k] = v
	}
	return out
}

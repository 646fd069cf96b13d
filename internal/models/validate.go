package models

import "fmt"

// ValidationError describes input rejected at creation time. No partial
// write happens when one is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// Validate checks the program and everything it owns.
func (p Program) Validate() error {
	if p.Name == "" {
		return &ValidationError{Field: "program.name", Msg: "must not be empty"}
	}
	for i, sess := range p.Sessions {
		if err := sess.validate(); err != nil {
			return fmt.Errorf("session %d: %w", i, err)
		}
	}
	return nil
}

func (s Session) validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "session.name", Msg: "must not be empty"}
	}
	for i, ex := range s.Exercises {
		if err := ex.validate(); err != nil {
			return fmt.Errorf("exercise %d: %w", i, err)
		}
	}
	return nil
}

func (e Exercise) validate() error {
	if e.Name == "" {
		return &ValidationError{Field: "exercise.name", Msg: "must not be empty"}
	}
	for i, set := range e.Sets {
		if err := set.Validate(); err != nil {
			return fmt.Errorf("set %d: %w", i, err)
		}
	}
	return nil
}

// Validate checks a single set's invariants: a known type, a positive rep
// target, a non-negative weight, and completion fields present whenever the
// set is marked completed.
func (s WorkoutSet) Validate() error {
	if !s.Type.Valid() {
		return &ValidationError{Field: "set.type", Msg: fmt.Sprintf("unknown type %q", s.Type)}
	}
	if s.TargetReps <= 0 {
		return &ValidationError{Field: "set.targetReps", Msg: "must be positive"}
	}
	if s.TargetWeight < 0 {
		return &ValidationError{Field: "set.targetWeight", Msg: "must not be negative"}
	}
	if s.IsCompleted && (s.CompletedReps == nil || s.CompletedWeight == nil) {
		return &ValidationError{Field: "set", Msg: "completed set is missing completedReps or completedWeight"}
	}
	return nil
}

package mcp

import (
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/workout"
)

// DataSource abstracts the workout service for MCP tools, so tools can be
// tested against a fake without a real store.
type DataSource interface {
	Programs() []models.Program
	GetProgram(id string) (models.Program, bool)
	History() []models.WorkoutHistoryEntry
	ActiveWorkout() (models.ActiveWorkout, bool)
	LastPerformance(programID, sessionID, exerciseID, setID string) (models.WorkoutHistoryEntry, bool)
}

// Compile-time check: *workout.Service satisfies DataSource.
var _ DataSource = (*workout.Service)(nil)

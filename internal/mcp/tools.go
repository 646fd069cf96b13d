package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/liftlog/internal/progress"
)

// --- Tool definitions ---

var toolListPrograms = mcp.NewTool("list_programs",
	mcp.WithDescription("List all training programs with their sessions, exercises, and planned sets."),
)

var toolGetProgram = mcp.NewTool("get_program",
	mcp.WithDescription("Retrieve one training program by id, including its full session/exercise/set structure."),
	mcp.WithString("program_id", mcp.Required(), mcp.Description("Program id")),
)

var toolGetWorkoutLog = mcp.NewTool("get_workout_log",
	mcp.WithDescription("Workout history grouped into occurrences (one per calendar date, program, and session), newest first. Each occurrence lists the sets performed with reps and weight."),
	mcp.WithString("program_id", mcp.Description("Filter by program id")),
	mcp.WithString("session_id", mcp.Description("Filter by session id")),
)

var toolGetExerciseProgression = mcp.NewTool("get_exercise_progression",
	mcp.WithDescription("Per-exercise progression over time: one point per training day with max weight, total reps, volume (sum of weight times reps), and set count, ascending by date."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id")),
	mcp.WithString("program_id", mcp.Description("Restrict to one program")),
	mcp.WithString("session_id", mcp.Description("Restrict to one session")),
)

var toolGetSessionProgression = mcp.NewTool("get_session_progression",
	mcp.WithDescription("Per-session training load over time: one point per training day with total volume and set count, ascending by date."),
	mcp.WithString("program_id", mcp.Description("Filter by program id")),
	mcp.WithString("session_id", mcp.Description("Filter by session id")),
)

var toolGetLastPerformance = mcp.NewTool("get_last_performance",
	mcp.WithDescription("The most recent recorded performance (reps and weight) for one specific planned set."),
	mcp.WithString("program_id", mcp.Required(), mcp.Description("Program id")),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id")),
	mcp.WithString("set_id", mcp.Required(), mcp.Description("Set id")),
)

// --- Tool handlers ---

func (h *handlers) listPrograms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(h.ds.Programs())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("program_id")
	if err != nil {
		return mcp.NewToolResultError("program_id parameter is required"), nil
	}

	p, ok := h.ds.GetProgram(id)
	if !ok {
		return mcp.NewToolResultError("program not found: " + id), nil
	}

	result, err := mcp.NewToolResultJSON(p)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history := progress.Filter(h.ds.History(),
		req.GetString("program_id", ""), req.GetString("session_id", ""), "")

	result, err := mcp.NewToolResultJSON(progress.Occurrences(history))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exerciseID, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	history := progress.Filter(h.ds.History(),
		req.GetString("program_id", ""), req.GetString("session_id", ""), "")

	result, err := mcp.NewToolResultJSON(progress.ExerciseProgression(history, exerciseID))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history := progress.Filter(h.ds.History(),
		req.GetString("program_id", ""), req.GetString("session_id", ""), "")

	result, err := mcp.NewToolResultJSON(progress.SessionProgression(history))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLastPerformance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	programID, err := req.RequireString("program_id")
	if err != nil {
		return mcp.NewToolResultError("program_id parameter is required"), nil
	}
	sessionID, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	exerciseID, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}
	setID, err := req.RequireString("set_id")
	if err != nil {
		return mcp.NewToolResultError("set_id parameter is required"), nil
	}

	entry, ok := h.ds.LastPerformance(programID, sessionID, exerciseID, setID)
	if !ok {
		return mcp.NewToolResultError("no performance recorded for that set"), nil
	}

	result, err := mcp.NewToolResultJSON(entry)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

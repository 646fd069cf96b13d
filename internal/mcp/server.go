package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftLog workout tracker. Query training programs, workout history, and per-exercise or per-session progression. All data belongs to the single local user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListPrograms, Handler: h.listPrograms},
		server.ServerTool{Tool: toolGetProgram, Handler: h.getProgram},
		server.ServerTool{Tool: toolGetWorkoutLog, Handler: h.getWorkoutLog},
		server.ServerTool{Tool: toolGetExerciseProgression, Handler: h.getExerciseProgression},
		server.ServerTool{Tool: toolGetSessionProgression, Handler: h.getSessionProgression},
		server.ServerTool{Tool: toolGetLastPerformance, Handler: h.getLastPerformance},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resActiveWorkout, Handler: h.activeWorkout},
		server.ServerResource{Resource: resProgramCatalog, Handler: h.programCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resActiveWorkout = mcp.NewResource(
	"liftlog://active_workout",
	"Active Workout",
	mcp.WithResourceDescription("The workout currently in progress, with its completed sets, or an idle marker when none is active"),
	mcp.WithMIMEType("application/json"),
)

var resProgramCatalog = mcp.NewResource(
	"liftlog://program_catalog",
	"Program Catalog",
	mcp.WithResourceDescription("All training programs with their sessions, exercises, and planned sets"),
	mcp.WithMIMEType("application/json"),
)

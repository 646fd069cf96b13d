package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/liftlog/internal/timer"
	"github.com/meltforce/liftlog/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    *workout.Service
	timer  *timer.Engine
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// disables auth on mutating routes (dev mode, or tsnet gating access).
func New(svc *workout.Service, tmr *timer.Engine, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		timer:  tmr,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Read endpoints
		r.Get("/programs", s.handleListPrograms)
		r.Get("/programs/{id}", s.handleGetProgram)
		r.Get("/workout", s.handleGetActiveWorkout)
		r.Get("/workout/progress", s.handleWorkoutProgress)
		r.Get("/history", s.handleHistory)
		r.Get("/history/occurrences", s.handleOccurrences)
		r.Get("/progression/exercise", s.handleExerciseProgression)
		r.Get("/progression/session", s.handleSessionProgression)
		r.Get("/performance/last", s.handleLastPerformance)
		r.Get("/timer", s.handleTimerState)

		// Mutations (API key required when configured)
		r.Group(func(r chi.Router) {
			if s.apiKey != "" {
				r.Use(APIKeyAuth(s.apiKey))
			}
			r.Post("/programs", s.handleAddProgram)
			r.Put("/programs/{id}", s.handleUpdateProgram)
			r.Delete("/programs/{id}", s.handleDeleteProgram)
			r.Post("/workout/start", s.handleStartWorkout)
			r.Post("/workout/sets", s.handleCompleteSet)
			r.Post("/workout/advance", s.handleAdvanceExercise)
			r.Post("/workout/end", s.handleEndWorkout)
			r.Post("/timer/start", s.handleTimerStart)
			r.Post("/timer/pause", s.handleTimerPause)
			r.Post("/timer/reset", s.handleTimerReset)
			r.Put("/timer/duration", s.handleTimerDuration)
		})
	})
}

// MountMCP attaches an MCP transport handler at /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/leminhai2007/minigames-go/internal/calc"
	"github.com/leminhai2007/minigames-go/internal/engine"
	"github.com/leminhai2007/minigames-go/internal/registry"
	"github.com/leminhai2007/minigames-go/internal/session"
	"github.com/leminhai2007/minigames-go/internal/sudokuapi"
	"github.com/leminhai2007/minigames-go/internal/wheelstore"
)

const (
	defaultTetrisTick = 800 * time.Millisecond

	// Request bodies are small JSON documents; anything bigger is abuse.
	maxBodyBytes = 1 << 20
)

// Options wires the server's collaborators.
type Options struct {
	Sessions     session.Store
	Wheels       *wheelstore.Store
	Registry     *registry.Registry
	Puzzles      *sudokuapi.Client
	Calc         *calc.Evaluator
	TetrisTick   time.Duration
	ClientOrigin string
	Logger       zerolog.Logger
}

// Server handles HTTP requests for the hub
type Server struct {
	sessions     session.Store
	wheels       *wheelstore.Store
	registry     *registry.Registry
	puzzles      *sudokuapi.Client
	loader       *sudokuapi.Loader
	calc         *calc.Evaluator
	tetrisTick   time.Duration
	clientOrigin string
	logger       zerolog.Logger
	errorHandler *ErrorHandler
	upgrader     websocket.Upgrader
	startTime    time.Time
}

// NewServer creates a new API server
func NewServer(opts Options) *Server {
	if opts.TetrisTick <= 0 {
		opts.TetrisTick = defaultTetrisTick
	}

	s := &Server{
		sessions:     opts.Sessions,
		wheels:       opts.Wheels,
		registry:     opts.Registry,
		puzzles:      opts.Puzzles,
		loader:       sudokuapi.NewLoader(opts.Puzzles),
		calc:         opts.Calc,
		tetrisTick:   opts.TetrisTick,
		clientOrigin: opts.ClientOrigin,
		logger:       opts.Logger,
		errorHandler: NewErrorHandler(opts.Logger),
		startTime:    time.Now(),
	}

	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || s.clientOrigin == "" || origin == s.clientOrigin
		},
	}

	return s
}

// Routes sets up the HTTP routes with proper middleware
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.metricsMiddleware)
	r.Use(s.errorHandler.RecoveryHandler)
	r.Use(s.corsMiddleware)

	// Health and monitoring endpoints
	r.Get("/health", s.handleHealthCheck)
	r.Get("/health/ready", s.handleReadiness)
	r.Get("/health/live", s.handleLiveness)
	r.Get("/version", s.handleVersion)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/projects", s.handleListProjects)
			r.Post("/calc", s.handleCalc)

			r.Post("/2048", s.handleNewTwenty48)
			r.Get("/2048/{id}", s.handleGetTwenty48)
			r.Delete("/2048/{id}", s.deleteSessionHandler(session.Kind2048))
			r.Post("/2048/{id}/move", s.handleTwenty48Move)

			r.Post("/sudoku", s.handleNewSudoku)
			r.Post("/sudoku/proxy", s.handleSudokuProxy)
			r.Get("/sudoku/{id}", s.handleGetSudoku)
			r.Delete("/sudoku/{id}", s.deleteSessionHandler(session.KindSudoku))
			r.Post("/sudoku/{id}/cell", s.handleSudokuCell)
			r.Post("/sudoku/{id}/note", s.handleSudokuNote)
			r.Post("/sudoku/{id}/clear", s.handleSudokuClear)

			r.Post("/tetris", s.handleNewTetris)
			r.Get("/tetris/{id}", s.handleGetTetris)
			r.Delete("/tetris/{id}", s.deleteSessionHandler(session.KindTetris))
			r.Post("/tetris/{id}/move", s.handleTetrisMove)
			r.Post("/tetris/{id}/pause", s.handleTetrisPause)
			r.Post("/tetris/{id}/resume", s.handleTetrisResume)

			r.Get("/wheels", s.handleListWheels)
			r.Post("/wheels", s.handleCreateWheel)
			r.Get("/wheels/{id}", s.handleGetWheel)
			r.Put("/wheels/{id}", s.handleUpdateWheel)
			r.Delete("/wheels/{id}", s.handleDeleteWheel)
			r.Post("/wheels/{id}/spin", s.handleSpinWheel)
		})

		// Websocket upgrades hold their connection open, so the live
		// stream sits outside the request timeout.
		r.Get("/tetris/{id}/live", s.handleTetrisLive)
	})

	// Legacy route kept for clients that still post to the old proxy path
	r.Post("/api/sudoku", s.handleSudokuProxy)

	return r
}

// corsMiddleware allows the configured client origin. An empty origin
// configures a wildcard, which is what local development wants.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	origin := s.clientOrigin
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response with proper headers
func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Hub-Version", HubVersion)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// decodeJSON parses a request body into dst. An empty body leaves dst at
// its zero value, which lets optional-body endpoints share this path.
// Returns false after writing the error response.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		requestID := middleware.GetReqID(r.Context())
		apiErr := NewError(ErrTypeInvalidParams, "request body is not valid JSON").
			WithRequestID(requestID).
			WithCause(err).
			Build()
		s.errorHandler.writeErrorResponse(w, http.StatusBadRequest, apiErr)
		return false
	}
	return true
}

// lookupSession resolves the {id} path parameter to a live session of the
// wanted kind. Returns false after writing a not_found response.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request, kind session.Kind) (*session.Session, bool) {
	id := chi.URLParam(r, "id")

	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil || sess.Kind != kind {
		requestID := middleware.GetReqID(r.Context())
		apiErr := NewError(ErrTypeNotFound, fmt.Sprintf("no %s session with id %q", kind, id)).
			WithRequestID(requestID).
			Build()
		s.errorHandler.writeErrorResponse(w, http.StatusNotFound, apiErr)
		return nil, false
	}
	return sess, true
}

// deleteSessionHandler ends a session of the given kind. Deleting stops
// any gravity runner and closes live subscribers.
func (s *Server) deleteSessionHandler(kind session.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.lookupSession(w, r, kind)
		if !ok {
			return
		}
		if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
			s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// newSource picks the rng for a game: a keyed stream when the client
// supplies a seed, OS entropy otherwise.
func newSource(seed string) engine.Source {
	if seed != "" {
		return engine.NewStream(seed)
	}
	return engine.NewEntropy()
}

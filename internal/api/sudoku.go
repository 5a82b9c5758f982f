package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/leminhai2007/minigames-go/internal/games"
	"github.com/leminhai2007/minigames-go/internal/session"
	"github.com/leminhai2007/minigames-go/internal/sudokuapi"
)

// handleNewSudoku starts a sudoku session. Local puzzles are generated
// in-process; remote ones come from the upstream puzzle API through the
// last-request-wins loader.
func (s *Server) handleNewSudoku(w http.ResponseWriter, r *http.Request) {
	var req NewSudokuRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	diff, err := games.ParseDifficulty(req.Difficulty)
	if err != nil {
		s.errorHandler.HandleValidationError(w, r, "difficulty", err.Error())
		return
	}

	source := req.Source
	if source == "" {
		source = "local"
	}

	var game *games.Sudoku
	switch source {
	case "local":
		game = games.NewSudoku(newSource(req.Seed), diff)
	case "remote":
		if diff == games.DifficultyExpert {
			s.errorHandler.HandleValidationError(w, r, "difficulty", "the puzzle API only serves easy, medium and hard")
			return
		}
		game, err = s.fetchRemoteSudoku(r.Context(), diff)
		if err != nil {
			s.handleUpstreamError(w, r, err)
			return
		}
	default:
		s.errorHandler.HandleValidationError(w, r, "source", fmt.Sprintf("unknown source %q", req.Source))
		return
	}

	sess := session.New(session.KindSudoku, game)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, SudokuResponse{ID: sess.ID, State: game.State()})
}

// fetchRemoteSudoku loads a puzzle from the upstream API and builds an
// engine around it.
func (s *Server) fetchRemoteSudoku(ctx context.Context, diff games.Difficulty) (*games.Sudoku, error) {
	puzzle, err := s.loader.Load(ctx, string(diff))
	if err != nil {
		return nil, err
	}

	grid, solution, err := puzzle.Grids()
	if err != nil {
		return nil, err
	}

	return games.NewSudokuFromGrids(grid, solution, diff)
}

// handleUpstreamError maps puzzle API failures onto the error envelope.
func (s *Server) handleUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetReqID(r.Context())

	var (
		reqErr  *sudokuapi.RequestError
		httpErr *sudokuapi.HTTPError
	)

	switch {
	case errors.Is(err, sudokuapi.ErrSuperseded):
		apiErr := NewError(ErrTypeSuperseded, "a newer puzzle request replaced this one").
			WithRequestID(requestID).
			Build()
		s.errorHandler.HandleError(w, r, apiErr, http.StatusConflict)

	case errors.As(err, &reqErr) && reqErr.Timeout():
		apiErr := NewError(ErrTypeTimeout, "the puzzle API timed out").
			WithRequestID(requestID).
			WithCause(err).
			Build()
		s.errorHandler.HandleError(w, r, apiErr, http.StatusGatewayTimeout)

	case errors.As(err, &httpErr):
		apiErr := NewError(ErrTypeUpstream, "the puzzle API rejected the request").
			WithRequestID(requestID).
			WithContext("upstream_status", httpErr.StatusCode).
			Build()
		s.errorHandler.HandleError(w, r, apiErr, http.StatusBadGateway)

	default:
		apiErr := NewError(ErrTypeUpstream, "the puzzle API could not supply a puzzle").
			WithRequestID(requestID).
			WithCause(err).
			Build()
		s.errorHandler.HandleError(w, r, apiErr, http.StatusBadGateway)
	}
}

// handleGetSudoku returns the current grid.
func (s *Server) handleGetSudoku(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, session.KindSudoku)
	if !ok {
		return
	}

	game, _ := sess.Sudoku()
	var st games.SudokuState
	sess.Do(func() { st = game.State() })

	s.writeJSON(w, http.StatusOK, SudokuResponse{ID: sess.ID, State: st})
}

// handleSudokuCell writes a value into a cell. Givens reject the write
// with applied=false; out-of-range coordinates are a validation error.
func (s *Server) handleSudokuCell(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, session.KindSudoku)
	if !ok {
		return
	}

	var req SudokuCellRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	game, _ := sess.Sudoku()
	var (
		applied bool
		opErr   error
		st      games.SudokuState
	)
	sess.Do(func() {
		applied, opErr = game.SetCell(req.Row, req.Col, req.Value)
		st = game.State()
	})
	if opErr != nil {
		s.errorHandler.HandleValidationError(w, r, "cell", opErr.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, SudokuOpResponse{ID: sess.ID, Applied: applied, State: st})
}

// handleSudokuNote toggles a pencil note on a cell.
func (s *Server) handleSudokuNote(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, session.KindSudoku)
	if !ok {
		return
	}

	var req SudokuCellRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	game, _ := sess.Sudoku()
	var (
		applied bool
		opErr   error
		st      games.SudokuState
	)
	sess.Do(func() {
		applied, opErr = game.ToggleNote(req.Row, req.Col, req.Value)
		st = game.State()
	})
	if opErr != nil {
		s.errorHandler.HandleValidationError(w, r, "note", opErr.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, SudokuOpResponse{ID: sess.ID, Applied: applied, State: st})
}

// handleSudokuClear empties a player-filled cell.
func (s *Server) handleSudokuClear(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, session.KindSudoku)
	if !ok {
		return
	}

	var req SudokuClearRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	game, _ := sess.Sudoku()
	var (
		applied bool
		opErr   error
		st      games.SudokuState
	)
	sess.Do(func() {
		applied, opErr = game.ClearCell(req.Row, req.Col)
		st = game.State()
	})
	if opErr != nil {
		s.errorHandler.HandleValidationError(w, r, "cell", opErr.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, SudokuOpResponse{ID: sess.ID, Applied: applied, State: st})
}

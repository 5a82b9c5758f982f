package api

import (
	"fmt"
	"net/http"

	"github.com/leminhai2007/minigames-go/internal/games"
	"github.com/leminhai2007/minigames-go/internal/session"
)

// handleNewTetris starts a tetris session and its gravity ticker.
func (s *Server) handleNewTetris(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	game := games.NewTetris(newSource(req.Seed))
	sess := session.New(session.KindTetris, game)
	runner, err := sess.StartGravity(s.tetrisTick)
	if err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	if err := s.sessions.Save(r.Context(), sess); err != nil {
		sess.Close()
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	var st games.TetrisState
	sess.Do(func() { st = game.State() })

	s.writeJSON(w, http.StatusCreated, TetrisResponse{ID: sess.ID, Paused: runner.Paused(), State: st})
}

// handleGetTetris returns the current well.
func (s *Server) handleGetTetris(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, session.KindTetris)
	if !ok {
		return
	}

	game, _ := sess.Tetris()
	var st games.TetrisState
	sess.Do(func() { st = game.State() })

	s.writeJSON(w, http.StatusOK, TetrisResponse{ID: sess.ID, Paused: sess.Gravity().Paused(), State: st})
}

// handleTetrisMove applies one player action. Blocked actions come back
// applied=false; applied ones are also published to live subscribers.
func (s *Server) handleTetrisMove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, session.KindTetris)
	if !ok {
		return
	}

	var req TetrisMoveRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	switch req.Action {
	case "left", "right", "rotate", "soft", "hard":
	default:
		s.errorHandler.HandleValidationError(w, r, "action", fmt.Sprintf("unknown action %q", req.Action))
		return
	}

	game, _ := sess.Tetris()
	var (
		applied bool
		st      games.TetrisState
	)
	sess.Do(func() {
		switch req.Action {
		case "left":
			applied = game.MoveLeft()
		case "right":
			applied = game.MoveRight()
		case "rotate":
			applied = game.Rotate()
		case "soft":
			applied = game.SoftDrop()
		case "hard":
			applied = game.HardDrop()
		}
		st = game.State()
		if applied {
			sess.Publish(st)
		}
	})

	s.writeJSON(w, http.StatusOK, TetrisMoveResponse{
		ID:      sess.ID,
		Applied: applied,
		Paused:  sess.Gravity().Paused(),
		State:   st,
	})
}

// handleTetrisPause suspends gravity; player actions still apply.
func (s *Server) handleTetrisPause(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, session.KindTetris)
	if !ok {
		return
	}

	sess.Gravity().Pause()

	game, _ := sess.Tetris()
	var st games.TetrisState
	sess.Do(func() { st = game.State() })

	s.writeJSON(w, http.StatusOK, TetrisResponse{ID: sess.ID, Paused: true, State: st})
}

// handleTetrisResume restarts gravity after a pause.
func (s *Server) handleTetrisResume(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, session.KindTetris)
	if !ok {
		return
	}

	sess.Gravity().Resume()

	game, _ := sess.Tetris()
	var st games.TetrisState
	sess.Do(func() { st = game.State() })

	s.writeJSON(w, http.StatusOK, TetrisResponse{ID: sess.ID, Paused: false, State: st})
}

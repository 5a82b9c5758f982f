package api

import (
	"net/http"

	"github.com/leminhai2007/minigames-go/internal/games"
	"github.com/leminhai2007/minigames-go/internal/session"
)

// handleNewTwenty48 starts a 2048 session with two spawned tiles.
func (s *Server) handleNewTwenty48(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	game := games.NewTwenty48(newSource(req.Seed))
	sess := session.New(session.Kind2048, game)
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		s.errorHandler.HandleError(w, r, err, http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusCreated, Twenty48Response{ID: sess.ID, State: game.State()})
}

// handleGetTwenty48 returns the current board.
func (s *Server) handleGetTwenty48(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, session.Kind2048)
	if !ok {
		return
	}

	game, _ := sess.Twenty48()
	var st games.Twenty48State
	sess.Do(func() { st = game.State() })

	s.writeJSON(w, http.StatusOK, Twenty48Response{ID: sess.ID, State: st})
}

// handleTwenty48Move slides the board. A slide that changes nothing comes
// back moved=false with the board untouched.
func (s *Server) handleTwenty48Move(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, session.Kind2048)
	if !ok {
		return
	}

	var req Twenty48MoveRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	dir, err := games.ParseDirection(req.Direction)
	if err != nil {
		s.errorHandler.HandleValidationError(w, r, "direction", err.Error())
		return
	}

	game, _ := sess.Twenty48()
	var (
		moved bool
		st    games.Twenty48State
	)
	sess.Do(func() {
		moved = game.Move(dir)
		st = game.State()
	})

	s.writeJSON(w, http.StatusOK, Twenty48MoveResponse{ID: sess.ID, Moved: moved, State: st})
}

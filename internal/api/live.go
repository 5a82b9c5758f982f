package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/leminhai2007/minigames-go/internal/games"
	"github.com/leminhai2007/minigames-go/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 30 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = 25 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// liveFrame is one websocket message to a live subscriber.
type liveFrame struct {
	Type  string `json:"type"`
	State any    `json:"state"`
}

// handleTetrisLive upgrades to a websocket and streams well snapshots:
// the state at connect time, then a frame for every gravity tick or
// applied player action until the game ends or the client leaves.
func (s *Server) handleTetrisLive(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r, session.KindTetris)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		s.logger.Warn().Err(err).Str("session", sess.ID).Msg("websocket upgrade failed")
		return
	}

	frames, cancel := sess.Subscribe()

	game, _ := sess.Tetris()
	var st games.TetrisState
	sess.Do(func() { st = game.State() })

	go s.liveWritePump(conn, st, frames)
	s.liveReadPump(conn, cancel)
}

// liveWritePump owns all writes on the connection: the initial snapshot,
// subscribed frames and keepalive pings. After a terminal frame the
// stream is closed; a finished game never produces another state.
func (s *Server) liveWritePump(conn *websocket.Conn, first games.TetrisState, frames <-chan any) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(liveFrame{Type: "state", State: first}); err != nil {
		return
	}
	if first.Status != games.StatusPlaying {
		writeClose(conn, "game over")
		return
	}

	for {
		select {
		case snap, ok := <-frames:
			if !ok {
				// Subscription closed: session deleted or client left.
				writeClose(conn, "")
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(liveFrame{Type: "state", State: snap}); err != nil {
				return
			}
			if st, ok := snap.(games.TetrisState); ok && st.Status != games.StatusPlaying {
				writeClose(conn, "game over")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// writeClose sends a normal-closure frame. The read pump unblocks when
// the peer replies or the connection drops.
func writeClose(conn *websocket.Conn, reason string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
}

// liveReadPump discards client messages and watches for disconnect. The
// stream is one-way; reads exist to run the pong handler.
func (s *Server) liveReadPump(conn *websocket.Conn, cancel func()) {
	defer func() {
		cancel()
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

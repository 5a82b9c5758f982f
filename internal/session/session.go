// Package session tracks live game sessions: one engine instance per
// session, every mutation applied under the session lock so inputs run to
// completion one at a time.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leminhai2007/minigames-go/internal/games"
)

// Kind identifies which engine a session wraps.
type Kind string

const (
	Kind2048   Kind = "2048"
	KindSudoku Kind = "sudoku"
	KindTetris Kind = "tetris"
)

const subscriberBuffer = 8

// Session wraps exactly one game engine. Handlers and tickers feed the
// engine exclusively through Do; subscribers receive state snapshots
// published after applied mutations.
type Session struct {
	ID        string
	Kind      Kind
	CreatedAt time.Time

	mu         sync.Mutex
	engine     any
	lastActive time.Time

	subMu   sync.Mutex
	subs    map[int]chan any
	nextSub int

	runner *GravityRunner
}

// New wraps an engine in a fresh session with a generated ID.
func New(kind Kind, engine any) *Session {
	now := time.Now()
	return &Session{
		ID:         uuid.NewString(),
		Kind:       kind,
		CreatedAt:  now,
		engine:     engine,
		lastActive: now,
		subs:       make(map[int]chan any),
	}
}

// Do runs fn under the session lock and marks the session active.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	s.lastActive = time.Now()
}

// Twenty48 returns the wrapped 2048 engine, false for other kinds.
func (s *Session) Twenty48() (*games.Twenty48, bool) {
	g, ok := s.engine.(*games.Twenty48)
	return g, ok
}

// Sudoku returns the wrapped sudoku engine, false for other kinds.
func (s *Session) Sudoku() (*games.Sudoku, bool) {
	g, ok := s.engine.(*games.Sudoku)
	return g, ok
}

// Tetris returns the wrapped tetris engine, false for other kinds.
func (s *Session) Tetris() (*games.Tetris, bool) {
	g, ok := s.engine.(*games.Tetris)
	return g, ok
}

// Gravity returns the session's descent runner, nil when none was started.
func (s *Session) Gravity() *GravityRunner {
	return s.runner
}

// Subscribe registers a channel that receives state snapshots published
// after applied mutations. The returned cancel func removes the
// subscription and closes the channel.
func (s *Session) Subscribe() (<-chan any, func()) {
	ch := make(chan any, subscriberBuffer)
	s.subMu.Lock()
	if s.subs == nil {
		// Session already closed; hand back a closed channel.
		s.subMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
		s.subMu.Unlock()
	}
	return ch, cancel
}

// Publish fans a snapshot out to subscribers without ever blocking: a full
// subscriber buffer loses its oldest frame to make room for the newest.
// Safe to call from inside Do.
func (s *Session) Publish(snapshot any) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snapshot:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}

// Close stops gravity (if any) and closes all subscriber channels.
func (s *Session) Close() {
	if s.runner != nil {
		s.runner.Stop()
	}
	s.subMu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.subs = nil
	s.subMu.Unlock()
}

func (s *Session) idleFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive)
}

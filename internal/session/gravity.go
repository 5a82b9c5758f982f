package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/leminhai2007/minigames-go/internal/games"
)

// GravityRunner drives a tetris session's automatic descent. One runner per
// session; the loop exits on its own the tick the engine reports a terminal
// status, and never fires again after Stop returns.
type GravityRunner struct {
	sess     *Session
	game     *games.Tetris
	interval time.Duration

	mu     sync.Mutex
	paused bool

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// StartGravity launches the descent loop. Call it once, when the session is
// created; repeated calls return the existing runner.
func (s *Session) StartGravity(interval time.Duration) (*GravityRunner, error) {
	g, ok := s.Tetris()
	if !ok {
		return nil, fmt.Errorf("session: gravity needs a tetris engine, have %s", s.Kind)
	}
	if s.runner != nil {
		return s.runner, nil
	}
	r := &GravityRunner{
		sess:     s,
		game:     g,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	s.runner = r
	go r.run()
	log.Debug().Str("session", s.ID).Dur("interval", interval).Msg("gravity started")
	return r, nil
}

func (r *GravityRunner) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.done)

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			if r.Paused() {
				continue
			}
			var st games.TetrisState
			r.sess.Do(func() {
				if r.game.SoftDrop() {
					st = r.game.State()
					r.sess.Publish(st)
				} else {
					st = r.game.State()
				}
			})
			if st.Status != games.StatusPlaying {
				log.Debug().Str("session", r.sess.ID).Msg("gravity stopped at game over")
				return
			}
		}
	}
}

// Pause suspends automatic descent; ticks are skipped until Resume.
func (r *GravityRunner) Pause() {
	r.mu.Lock()
	r.paused = true
	r.mu.Unlock()
	log.Debug().Str("session", r.sess.ID).Msg("gravity paused")
}

// Resume lifts a pause.
func (r *GravityRunner) Resume() {
	r.mu.Lock()
	r.paused = false
	r.mu.Unlock()
	log.Debug().Str("session", r.sess.ID).Msg("gravity resumed")
}

// Paused reports whether descent is currently suspended.
func (r *GravityRunner) Paused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

// Stop ends the descent loop and waits for it to exit. Safe to call more
// than once, and after the loop has already stopped itself.
func (r *GravityRunner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.done
}

package sudokuapi

import (
	"context"
	"sync"
)

// Loader serializes puzzle fetches with last-request-wins semantics: a new
// Load cancels whatever request is still in flight, so a player hammering
// the difficulty buttons only ever sees the latest board.
type Loader struct {
	client *Client

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewLoader wraps a client.
func NewLoader(client *Client) *Loader {
	return &Loader{client: client}
}

// Load fetches a puzzle, canceling any outstanding fetch first. A load that
// got replaced mid-flight returns ErrSuperseded.
func (l *Loader) Load(ctx context.Context, difficulty string) (*Puzzle, error) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.mu.Unlock()

	puzzle, err := l.client.Generate(ctx, difficulty)

	l.mu.Lock()
	superseded := l.gen != gen
	if !superseded {
		l.cancel = nil
	}
	l.mu.Unlock()
	cancel()

	if superseded {
		return nil, ErrSuperseded
	}
	return puzzle, err
}

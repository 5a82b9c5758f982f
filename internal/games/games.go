// Package games contains the pure state engines for the hub's games.
// Engines hold no clocks, no goroutines, and no I/O; randomness comes in
// through engine.Source so every game can be replayed deterministically.
package games

import "fmt"

// Status describes where a game stands. Engines only ever move a game
// forward: once Won or Lost, further moves are rejected as no-ops.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Direction is a slide direction for grid games.
type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

// ParseDirection validates a direction received over the wire.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirUp, DirDown, DirLeft, DirRight:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("games: invalid direction %q", s)
	}
}

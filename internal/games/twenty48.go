package games

import (
	"github.com/leminhai2007/minigames-go/internal/engine"
)

const (
	twenty48Size    = 4
	twenty48WinTile = 2048

	// Probability that a spawned tile is a 2 rather than a 4.
	twenty48TwoChance = 0.9
)

// Twenty48 is the sliding-tile game state. All mutation goes through Move;
// callers serialize access (the session layer holds the lock).
type Twenty48 struct {
	board  [twenty48Size][twenty48Size]int
	score  int
	moves  int
	status Status
	rng    engine.Source
}

// Twenty48State is the wire snapshot of a game.
type Twenty48State struct {
	Board  [][]int `json:"board"`
	Score  int     `json:"score"`
	Moves  int     `json:"moves"`
	Status Status  `json:"status"`
}

// NewTwenty48 starts a game with two spawned tiles.
func NewTwenty48(rng engine.Source) *Twenty48 {
	g := &Twenty48{status: StatusPlaying, rng: rng}
	g.spawnTile()
	g.spawnTile()
	return g
}

// Move slides all tiles in the given direction. It reports whether any tile
// moved; a move that changes nothing spawns nothing and costs nothing.
// Moves on a finished game are rejected.
func (g *Twenty48) Move(dir Direction) bool {
	if g.status != StatusPlaying {
		return false
	}

	moved := false
	for i := 0; i < twenty48Size; i++ {
		line := g.extractLine(dir, i)
		slid, gained, changed := slideLine(line)
		if changed {
			moved = true
			g.score += gained
			g.placeLine(dir, i, slid)
		}
	}

	if !moved {
		return false
	}

	g.moves++
	g.spawnTile()

	if g.hasTile(twenty48WinTile) {
		g.status = StatusWon
	} else if !g.canMove() {
		g.status = StatusLost
	}

	return true
}

// State returns a copy safe to hand to the encoder.
func (g *Twenty48) State() Twenty48State {
	board := make([][]int, twenty48Size)
	for r := 0; r < twenty48Size; r++ {
		board[r] = make([]int, twenty48Size)
		copy(board[r], g.board[r][:])
	}
	return Twenty48State{
		Board:  board,
		Score:  g.score,
		Moves:  g.moves,
		Status: g.status,
	}
}

// extractLine reads row/column i oriented so that sliding is always toward
// index 0. placeLine writes it back with the same orientation.
func (g *Twenty48) extractLine(dir Direction, i int) [twenty48Size]int {
	var line [twenty48Size]int
	for j := 0; j < twenty48Size; j++ {
		switch dir {
		case DirLeft:
			line[j] = g.board[i][j]
		case DirRight:
			line[j] = g.board[i][twenty48Size-1-j]
		case DirUp:
			line[j] = g.board[j][i]
		case DirDown:
			line[j] = g.board[twenty48Size-1-j][i]
		}
	}
	return line
}

func (g *Twenty48) placeLine(dir Direction, i int, line [twenty48Size]int) {
	for j := 0; j < twenty48Size; j++ {
		switch dir {
		case DirLeft:
			g.board[i][j] = line[j]
		case DirRight:
			g.board[i][twenty48Size-1-j] = line[j]
		case DirUp:
			g.board[j][i] = line[j]
		case DirDown:
			g.board[twenty48Size-1-j][i] = line[j]
		}
	}
}

// slideLine compresses a line toward index 0, merging equal neighbors.
// Each slot merges at most once per move. Returns the new line, the score
// gained, and whether anything changed.
func slideLine(line [twenty48Size]int) ([twenty48Size]int, int, bool) {
	var out [twenty48Size]int
	var merged [twenty48Size]bool
	pos := 0
	gained := 0

	for _, v := range line {
		if v == 0 {
			continue
		}
		if pos > 0 && out[pos-1] == v && !merged[pos-1] {
			out[pos-1] = v * 2
			merged[pos-1] = true
			gained += v * 2
			continue
		}
		out[pos] = v
		pos++
	}

	changed := out != line
	return out, gained, changed
}

func (g *Twenty48) spawnTile() {
	type cell struct{ r, c int }
	var empty []cell
	for r := 0; r < twenty48Size; r++ {
		for c := 0; c < twenty48Size; c++ {
			if g.board[r][c] == 0 {
				empty = append(empty, cell{r, c})
			}
		}
	}
	if len(empty) == 0 {
		return
	}

	pick := empty[g.rng.Intn(len(empty))]
	value := 2
	if g.rng.Float64() >= twenty48TwoChance {
		value = 4
	}
	g.board[pick.r][pick.c] = value
}

func (g *Twenty48) hasTile(v int) bool {
	for r := 0; r < twenty48Size; r++ {
		for c := 0; c < twenty48Size; c++ {
			if g.board[r][c] == v {
				return true
			}
		}
	}
	return false
}

// canMove reports whether any slide would change the board: an empty cell
// or two equal neighbors anywhere.
func (g *Twenty48) canMove() bool {
	for r := 0; r < twenty48Size; r++ {
		for c := 0; c < twenty48Size; c++ {
			if g.board[r][c] == 0 {
				return true
			}
			if c+1 < twenty48Size && g.board[r][c] == g.board[r][c+1] {
				return true
			}
			if r+1 < twenty48Size && g.board[r][c] == g.board[r+1][c] {
				return true
			}
		}
	}
	return false
}

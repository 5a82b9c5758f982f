package games

import (
	"github.com/leminhai2007/minigames-go/internal/engine"
)

const (
	tetrisCols = 10
	tetrisRows = 20

	tetrisSpawnX = 3
	tetrisSpawnY = 0

	tetrisLinesPerLevel = 10
)

// activePiece is the falling piece: a kind, a rotation state and the
// position of its bounding box in the well.
type activePiece struct {
	kind Tetromino
	rot  int
	x, y int
}

// Tetris is the falling-block game state. Gravity lives outside the engine;
// the session layer calls SoftDrop on its tick. Callers serialize access.
type Tetris struct {
	well    [tetrisRows][tetrisCols]int // 0 empty, else Tetromino id
	current activePiece
	next    Tetromino
	score   int
	lines   int
	status  Status
	rng     engine.Source
}

// TetrisState is the wire snapshot of a game.
type TetrisState struct {
	Well   [][]int     `json:"well"`
	Piece  string      `json:"piece"`
	Cells  []tetroCell `json:"cells"`
	Next   string      `json:"next"`
	Score  int         `json:"score"`
	Lines  int         `json:"lines"`
	Level  int         `json:"level"`
	Status Status      `json:"status"`
}

// NewTetris starts a game with the first piece spawned and the next drawn.
func NewTetris(rng engine.Source) *Tetris {
	g := &Tetris{status: StatusPlaying, rng: rng}
	g.current = activePiece{kind: g.draw(), rot: 0, x: tetrisSpawnX, y: tetrisSpawnY}
	g.next = g.draw()
	return g
}

// MoveLeft shifts the piece one column left. Blocked shifts are no-ops.
func (g *Tetris) MoveLeft() bool {
	return g.shift(-1)
}

// MoveRight shifts the piece one column right. Blocked shifts are no-ops.
func (g *Tetris) MoveRight() bool {
	return g.shift(1)
}

func (g *Tetris) shift(dx int) bool {
	if g.status != StatusPlaying {
		return false
	}
	p := g.current
	p.x += dx
	if g.collides(p) {
		return false
	}
	g.current = p
	return true
}

// Rotate turns the piece clockwise, trying each kick offset in order. A
// rotation that fits nowhere is a no-op.
func (g *Tetris) Rotate() bool {
	if g.status != StatusPlaying {
		return false
	}
	p := g.current
	p.rot = (p.rot + 1) % 4
	for _, dx := range tetrisKickOffsets {
		kicked := p
		kicked.x += dx
		if !g.collides(kicked) {
			g.current = kicked
			return true
		}
	}
	return false
}

// SoftDrop advances the piece one row. A piece that cannot descend locks
// instead; gravity ticks use the same descent.
func (g *Tetris) SoftDrop() bool {
	if g.status != StatusPlaying {
		return false
	}
	p := g.current
	p.y++
	if g.collides(p) {
		g.lock()
		return true
	}
	g.current = p
	return true
}

// HardDrop sends the piece straight down and locks it.
func (g *Tetris) HardDrop() bool {
	if g.status != StatusPlaying {
		return false
	}
	p := g.current
	for {
		down := p
		down.y++
		if g.collides(down) {
			break
		}
		p = down
	}
	g.current = p
	g.lock()
	return true
}

// Level is derived from cleared lines and starts at 1.
func (g *Tetris) Level() int {
	return g.lines/tetrisLinesPerLevel + 1
}

// State returns a copy safe to hand to the encoder.
func (g *Tetris) State() TetrisState {
	well := make([][]int, tetrisRows)
	for r := 0; r < tetrisRows; r++ {
		well[r] = make([]int, tetrisCols)
		copy(well[r], g.well[r][:])
	}

	cells := make([]tetroCell, 0, 4)
	for _, c := range pieceCells(g.current) {
		cells = append(cells, c)
	}

	return TetrisState{
		Well:   well,
		Piece:  g.current.kind.String(),
		Cells:  cells,
		Next:   g.next.String(),
		Score:  g.score,
		Lines:  g.lines,
		Level:  g.Level(),
		Status: g.status,
	}
}

// pieceCells resolves a piece to absolute well coordinates.
func pieceCells(p activePiece) [4]tetroCell {
	shape := tetroShapes[p.kind-1][p.rot]
	var cells [4]tetroCell
	for i, c := range shape {
		cells[i] = tetroCell{X: p.x + c.X, Y: p.y + c.Y}
	}
	return cells
}

func (g *Tetris) collides(p activePiece) bool {
	for _, c := range pieceCells(p) {
		if c.X < 0 || c.X >= tetrisCols || c.Y < 0 || c.Y >= tetrisRows {
			return true
		}
		if g.well[c.Y][c.X] != 0 {
			return true
		}
	}
	return false
}

// lock merges the piece into the well, clears lines, scores them and
// spawns the next piece. A spawn that collides ends the game.
func (g *Tetris) lock() {
	for _, c := range pieceCells(g.current) {
		g.well[c.Y][c.X] = int(g.current.kind)
	}

	cleared := g.clearLines()
	if cleared > 0 {
		g.lines += cleared
		g.score += tetrisLineScores[cleared]
	}

	g.current = activePiece{kind: g.next, rot: 0, x: tetrisSpawnX, y: tetrisSpawnY}
	g.next = g.draw()

	if g.collides(g.current) {
		g.status = StatusLost
	}
}

// clearLines removes every full row, shifting the stack down.
func (g *Tetris) clearLines() int {
	cleared := 0
	for r := tetrisRows - 1; r >= 0; r-- {
		full := true
		for c := 0; c < tetrisCols; c++ {
			if g.well[r][c] == 0 {
				full = false
				break
			}
		}
		if !full {
			continue
		}

		cleared++
		for rr := r; rr > 0; rr-- {
			g.well[rr] = g.well[rr-1]
		}
		g.well[0] = [tetrisCols]int{}
		// Re-check the same row: the shift pulled a new row into it.
		r++
	}
	return cleared
}

func (g *Tetris) draw() Tetromino {
	return Tetromino(g.rng.Intn(tetrominoCount) + 1)
}

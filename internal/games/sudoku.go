package games

import (
	"fmt"

	"github.com/leminhai2007/minigames-go/internal/engine"
)

// Difficulty selects how many givens a generated puzzle keeps.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// ParseDifficulty validates a difficulty received over the wire.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return Difficulty(s), nil
	default:
		return "", fmt.Errorf("games: invalid difficulty %q", s)
	}
}

func targetGivens(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return 40
	case DifficultyMedium:
		return 34
	case DifficultyHard:
		return 28
	default:
		return 24 // expert
	}
}

// Carving stops once the uniqueness checks have expanded this many nodes,
// so generation stays bounded without a wall clock.
const sudokuCarveNodeBudget = 500000

// CellRef addresses one cell of the 9x9 grid.
type CellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Sudoku is a generated puzzle plus the player's entries and pencil notes.
// Givens are immutable; everything else is edited through SetCell,
// ToggleNote and ClearCell.
type Sudoku struct {
	values     [9][9]int
	fixed      [9][9]bool
	notes      [9][9]uint16 // bit v set = note for digit v
	solution   [9][9]int
	difficulty Difficulty
	status     Status
}

// SudokuState is the wire snapshot of a puzzle.
type SudokuState struct {
	Values     [][]int    `json:"values"`
	Fixed      [][]bool   `json:"fixed"`
	Notes      [][]uint16 `json:"notes"`
	Conflicts  []CellRef  `json:"conflicts"`
	Difficulty Difficulty `json:"difficulty"`
	Status     Status     `json:"status"`
}

// NewSudoku generates a puzzle with a unique solution. The same rng stream
// and difficulty always yield the same puzzle.
func NewSudoku(rng engine.Source, diff Difficulty) *Sudoku {
	g := &Sudoku{difficulty: diff, status: StatusPlaying}

	fillRandom(rng, &g.solution)
	g.values = g.solution
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			g.fixed[r][c] = true
		}
	}

	// Carve cells in random order, keeping the solution unique.
	positions := make([]int, 81)
	for i := range positions {
		positions[i] = i
	}
	shuffleInts(rng, positions)

	target := targetGivens(diff)
	nodes := 0
	for _, pos := range positions {
		if nodes > sudokuCarveNodeBudget {
			break
		}
		if countGivens(&g.values) <= target {
			break
		}
		r, c := pos/9, pos%9
		old := g.values[r][c]
		g.values[r][c] = 0
		g.fixed[r][c] = false

		unique, n := hasUniqueSolution(g.values)
		nodes += n
		if !unique {
			g.values[r][c] = old
			g.fixed[r][c] = true
		}
	}

	return g
}

// NewSudokuFromGrids builds a puzzle from pre-made grids, e.g. one fetched
// from the external generator. Non-zero puzzle cells become givens.
func NewSudokuFromGrids(puzzle, solution [9][9]int, diff Difficulty) (*Sudoku, error) {
	g := &Sudoku{difficulty: diff, status: StatusPlaying}
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if solution[r][c] < 1 || solution[r][c] > 9 {
				return nil, fmt.Errorf("games: solution cell (%d,%d) = %d, want 1..9", r, c, solution[r][c])
			}
			v := puzzle[r][c]
			if v < 0 || v > 9 {
				return nil, fmt.Errorf("games: puzzle cell (%d,%d) = %d, want 0..9", r, c, v)
			}
			if v != 0 && v != solution[r][c] {
				return nil, fmt.Errorf("games: puzzle cell (%d,%d) disagrees with solution", r, c)
			}
			g.fixed[r][c] = v != 0
		}
	}
	g.values = puzzle
	g.solution = solution
	if len(g.Conflicts()) != 0 {
		return nil, fmt.Errorf("games: puzzle grid has conflicts")
	}
	return g, nil
}

// SetCell writes a digit into a cell. Fixed cells and finished games reject
// the write; out-of-range coordinates or digits are an error. Writing a
// digit clears the cell's notes and prunes that digit from peer notes.
func (g *Sudoku) SetCell(row, col, value int) (bool, error) {
	if err := checkCell(row, col); err != nil {
		return false, err
	}
	if value < 1 || value > 9 {
		return false, fmt.Errorf("games: sudoku value must be 1..9, got %d", value)
	}
	if g.status != StatusPlaying || g.fixed[row][col] {
		return false, nil
	}

	g.values[row][col] = value
	g.notes[row][col] = 0
	g.pruneNotes(row, col, value)

	if g.isSolved() {
		g.status = StatusWon
	}
	return true, nil
}

// ToggleNote flips a pencil note in an empty cell.
func (g *Sudoku) ToggleNote(row, col, value int) (bool, error) {
	if err := checkCell(row, col); err != nil {
		return false, err
	}
	if value < 1 || value > 9 {
		return false, fmt.Errorf("games: sudoku note must be 1..9, got %d", value)
	}
	if g.status != StatusPlaying || g.fixed[row][col] || g.values[row][col] != 0 {
		return false, nil
	}

	g.notes[row][col] ^= 1 << value
	return true, nil
}

// ClearCell removes the player's entry and notes from a cell.
func (g *Sudoku) ClearCell(row, col int) (bool, error) {
	if err := checkCell(row, col); err != nil {
		return false, err
	}
	if g.status != StatusPlaying || g.fixed[row][col] {
		return false, nil
	}
	if g.values[row][col] == 0 && g.notes[row][col] == 0 {
		return false, nil
	}

	g.values[row][col] = 0
	g.notes[row][col] = 0
	return true, nil
}

// Conflicts returns every cell whose digit repeats within its row, column
// or box. Cells are reported at the second and later occurrence.
func (g *Sudoku) Conflicts() []CellRef {
	conf := make([]CellRef, 0, 8)

	// rows
	for r := 0; r < 9; r++ {
		m := 0
		for c := 0; c < 9; c++ {
			val := g.values[r][c]
			if val == 0 {
				continue
			}
			bit := 1 << val
			if m&bit != 0 {
				conf = append(conf, CellRef{Row: r, Col: c})
			}
			m |= bit
		}
	}
	// cols
	for c := 0; c < 9; c++ {
		m := 0
		for r := 0; r < 9; r++ {
			val := g.values[r][c]
			if val == 0 {
				continue
			}
			bit := 1 << val
			if m&bit != 0 {
				conf = append(conf, CellRef{Row: r, Col: c})
			}
			m |= bit
		}
	}
	// boxes
	for br := 0; br < 3; br++ {
		for bc := 0; bc < 3; bc++ {
			m := 0
			for dr := 0; dr < 3; dr++ {
				for dc := 0; dc < 3; dc++ {
					r := br*3 + dr
					c := bc*3 + dc
					val := g.values[r][c]
					if val == 0 {
						continue
					}
					bit := 1 << val
					if m&bit != 0 {
						conf = append(conf, CellRef{Row: r, Col: c})
					}
					m |= bit
				}
			}
		}
	}
	return conf
}

// State returns a copy safe to hand to the encoder.
func (g *Sudoku) State() SudokuState {
	values := make([][]int, 9)
	fixed := make([][]bool, 9)
	notes := make([][]uint16, 9)
	for r := 0; r < 9; r++ {
		values[r] = make([]int, 9)
		fixed[r] = make([]bool, 9)
		notes[r] = make([]uint16, 9)
		copy(values[r], g.values[r][:])
		copy(fixed[r], g.fixed[r][:])
		copy(notes[r], g.notes[r][:])
	}
	return SudokuState{
		Values:     values,
		Fixed:      fixed,
		Notes:      notes,
		Conflicts:  g.Conflicts(),
		Difficulty: g.difficulty,
		Status:     g.status,
	}
}

func checkCell(row, col int) error {
	if row < 0 || row > 8 || col < 0 || col > 8 {
		return fmt.Errorf("games: sudoku cell (%d,%d) out of range", row, col)
	}
	return nil
}

// pruneNotes drops a placed digit from the notes of every peer cell.
func (g *Sudoku) pruneNotes(row, col, value int) {
	mask := ^uint16(1 << value)
	for i := 0; i < 9; i++ {
		g.notes[row][i] &= mask
		g.notes[i][col] &= mask
	}
	br, bc := (row/3)*3, (col/3)*3
	for dr := 0; dr < 3; dr++ {
		for dc := 0; dc < 3; dc++ {
			g.notes[br+dr][bc+dc] &= mask
		}
	}
}

func (g *Sudoku) isSolved() bool {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if g.values[r][c] == 0 {
				return false
			}
		}
	}
	return len(g.Conflicts()) == 0
}

func countGivens(b *[9][9]int) int {
	n := 0
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if b[r][c] != 0 {
				n++
			}
		}
	}
	return n
}

// fillRandom solves an empty grid into a full valid solution, trying the
// digits of each cell in random order.
func fillRandom(rng engine.Source, grid *[9][9]int) bool {
	var nums [9]int
	for i := 0; i < 9; i++ {
		nums[i] = i + 1
	}
	var dfs func(r, c int) bool
	dfs = func(r, c int) bool {
		if r == 9 {
			return true
		}
		nr, nc := r, c+1
		if nc == 9 {
			nr, nc = r+1, 0
		}
		shuffleNine(rng, &nums)
		candidates := nums
		for _, v := range candidates {
			if allowed(grid, r, c, v) {
				grid[r][c] = v
				if dfs(nr, nc) {
					return true
				}
				grid[r][c] = 0
			}
		}
		return false
	}
	return dfs(0, 0)
}

// hasUniqueSolution counts solutions up to 2 and reports whether exactly
// one exists, along with the nodes expanded.
func hasUniqueSolution(grid [9][9]int) (bool, int) {
	nodes := 0
	count := 0

	var dfs func() bool
	dfs = func() bool {
		if count >= 2 {
			return true // stop early
		}
		r, c, ok := findEmpty(&grid)
		if !ok {
			count++
			return count >= 2
		}
		for v := 1; v <= 9; v++ {
			nodes++
			if allowed(&grid, r, c, v) {
				grid[r][c] = v
				if dfs() {
					return true
				}
				grid[r][c] = 0
			}
		}
		return false
	}
	dfs()
	return count == 1, nodes
}

func findEmpty(b *[9][9]int) (int, int, bool) {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if b[r][c] == 0 {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

// allowed checks the row, column and box constraints for one placement.
func allowed(b *[9][9]int, r, c, v int) bool {
	for i := 0; i < 9; i++ {
		if b[r][i] == v || b[i][c] == v {
			return false
		}
	}
	br, bc := (r/3)*3, (c/3)*3
	for dr := 0; dr < 3; dr++ {
		for dc := 0; dc < 3; dc++ {
			if b[br+dr][bc+dc] == v {
				return false
			}
		}
	}
	return true
}

func shuffleNine(rng engine.Source, nums *[9]int) {
	for i := len(nums) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		nums[i], nums[j] = nums[j], nums[i]
	}
}

func shuffleInts(rng engine.Source, s []int) {
	for i := len(s) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}

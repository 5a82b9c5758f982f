package api

import (
	"github.com/leminhai2007/minigames-go/internal/games"
	"github.com/leminhai2007/minigames-go/internal/registry"
	"github.com/leminhai2007/minigames-go/internal/wheelstore"
)

// APIError is the structured error envelope every failing endpoint returns.
type APIError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e APIError) Error() string {
	return e.Message
}

// Error types with proper categorization
const (
	// Input validation errors
	ErrTypeValidation    = "validation_error"
	ErrTypeInvalidParams = "invalid_params"

	// Resource errors
	ErrTypeNotFound   = "not_found"
	ErrTypeSuperseded = "superseded"

	// Upstream (puzzle API) errors
	ErrTypeUpstream = "upstream_error"

	// System errors
	ErrTypeTimeout            = "timeout"
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// ErrorCategory represents error categories for monitoring
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryResource   ErrorCategory = "resource"
	CategoryUpstream   ErrorCategory = "upstream"
	CategoryTimeout    ErrorCategory = "timeout"
	CategorySystem     ErrorCategory = "system"
)

// GetErrorCategory returns the category for an error type
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeValidation, ErrTypeInvalidParams:
		return CategoryValidation
	case ErrTypeNotFound, ErrTypeSuperseded:
		return CategoryResource
	case ErrTypeUpstream:
		return CategoryUpstream
	case ErrTypeTimeout:
		return CategoryTimeout
	default:
		return CategorySystem
	}
}

// VersionInfo contains hub version information
type VersionInfo struct {
	HubVersion string `json:"hub_version"`
	GitCommit  string `json:"git_commit,omitempty"`
	BuildTime  string `json:"build_time,omitempty"`
}

// ProjectsResponse lists registry entries matching a search.
type ProjectsResponse struct {
	Projects []registry.Project `json:"projects"`
	Total    int                `json:"total"`
}

// CalcRequest carries one arithmetic expression to evaluate.
type CalcRequest struct {
	Expression string `json:"expression"`
}

// CalcResponse is the normalized evaluation result.
type CalcResponse struct {
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// NewGameRequest starts a game session. Seed is optional: a seeded game
// plays out deterministically, an unseeded one draws from OS entropy.
type NewGameRequest struct {
	Seed string `json:"seed,omitempty"`
}

// Twenty48Response is a 2048 session snapshot.
type Twenty48Response struct {
	ID    string              `json:"id"`
	State games.Twenty48State `json:"state"`
}

// Twenty48MoveRequest slides the board in one direction.
type Twenty48MoveRequest struct {
	Direction string `json:"direction"`
}

// Twenty48MoveResponse reports whether the slide changed the board.
type Twenty48MoveResponse struct {
	ID    string              `json:"id"`
	Moved bool                `json:"moved"`
	State games.Twenty48State `json:"state"`
}

// NewSudokuRequest starts a sudoku session. Source picks where the puzzle
// comes from: "local" (default) generates in-process, "remote" fetches one
// from the upstream puzzle API.
type NewSudokuRequest struct {
	Difficulty string `json:"difficulty"`
	Source     string `json:"source,omitempty"`
	Seed       string `json:"seed,omitempty"`
}

// SudokuResponse is a sudoku session snapshot.
type SudokuResponse struct {
	ID    string            `json:"id"`
	State games.SudokuState `json:"state"`
}

// SudokuCellRequest writes a value or toggles a note on one cell.
type SudokuCellRequest struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// SudokuClearRequest empties one cell.
type SudokuClearRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// SudokuOpResponse reports whether a cell operation was applied. Rejected
// operations (fixed cells, finished games) come back applied=false with
// the unchanged state.
type SudokuOpResponse struct {
	ID      string            `json:"id"`
	Applied bool              `json:"applied"`
	State   games.SudokuState `json:"state"`
}

// TetrisResponse is a tetris session snapshot.
type TetrisResponse struct {
	ID     string            `json:"id"`
	Paused bool              `json:"paused"`
	State  games.TetrisState `json:"state"`
}

// TetrisMoveRequest applies one player action: "left", "right", "rotate",
// "soft" or "hard".
type TetrisMoveRequest struct {
	Action string `json:"action"`
}

// TetrisMoveResponse reports whether the action changed the well.
type TetrisMoveResponse struct {
	ID      string            `json:"id"`
	Applied bool              `json:"applied"`
	Paused  bool              `json:"paused"`
	State   games.TetrisState `json:"state"`
}

// WheelRequest creates or replaces a saved wheel configuration.
type WheelRequest struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// WheelsResponse lists saved wheel configurations, newest first.
type WheelsResponse struct {
	Wheels []wheelstore.WheelConfig `json:"wheels"`
	Total  int                      `json:"total"`
}

// SpinRequest spins a saved wheel. Seed is optional and makes the spin
// deterministic.
type SpinRequest struct {
	Seed string `json:"seed,omitempty"`
}

// SpinResponse is the outcome of one spin.
type SpinResponse struct {
	WheelID string  `json:"wheel_id"`
	Index   int     `json:"index"`
	Label   string  `json:"label"`
	Angle   float64 `json:"angle"`
}

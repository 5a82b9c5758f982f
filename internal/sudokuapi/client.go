// Package sudokuapi is a client for the external sudoku generator service.
//
// The service exposes a single JSON-over-POST endpoint: the request names a
// difficulty and the response carries the puzzle and its solution as 81-rune
// digit strings, row-major, '0' marking an empty cell.
//
// # Usage
//
//	client := sudokuapi.NewClient(sudokuapi.Config{})
//	puzzle, err := client.Generate(ctx, "medium")
package sudokuapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public generator endpoint.
const DefaultBaseURL = "https://you-do-sudoku-api.vercel.app/api"

// Difficulties the upstream accepts. Expert boards are generated locally
// only; the service does not offer them.
var validDifficulties = map[string]bool{
	"easy":   true,
	"medium": true,
	"hard":   true,
}

// Config holds configuration for the puzzle API client.
type Config struct {
	// BaseURL is the generator endpoint. Defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	// Defaults to a client with a 10s timeout.
	HTTPClient *http.Client

	// UserAgent overrides the User-Agent header. Optional.
	UserAgent string
}

// Client talks to the puzzle generator service.
type Client struct {
	config Config
	http   *http.Client
}

// NewClient creates a puzzle API client with the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{config: cfg, http: httpClient}
}

// BaseURL returns the configured endpoint.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Puzzle is one generated board.
type Puzzle struct {
	Difficulty string `json:"difficulty"`
	Puzzle     string `json:"puzzle"`
	Solution   string `json:"solution"`
}

// Grids decodes the digit strings into row-major 9x9 grids.
func (p *Puzzle) Grids() (puzzle, solution [9][9]int, err error) {
	if err := checkGrid("puzzle", p.Puzzle, true); err != nil {
		return puzzle, solution, err
	}
	if err := checkGrid("solution", p.Solution, false); err != nil {
		return puzzle, solution, err
	}
	for i := 0; i < 81; i++ {
		puzzle[i/9][i%9] = int(p.Puzzle[i] - '0')
		solution[i/9][i%9] = int(p.Solution[i] - '0')
	}
	return puzzle, solution, nil
}

type generateRequest struct {
	Difficulty string `json:"difficulty"`
	Solution   bool   `json:"solution"`
	Array      bool   `json:"array"`
}

// Generate fetches one puzzle of the given difficulty.
func (c *Client) Generate(ctx context.Context, difficulty string) (*Puzzle, error) {
	difficulty = strings.ToLower(strings.TrimSpace(difficulty))
	if !validDifficulties[difficulty] {
		return nil, &ValidationError{Field: "difficulty", Reason: fmt.Sprintf("%q is not offered upstream", difficulty)}
	}

	body, status, err := c.post(ctx, generateRequest{Difficulty: difficulty, Solution: true, Array: false})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &HTTPError{StatusCode: status, Body: string(body)}
	}

	var puzzle Puzzle
	if err := json.Unmarshal(body, &puzzle); err != nil {
		return nil, &ValidationError{Field: "body", Reason: fmt.Sprintf("not a puzzle object: %v", err)}
	}
	if err := checkGrid("puzzle", puzzle.Puzzle, true); err != nil {
		return nil, err
	}
	if err := checkGrid("solution", puzzle.Solution, false); err != nil {
		return nil, err
	}
	if puzzle.Difficulty == "" {
		puzzle.Difficulty = difficulty
	}

	return &puzzle, nil
}

// ProxyResult relays an upstream response verbatim.
type ProxyResult struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// Proxy forwards a raw request body to the upstream and returns whatever
// comes back. Non-200 answers are part of the result, not an error; only
// transport failures error out.
func (c *Client) Proxy(ctx context.Context, payload []byte) (*ProxyResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &RequestError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &RequestError{Op: "http request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Op: "read response", Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	return &ProxyResult{StatusCode: resp.StatusCode, Body: body, ContentType: contentType}, nil
}

func (c *Client) post(ctx context.Context, body any) ([]byte, int, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, 0, &RequestError{Op: "marshal request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, 0, &RequestError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &RequestError{Op: "http request", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &RequestError{Op: "read response", Err: err}
	}

	return respBody, resp.StatusCode, nil
}

// checkGrid validates an 81-rune digit string. Puzzles may hold zeros for
// empty cells; solutions may not.
func checkGrid(field, grid string, zeroAllowed bool) error {
	if len(grid) != 81 {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("expected 81 cells, got %d", len(grid))}
	}
	for i, r := range grid {
		if r < '0' || r > '9' {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("cell %d is %q, not a digit", i, r)}
		}
		if r == '0' && !zeroAllowed {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("cell %d is empty", i)}
		}
	}
	return nil
}

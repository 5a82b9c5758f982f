package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leminhai2007/minigames-go/internal/games"
	"github.com/leminhai2007/minigames-go/internal/sudokuapi"
)

const (
	testPuzzle   = "530070000600195000098000060800060003400803001700020006060000280000419005000080079"
	testSolution = "534678912672195348198342567859761423426853791713924856961537284287419635345286179"
)

func puzzleUpstream(t *testing.T, gotBody *[]byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("upstream method = %s, want POST", r.Method)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("upstream read body: %v", err)
		}
		if gotBody != nil {
			*gotBody = body
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"difficulty": "easy",
			"puzzle":     testPuzzle,
			"solution":   testSolution,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSudokuProxyRelays(t *testing.T) {
	var gotBody []byte
	upstream := puzzleUpstream(t, &gotBody)
	server := newTestServer(t, upstream.URL)

	payload := `{"difficulty":"easy","solution":true,"array":false}`
	req := httptest.NewRequest("POST", "/api/v1/sudoku/proxy", strings.NewReader(payload))
	w := httptest.NewRecorder()
	server.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if string(gotBody) != payload {
		t.Errorf("upstream received %q, want the body verbatim", gotBody)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var relayed map[string]string
	if err := json.NewDecoder(w.Body).Decode(&relayed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if relayed["puzzle"] != testPuzzle {
		t.Error("relayed body does not match the upstream answer")
	}
}

func TestSudokuProxyLegacyPath(t *testing.T) {
	upstream := puzzleUpstream(t, nil)
	server := newTestServer(t, upstream.URL)

	w := doJSON(t, server.Routes(), "POST", "/api/sudoku", map[string]string{"difficulty": "easy"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 on legacy path, got %d", w.Code)
	}
}

func TestSudokuProxyRelaysUpstreamStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	t.Cleanup(upstream.Close)

	server := newTestServer(t, upstream.URL)

	w := doJSON(t, server.Routes(), "POST", "/api/v1/sudoku/proxy", map[string]string{"difficulty": "easy"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected relayed status 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "upstream exploded") {
		t.Error("expected the upstream body relayed verbatim")
	}
}

func TestSudokuProxyUpstreamUnreachable(t *testing.T) {
	// Nothing listens on port 1.
	server := newTestServer(t, "http://127.0.0.1:1")

	w := doJSON(t, server.Routes(), "POST", "/api/v1/sudoku/proxy", map[string]string{"difficulty": "easy"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", w.Code)
	}
	if apiErr := decodeErr(t, w); apiErr.Type != ErrTypeUpstream {
		t.Errorf("error type = %s, want %s", apiErr.Type, ErrTypeUpstream)
	}
}

func TestRemoteSudokuCreate(t *testing.T) {
	var gotBody []byte
	upstream := puzzleUpstream(t, &gotBody)
	server := newTestServer(t, upstream.URL)

	w := doJSON(t, server.Routes(), "POST", "/api/v1/sudoku",
		NewSudokuRequest{Difficulty: "easy", Source: "remote"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var genReq map[string]any
	if err := json.Unmarshal(gotBody, &genReq); err != nil {
		t.Fatalf("upstream request not JSON: %v", err)
	}
	if genReq["difficulty"] != "easy" {
		t.Errorf("upstream difficulty = %v, want easy", genReq["difficulty"])
	}

	var created SudokuResponse
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.State.Status != games.StatusPlaying {
		t.Errorf("status = %s, want playing", created.State.Status)
	}
	// First given of the fetched puzzle.
	if created.State.Values[0][0] != 5 || !created.State.Fixed[0][0] {
		t.Errorf("cell (0,0) = %d fixed=%v, want the fetched given 5",
			created.State.Values[0][0], created.State.Fixed[0][0])
	}
	if created.State.Values[0][2] != 0 {
		t.Errorf("cell (0,2) = %d, want empty", created.State.Values[0][2])
	}
}

func TestRemoteSudokuRejectsExpert(t *testing.T) {
	server := newTestServer(t, "http://127.0.0.1:1")

	w := doJSON(t, server.Routes(), "POST", "/api/v1/sudoku",
		NewSudokuRequest{Difficulty: "expert", Source: "remote"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	if apiErr := decodeErr(t, w); apiErr.Type != ErrTypeValidation {
		t.Errorf("error type = %s, want %s", apiErr.Type, ErrTypeValidation)
	}
}

func TestRemoteSudokuUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	t.Cleanup(upstream.Close)

	server := newTestServer(t, upstream.URL)

	w := doJSON(t, server.Routes(), "POST", "/api/v1/sudoku",
		NewSudokuRequest{Difficulty: "easy", Source: "remote"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", w.Code)
	}

	apiErr := decodeErr(t, w)
	if apiErr.Type != ErrTypeUpstream {
		t.Errorf("error type = %s, want %s", apiErr.Type, ErrTypeUpstream)
	}
	if got, ok := apiErr.Context["upstream_status"].(float64); !ok || int(got) != http.StatusTooManyRequests {
		t.Errorf("upstream_status = %v, want 429", apiErr.Context["upstream_status"])
	}
}

func TestRemoteSudokuMalformedUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"difficulty":"easy","puzzle":"123","solution":"456"}`)
	}))
	t.Cleanup(upstream.Close)

	server := newTestServer(t, upstream.URL)

	w := doJSON(t, server.Routes(), "POST", "/api/v1/sudoku",
		NewSudokuRequest{Difficulty: "easy", Source: "remote"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("Expected status 502, got %d", w.Code)
	}
	if apiErr := decodeErr(t, w); apiErr.Type != ErrTypeUpstream {
		t.Errorf("error type = %s, want %s", apiErr.Type, ErrTypeUpstream)
	}
}

func TestRemoteSudokuUnknownSource(t *testing.T) {
	server := newTestServer(t, "")

	w := doJSON(t, server.Routes(), "POST", "/api/v1/sudoku",
		NewSudokuRequest{Difficulty: "easy", Source: "psychic"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
}

// timeoutErr satisfies net.Error for exercising the timeout mapping.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "deadline exceeded" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return false }

func TestUpstreamErrorMapping(t *testing.T) {
	server := newTestServer(t, "")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"superseded", sudokuapi.ErrSuperseded, http.StatusConflict, ErrTypeSuperseded},
		{"timeout", &sudokuapi.RequestError{Op: "http request", Err: timeoutErr{}}, http.StatusGatewayTimeout, ErrTypeTimeout},
		{"http error", &sudokuapi.HTTPError{StatusCode: 503, Body: "down"}, http.StatusBadGateway, ErrTypeUpstream},
		{"anything else", errors.New("weird"), http.StatusBadGateway, ErrTypeUpstream},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/api/v1/sudoku", nil)
		w := httptest.NewRecorder()

		server.handleUpstreamError(w, req, tt.err)

		if w.Code != tt.wantStatus {
			t.Errorf("%s: status = %d, want %d", tt.name, w.Code, tt.wantStatus)
		}
		if apiErr := decodeErr(t, w); apiErr.Type != tt.wantType {
			t.Errorf("%s: error type = %s, want %s", tt.name, apiErr.Type, tt.wantType)
		}
	}
}

package sudokuapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const (
	testPuzzle   = "530070000600195000098000060800060003400803001700020006060000280000419005000080079"
	testSolution = "534678912672195348198342567859761423426853791713924856961537284287419635345286179"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})

	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("default base URL: expected %s, got %s", DefaultBaseURL, c.BaseURL())
	}
}

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing Content-Type header")
		}

		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["difficulty"] != "medium" {
			t.Errorf("expected difficulty medium, got %v", body["difficulty"])
		}
		if body["solution"] != true {
			t.Error("expected solution flag to be set")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"difficulty": "medium",
			"puzzle":     testPuzzle,
			"solution":   testSolution,
		})
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, HTTPClient: server.Client()})

	puzzle, err := c.Generate(context.Background(), "medium")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if puzzle.Difficulty != "medium" {
		t.Errorf("expected difficulty medium, got %s", puzzle.Difficulty)
	}
	if puzzle.Puzzle != testPuzzle {
		t.Errorf("puzzle mismatch")
	}
	if puzzle.Solution != testSolution {
		t.Errorf("solution mismatch")
	}
}

func TestGenerateNormalizesDifficulty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["difficulty"] != "easy" {
			t.Errorf("expected lowercased difficulty, got %v", body["difficulty"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"puzzle":   testPuzzle,
			"solution": testSolution,
		})
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, HTTPClient: server.Client()})

	puzzle, err := c.Generate(context.Background(), "  EASY ")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	// Difficulty is backfilled when the upstream omits it.
	if puzzle.Difficulty != "easy" {
		t.Errorf("expected backfilled difficulty easy, got %s", puzzle.Difficulty)
	}
}

func TestGenerateRejectsUnknownDifficulty(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})

	_, err := c.Generate(context.Background(), "expert")
	if err == nil {
		t.Fatal("expected error for unsupported difficulty")
	}

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if valErr.Field != "difficulty" {
		t.Errorf("expected difficulty field, got %s", valErr.Field)
	}
}

func TestGenerateHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, HTTPClient: server.Client()})

	_, err := c.Generate(context.Background(), "easy")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	httpErr, ok := err.(*HTTPError)
	if !ok {
		t.Fatalf("expected *HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != 500 {
		t.Errorf("expected status 500, got %d", httpErr.StatusCode)
	}
	if !httpErr.IsServerError() {
		t.Error("expected 500 to classify as server error")
	}
	if httpErr.IsRateLimited() {
		t.Error("500 must not classify as rate limited")
	}
}

func TestGenerateValidatesPayload(t *testing.T) {
	tests := []struct {
		name     string
		puzzle   string
		solution string
		field    string
	}{
		{"short puzzle", "12345", testSolution, "puzzle"},
		{"letters in puzzle", strings.Repeat("a", 81), testSolution, "puzzle"},
		{"zero in solution", testPuzzle, testPuzzle, "solution"},
		{"short solution", testPuzzle, "9", "solution"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{
					"difficulty": "easy",
					"puzzle":     tt.puzzle,
					"solution":   tt.solution,
				})
			}))
			defer server.Close()

			c := NewClient(Config{BaseURL: server.URL, HTTPClient: server.Client()})

			_, err := c.Generate(context.Background(), "easy")
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if valErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, valErr.Field)
			}
		})
	}
}

func TestGenerateTransportError(t *testing.T) {
	// Nothing listens on this port.
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})

	_, err := c.Generate(context.Background(), "easy")
	if err == nil {
		t.Fatal("expected transport error, got nil")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T: %v", err, err)
	}
}

func TestGenerateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	c := NewClient(Config{
		BaseURL:    server.URL,
		HTTPClient: &http.Client{Timeout: 10 * time.Millisecond},
	})

	_, err := c.Generate(context.Background(), "easy")
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T: %v", err, err)
	}
	if !reqErr.Timeout() {
		t.Errorf("expected timeout classification, got %v", reqErr)
	}
}

func TestPuzzleGrids(t *testing.T) {
	p := &Puzzle{Difficulty: "easy", Puzzle: testPuzzle, Solution: testSolution}

	puzzle, solution, err := p.Grids()
	if err != nil {
		t.Fatalf("Grids failed: %v", err)
	}
	if puzzle[0][0] != 5 || puzzle[0][2] != 0 {
		t.Errorf("puzzle decoded wrong: row 0 = %v", puzzle[0])
	}
	if solution[0][2] != 4 || solution[8][8] != 9 {
		t.Errorf("solution decoded wrong")
	}

	bad := &Puzzle{Puzzle: "123", Solution: testSolution}
	if _, _, err := bad.Grids(); err == nil {
		t.Error("expected error for malformed puzzle string")
	}
}

func TestProxyRelaysUpstream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["difficulty"] != "hard" {
			t.Errorf("expected forwarded difficulty, got %v", body["difficulty"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(418)
		w.Write([]byte(`{"error":"teapot"}`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, HTTPClient: server.Client()})

	res, err := c.Proxy(context.Background(), []byte(`{"difficulty":"hard"}`))
	if err != nil {
		t.Fatalf("Proxy failed: %v", err)
	}
	// Upstream status and body pass through untouched.
	if res.StatusCode != 418 {
		t.Errorf("expected status 418, got %d", res.StatusCode)
	}
	if string(res.Body) != `{"error":"teapot"}` {
		t.Errorf("body not relayed verbatim: %s", res.Body)
	}
	if res.ContentType != "application/json" {
		t.Errorf("expected json content type, got %s", res.ContentType)
	}
}

func TestProxyTransportError(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})

	_, err := c.Proxy(context.Background(), []byte(`{}`))
	if err == nil {
		t.Fatal("expected transport error, got nil")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T: %v", err, err)
	}
}

func TestLoaderLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"difficulty": "easy",
			"puzzle":     testPuzzle,
			"solution":   testSolution,
		})
	}))
	defer server.Close()

	l := NewLoader(NewClient(Config{BaseURL: server.URL, HTTPClient: server.Client()}))

	puzzle, err := l.Load(context.Background(), "easy")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if puzzle.Puzzle != testPuzzle {
		t.Error("puzzle mismatch")
	}
}

func TestLoaderLastRequestWins(t *testing.T) {
	var requests int32
	started := make(chan struct{})
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			close(started)
			<-release
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"difficulty": "medium",
			"puzzle":     testPuzzle,
			"solution":   testSolution,
		})
	}))
	defer server.Close()
	defer close(release)

	l := NewLoader(NewClient(Config{BaseURL: server.URL, HTTPClient: server.Client()}))

	firstErr := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), "easy")
		firstErr <- err
	}()

	// Wait until the first request is in flight, then replace it.
	<-started
	puzzle, err := l.Load(context.Background(), "medium")
	if err != nil {
		t.Fatalf("second load failed: %v", err)
	}
	if puzzle.Difficulty != "medium" {
		t.Errorf("expected medium puzzle, got %s", puzzle.Difficulty)
	}

	select {
	case err := <-firstErr:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("expected ErrSuperseded for replaced load, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first load never returned")
	}
}

package calc

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"addition", "2+2", "4"},
		{"division", "10/4", "2.5"},
		{"remainder", "7%3", "1"},
		{"parentheses", "(1+2)*3", "9"},
		{"exponent", "2**10", "1024"},
		{"unary minus", "-5+3", "-2"},
		{"float artifact is normalized", "0.1+0.2", "0.3"},
		{"repeating decimal is rounded", "1/3", "0.333333333333"},
		{"trailing zeros are trimmed", "2.50*2", "5"},
		{"whitespace tolerated", "  1 +\t2 ", "3"},
		{"precedence", "2+3*4", "14"},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) failed: %v", tt.expr, err)
			}
			if got.Value != tt.want {
				t.Errorf("Evaluate(%q) = %q, want %q", tt.expr, got.Value, tt.want)
			}
		})
	}
}

func TestEvaluateRejects(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want error
	}{
		{"empty", "", ErrInvalidExpression},
		{"whitespace only", "   ", ErrInvalidExpression},
		{"letters", "2+a", ErrInvalidExpression},
		{"function call", "alert(1)", ErrInvalidExpression},
		{"quotes", `"abc"`, ErrInvalidExpression},
		{"comma operator", "(1,2)", ErrInvalidExpression},
		{"semicolon", "1;2", ErrInvalidExpression},
		{"syntax error", "2+", ErrInvalidExpression},
		{"unbalanced parens", "(1+2", ErrInvalidExpression},
		{"division by zero", "1/0", ErrNotFinite},
		{"zero by zero", "0/0", ErrNotFinite},
		{"too long", strings.Repeat("1+", 200) + "1", ErrInvalidExpression},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Evaluate(tt.expr)
			if err == nil {
				t.Fatalf("Evaluate(%q) succeeded, expected error", tt.expr)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Evaluate(%q) error = %v, want %v", tt.expr, err, tt.want)
			}
		})
	}
}

func TestEvaluateContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New()
	if _, err := e.EvaluateContext(ctx, "2+2"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled error, got %v", err)
	}
}

func TestEvaluateKeepsExpression(t *testing.T) {
	e := New()
	got, err := e.Evaluate(" 6*7 ")
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if got.Expression != "6*7" {
		t.Errorf("expected trimmed expression %q, got %q", "6*7", got.Expression)
	}
	if got.Value != "42" {
		t.Errorf("expected value 42, got %q", got.Value)
	}
}

func TestEvaluateIsolation(t *testing.T) {
	// Evaluations must not leak state into each other.
	e := New()
	if _, err := e.Evaluate("1+1"); err != nil {
		t.Fatalf("first evaluation failed: %v", err)
	}
	got, err := e.Evaluate("2+2")
	if err != nil {
		t.Fatalf("second evaluation failed: %v", err)
	}
	if got.Value != "4" {
		t.Errorf("expected 4, got %q", got.Value)
	}
}

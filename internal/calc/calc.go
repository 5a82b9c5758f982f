// Package calc evaluates arithmetic expressions in a sandboxed JS runtime.
package calc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidExpression covers every rejection of the input itself:
	// empty, too long, disallowed characters or a parse error.
	ErrInvalidExpression = errors.New("calc: invalid expression")

	// ErrNotFinite is returned when an expression evaluates to NaN or an
	// infinity.
	ErrNotFinite = errors.New("calc: expression has no finite value")
)

const (
	evalTimeout   = 250 * time.Millisecond
	maxExprLength = 256

	// Results are rounded to this many decimal places before printing, so
	// float artifacts like 0.30000000000000004 never reach the client.
	resultPlaces = 12
)

// Only plain arithmetic may appear in an expression. No letters means no
// identifiers, so nothing in the runtime is reachable by name.
const exprCharset = "0123456789+-*/%(). \t"

// Result is a normalized evaluation outcome.
type Result struct {
	Expression string `json:"expression"`
	Value      string `json:"value"`
}

// Evaluator runs expressions one-shot; each call gets a fresh runtime.
type Evaluator struct {
	timeout time.Duration
}

// New creates an evaluator with the default timeout.
func New() *Evaluator {
	return &Evaluator{timeout: evalTimeout}
}

// Evaluate validates, runs and normalizes one expression.
func (e *Evaluator) Evaluate(expr string) (Result, error) {
	return e.EvaluateContext(context.Background(), expr)
}

// EvaluateContext is Evaluate with caller-controlled cancellation; a
// running expression is interrupted when ctx ends.
func (e *Evaluator) EvaluateContext(ctx context.Context, expr string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("calc: evaluation canceled: %w", err)
	}

	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Result{}, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}
	if len(expr) > maxExprLength {
		return Result{}, fmt.Errorf("%w: exceeds %d characters", ErrInvalidExpression, maxExprLength)
	}
	for _, r := range expr {
		if !strings.ContainsRune(exprCharset, r) {
			return Result{}, fmt.Errorf("%w: character %q is not allowed", ErrInvalidExpression, r)
		}
	}

	runtime := goja.New()
	// Block dangerous globals.
	runtime.Set("require", goja.Undefined())
	runtime.Set("fetch", goja.Undefined())
	runtime.Set("XMLHttpRequest", goja.Undefined())
	runtime.Set("eval", goja.Undefined())
	runtime.Set("Function", goja.Undefined())

	value, err := e.run(ctx, runtime, trimmed)
	if err != nil {
		return Result{}, err
	}

	f := value.ToFloat()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Result{}, ErrNotFinite
	}

	normalized := decimal.NewFromFloat(f).Round(resultPlaces)
	return Result{Expression: trimmed, Value: normalized.String()}, nil
}

type outcome struct {
	value goja.Value
	err   error
}

func (e *Evaluator) run(ctx context.Context, runtime *goja.Runtime, source string) (goja.Value, error) {
	done := make(chan outcome, 1)
	go func() {
		v, err := runtime.RunString(source)
		if err != nil {
			done <- outcome{err: fmt.Errorf("%w: %v", ErrInvalidExpression, err)}
			return
		}
		done <- outcome{value: v}
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		runtime.Interrupt("canceled")
		e.drain(done)
		return nil, fmt.Errorf("calc: evaluation canceled: %w", ctx.Err())
	case <-timer.C:
		// Interrupt a runaway evaluation.
		runtime.Interrupt("evaluation timeout")
		e.drain(done)
		return nil, fmt.Errorf("calc: evaluation timed out")
	}
}

// drain waits briefly for the interrupted goroutine so it never leaks past
// the end of the request.
func (e *Evaluator) drain(done <-chan outcome) {
	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
	}
}

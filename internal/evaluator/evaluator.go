// Package evaluator computes the numeric value of arithmetic expressions.
//
// The production implementation delegates parsing and evaluation to
// expr-lang/expr and only adds the math function set, result conversion and a
// cache of compiled programs.
package evaluator

import (
	"fmt"
	"math"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Evaluator evaluates an arithmetic expression to a number
type Evaluator interface {
	Evaluate(expression string) (float64, error)
}

// Options configures an ExprEvaluator
type Options struct {
	// MaxLength is the longest expression accepted, in bytes. Zero disables the check.
	MaxLength int
	// CacheSize bounds the number of compiled programs kept. Zero disables caching.
	CacheSize int
}

// DefaultOptions returns the options used when none are supplied
func DefaultOptions() Options {
	return Options{
		MaxLength: 1024,
		CacheSize: 256,
	}
}

// ExprEvaluator evaluates expressions with expr-lang/expr.
// Compiled programs are cached, so repeated expressions skip parsing.
type ExprEvaluator struct {
	opts  Options
	cache map[string]*vm.Program
	mu    sync.RWMutex
}

// New creates a new expression evaluator
func New(opts Options) *ExprEvaluator {
	return &ExprEvaluator{
		opts:  opts,
		cache: make(map[string]*vm.Program),
	}
}

// Evaluate compiles (or fetches from cache) and runs the expression.
//
// Results that cannot be represented in JSON (NaN, ±Inf) are reported as
// ErrNonFinite rather than returned.
func (e *ExprEvaluator) Evaluate(expression string) (float64, error) {
	if e.opts.MaxLength > 0 && len(expression) > e.opts.MaxLength {
		return 0, newEvalError("validate", expression, ErrTooLong,
			fmt.Errorf("%d bytes exceeds limit of %d", len(expression), e.opts.MaxLength))
	}

	program, err := e.compile(expression)
	if err != nil {
		return 0, newEvalError("compile", expression, ErrCompile, err)
	}

	out, err := run(program)
	if err != nil {
		return 0, newEvalError("run", expression, ErrEvaluate, err)
	}

	value, ok := toFloat(out)
	if !ok {
		return 0, newEvalError("convert", expression, ErrNonNumeric, fmt.Errorf("got %T", out))
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, newEvalError("convert", expression, ErrNonFinite, fmt.Errorf("got %v", value))
	}

	return value, nil
}

func (e *ExprEvaluator) compile(expression string) (prog *vm.Program, err error) {
	e.mu.RLock()
	if prog, ok := e.cache[expression]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	defer func() {
		if r := recover(); r != nil {
			prog, err = nil, fmt.Errorf("%v", r)
		}
	}()

	prog, err = expr.Compile(expression, compileOptions()...)
	if err != nil {
		return nil, err
	}

	if e.opts.CacheSize > 0 {
		e.mu.Lock()
		if len(e.cache) >= e.opts.CacheSize {
			e.cache = make(map[string]*vm.Program)
		}
		e.cache[expression] = prog
		e.mu.Unlock()
	}

	return prog, nil
}

func run(program *vm.Program) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return expr.Run(program, constants)
}

// ClearCache drops all compiled programs
func (e *ExprEvaluator) ClearCache() {
	e.mu.Lock()
	e.cache = make(map[string]*vm.Program)
	e.mu.Unlock()
}

// CacheSize returns the number of cached programs
func (e *ExprEvaluator) CacheSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.cache)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

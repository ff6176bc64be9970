package evaluator

import (
	"errors"
	"fmt"
)

// Evaluation failure kinds
var (
	ErrTooLong    = errors.New("expression too long")
	ErrCompile    = errors.New("invalid expression")
	ErrEvaluate   = errors.New("evaluation failed")
	ErrNonNumeric = errors.New("result is not a number")
	ErrNonFinite  = errors.New("result is not finite")
)

// EvalError represents an evaluation failure with the expression that caused it
type EvalError struct {
	Op         string // Stage that failed ("validate", "compile", "run", "convert")
	Expression string
	Err        error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Expression, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

func newEvalError(op, expression string, kind error, cause error) *EvalError {
	err := kind
	if cause != nil {
		err = fmt.Errorf("%w: %v", kind, cause)
	}
	return &EvalError{Op: op, Expression: expression, Err: err}
}

// IsEvalError reports whether err came from an evaluator
func IsEvalError(err error) bool {
	var evalErr *EvalError
	return errors.As(err, &evalErr)
}

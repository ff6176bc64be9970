package evaluator

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
)

// constants is the read-only environment every expression runs against
var constants = map[string]any{
	"pi":  math.Pi,
	"e":   math.E,
	"phi": math.Phi,
}

// floatLiterals rewrites integer literals as floats, so arithmetic never
// wraps around int64 and every operator sees float64 operands.
type floatLiterals struct{}

func (floatLiterals) Visit(node *ast.Node) {
	if n, ok := (*node).(*ast.IntegerNode); ok {
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	}
}

func compileOptions() []expr.Option {
	opts := []expr.Option{
		expr.Env(constants),
		expr.Patch(floatLiterals{}),
		// % is integer-only in expr; route it through math.Mod instead
		expr.Function("mod", func(params ...any) (any, error) {
			args, err := numericArgs("mod", params, 2)
			if err != nil {
				return nil, err
			}
			return math.Mod(args[0], args[1]), nil
		}, new(func(any, any) float64)),
		expr.Operator("%", "mod"),
	}

	unary := map[string]func(float64) float64{
		"sqrt":  math.Sqrt,
		"cbrt":  math.Cbrt,
		"exp":   math.Exp,
		"ln":    math.Log,
		"log10": math.Log10,
		"log2":  math.Log2,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"asin":  math.Asin,
		"acos":  math.Acos,
		"atan":  math.Atan,
		"sinh":  math.Sinh,
		"cosh":  math.Cosh,
		"tanh":  math.Tanh,
	}
	for name, fn := range unary {
		opts = append(opts, unaryFunction(name, fn))
	}

	binary := map[string]func(float64, float64) float64{
		"pow":   math.Pow,
		"hypot": math.Hypot,
		"atan2": math.Atan2,
	}
	for name, fn := range binary {
		opts = append(opts, binaryFunction(name, fn))
	}

	// log(x) is the natural logarithm, log(x, base) changes base
	opts = append(opts, expr.Function("log", func(params ...any) (any, error) {
		if len(params) != 1 && len(params) != 2 {
			return nil, fmt.Errorf("log: expected 1 or 2 arguments, got %d", len(params))
		}
		args, err := numericArgs("log", params, len(params))
		if err != nil {
			return nil, err
		}
		if len(args) == 2 {
			return math.Log(args[0]) / math.Log(args[1]), nil
		}
		return math.Log(args[0]), nil
	}))

	return opts
}

func unaryFunction(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		args, err := numericArgs(name, params, 1)
		if err != nil {
			return nil, err
		}
		return fn(args[0]), nil
	})
}

func binaryFunction(name string, fn func(float64, float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		args, err := numericArgs(name, params, 2)
		if err != nil {
			return nil, err
		}
		return fn(args[0], args[1]), nil
	})
}

func numericArgs(name string, params []any, want int) ([]float64, error) {
	if len(params) != want {
		return nil, fmt.Errorf("%s: expected %d argument(s), got %d", name, want, len(params))
	}
	args := make([]float64, len(params))
	for i, p := range params {
		v, ok := toFloat(p)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d is %T, not a number", name, i+1, p)
		}
		args[i] = v
	}
	return args, nil
}

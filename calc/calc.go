// Package calc evaluates calculator expressions.
//
// Only arithmetic is accepted: decimal numbers, + - * /, unary minus and
// parentheses. Anything that looks like a name, a string or a function call
// is rejected before it reaches the evaluator.
package calc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PaesslerAG/gval"
)

const (
	MaxExpressionSize = 256
)

type (
	InvalidExpression struct {
		Expression string
		Reason     string
		cause      error
	}
)

var (
	language = gval.Arithmetic()

	errDivByZero = errors.New("division by zero")
)

func (i InvalidExpression) Error() string {
	if i.cause != nil {
		return fmt.Sprintf("invalid expression %q: %v, cause %v", i.Expression, i.Reason, i.cause)
	}
	return fmt.Sprintf("invalid expression %q: %v", i.Expression, i.Reason)
}

func (i InvalidExpression) Unwrap() error {
	return i.cause
}

// Evaluate computes expr and returns its shortest decimal representation.
func Evaluate(ctx context.Context, expr string) (string, error) {
	v, err := EvaluateFloat(ctx, expr)
	if err != nil {
		return "", err
	}
	return Format(v), nil
}

func EvaluateFloat(ctx context.Context, expr string) (float64, error) {
	if err := validate(expr); err != nil {
		return 0, err
	}
	eval, err := language.NewEvaluable(splitOperators(expr))
	if err != nil {
		return 0, InvalidExpression{Expression: expr, Reason: "unable to parse", cause: err}
	}
	v, err := eval.EvalFloat64(ctx, nil)
	if err != nil {
		return 0, InvalidExpression{Expression: expr, Reason: "unable to evaluate", cause: err}
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, InvalidExpression{Expression: expr, Reason: "result is not a finite number", cause: errDivByZero}
	}
	return v, nil
}

// Format renders v the same way the browser calculator does.
func Format(v float64) string {
	if v == 0 {
		// avoid -0
		return "0"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return InvalidExpression{Expression: expr, Reason: "empty expression"}
	}
	if len(expr) > MaxExpressionSize {
		return InvalidExpression{Expression: expr[:16] + "...", Reason: fmt.Sprintf("longer than %v bytes", MaxExpressionSize)}
	}
	for _, r := range expr {
		switch {
		case r >= '0' && r <= '9':
		case strings.ContainsRune("+-*/(). \t", r):
		default:
			return InvalidExpression{Expression: expr, Reason: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	if strings.Contains(expr, "**") {
		return InvalidExpression{Expression: expr, Reason: "exponentiation is not supported"}
	}
	return nil
}

// splitOperators separates adjacent operators ("2*-3" becomes "2* -3"),
// otherwise the scanner reads them as a single unknown operator.
func splitOperators(expr string) string {
	const operators = "+-*/"
	var sb strings.Builder
	sb.Grow(len(expr) + 4)
	var prev rune
	for _, r := range expr {
		if strings.ContainsRune(operators, r) && strings.ContainsRune(operators, prev) {
			sb.WriteByte(' ')
		}
		sb.WriteRune(r)
		prev = r
	}
	return sb.String()
}

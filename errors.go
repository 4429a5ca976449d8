package spaces

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfiguration flags configuration-time misuse: a non-positive
// segment length, a non-positive weight, or a compound space built from an
// empty component list. Fatal to the operation that raised it; never retried.
var ErrInvalidConfiguration = errors.New("spaces: invalid configuration")

// ErrDimensionMismatch flags a state whose structure does not match the space
// it was handed to, such as a compound state with the wrong component count.
// Detected before any output argument is touched.
var ErrDimensionMismatch = errors.New("spaces: dimension mismatch")

// ErrCrossSpaceState flags a state created by one space being passed to an
// operation of an unrelated space. Detection relies on the space identity each
// state carries.
var ErrCrossSpaceState = errors.New("spaces: state belongs to a different space")

func invalidConfigf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

func dimensionMismatchf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDimensionMismatch, fmt.Sprintf(format, args...))
}

func crossSpacef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCrossSpaceState, fmt.Sprintf(format, args...))
}

// EvaluationError captures engine metadata alongside the originating error for
// expression-backed metric evaluation.
type EvaluationError struct {
	Engine string
	Expr   string
	Space  string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("spaces: %s evaluator %s space=%s: %v", e.Engine, describeExpression(e.Expr), e.Space, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "spaces:") {
		return err
	}
	return fmt.Errorf("spaces: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, space string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Space == "" {
			evalErr.Space = space
		}
		return err
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Space:  space,
		Err:    err,
	}
}

package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/zillow/mcp-calculator/calc"
)

// DefaultMaxExpressionLength bounds the expression size in characters.
const DefaultMaxExpressionLength = 4096

var errTooLong = errors.New("expression too long")

// Calculator handles calls to the calculate tool. It holds no per-call state.
type Calculator struct {
	maxLen int
	logger *log.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithMaxExpressionLength sets the longest expression accepted, in
// characters. Zero or a negative value disables the check.
func WithMaxExpressionLength(n int) Option {
	return func(c *Calculator) {
		c.maxLen = n
	}
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(logger *log.Logger) Option {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCalculator returns a Calculator limited to DefaultMaxExpressionLength
// characters and logging nowhere unless opts say otherwise.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		maxLen: DefaultMaxExpressionLength,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke runs the named tool with args.
//
// An unknown tool name or a missing expression is returned as an error.
// Anything wrong with the expression itself, including disallowed
// characters, is reported inside the Result as "calculation error: ...".
func (c *Calculator) Invoke(ctx context.Context, name string, args map[string]any) (*Result, error) {
	logger := c.logger.With("call", uuid.NewString(), "tool", name)

	if name != CalculateToolName {
		logger.Debug("rejected call")
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	expr, err := expressionArg(args)
	if err != nil {
		logger.Debug("rejected call", "err", err)
		return nil, err
	}

	value, err := c.evaluate(expr)
	if err != nil {
		logger.Debug("calculation failed", "expression", expr, "err", err)
		return TextResult("calculation error: " + err.Error()), nil
	}

	logger.Debug("calculated", "expression", expr, "result", value)
	return TextResult(fmt.Sprintf("calculation result: %s = %s", expr, value)), nil
}

func (c *Calculator) evaluate(expr string) (calc.Value, error) {
	if c.maxLen > 0 {
		if n := utf8.RuneCountInString(expr); n > c.maxLen {
			return calc.Value{}, fmt.Errorf("%w (%d characters, limit %d)", errTooLong, n, c.maxLen)
		}
	}
	return calc.Evaluate(expr)
}

func expressionArg(args map[string]any) (string, error) {
	raw, ok := args[ExpressionParam]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, ExpressionParam)
	}
	expr, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrMissingParameter, ExpressionParam, raw)
	}
	if expr == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingParameter, ExpressionParam)
	}
	return expr, nil
}

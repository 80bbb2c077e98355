package risk

import (
	"context"
)

// Engine defines the single-instrument risk engine
type Engine interface {
	// Evaluate converts a symbol's historical price series into a structured risk report
	Evaluate(ctx context.Context, req Request) (*Report, error)
}

type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

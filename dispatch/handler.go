package dispatch

import (
	"context"

	"github.com/kbukum/fmtool/execution"
)

// Handler is the executable unit registered for an FM.
type Handler interface {
	Handle(ctx context.Context, ec execution.Context) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ec execution.Context) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, ec execution.Context) error {
	return f(ctx, ec)
}

// Middleware decorates the handler registered for fm.
type Middleware func(fm string, h Handler) Handler

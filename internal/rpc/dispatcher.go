package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownPattern is returned when no handler is registered for the
// requested pattern.
var ErrUnknownPattern = errors.New("unknown_pattern")

// HandlerFunc handles one message pattern. data is the raw "data" member of
// the request envelope.
type HandlerFunc func(ctx context.Context, data json.RawMessage) (any, error)

// Envelope is the request body of the /rpc endpoint.
type Envelope struct {
	Pattern string          `json:"pattern" binding:"required"`
	Data    json.RawMessage `json:"data"`
}

// Dispatcher routes envelopes to handlers by exact pattern match.
type Dispatcher struct {
	handlers map[string]HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string]HandlerFunc{}}
}

// Register binds a handler to a pattern. Registering the same pattern twice
// is a programming error and panics at startup.
func (d *Dispatcher) Register(pattern string, h HandlerFunc) {
	if _, ok := d.handlers[pattern]; ok {
		panic(fmt.Sprintf("rpc: pattern %q registered twice", pattern))
	}
	d.handlers[pattern] = h
}

// Dispatch invokes the handler for env.Pattern.
func (d *Dispatcher) Dispatch(ctx context.Context, env Envelope) (any, error) {
	h, ok := d.handlers[env.Pattern]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPattern, env.Pattern)
	}
	return h(ctx, env.Data)
}

// Patterns returns every registered pattern, for introspection and tests.
func (d *Dispatcher) Patterns() []string {
	out := make([]string, 0, len(d.handlers))
	for p := range d.handlers {
		out = append(out, p)
	}
	return out
}

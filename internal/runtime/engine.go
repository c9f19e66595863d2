// Package runtime implements the dialog stack machine. The engine is
// stateless between invocations: every public method takes the stack it
// should operate on, mutates it in place, and leaves persistence to the
// caller.
package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adamhockemeyer/BotPlayground-v4/internal/logging"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/turn"
)

// Engine drives dialog stacks over discrete turns.
type Engine struct {
	registry *dialog.Registry
	logger   *slog.Logger
	hooks    domain.TurnHooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks sets the observability callbacks.
func WithHooks(hooks domain.TurnHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New creates an engine over a dialog registry.
func New(registry *dialog.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Begin pushes the named dialog onto the stack and runs it until it suspends
// or the stack fully unwinds. When another dialog was already active the new
// one runs on top of it and a suspension reports TurnActiveAndWaiting.
func (e *Engine) Begin(ctx context.Context, tc *turn.Context, stack *domain.Stack, dialogID string, options any) (domain.TurnResult, error) {
	hadActive := !stack.Empty()

	out, err := e.beginOn(ctx, e.registry, stack, tc, dialogID, options)
	if err != nil {
		return domain.TurnResult{}, err
	}
	if out.done {
		return domain.Complete(out.result), nil
	}
	if hadActive {
		return domain.TurnResult{Status: domain.TurnActiveAndWaiting}, nil
	}
	return domain.Waiting(), nil
}

// Continue resumes the suspended leaf dialog with the turn's incoming
// activity and runs the stack until it suspends again or fully unwinds.
// An empty stack completes immediately with a nil value.
func (e *Engine) Continue(ctx context.Context, tc *turn.Context, stack *domain.Stack) (domain.TurnResult, error) {
	if stack.Empty() {
		e.logger.Debug("continue on empty stack, nothing to resume")
		return domain.Complete(nil), nil
	}

	out, err := e.continueOn(ctx, e.registry, stack, tc)
	if err != nil {
		return domain.TurnResult{}, err
	}
	if out.done {
		return domain.Complete(out.result), nil
	}
	return domain.Waiting(), nil
}

// findDialog resolves an id against a registry, wrapping the sentinel with
// the id for the caller's error message.
func findDialog(reg *dialog.Registry, id string) (*dialog.Dialog, error) {
	d, ok := reg.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrDialogNotFound, id)
	}
	return d, nil
}

package domain

import "context"

// DialogEvent describes a dialog being begun, resumed, or ended.
type DialogEvent struct {
	DialogID  string `json:"dialog_id"`
	StepIndex int    `json:"step_index"`
	Depth     int    `json:"depth"`
}

// TurnEvent describes one processed turn.
type TurnEvent struct {
	ActivityType ActivityType `json:"activity_type"`
	ChannelID    string       `json:"channel_id"`
	Conversation string       `json:"conversation"`
}

// TurnHooks defines callbacks for engine observability. Any field may be nil.
type TurnHooks struct {
	OnTurnStart   func(context.Context, *TurnEvent)
	OnDialogBegin func(context.Context, *DialogEvent)
	OnDialogEnd   func(context.Context, *DialogEvent)
	OnStep        func(context.Context, *DialogEvent)
	OnPromptRetry func(context.Context, *DialogEvent)
}

// Emit helpers keep nil checks out of the engine.

// EmitTurnStart invokes OnTurnStart if set.
func (h TurnHooks) EmitTurnStart(ctx context.Context, e *TurnEvent) {
	if h.OnTurnStart != nil {
		h.OnTurnStart(ctx, e)
	}
}

// EmitDialogBegin invokes OnDialogBegin if set.
func (h TurnHooks) EmitDialogBegin(ctx context.Context, e *DialogEvent) {
	if h.OnDialogBegin != nil {
		h.OnDialogBegin(ctx, e)
	}
}

// EmitDialogEnd invokes OnDialogEnd if set.
func (h TurnHooks) EmitDialogEnd(ctx context.Context, e *DialogEvent) {
	if h.OnDialogEnd != nil {
		h.OnDialogEnd(ctx, e)
	}
}

// EmitStep invokes OnStep if set.
func (h TurnHooks) EmitStep(ctx context.Context, e *DialogEvent) {
	if h.OnStep != nil {
		h.OnStep(ctx, e)
	}
}

// EmitPromptRetry invokes OnPromptRetry if set.
func (h TurnHooks) EmitPromptRetry(ctx context.Context, e *DialogEvent) {
	if h.OnPromptRetry != nil {
		h.OnPromptRetry(ctx, e)
	}
}

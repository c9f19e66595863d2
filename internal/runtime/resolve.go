package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/turn"
)

// outcome is the result of driving one stack level. done means that level
// fully unwound; result carries the last dialog's return value when it did.
// A zero outcome means a dialog suspended and the stack is parked.
type outcome struct {
	done   bool
	result any
}

// beginOn pushes dialogID onto the given stack and runs it. reg is the
// registry the id resolves against, which differs from the root registry
// inside a composite.
func (e *Engine) beginOn(ctx context.Context, reg *dialog.Registry, stack *domain.Stack, tc *turn.Context, dialogID string, options any) (outcome, error) {
	d, err := findDialog(reg, dialogID)
	if err != nil {
		return outcome{}, err
	}

	frame := domain.NewFrame(dialogID)
	frame.Options = options
	stack.Push(frame)
	e.logger.Debug("dialog begun", "dialog_id", dialogID, "depth", stack.Depth())
	e.hooks.EmitDialogBegin(ctx, &domain.DialogEvent{DialogID: dialogID, Depth: stack.Depth()})

	switch d.Kind {
	case dialog.KindComposite:
		frame.Child = domain.NewStack()
		out, err := e.beginOn(ctx, d.Children, frame.Child, tc, d.InitialID, options)
		if err != nil {
			return outcome{}, err
		}
		if out.done {
			// The container's whole script finished within this turn, so the
			// container itself ends with the script's result.
			return e.finishTop(ctx, reg, stack, tc, out.result)
		}
		return out, nil

	case dialog.KindPrompt:
		var opts domain.PromptOptions
		if err := dialog.DecodeOptions(options, &opts); err != nil {
			return outcome{}, fmt.Errorf("dialog %q: invalid prompt options: %w", dialogID, err)
		}
		return e.suspendPrompt(ctx, tc, frame, opts)

	case dialog.KindSteps:
		return e.runSteps(ctx, reg, stack, tc, d, frame, options)

	default:
		return outcome{}, fmt.Errorf("dialog %q has unknown kind %q", dialogID, d.Kind)
	}
}

// runSteps executes the frame's current step with input and then cascades
// through the returned actions until the dialog suspends, transfers control,
// or ends.
func (e *Engine) runSteps(ctx context.Context, reg *dialog.Registry, stack *domain.Stack, tc *turn.Context, d *dialog.Dialog, frame *domain.Frame, input any) (outcome, error) {
	for {
		if err := ctx.Err(); err != nil {
			return outcome{}, err
		}

		if frame.StepIndex >= len(d.Steps) {
			// Running past the last step ends the dialog with a nil result.
			return e.finishTop(ctx, reg, stack, tc, nil)
		}

		e.hooks.EmitStep(ctx, &domain.DialogEvent{DialogID: d.ID, StepIndex: frame.StepIndex, Depth: stack.Depth()})

		step := &dialog.Step{
			Turn:    tc,
			Index:   frame.StepIndex,
			Values:  frame.Values,
			Result:  input,
			Options: frame.Options,
		}
		action, err := d.Steps[frame.StepIndex](ctx, step)
		if err != nil {
			return outcome{}, fmt.Errorf("dialog %q step %d: %w", d.ID, frame.StepIndex, err)
		}

		switch action.Kind {
		case domain.ActionEndOfTurn:
			e.logger.Debug("dialog suspended", "dialog_id", d.ID, "step", frame.StepIndex)
			return outcome{}, nil

		case domain.ActionContinue:
			frame.StepIndex++
			input = action.Result

		case domain.ActionPrompt:
			pd, err := findDialog(reg, action.DialogID)
			if err != nil {
				return outcome{}, err
			}
			if pd.Kind != dialog.KindPrompt {
				return outcome{}, fmt.Errorf("dialog %q is %q, prompts must target a prompt dialog", action.DialogID, pd.Kind)
			}
			child := domain.NewFrame(action.DialogID)
			stack.Push(child)
			e.hooks.EmitDialogBegin(ctx, &domain.DialogEvent{DialogID: action.DialogID, Depth: stack.Depth()})
			return e.suspendPrompt(ctx, tc, child, action.Prompt)

		case domain.ActionBeginDialog:
			return e.beginOn(ctx, reg, stack, tc, action.DialogID, action.Options)

		case domain.ActionReplaceDialog:
			ended := stack.Pop()
			e.hooks.EmitDialogEnd(ctx, &domain.DialogEvent{DialogID: ended.DialogID, StepIndex: ended.StepIndex, Depth: stack.Depth() + 1})
			e.logger.Debug("dialog replaced", "dialog_id", ended.DialogID, "with", action.DialogID)
			return e.beginOn(ctx, reg, stack, tc, action.DialogID, action.Options)

		case domain.ActionEndDialog:
			return e.finishTop(ctx, reg, stack, tc, action.Result)

		default:
			return outcome{}, fmt.Errorf("dialog %q step %d returned unknown action %q", d.ID, frame.StepIndex, action.Kind)
		}
	}
}

// finishTop pops the active frame and resumes its parent with result. When no
// parent remains the stack level is done and result bubbles to the caller.
func (e *Engine) finishTop(ctx context.Context, reg *dialog.Registry, stack *domain.Stack, tc *turn.Context, result any) (outcome, error) {
	ended := stack.Pop()
	e.hooks.EmitDialogEnd(ctx, &domain.DialogEvent{DialogID: ended.DialogID, StepIndex: ended.StepIndex, Depth: stack.Depth() + 1})
	e.logger.Debug("dialog ended", "dialog_id", ended.DialogID)

	parent := stack.Top()
	if parent == nil {
		return outcome{done: true, result: result}, nil
	}

	pd, err := findDialog(reg, parent.DialogID)
	if err != nil {
		return outcome{}, err
	}
	parent.StepIndex++
	return e.runSteps(ctx, reg, stack, tc, pd, parent, result)
}

// continueOn resumes the suspended leaf under the given stack, descending
// through composite sub-stacks first.
func (e *Engine) continueOn(ctx context.Context, reg *dialog.Registry, stack *domain.Stack, tc *turn.Context) (outcome, error) {
	frame := stack.Top()
	if frame == nil {
		return outcome{done: true}, nil
	}

	d, err := findDialog(reg, frame.DialogID)
	if err != nil {
		return outcome{}, err
	}

	switch d.Kind {
	case dialog.KindComposite:
		out, err := e.continueOn(ctx, d.Children, frame.Child, tc)
		if err != nil {
			return outcome{}, err
		}
		if out.done {
			return e.finishTop(ctx, reg, stack, tc, out.result)
		}
		return out, nil

	case dialog.KindPrompt:
		return e.continuePrompt(ctx, reg, stack, tc, d, frame)

	case dialog.KindSteps:
		frame.StepIndex++
		return e.runSteps(ctx, reg, stack, tc, d, frame, tc.Activity().Result())

	default:
		return outcome{}, fmt.Errorf("dialog %q has unknown kind %q", frame.DialogID, d.Kind)
	}
}

// continuePrompt feeds the turn's input through the prompt's recognizer and
// validator. Rejected input re-suspends the same frame with its original
// options; accepted input ends the prompt with the recognized value.
func (e *Engine) continuePrompt(ctx context.Context, reg *dialog.Registry, stack *domain.Stack, tc *turn.Context, d *dialog.Dialog, frame *domain.Frame) (outcome, error) {
	if frame.Prompt == nil {
		return outcome{}, fmt.Errorf("dialog %q: prompt frame has no prompt state", d.ID)
	}
	opts := frame.Prompt.Options

	recognize := d.Recognize
	if recognize == nil {
		recognize = dialog.RecognizeText
	}

	value, err := recognize(tc.Activity(), opts)
	if err != nil {
		if errors.Is(err, domain.ErrNotRecognized) {
			return e.retryPrompt(ctx, tc, d, frame, opts, true)
		}
		return outcome{}, fmt.Errorf("dialog %q: recognizer: %w", d.ID, err)
	}

	if d.Validate != nil {
		sentBefore := len(tc.Sent())
		ok, err := d.Validate(ctx, tc, value)
		if err != nil {
			return outcome{}, fmt.Errorf("dialog %q: validator: %w", d.ID, err)
		}
		if !ok {
			// Only fall back to the generic retry text when the validator
			// did not explain the rejection itself.
			return e.retryPrompt(ctx, tc, d, frame, opts, len(tc.Sent()) == sentBefore)
		}
	}

	return e.finishTop(ctx, reg, stack, tc, value)
}

// suspendPrompt records the prompt state on the frame and sends the initial
// prompt text.
func (e *Engine) suspendPrompt(ctx context.Context, tc *turn.Context, frame *domain.Frame, opts domain.PromptOptions) (outcome, error) {
	frame.Prompt = &domain.PromptState{Options: opts}
	if text := renderPrompt(opts.Prompt, opts.Choices); text != "" {
		if err := tc.SendText(ctx, text); err != nil {
			return outcome{}, err
		}
	}
	return outcome{}, nil
}

// retryPrompt re-suspends the frame after a rejection, sending the retry text
// when sendText is set.
func (e *Engine) retryPrompt(ctx context.Context, tc *turn.Context, d *dialog.Dialog, frame *domain.Frame, opts domain.PromptOptions, sendText bool) (outcome, error) {
	e.logger.Debug("prompt retry", "dialog_id", d.ID)
	e.hooks.EmitPromptRetry(ctx, &domain.DialogEvent{DialogID: d.ID})

	if sendText {
		text := opts.RetryPrompt
		if text == "" {
			text = opts.Prompt
		}
		if rendered := renderPrompt(text, opts.Choices); rendered != "" {
			if err := tc.SendText(ctx, rendered); err != nil {
				return outcome{}, err
			}
		}
	}
	return outcome{}, nil
}

// renderPrompt appends a numbered choice list to the prompt text, matching
// the 1-based index the choice recognizer accepts.
func renderPrompt(text string, choices []string) string {
	if len(choices) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	for i, choice := range choices {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %d. %s", i+1, choice)
	}
	return b.String()
}

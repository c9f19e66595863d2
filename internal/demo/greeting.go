package demo

import (
	"context"
	"fmt"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
)

const (
	greetingFlowID   = "greetingFlow"
	greetingPromptID = "textPrompt"
)

// newGreetingDialog asks the guest's name and returns a GuestInfo.
func newGreetingDialog() *dialog.Dialog {
	flow := dialog.NewStepSequence(greetingFlowID,
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			return domain.Prompt(greetingPromptID, domain.PromptOptions{
				Prompt: "What is your name?",
			}), nil
		},
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			name := fmt.Sprint(step.Result)
			if err := step.Turn.SendText(ctx, fmt.Sprintf("Thank you %s, lets get started!", name)); err != nil {
				return domain.StepAction{}, err
			}
			return domain.EndDialog(GuestInfo{Name: name}), nil
		},
	)

	return dialog.NewComposite(GreetingDialogID, greetingFlowID,
		flow,
		dialog.NewTextPrompt(greetingPromptID, nil),
	)
}

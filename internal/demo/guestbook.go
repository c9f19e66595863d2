package demo

import (
	"context"
	"fmt"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
)

const (
	stateFlowID    = "stateFlow"
	namePromptID   = "namePrompt"
	ratingPromptID = "ratingPrompt"
)

// newStateDialog demonstrates the two state scopes: it reuses the guest's
// name from user state when known, and reminds them of their previous rating.
func newStateDialog() *dialog.Dialog {
	flow := dialog.NewStepSequence(stateFlowID,
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			info, _, err := loadUserInfo(ctx)
			if err != nil {
				return domain.StepAction{}, err
			}
			if info.Guest.Name != "" {
				if err := step.Turn.SendText(ctx,
					fmt.Sprintf("Great, we already have your name %s! Just one more question.", info.Guest.Name)); err != nil {
					return domain.StepAction{}, err
				}
				return domain.ContinueWith(nil), nil
			}
			return domain.Prompt(namePromptID, domain.PromptOptions{
				Prompt: "What is your name?",
			}), nil
		},
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			info, user, err := loadUserInfo(ctx)
			if err != nil {
				return domain.StepAction{}, err
			}
			if info.Guest.Name == "" && step.Result != nil {
				info.Guest.Name = fmt.Sprint(step.Result)
				if err := user.Set(userInfoProperty, info); err != nil {
					return domain.StepAction{}, err
				}
			}

			ratingMsg := "How would you rate this Bot?"
			if info.Guest.Rating != "" {
				ratingMsg += fmt.Sprintf(" You gave it a %s last time FYI.", info.Guest.Rating)
			}
			return domain.Prompt(ratingPromptID, domain.PromptOptions{
				Prompt:      ratingMsg,
				RetryPrompt: "Please pick a rating from the list.",
				Choices:     []string{"1", "2", "3", "4", "5"},
			}), nil
		},
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			info, user, err := loadUserInfo(ctx)
			if err != nil {
				return domain.StepAction{}, err
			}
			info.Guest.Rating = fmt.Sprint(step.Result)
			if err := user.Set(userInfoProperty, info); err != nil {
				return domain.StepAction{}, err
			}

			if err := step.Turn.SendText(ctx,
				fmt.Sprintf("Thanks %s for your feedback and rating of %s.", info.Guest.Name, info.Guest.Rating)); err != nil {
				return domain.StepAction{}, err
			}
			return domain.EndDialog(nil), nil
		},
	)

	return dialog.NewComposite(StateDialogID, stateFlowID,
		flow,
		dialog.NewTextPrompt(namePromptID, nil),
		dialog.NewChoicePrompt(ratingPromptID, nil),
	)
}

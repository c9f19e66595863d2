package demo

import (
	"context"
	"errors"
	"fmt"

	botplayground "github.com/adamhockemeyer/BotPlayground-v4"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/cards"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/state"
)

// WelcomeMessage greets users joining the conversation.
const WelcomeMessage = "Welcome to the Demo bot. This bot will introduce you to several concepts and features available to conversational bots."

// NewBot builds the demo bot over the given options (store, logger, hooks).
func NewBot(opts ...botplayground.Option) (*botplayground.Bot, error) {
	opts = append([]botplayground.Option{
		botplayground.WithWelcomeText(WelcomeMessage),
	}, opts...)
	return botplayground.New(RootDialogID, NewRegistry(), opts...)
}

// NewRegistry builds the demo's dialog set.
func NewRegistry() *dialog.Registry {
	return dialog.NewRegistry(
		newRootDialog(),
		newMainMenuDialog(),
		newGreetingDialog(),
		newCardsDialog(),
		newStateDialog(),
		newReservationDialog(),
	)
}

// loadUserInfo reads the turn's UserInfo, defaulting to the zero value.
func loadUserInfo(ctx context.Context) (UserInfo, *state.Properties, error) {
	user := state.UserFrom(ctx)
	if user == nil {
		return UserInfo{}, nil, fmt.Errorf("user state is unavailable for this turn")
	}
	var info UserInfo
	if err := user.Get(userInfoProperty, &info); err != nil && !errors.Is(err, domain.ErrPropertyNotFound) {
		return UserInfo{}, nil, err
	}
	return info, user, nil
}

// newRootDialog greets first-time guests by name, then hands over to the
// main menu, which loops for the rest of the conversation.
func newRootDialog() *dialog.Dialog {
	return dialog.NewStepSequence(RootDialogID,
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			info, _, err := loadUserInfo(ctx)
			if err != nil {
				return domain.StepAction{}, err
			}
			if info.Guest.Name != "" {
				return domain.ContinueWith(nil), nil
			}
			return domain.BeginDialog(GreetingDialogID, nil), nil
		},
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			// The greeting returns the collected guest info; keep it in user
			// state so it follows the guest across conversations.
			if guest, ok := step.Result.(GuestInfo); ok {
				info, user, err := loadUserInfo(ctx)
				if err != nil {
					return domain.StepAction{}, err
				}
				info.Guest = guest
				if err := user.Set(userInfoProperty, info); err != nil {
					return domain.StepAction{}, err
				}
			}
			return domain.BeginDialog(MainMenuDialogID, nil), nil
		},
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			// The menu loops internally, so ending up here means it was torn
			// down; start over.
			return domain.ReplaceDialog(RootDialogID, nil), nil
		},
	)
}

// newMainMenuDialog shows the hero-card menu, dispatches the choice to a
// child dialog, records the child's result, and loops.
func newMainMenuDialog() *dialog.Dialog {
	return dialog.NewStepSequence(MainMenuDialogID,
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			card := cards.HeroCard{
				Text:     "Welcome to the Demo bot!",
				Subtitle: "Select an option below to get started:",
				Buttons: []cards.CardAction{
					cards.ImBack("1. Cards Example", "1"),
					cards.ImBack("2. Conversation & User State Example", "2"),
					cards.ImBack("3. Waterfall Dialog Example", "3"),
				},
			}
			if err := step.Turn.Send(ctx, cards.Message("", card.ToAttachment())); err != nil {
				return domain.StepAction{}, err
			}
			return domain.EndOfTurn(), nil
		},
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			switch normalizeChoice(step.Result) {
			case "1", "cards example":
				return domain.BeginDialog(CardsDialogID, nil), nil
			case "2", "conversation & user state example":
				return domain.BeginDialog(StateDialogID, nil), nil
			case "3", "waterfall dialog example":
				return domain.BeginDialog(ReservationDialogID, nil), nil
			default:
				if err := step.Turn.SendText(ctx,
					"Sorry, I don't understand that command. Please choose an option from the list."); err != nil {
					return domain.StepAction{}, err
				}
				return domain.ReplaceDialog(MainMenuDialogID, nil), nil
			}
		},
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			// Record what the child flow produced, then restart the menu.
			if reservation, ok := step.Result.(Reservation); ok {
				info, user, err := loadUserInfo(ctx)
				if err != nil {
					return domain.StepAction{}, err
				}
				info.Reservation = &reservation
				if err := user.Set(userInfoProperty, info); err != nil {
					return domain.StepAction{}, err
				}
			}
			return domain.ReplaceDialog(MainMenuDialogID, nil), nil
		},
	)
}

package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/turn"
)

const (
	reservationFlowID = "reservationFlow"
	partySizePromptID = "partyPrompt"
	locationPromptID  = "locationPrompt"
	datePromptID      = "reservationDatePrompt"
)

// Reservations can be made for parties of 6 to 20, at least an hour ahead.
const (
	minPartySize       = 6
	maxPartySize       = 20
	minReservationLead = time.Hour
)

func validatePartySize(ctx context.Context, tc *turn.Context, value any) (bool, error) {
	size, ok := value.(int)
	if !ok {
		return false, fmt.Errorf("party size prompt produced %T, expected int", value)
	}
	if size < minPartySize || size > maxPartySize {
		if err := tc.SendText(ctx,
			fmt.Sprintf("Sorry, we can only take reservations for parties of %d to %d.", minPartySize, maxPartySize)); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func validateReservationDate(ctx context.Context, tc *turn.Context, value any) (bool, error) {
	when, ok := value.(time.Time)
	if !ok {
		return false, fmt.Errorf("date prompt produced %T, expected time.Time", value)
	}
	if when.Before(time.Now().Add(minReservationLead)) {
		if err := tc.SendText(ctx,
			"I'm sorry, we can't take reservations earlier than an hour from now."); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

// newReservationDialog walks the guest through booking a table: party size,
// location, then date, each behind a validated prompt.
func newReservationDialog() *dialog.Dialog {
	flow := dialog.NewStepSequence(reservationFlowID,
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			if err := step.Turn.SendText(ctx, "Let's go through an example of making a dinner reservation..."); err != nil {
				return domain.StepAction{}, err
			}
			return domain.Prompt(partySizePromptID, domain.PromptOptions{
				Prompt:      "How many people is the reservation for?",
				RetryPrompt: "How large is your party?",
			}), nil
		},
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			step.Values["size"] = step.Result
			return domain.Prompt(locationPromptID, domain.PromptOptions{
				Prompt:      "Please choose a location.",
				RetryPrompt: "Sorry, please choose a location from the list.",
				Choices:     []string{"Redmond", "Bellevue", "Seattle"},
			}), nil
		},
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			step.Values["location"] = step.Result
			return domain.Prompt(datePromptID, domain.PromptOptions{
				Prompt:      "Great. When will the reservation be for?",
				RetryPrompt: "What time should we make your reservation for?",
			}), nil
		},
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			when, ok := step.Result.(time.Time)
			if !ok {
				return domain.StepAction{}, fmt.Errorf("expected a reservation time, got %T", step.Result)
			}

			var size int
			if err := dialog.DecodeValue(step.Values, "size", &size); err != nil {
				return domain.StepAction{}, err
			}
			var location string
			if err := dialog.DecodeValue(step.Values, "location", &location); err != nil {
				return domain.StepAction{}, err
			}

			if err := step.Turn.SendText(ctx, "Thank you. We will confirm your reservation shortly."); err != nil {
				return domain.StepAction{}, err
			}
			return domain.EndDialog(Reservation{
				Size:     size,
				Location: location,
				Date:     when.Format(time.RFC3339),
			}), nil
		},
	)

	return dialog.NewComposite(ReservationDialogID, reservationFlowID,
		flow,
		dialog.NewNumberPrompt(partySizePromptID, validatePartySize),
		dialog.NewChoicePrompt(locationPromptID, nil),
		dialog.NewDateTimePrompt(datePromptID, validateReservationDate),
	)
}

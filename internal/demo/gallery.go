package demo

import (
	"context"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/cards"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
)

// newCardsDialog is a looping gallery of the card types the bot can send.
func newCardsDialog() *dialog.Dialog {
	return dialog.NewStepSequence(CardsDialogID,
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			menu := cards.HeroCard{
				Title:    "This is the title of the hero card.",
				Subtitle: "This is the subtitle of the hero card.",
				Text:     "This is an example of a Hero Card. Select an option to view other card options.",
				Buttons: []cards.CardAction{
					cards.ImBack("1. Hero Card", "1"),
					cards.ImBack("2. Thumbnail Card", "2"),
					cards.ImBack("3. Receipt Card", "3"),
					cards.ImBack("4. Go Back", "4"),
				},
			}
			if err := step.Turn.Send(ctx, cards.Message("", menu.ToAttachment())); err != nil {
				return domain.StepAction{}, err
			}
			return domain.EndOfTurn(), nil
		},
		func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
			var attachment domain.Attachment
			switch normalizeChoice(step.Result) {
			case "1", "hero card":
				attachment = cards.HeroCard{
					Title:    "Hero Card",
					Subtitle: "The largest card format",
					Text:     "Hero cards carry a single large image, text, and buttons.",
					Images:   []cards.CardImage{{URL: "https://dev.botframework.com/Client/Images/ChatBot-BotFramework.png", Alt: "Example Image"}},
					Buttons:  []cards.CardAction{cards.ImBack("Show the menu again", "menu")},
				}.ToAttachment()
			case "2", "thumbnail card":
				attachment = cards.ThumbnailCard{
					Title:    "Thumbnail Card",
					Subtitle: "A compact card",
					Text:     "Thumbnail cards show a small image beside their text.",
					Images:   []cards.CardImage{{URL: "https://dev.botframework.com/Client/Images/ChatBot-BotFramework.png", Alt: "Example Image"}},
				}.ToAttachment()
			case "3", "receipt card":
				attachment = cards.ReceiptCard{
					Title: "Contoso Hotel",
					Items: []cards.ReceiptItem{
						{Title: "Dinner reservation", Quantity: "1", Price: "$ 0.00"},
						{Title: "Room service", Quantity: "2", Price: "$ 38.50"},
					},
					Tax:   "$ 3.47",
					Total: "$ 41.97",
				}.ToAttachment()
			case "4", "go back":
				return domain.EndDialog(nil), nil
			default:
				if err := step.Turn.SendText(ctx,
					"Sorry, I don't understand that command. Please choose an option from the list."); err != nil {
					return domain.StepAction{}, err
				}
				return domain.ReplaceDialog(CardsDialogID, nil), nil
			}

			if err := step.Turn.Send(ctx, cards.Message("", attachment)); err != nil {
				return domain.StepAction{}, err
			}
			// Loop so the user can browse more cards.
			return domain.ReplaceDialog(CardsDialogID, nil), nil
		},
	)
}

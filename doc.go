/*
Package botplayground is a stack-based dialog engine for building multi-turn
conversational bots.

Conversations advance one activity at a time. Dialogs are scripted as ordered
steps; each step returns an action telling the engine whether to wait for the
user, prompt for typed input, call a child dialog, or finish. Between turns
the whole dialog stack lives in a pluggable state store, so the process
holding a conversation can change at any suspension point.

A minimal bot:

	registry := dialog.NewRegistry(
		dialog.NewStepSequence("echo",
			func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
				if err := step.Turn.SendText(ctx, "Say something."); err != nil {
					return domain.StepAction{}, err
				}
				return domain.EndOfTurn(), nil
			},
			func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
				if err := step.Turn.SendText(ctx, fmt.Sprintf("You said: %v", step.Result)); err != nil {
					return domain.StepAction{}, err
				}
				return domain.EndDialog(nil), nil
			},
		),
	)

	bot, err := botplayground.New("echo", registry)

Each incoming activity then goes through bot.ProcessActivity with a responder
that delivers the bot's replies to the channel.
*/
package botplayground

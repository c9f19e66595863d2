package console_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	botplayground "github.com/adamhockemeyer/BotPlayground-v4"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/adapters/console"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/cards"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
)

func newMenuBot(t *testing.T) *botplayground.Bot {
	t.Helper()
	reg := dialog.NewRegistry(
		dialog.NewStepSequence("menu",
			func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
				card := cards.HeroCard{
					Title:   "Pick one",
					Buttons: []cards.CardAction{cards.ImBack("First", "1"), cards.ImBack("Second", "2")},
				}
				if err := step.Turn.Send(ctx, cards.Message("", card.ToAttachment())); err != nil {
					return domain.StepAction{}, err
				}
				return domain.EndOfTurn(), nil
			},
			func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
				if err := step.Turn.SendText(ctx, "you picked "+step.Turn.Activity().Text); err != nil {
					return domain.StepAction{}, err
				}
				return domain.EndDialog(nil), nil
			},
		),
	)
	bot, err := botplayground.New("menu", reg, botplayground.WithWelcomeText("Welcome!"))
	require.NoError(t, err)
	return bot
}

func TestConsole_ConversationRoundTrip(t *testing.T) {
	in := strings.NewReader("2\nquit\n")
	var out bytes.Buffer

	c := console.New(newMenuBot(t), console.WithIO(in, &out))
	require.NoError(t, c.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Welcome!")
	assert.Contains(t, text, "## Pick one")
	assert.Contains(t, text, "**Second** (reply: 2)")
	assert.Contains(t, text, "you picked 2")
}

func TestConsole_EOFEndsCleanly(t *testing.T) {
	var out bytes.Buffer
	c := console.New(newMenuBot(t), console.WithIO(strings.NewReader(""), &out))
	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "Welcome!")
}

func TestConsole_CancelledContextStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	c := console.New(newMenuBot(t), console.WithIO(blockingReader{}, &out))
	err := c.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

// blockingReader never yields data; reads only return via the interrupt path.
type blockingReader struct{}

func (blockingReader) Read(p []byte) (int, error) {
	select {}
}

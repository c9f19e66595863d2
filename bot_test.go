package botplayground_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	botplayground "github.com/adamhockemeyer/BotPlayground-v4"
	"github.com/adamhockemeyer/BotPlayground-v4/internal/adapters/memory"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/state"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/turn"
)

func discard(ctx context.Context, a *domain.Activity) error { return nil }

func message(conv, text string) *domain.Activity {
	a := domain.NewMessage(text)
	a.ChannelID = "test"
	a.Conversation = domain.ChannelAccount{ID: conv}
	a.From = domain.ChannelAccount{ID: "user-1"}
	a.Recipient = domain.ChannelAccount{ID: "bot"}
	return a
}

func userJoined(conv string) *domain.Activity {
	a := &domain.Activity{
		Type:         domain.ActivityConversationUpdate,
		ChannelID:    "test",
		Conversation: domain.ChannelAccount{ID: conv},
		From:         domain.ChannelAccount{ID: "user-1"},
		Recipient:    domain.ChannelAccount{ID: "bot"},
		MembersAdded: []domain.ChannelAccount{{ID: "user-1"}},
	}
	return a
}

func askNameRegistry() *dialog.Registry {
	return dialog.NewRegistry(
		dialog.NewStepSequence("askName",
			func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
				return domain.Prompt("namePrompt", domain.PromptOptions{Prompt: "What is your name?"}), nil
			},
			func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
				if err := step.Turn.SendText(ctx, fmt.Sprintf("Hi %v!", step.Result)); err != nil {
					return domain.StepAction{}, err
				}
				return domain.EndDialog(step.Result), nil
			},
		),
		dialog.NewTextPrompt("namePrompt", nil),
	)
}

func TestBot_RequiresKnownRootDialog(t *testing.T) {
	_, err := botplayground.New("missing", dialog.NewRegistry())
	assert.ErrorIs(t, err, domain.ErrDialogNotFound)
}

func TestBot_MessageStartsRootDialog(t *testing.T) {
	bot, err := botplayground.New("askName", askNameRegistry())
	require.NoError(t, err)
	ctx := context.Background()

	var sent []string
	respond := func(ctx context.Context, a *domain.Activity) error {
		sent = append(sent, a.Text)
		return nil
	}

	result, err := bot.ProcessActivity(ctx, message("c1", "hello"), respond)
	require.NoError(t, err)
	assert.Equal(t, domain.TurnWaiting, result.Status)
	assert.Equal(t, []string{"What is your name?"}, sent)

	sent = nil
	result, err = bot.ProcessActivity(ctx, message("c1", "Ada"), respond)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi Ada!"}, sent)
}

func TestBot_StateSurvivesBotRestart(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	bot, err := botplayground.New("askName", askNameRegistry(), botplayground.WithStore(store))
	require.NoError(t, err)
	_, err = bot.ProcessActivity(ctx, message("c1", "hello"), discard)
	require.NoError(t, err)

	// A fresh Bot over the same store resumes mid-dialog.
	restarted, err := botplayground.New("askName", askNameRegistry(), botplayground.WithStore(store))
	require.NoError(t, err)

	var sent []string
	respond := func(ctx context.Context, a *domain.Activity) error {
		sent = append(sent, a.Text)
		return nil
	}
	_, err = restarted.ProcessActivity(ctx, message("c1", "Grace"), respond)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi Grace!"}, sent)
}

func TestBot_ConversationsAreIsolated(t *testing.T) {
	bot, err := botplayground.New("askName", askNameRegistry())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = bot.ProcessActivity(ctx, message("c1", "hello"), discard)
	require.NoError(t, err)

	// A different conversation starts from scratch; it does not resume c1's
	// pending prompt.
	var sent []string
	respond := func(ctx context.Context, a *domain.Activity) error {
		sent = append(sent, a.Text)
		return nil
	}
	_, err = bot.ProcessActivity(ctx, message("c2", "hello"), respond)
	require.NoError(t, err)
	assert.Equal(t, []string{"What is your name?"}, sent)
}

func TestBot_WelcomeOnConversationUpdate(t *testing.T) {
	bot, err := botplayground.New("askName", askNameRegistry(),
		botplayground.WithWelcomeText("Welcome to the hotel!"))
	require.NoError(t, err)

	var sent []string
	respond := func(ctx context.Context, a *domain.Activity) error {
		sent = append(sent, a.Text)
		return nil
	}

	result, err := bot.ProcessActivity(context.Background(), userJoined("c1"), respond)
	require.NoError(t, err)
	assert.Equal(t, domain.TurnWaiting, result.Status)
	assert.Equal(t, []string{"Welcome to the hotel!", "What is your name?"}, sent)
}

func TestBot_BotJoinDoesNotTriggerWelcome(t *testing.T) {
	bot, err := botplayground.New("askName", askNameRegistry(),
		botplayground.WithWelcomeText("Welcome!"))
	require.NoError(t, err)

	join := userJoined("c1")
	join.MembersAdded = []domain.ChannelAccount{{ID: "bot"}}

	var sent []string
	respond := func(ctx context.Context, a *domain.Activity) error {
		sent = append(sent, a.Text)
		return nil
	}
	_, err = bot.ProcessActivity(context.Background(), join, respond)
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestBot_CompletionHandlerReceivesRootResult(t *testing.T) {
	var got any
	handler := func(ctx context.Context, tc *turn.Context, conversation, user *state.Properties, value any) error {
		got = value
		return user.Set("lastResult", value)
	}

	store := memory.NewStore()
	bot, err := botplayground.New("askName", askNameRegistry(),
		botplayground.WithStore(store),
		botplayground.WithCompletionHandler(handler))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = bot.ProcessActivity(ctx, message("c1", "hello"), discard)
	require.NoError(t, err)
	_, err = bot.ProcessActivity(ctx, message("c1", "Ada"), discard)
	require.NoError(t, err)

	assert.Equal(t, "Ada", got)

	// The handler's writes were committed with the turn.
	user, err := state.Load(ctx, store, state.ScopeUser, message("c1", ""))
	require.NoError(t, err)
	var last string
	require.NoError(t, user.Get("lastResult", &last))
	assert.Equal(t, "Ada", last)
}

func TestBot_FailedTurnLeavesStateUntouched(t *testing.T) {
	reg := dialog.NewRegistry(
		dialog.NewStepSequence("fragile",
			func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
				return domain.EndOfTurn(), nil
			},
			func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
				return domain.StepAction{}, fmt.Errorf("boom")
			},
		),
	)
	store := memory.NewStore()
	bot, err := botplayground.New("fragile", reg, botplayground.WithStore(store))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = bot.ProcessActivity(ctx, message("c1", "start"), discard)
	require.NoError(t, err)

	keys, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	before, err := store.Load(ctx, keys[0])
	require.NoError(t, err)

	var sent []*domain.Activity
	record := func(ctx context.Context, a *domain.Activity) error {
		sent = append(sent, a)
		return nil
	}
	_, err = bot.ProcessActivity(ctx, message("c1", "next"), record)
	require.Error(t, err)

	after, err := store.Load(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, before, after, "a failed turn must not commit partial state")

	require.NotEmpty(t, sent, "the user should still get an apology")
	assert.Equal(t, "Sorry, it looks like something went wrong!", sent[len(sent)-1].Text)
}

func TestBot_UserStateSharedAcrossConversations(t *testing.T) {
	reg := dialog.NewRegistry(
		dialog.NewStepSequence("remember",
			func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
				user := state.UserFrom(ctx)
				var name string
				if err := user.Get("name", &name); err == nil {
					if err := step.Turn.SendText(ctx, "Welcome back, "+name); err != nil {
						return domain.StepAction{}, err
					}
					return domain.EndDialog(nil), nil
				}
				if err := user.Set("name", fmt.Sprintf("%v", step.Turn.Activity().Text)); err != nil {
					return domain.StepAction{}, err
				}
				if err := step.Turn.SendText(ctx, "Nice to meet you"); err != nil {
					return domain.StepAction{}, err
				}
				return domain.EndDialog(nil), nil
			},
		),
	)
	bot, err := botplayground.New("remember", reg)
	require.NoError(t, err)
	ctx := context.Background()

	var sent []string
	respond := func(ctx context.Context, a *domain.Activity) error {
		sent = append(sent, a.Text)
		return nil
	}

	_, err = bot.ProcessActivity(ctx, message("c1", "Ada"), respond)
	require.NoError(t, err)

	// Same user, different conversation: user scope follows them.
	_, err = bot.ProcessActivity(ctx, message("c2", "hello again"), respond)
	require.NoError(t, err)

	assert.Equal(t, []string{"Nice to meet you", "Welcome back, Ada"}, sent)
}

func TestBot_EndOfConversationClearsConversationState(t *testing.T) {
	store := memory.NewStore()
	bot, err := botplayground.New("askName", askNameRegistry(), botplayground.WithStore(store))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = bot.ProcessActivity(ctx, message("c1", "hello"), discard)
	require.NoError(t, err)

	end := message("c1", "")
	end.Type = domain.ActivityEndOfConversation
	_, err = bot.ProcessActivity(ctx, end, discard)
	require.NoError(t, err)

	// The pending prompt is gone; the next message starts over.
	var sent []string
	respond := func(ctx context.Context, a *domain.Activity) error {
		sent = append(sent, a.Text)
		return nil
	}
	_, err = bot.ProcessActivity(ctx, message("c1", "hi"), respond)
	require.NoError(t, err)
	assert.Equal(t, []string{"What is your name?"}, sent)
}

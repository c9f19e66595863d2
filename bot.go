package botplayground

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adamhockemeyer/BotPlayground-v4/internal/adapters/memory"
	"github.com/adamhockemeyer/BotPlayground-v4/internal/logging"
	"github.com/adamhockemeyer/BotPlayground-v4/internal/runtime"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/ports"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/session"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/state"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/turn"
)

// stackProperty is the conversation-scope property holding the dialog stack.
const stackProperty = "dialogStack"

// turnErrorText is the best-effort apology sent when a turn fails partway.
const turnErrorText = "Sorry, it looks like something went wrong!"

// CompletionHandler runs when the root dialog finishes, before state is
// saved. It receives both scopes so it can stash the result.
type CompletionHandler func(ctx context.Context, tc *turn.Context, conversation, user *state.Properties, value any) error

// Bot is the high-level entry point: it owns the dialog registry, the state
// layer, and per-conversation locking, and processes one activity per call.
// The Bot itself holds no conversation state, so one instance serves any
// number of conversations concurrently.
type Bot struct {
	registry     *dialog.Registry
	rootDialogID string
	welcomeText  string

	store    ports.StateStore
	sessions *session.Manager
	engine   *runtime.Engine
	logger   *slog.Logger
	hooks    domain.TurnHooks

	onCompleted CompletionHandler

	stack state.Accessor[domain.Stack]
}

// Option configures a Bot.
type Option func(*Bot)

// WithStore sets the state store. Defaults to an in-memory store.
func WithStore(store ports.StateStore) Option {
	return func(b *Bot) {
		if store != nil {
			b.store = store
		}
	}
}

// WithLocker serializes conversations across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(b *Bot) {
		if locker != nil {
			b.sessions = session.NewManager(session.WithLocker(locker))
		}
	}
}

// WithSessionManager replaces the lock manager entirely.
func WithSessionManager(m *session.Manager) Option {
	return func(b *Bot) {
		if m != nil {
			b.sessions = m
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks domain.TurnHooks) Option {
	return func(b *Bot) {
		b.hooks = hooks
	}
}

// WithWelcomeText sets the greeting sent when a user joins the conversation.
func WithWelcomeText(text string) Option {
	return func(b *Bot) {
		b.welcomeText = text
	}
}

// WithCompletionHandler routes the root dialog's final value.
func WithCompletionHandler(h CompletionHandler) Option {
	return func(b *Bot) {
		b.onCompleted = h
	}
}

// New creates a Bot that runs rootDialogID from the registry whenever a
// message arrives with no dialog in progress.
func New(rootDialogID string, registry *dialog.Registry, opts ...Option) (*Bot, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	if _, ok := registry.Find(rootDialogID); !ok {
		return nil, fmt.Errorf("%w: root dialog %q", domain.ErrDialogNotFound, rootDialogID)
	}

	b := &Bot{
		registry:     registry,
		rootDialogID: rootDialogID,
		logger:       logging.NewNop(),
		stack:        state.NewAccessorWithFactory(stackProperty, domain.NewStack),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.store == nil {
		b.store = memory.NewStore()
	}
	if b.sessions == nil {
		b.sessions = session.NewManager(session.WithLogger(b.logger))
	}
	b.engine = runtime.New(registry, runtime.WithLogger(b.logger), runtime.WithHooks(b.hooks))

	return b, nil
}

// Store exposes the configured state store, for adapters that need
// introspection such as listing or resetting conversations.
func (b *Bot) Store() ports.StateStore {
	return b.store
}

// ProcessActivity runs one turn: lock the conversation, load state, drive
// the dialog stack, and save. Outbound activities flow through respond as
// the turn executes. State reaches storage only when the whole turn
// succeeds; a failed turn leaves the previous state intact.
func (b *Bot) ProcessActivity(ctx context.Context, activity *domain.Activity, respond turn.Responder) (domain.TurnResult, error) {
	if activity == nil {
		return domain.TurnResult{}, fmt.Errorf("activity is required")
	}

	lockKey, err := state.StorageKey(state.ScopeConversation, activity)
	if err != nil {
		return domain.TurnResult{}, err
	}

	b.hooks.EmitTurnStart(ctx, &domain.TurnEvent{
		ActivityType: activity.Type,
		ChannelID:    activity.ChannelID,
		Conversation: activity.Conversation.ID,
	})

	start := time.Now()
	var result domain.TurnResult
	err = b.sessions.WithLock(ctx, lockKey, func(ctx context.Context) error {
		var err error
		result, err = b.handleTurn(ctx, activity, respond)
		return err
	})
	if err != nil {
		b.logger.Error("turn failed",
			"channel", activity.ChannelID,
			"conversation", activity.Conversation.ID,
			"err", err,
		)
		if activity.Type == domain.ActivityMessage {
			if sendErr := respond(ctx, activity.CreateReply(turnErrorText)); sendErr != nil {
				b.logger.Warn("failed to send turn error reply", "err", sendErr)
			}
		}
		return domain.TurnResult{}, err
	}

	b.logger.Debug("turn processed",
		"channel", activity.ChannelID,
		"conversation", activity.Conversation.ID,
		"status", result.Status,
		"duration", time.Since(start),
	)
	return result, nil
}

func (b *Bot) handleTurn(ctx context.Context, activity *domain.Activity, respond turn.Responder) (domain.TurnResult, error) {
	conversation, err := state.Load(ctx, b.store, state.ScopeConversation, activity)
	if err != nil {
		return domain.TurnResult{}, err
	}
	user, err := state.Load(ctx, b.store, state.ScopeUser, activity)
	if err != nil {
		if !errors.Is(err, domain.ErrScopeIdentityUnavailable) {
			return domain.TurnResult{}, err
		}
		// conversationUpdate activities may lack a sender; run without the
		// user scope rather than dropping the event.
		user = nil
	}

	tc := turn.New(activity, respond)
	ctx = state.WithTurnScopes(ctx, conversation, user)

	switch activity.Type {
	case domain.ActivityMessage:
		result, err := b.handleMessage(ctx, tc, conversation, user)
		if err != nil {
			return domain.TurnResult{}, err
		}
		if err := saveScopes(ctx, conversation, user); err != nil {
			return domain.TurnResult{}, err
		}
		return result, nil

	case domain.ActivityConversationUpdate:
		result, err := b.handleConversationUpdate(ctx, tc, conversation)
		if err != nil {
			return domain.TurnResult{}, err
		}
		if err := saveScopes(ctx, conversation, user); err != nil {
			return domain.TurnResult{}, err
		}
		return result, nil

	case domain.ActivityEndOfConversation:
		// Drop the conversation's state; user state survives.
		if err := b.store.Delete(ctx, conversation.Key()); err != nil {
			return domain.TurnResult{}, err
		}
		return domain.Complete(nil), nil

	default:
		b.logger.Debug("ignoring activity", "type", activity.Type)
		return domain.Waiting(), nil
	}
}

// handleMessage resumes the active dialog, falling back to the root dialog
// when nothing is active or the active dialog finished without answering.
func (b *Bot) handleMessage(ctx context.Context, tc *turn.Context, conversation, user *state.Properties) (domain.TurnResult, error) {
	stack, err := b.stack.Get(conversation)
	if err != nil {
		return domain.TurnResult{}, err
	}

	result, err := b.engine.Continue(ctx, tc, stack)
	if err != nil {
		return domain.TurnResult{}, err
	}

	if result.Status == domain.TurnComplete {
		if err := b.routeCompletion(ctx, tc, conversation, user, result); err != nil {
			return domain.TurnResult{}, err
		}
		if !tc.Responded() {
			result, err = b.engine.Begin(ctx, tc, stack, b.rootDialogID, nil)
			if err != nil {
				return domain.TurnResult{}, err
			}
			// The root dialog may finish within the turn it was begun.
			if result.Status == domain.TurnComplete {
				if err := b.routeCompletion(ctx, tc, conversation, user, result); err != nil {
					return domain.TurnResult{}, err
				}
			}
		}
	}

	if err := b.stack.Set(conversation, stack); err != nil {
		return domain.TurnResult{}, err
	}
	return result, nil
}

// routeCompletion hands a finished root dialog's value to the completion
// handler, if both exist.
func (b *Bot) routeCompletion(ctx context.Context, tc *turn.Context, conversation, user *state.Properties, result domain.TurnResult) error {
	if result.Value == nil || b.onCompleted == nil {
		return nil
	}
	return b.onCompleted(ctx, tc, conversation, user, result.Value)
}

// handleConversationUpdate welcomes joining users and starts the root dialog
// for them. The bot's own join is ignored.
func (b *Bot) handleConversationUpdate(ctx context.Context, tc *turn.Context, conversation *state.Properties) (domain.TurnResult, error) {
	activity := tc.Activity()

	joined := false
	for _, member := range activity.MembersAdded {
		if member.ID != activity.Recipient.ID {
			joined = true
			break
		}
	}
	if !joined {
		return domain.Waiting(), nil
	}

	if b.welcomeText != "" {
		if err := tc.SendText(ctx, b.welcomeText); err != nil {
			return domain.TurnResult{}, err
		}
	}

	stack, err := b.stack.Get(conversation)
	if err != nil {
		return domain.TurnResult{}, err
	}
	if !stack.Empty() {
		return domain.Waiting(), nil
	}

	result, err := b.engine.Begin(ctx, tc, stack, b.rootDialogID, nil)
	if err != nil {
		return domain.TurnResult{}, err
	}
	if err := b.stack.Set(conversation, stack); err != nil {
		return domain.TurnResult{}, err
	}
	return result, nil
}

// saveScopes commits both scopes; conversation first, since it carries the
// dialog stack.
func saveScopes(ctx context.Context, conversation, user *state.Properties) error {
	if err := conversation.Save(ctx); err != nil {
		return err
	}
	if user != nil {
		if err := user.Save(ctx); err != nil {
			return err
		}
	}
	return nil
}

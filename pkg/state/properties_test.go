package state_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamhockemeyer/BotPlayground-v4/internal/adapters/memory"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/state"
)

type guestInfo struct {
	Name string `json:"name"`
}

func testActivity() *domain.Activity {
	a := domain.NewMessage("hello")
	a.ChannelID = "console"
	a.Conversation = domain.ChannelAccount{ID: "conv-1"}
	a.From = domain.ChannelAccount{ID: "user-1"}
	return a
}

func TestStorageKey(t *testing.T) {
	t.Run("Conversation Scope", func(t *testing.T) {
		key, err := state.StorageKey(state.ScopeConversation, testActivity())
		require.NoError(t, err)
		assert.Equal(t, "conversation/console/conv-1", key)
	})

	t.Run("User Scope", func(t *testing.T) {
		key, err := state.StorageKey(state.ScopeUser, testActivity())
		require.NoError(t, err)
		assert.Equal(t, "user/console/user-1", key)
	})

	t.Run("Missing Conversation ID", func(t *testing.T) {
		a := testActivity()
		a.Conversation = domain.ChannelAccount{}
		_, err := state.StorageKey(state.ScopeConversation, a)
		assert.ErrorIs(t, err, domain.ErrScopeIdentityUnavailable)
	})

	t.Run("Missing Sender", func(t *testing.T) {
		a := testActivity()
		a.From = domain.ChannelAccount{}
		_, err := state.StorageKey(state.ScopeUser, a)
		assert.ErrorIs(t, err, domain.ErrScopeIdentityUnavailable)
	})

	t.Run("Missing Channel", func(t *testing.T) {
		a := testActivity()
		a.ChannelID = ""
		_, err := state.StorageKey(state.ScopeConversation, a)
		assert.ErrorIs(t, err, domain.ErrScopeIdentityUnavailable)
	})
}

func TestProperties_ReadYourWrites(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	props, err := state.Load(ctx, store, state.ScopeUser, testActivity())
	require.NoError(t, err)

	require.NoError(t, props.Set("guest", guestInfo{Name: "Ada"}))

	// A write is visible to a later read in the same turn, before any save.
	var guest guestInfo
	require.NoError(t, props.Get("guest", &guest))
	assert.Equal(t, "Ada", guest.Name)

	// Storage stays untouched until Save.
	fresh, err := state.Load(ctx, store, state.ScopeUser, testActivity())
	require.NoError(t, err)
	assert.ErrorIs(t, fresh.Get("guest", &guest), domain.ErrPropertyNotFound)

	require.NoError(t, props.Save(ctx))

	fresh, err = state.Load(ctx, store, state.ScopeUser, testActivity())
	require.NoError(t, err)
	require.NoError(t, fresh.Get("guest", &guest))
	assert.Equal(t, "Ada", guest.Name)
}

func TestProperties_AbandonedTurnLeavesStorageUntouched(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	props, err := state.Load(ctx, store, state.ScopeConversation, testActivity())
	require.NoError(t, err)
	require.NoError(t, props.Set("guest", guestInfo{Name: "Ada"}))
	require.NoError(t, props.Save(ctx))

	// Mutate without saving, as a failed turn would.
	props, err = state.Load(ctx, store, state.ScopeConversation, testActivity())
	require.NoError(t, err)
	require.NoError(t, props.Set("guest", guestInfo{Name: "Mallory"}))

	fresh, err := state.Load(ctx, store, state.ScopeConversation, testActivity())
	require.NoError(t, err)
	var guest guestInfo
	require.NoError(t, fresh.Get("guest", &guest))
	assert.Equal(t, "Ada", guest.Name)
}

func TestProperties_ScopesAreIndependent(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	conv, err := state.Load(ctx, store, state.ScopeConversation, testActivity())
	require.NoError(t, err)
	user, err := state.Load(ctx, store, state.ScopeUser, testActivity())
	require.NoError(t, err)

	require.NoError(t, conv.Set("note", "in conversation"))
	require.NoError(t, conv.Save(ctx))

	var note string
	assert.ErrorIs(t, user.Get("note", &note), domain.ErrPropertyNotFound)
}

func TestProperties_DeleteAndDirty(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	props, err := state.Load(ctx, store, state.ScopeUser, testActivity())
	require.NoError(t, err)
	assert.False(t, props.Dirty())

	require.NoError(t, props.Set("guest", guestInfo{Name: "Ada"}))
	require.NoError(t, props.Save(ctx))
	assert.False(t, props.Dirty())

	props.Delete("guest")
	assert.True(t, props.Dirty())
	require.NoError(t, props.Save(ctx))

	fresh, err := state.Load(ctx, store, state.ScopeUser, testActivity())
	require.NoError(t, err)
	var guest guestInfo
	assert.ErrorIs(t, fresh.Get("guest", &guest), domain.ErrPropertyNotFound)
}

func TestAccessor(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	t.Run("Without Factory Fails Loudly", func(t *testing.T) {
		props, err := state.Load(ctx, store, state.ScopeUser, testActivity())
		require.NoError(t, err)

		accessor := state.NewAccessor[guestInfo]("guest")
		_, err = accessor.Get(props)
		assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
	})

	t.Run("Factory Materializes And Stages", func(t *testing.T) {
		props, err := state.Load(ctx, store, state.ScopeConversation, testActivity())
		require.NoError(t, err)

		accessor := state.NewAccessorWithFactory("stack", domain.NewStack)
		stack, err := accessor.Get(props)
		require.NoError(t, err)
		require.NotNil(t, stack)
		assert.True(t, stack.Empty())
		assert.True(t, props.Dirty())
	})

	t.Run("Round Trip", func(t *testing.T) {
		props, err := state.Load(ctx, store, state.ScopeConversation, testActivity())
		require.NoError(t, err)

		accessor := state.NewAccessorWithFactory("stack", domain.NewStack)
		stack, err := accessor.Get(props)
		require.NoError(t, err)
		stack.Push(domain.NewFrame("main"))
		require.NoError(t, accessor.Set(props, stack))
		require.NoError(t, props.Save(ctx))

		props, err = state.Load(ctx, store, state.ScopeConversation, testActivity())
		require.NoError(t, err)
		stack, err = accessor.Get(props)
		require.NoError(t, err)
		require.Equal(t, 1, stack.Depth())
		assert.Equal(t, "main", stack.Top().DialogID)
	})
}

package turn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/turn"
)

func incoming() *domain.Activity {
	a := domain.NewMessage("hi")
	a.ChannelID = "test"
	a.Conversation = domain.ChannelAccount{ID: "conv-1"}
	a.From = domain.ChannelAccount{ID: "user-1"}
	a.Recipient = domain.ChannelAccount{ID: "bot"}
	return a
}

func TestContext_SendFillsReplyAddressing(t *testing.T) {
	var delivered []*domain.Activity
	tc := turn.New(incoming(), func(ctx context.Context, a *domain.Activity) error {
		delivered = append(delivered, a)
		return nil
	})

	require.False(t, tc.Responded())
	require.NoError(t, tc.SendText(context.Background(), "hello"))

	require.Len(t, delivered, 1)
	reply := delivered[0]
	assert.Equal(t, "test", reply.ChannelID)
	assert.Equal(t, "conv-1", reply.Conversation.ID)
	assert.Equal(t, "bot", reply.From.ID)
	assert.Equal(t, "user-1", reply.Recipient.ID)
	assert.NotEmpty(t, reply.ID)
	assert.False(t, reply.Timestamp.IsZero())

	assert.True(t, tc.Responded())
	assert.Equal(t, delivered, tc.Sent())
}

func TestContext_SendNilActivityFails(t *testing.T) {
	tc := turn.New(incoming(), func(ctx context.Context, a *domain.Activity) error { return nil })
	require.Error(t, tc.Send(context.Background(), nil))
	assert.False(t, tc.Responded())
}

func TestContext_ResponderFailureIsNotRecordedAsSent(t *testing.T) {
	boom := errors.New("transport down")
	tc := turn.New(incoming(), func(ctx context.Context, a *domain.Activity) error { return boom })

	err := tc.SendText(context.Background(), "hello")
	require.ErrorIs(t, err, boom)
	assert.False(t, tc.Responded())
	assert.Empty(t, tc.Sent())
}

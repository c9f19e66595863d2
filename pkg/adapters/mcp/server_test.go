package mcp

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	botplayground "github.com/adamhockemeyer/BotPlayground-v4"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
)

func newEchoServer(t *testing.T) *Server {
	t.Helper()
	reg := dialog.NewRegistry(
		dialog.NewStepSequence("echo",
			func(ctx context.Context, step *dialog.Step) (domain.StepAction, error) {
				if err := step.Turn.SendText(ctx, "you said: "+step.Turn.Activity().Text); err != nil {
					return domain.StepAction{}, err
				}
				return domain.EndDialog(nil), nil
			},
		),
	)
	bot, err := botplayground.New("echo", reg)
	require.NoError(t, err)
	return NewServer(bot, reg)
}

func TestSendMessage(t *testing.T) {
	s := newEchoServer(t)

	resp, err := s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"conversation_id": "conv-1",
		"text":            "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TurnComplete, resp.Status)
	require.Len(t, resp.Activities, 1)
	assert.Equal(t, "you said: hello", resp.Activities[0].Text)
}

func TestSendMessage_RequiresArguments(t *testing.T) {
	s := newEchoServer(t)

	_, err := s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"text": "hello",
	})
	require.Error(t, err)
}

func TestResetConversation(t *testing.T) {
	s := newEchoServer(t)

	_, err := s.handleSendMessage(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"conversation_id": "conv-1",
		"text":            "hello",
	})
	require.NoError(t, err)

	resp, err := s.handleResetConversation(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"conversation_id": "conv-1",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Activities)
}

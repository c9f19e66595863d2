// Package mcp exposes a bot as an MCP server, so agent hosts can hold a
// conversation with it over the Model Context Protocol. Each send_message
// call is one turn; the bot's replies come back in the structured result.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	botplayground "github.com/adamhockemeyer/BotPlayground-v4"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/dialog"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/turn"
)

// Bot is the part of the engine facade the MCP server needs.
type Bot interface {
	ProcessActivity(ctx context.Context, activity *domain.Activity, respond turn.Responder) (domain.TurnResult, error)
}

// TurnResponse is the structured result of one processed turn.
type TurnResponse struct {
	Status     domain.TurnStatus  `json:"status" jsonschema_description:"Whether the conversation is waiting for input or completed"`
	Activities []*domain.Activity `json:"activities" jsonschema_description:"The activities the bot sent during the turn, in order"`
}

// Server wraps a bot and exposes it over MCP.
type Server struct {
	bot       Bot
	registry  *dialog.Registry
	mcpServer *server.MCPServer
}

// NewServer builds the MCP server for a bot. The registry is optional; when
// present the registered dialog ids are exposed as a resource.
func NewServer(bot Bot, registry *dialog.Registry) *Server {
	s := &Server{
		bot:       bot,
		registry:  registry,
		mcpServer: server.NewMCPServer("botplayground-mcp", botplayground.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send a user message to the bot and receive its replies for that turn."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation identifier; reuse it to continue a dialog")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The user's message text")),
		mcp.WithString("user_id", mcp.Description("User identifier (defaults to 'mcp-user')")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	startTool := mcp.NewTool("start_conversation",
		mcp.WithDescription("Join a conversation, triggering the bot's welcome flow."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation identifier")),
		mcp.WithString("user_id", mcp.Description("User identifier (defaults to 'mcp-user')")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStartConversation))

	resetTool := mcp.NewTool("reset_conversation",
		mcp.WithDescription("End a conversation and clear its persisted dialog state."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation identifier")),
		mcp.WithString("user_id", mcp.Description("User identifier (defaults to 'mcp-user')")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleResetConversation))
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (TurnResponse, error) {
	conversationID, _ := args["conversation_id"].(string)
	text, _ := args["text"].(string)
	if conversationID == "" || text == "" {
		return TurnResponse{}, fmt.Errorf("conversation_id and text are required")
	}

	activity := domain.NewMessage(text)
	s.address(activity, conversationID, userID(args))
	return s.processTurn(ctx, activity)
}

func (s *Server) handleStartConversation(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (TurnResponse, error) {
	conversationID, _ := args["conversation_id"].(string)
	if conversationID == "" {
		return TurnResponse{}, fmt.Errorf("conversation_id is required")
	}

	user := userID(args)
	activity := &domain.Activity{
		Type:         domain.ActivityConversationUpdate,
		MembersAdded: []domain.ChannelAccount{{ID: user}},
	}
	s.address(activity, conversationID, user)
	return s.processTurn(ctx, activity)
}

func (s *Server) handleResetConversation(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (TurnResponse, error) {
	conversationID, _ := args["conversation_id"].(string)
	if conversationID == "" {
		return TurnResponse{}, fmt.Errorf("conversation_id is required")
	}

	activity := &domain.Activity{Type: domain.ActivityEndOfConversation}
	s.address(activity, conversationID, userID(args))
	return s.processTurn(ctx, activity)
}

func (s *Server) address(a *domain.Activity, conversationID, user string) {
	a.ChannelID = "mcp"
	a.Conversation = domain.ChannelAccount{ID: conversationID}
	a.From = domain.ChannelAccount{ID: user}
	a.Recipient = domain.ChannelAccount{ID: "bot"}
}

func (s *Server) processTurn(ctx context.Context, activity *domain.Activity) (TurnResponse, error) {
	sent := []*domain.Activity{}
	respond := func(ctx context.Context, a *domain.Activity) error {
		sent = append(sent, a)
		return nil
	}

	result, err := s.bot.ProcessActivity(ctx, activity, respond)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("turn failed: %w", err)
	}
	return TurnResponse{Status: result.Status, Activities: sent}, nil
}

func userID(args map[string]any) string {
	if id, ok := args["user_id"].(string); ok && id != "" {
		return id
	}
	return "mcp-user"
}

func (s *Server) registerResources() {
	if s.registry == nil {
		return
	}
	s.mcpServer.AddResource(mcp.NewResource("botplayground://dialogs", "Registered Dialogs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		raw, err := json.Marshal(s.registry.IDs())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal dialog ids: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "botplayground://dialogs",
				MIMEType: "application/json",
				Text:     string(raw),
			},
		}, nil
	})
}

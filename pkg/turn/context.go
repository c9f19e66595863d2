// Package turn provides the per-invocation handle a dialog step uses to read
// the incoming activity and send outgoing ones.
package turn

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
)

// Responder delivers one outbound activity to the transport.
type Responder func(ctx context.Context, activity *domain.Activity) error

// Context bundles the incoming activity, the ability to send outgoing
// activities, and the "has a response been sent this turn" flag the
// application layer uses for fallback routing.
//
// A Context lives for exactly one turn and is not safe for concurrent use.
type Context struct {
	activity  *domain.Activity
	respond   Responder
	responded bool
	sent      []*domain.Activity
}

// New creates a turn context for one incoming activity.
func New(activity *domain.Activity, respond Responder) *Context {
	return &Context{
		activity: activity,
		respond:  respond,
	}
}

// Activity returns the incoming activity for this turn.
func (c *Context) Activity() *domain.Activity {
	return c.activity
}

// Responded reports whether any activity has been sent this turn.
func (c *Context) Responded() bool {
	return c.responded
}

// Sent returns the activities sent so far this turn, in order.
func (c *Context) Sent() []*domain.Activity {
	return c.sent
}

// Send delivers an outbound activity, stamping a fresh id and timestamp and
// filling in reply addressing from the incoming activity where absent.
func (c *Context) Send(ctx context.Context, activity *domain.Activity) error {
	if activity == nil {
		return fmt.Errorf("cannot send nil activity")
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.Timestamp.IsZero() {
		activity.Timestamp = time.Now().UTC()
	}
	if activity.ChannelID == "" {
		activity.ChannelID = c.activity.ChannelID
	}
	if activity.Conversation.ID == "" {
		activity.Conversation = c.activity.Conversation
	}
	if activity.From.ID == "" {
		activity.From = c.activity.Recipient
	}
	if activity.Recipient.ID == "" {
		activity.Recipient = c.activity.From
	}

	if err := c.respond(ctx, activity); err != nil {
		return fmt.Errorf("failed to send activity: %w", err)
	}

	c.responded = true
	c.sent = append(c.sent, activity)
	return nil
}

// SendText delivers a plain text message reply.
func (c *Context) SendText(ctx context.Context, text string) error {
	return c.Send(ctx, c.activity.CreateReply(text))
}

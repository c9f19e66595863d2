package domain

import "time"

// ActivityType classifies an inbound or outbound activity.
type ActivityType string

const (
	// ActivityMessage is the main activity type shown within a conversational
	// interface. Message activities may carry text, a structured value, or
	// attachments.
	ActivityMessage ActivityType = "message"

	// ActivityConversationUpdate signals membership changes in a conversation.
	// Not all channels emit it.
	ActivityConversationUpdate ActivityType = "conversationUpdate"

	// ActivityEndOfConversation signals that a conversation has ended.
	ActivityEndOfConversation ActivityType = "endOfConversation"

	// ActivityTyping is a transient "the bot is working" indicator.
	ActivityTyping ActivityType = "typing"
)

// ChannelAccount identifies a participant (user or bot) on a channel.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Attachment is an opaque rich-content payload carried by an activity.
// The engine never interprets Content; only dialogs and renderers do.
type Attachment struct {
	ContentType string `json:"contentType"`
	Content     any    `json:"content,omitempty"`
	ContentURL  string `json:"contentUrl,omitempty"`
	Name        string `json:"name,omitempty"`
}

// Activity is one unit of communication between a user and the bot.
// The engine treats Text and Value as opaque raw input; dialogs decide what
// they mean.
type Activity struct {
	Type         ActivityType     `json:"type"`
	ID           string           `json:"id,omitempty"`
	Timestamp    time.Time        `json:"timestamp,omitempty"`
	ChannelID    string           `json:"channelId"`
	Conversation ChannelAccount   `json:"conversation"`
	From         ChannelAccount   `json:"from"`
	Recipient    ChannelAccount   `json:"recipient,omitempty"`
	Text         string           `json:"text,omitempty"`
	Value        any              `json:"value,omitempty"`
	MembersAdded []ChannelAccount `json:"membersAdded,omitempty"`
	Attachments  []Attachment     `json:"attachments,omitempty"`
}

// NewMessage builds a plain text message activity.
func NewMessage(text string) *Activity {
	return &Activity{Type: ActivityMessage, Text: text}
}

// Result returns the raw input an activity carries for the active step:
// the structured Value when present (e.g. a card postback), otherwise Text.
func (a *Activity) Result() any {
	if a.Value != nil {
		return a.Value
	}
	return a.Text
}

// CreateReply builds an outbound activity addressed back to the sender,
// swapping From and Recipient and inheriting channel and conversation.
func (a *Activity) CreateReply(text string) *Activity {
	return &Activity{
		Type:         ActivityMessage,
		ChannelID:    a.ChannelID,
		Conversation: a.Conversation,
		From:         a.Recipient,
		Recipient:    a.From,
		Text:         text,
	}
}

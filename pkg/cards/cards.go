// Package cards provides rich card payloads that travel as activity
// attachments. The engine never looks inside them; channels render them and
// post the chosen action's value back as the turn's input.
package cards

import "github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"

// Attachment content types for the card payloads in this package.
const (
	HeroContentType      = "application/vnd.microsoft.card.hero"
	ThumbnailContentType = "application/vnd.microsoft.card.thumbnail"
	ReceiptContentType   = "application/vnd.microsoft.card.receipt"
)

// CardAction types.
const (
	ActionImBack   = "imBack"
	ActionOpenURL  = "openUrl"
	ActionPostBack = "postBack"
)

// CardAction is a button or tap target on a card.
type CardAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// CardImage is an image rendered on a card.
type CardImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// HeroCard is a large card with a prominent image, text, and buttons.
type HeroCard struct {
	Title    string       `json:"title,omitempty"`
	Subtitle string       `json:"subtitle,omitempty"`
	Text     string       `json:"text,omitempty"`
	Images   []CardImage  `json:"images,omitempty"`
	Buttons  []CardAction `json:"buttons,omitempty"`
}

// ToAttachment wraps the card for an activity.
func (c HeroCard) ToAttachment() domain.Attachment {
	return domain.Attachment{ContentType: HeroContentType, Content: c}
}

// ThumbnailCard is a compact card with a small image.
type ThumbnailCard struct {
	Title    string       `json:"title,omitempty"`
	Subtitle string       `json:"subtitle,omitempty"`
	Text     string       `json:"text,omitempty"`
	Images   []CardImage  `json:"images,omitempty"`
	Buttons  []CardAction `json:"buttons,omitempty"`
}

// ToAttachment wraps the card for an activity.
func (c ThumbnailCard) ToAttachment() domain.Attachment {
	return domain.Attachment{ContentType: ThumbnailContentType, Content: c}
}

// ReceiptItem is one line on a receipt card.
type ReceiptItem struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Quantity string `json:"quantity,omitempty"`
	Price    string `json:"price,omitempty"`
}

// ReceiptCard summarizes a transaction.
type ReceiptCard struct {
	Title   string        `json:"title,omitempty"`
	Items   []ReceiptItem `json:"items,omitempty"`
	Tax     string        `json:"tax,omitempty"`
	Total   string        `json:"total,omitempty"`
	Buttons []CardAction  `json:"buttons,omitempty"`
}

// ToAttachment wraps the card for an activity.
func (c ReceiptCard) ToAttachment() domain.Attachment {
	return domain.Attachment{ContentType: ReceiptContentType, Content: c}
}

// ImBack builds an action that echoes value back as the user's message.
func ImBack(title, value string) CardAction {
	return CardAction{Type: ActionImBack, Title: title, Value: value}
}

// Message builds a message activity carrying text and the given cards.
func Message(text string, attachments ...domain.Attachment) *domain.Activity {
	activity := domain.NewMessage(text)
	activity.Attachments = attachments
	return activity
}

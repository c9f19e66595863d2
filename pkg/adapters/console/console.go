// Package console runs a bot as an interactive terminal chat. Outbound
// activities are rendered as markdown when stdout is a terminal; card
// attachments are flattened into markdown so their buttons stay usable as
// typed replies.
package console

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/uuid"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/adamhockemeyer/BotPlayground-v4/internal/logging"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/cards"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/turn"
)

// Bot is the part of the engine facade the console needs.
type Bot interface {
	ProcessActivity(ctx context.Context, activity *domain.Activity, respond turn.Responder) (domain.TurnResult, error)
}

// Console drives a single-user conversation over stdin/stdout.
type Console struct {
	bot    Bot
	in     io.Reader
	out    io.Writer
	logger *slog.Logger
	userID string

	render func(string) (string, error)
}

// Option configures the Console.
type Option func(*Console)

// WithIO replaces stdin/stdout, mainly for tests. Markdown styling is
// disabled because the writer is assumed not to be a terminal.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Console) {
		c.in = in
		c.out = out
		c.render = nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserID sets the user identity for the conversation.
func WithUserID(id string) Option {
	return func(c *Console) {
		c.userID = id
	}
}

// New builds a console for a bot.
func New(bot Bot, opts ...Option) *Console {
	c := &Console{
		bot:    bot,
		in:     os.Stdin,
		out:    os.Stdout,
		logger: logging.NewNop(),
		userID: "console-user",
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		c.render = newMarkdownRenderer()
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newMarkdownRenderer renders markdown with glamour, auto-detecting the
// terminal background.
func newMarkdownRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return nil
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Run starts a fresh conversation and loops until EOF, "quit", or context
// cancellation. The conversation gets a random ID, so each run starts clean
// even against a persistent store.
func (c *Console) Run(ctx context.Context) error {
	conversationID := uuid.NewString()

	respond := func(ctx context.Context, a *domain.Activity) error {
		c.print(a)
		return nil
	}

	join := &domain.Activity{
		Type:         domain.ActivityConversationUpdate,
		ChannelID:    "console",
		Conversation: domain.ChannelAccount{ID: conversationID},
		From:         domain.ChannelAccount{ID: c.userID},
		Recipient:    domain.ChannelAccount{ID: "bot"},
		MembersAdded: []domain.ChannelAccount{{ID: c.userID}},
	}
	if _, err := c.bot.ProcessActivity(ctx, join, respond); err != nil {
		return fmt.Errorf("conversation start failed: %w", err)
	}

	scanner := bufio.NewScanner(newInterruptibleReader(c.in, ctx.Done()))
	for {
		fmt.Fprint(c.out, c.promptText())
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !errors.Is(err, errInterrupted) {
				return err
			}
			fmt.Fprintln(c.out)
			return ctx.Err()
		}

		text := strings.TrimSpace(scanner.Text())
		switch text {
		case "":
			continue
		case "quit", "exit", "/quit":
			c.endConversation(ctx, conversationID, respond)
			return nil
		}

		activity := domain.NewMessage(text)
		activity.ChannelID = "console"
		activity.Conversation = domain.ChannelAccount{ID: conversationID}
		activity.From = domain.ChannelAccount{ID: c.userID}
		activity.Recipient = domain.ChannelAccount{ID: "bot"}

		if _, err := c.bot.ProcessActivity(ctx, activity, respond); err != nil {
			c.logger.Error("turn failed", "err", err)
			fmt.Fprintf(c.out, ">>> something went wrong: %v\n", err)
		}
	}
}

// endConversation lets the bot clear its conversation state before exit.
func (c *Console) endConversation(ctx context.Context, conversationID string, respond turn.Responder) {
	end := &domain.Activity{
		Type:         domain.ActivityEndOfConversation,
		ChannelID:    "console",
		Conversation: domain.ChannelAccount{ID: conversationID},
		From:         domain.ChannelAccount{ID: c.userID},
		Recipient:    domain.ChannelAccount{ID: "bot"},
	}
	if _, err := c.bot.ProcessActivity(ctx, end, respond); err != nil {
		c.logger.Warn("end of conversation failed", "err", err)
	}
}

func (c *Console) promptText() string {
	if c.render == nil {
		return "> "
	}
	return termenv.String("> ").Bold().String()
}

// print renders one outbound activity. Text and attachments each become a
// markdown block.
func (c *Console) print(a *domain.Activity) {
	var blocks []string
	if a.Text != "" {
		blocks = append(blocks, a.Text)
	}
	for _, att := range a.Attachments {
		blocks = append(blocks, attachmentMarkdown(att))
	}

	for _, block := range blocks {
		if c.render != nil {
			if out, err := c.render(block); err == nil {
				fmt.Fprint(c.out, out)
				continue
			}
		}
		fmt.Fprintln(c.out, block)
	}
}

// attachmentMarkdown flattens a card into markdown. Unknown content types
// fall back to their JSON form so nothing is silently dropped.
func attachmentMarkdown(att domain.Attachment) string {
	switch content := att.Content.(type) {
	case cards.HeroCard:
		return cardMarkdown(content.Title, content.Subtitle, content.Text, content.Images, content.Buttons)
	case cards.ThumbnailCard:
		return cardMarkdown(content.Title, content.Subtitle, content.Text, content.Images, content.Buttons)
	case cards.ReceiptCard:
		return receiptMarkdown(content)
	default:
		raw, err := json.Marshal(att.Content)
		if err != nil {
			return fmt.Sprintf("[unrenderable attachment: %s]", att.ContentType)
		}
		return fmt.Sprintf("```json\n%s\n```", raw)
	}
}

func cardMarkdown(title, subtitle, text string, images []cards.CardImage, buttons []cards.CardAction) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "## %s\n", title)
	}
	if subtitle != "" {
		fmt.Fprintf(&b, "*%s*\n\n", subtitle)
	}
	if text != "" {
		fmt.Fprintf(&b, "%s\n", text)
	}
	for _, img := range images {
		fmt.Fprintf(&b, "![%s](%s)\n", img.Alt, img.URL)
	}
	if len(buttons) > 0 {
		b.WriteString("\n")
		for _, action := range buttons {
			fmt.Fprintf(&b, "- **%s** (reply: %s)\n", action.Title, action.Value)
		}
	}
	return b.String()
}

func receiptMarkdown(card cards.ReceiptCard) string {
	var b strings.Builder
	if card.Title != "" {
		fmt.Fprintf(&b, "## %s\n\n", card.Title)
	}
	b.WriteString("| Item | Qty | Price |\n|---|---|---|\n")
	for _, item := range card.Items {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", item.Title, item.Quantity, item.Price)
	}
	if card.Tax != "" {
		fmt.Fprintf(&b, "\nTax: %s\n", card.Tax)
	}
	if card.Total != "" {
		fmt.Fprintf(&b, "\n**Total: %s**\n", card.Total)
	}
	return b.String()
}

var errInterrupted = errors.New("interrupted")

// interruptibleReader fails reads once the done channel closes, so a blocked
// stdin read does not keep the process alive after cancellation.
type interruptibleReader struct {
	base io.Reader
	done <-chan struct{}
}

func newInterruptibleReader(base io.Reader, done <-chan struct{}) *interruptibleReader {
	return &interruptibleReader{base: base, done: done}
}

func (r *interruptibleReader) Read(p []byte) (int, error) {
	select {
	case <-r.done:
		return 0, errInterrupted
	default:
	}

	n, err := r.base.Read(p)

	select {
	case <-r.done:
		return 0, errInterrupted
	default:
	}
	return n, err
}

package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/turn"
)

// Recognizer extracts a typed value from the raw incoming activity.
// It returns domain.ErrNotRecognized (possibly wrapped) when the input cannot
// be interpreted; that failure is expected and drives the retry loop.
type Recognizer func(activity *domain.Activity, opts domain.PromptOptions) (any, error)

// Validator decides whether a recognized value is acceptable. Returning
// false re-prompts; the validator may send its own retry message, in which
// case the prompt's generic retry text is suppressed. A non-nil error is a
// structural failure, not a rejection.
type Validator func(ctx context.Context, tc *turn.Context, value any) (bool, error)

// NewTextPrompt builds a prompt that accepts any non-empty text.
func NewTextPrompt(id string, validate Validator) *Dialog {
	return &Dialog{ID: id, Kind: KindPrompt, Recognize: RecognizeText, Validate: validate}
}

// NewNumberPrompt builds a prompt that recognizes an integer.
func NewNumberPrompt(id string, validate Validator) *Dialog {
	return &Dialog{ID: id, Kind: KindPrompt, Recognize: RecognizeNumber, Validate: validate}
}

// NewChoicePrompt builds a prompt that matches input against the choices in
// its options, by name or by 1-based position.
func NewChoicePrompt(id string, validate Validator) *Dialog {
	return &Dialog{ID: id, Kind: KindPrompt, Recognize: RecognizeChoice, Validate: validate}
}

// NewDateTimePrompt builds a prompt that recognizes a date or time.
func NewDateTimePrompt(id string, validate Validator) *Dialog {
	return &Dialog{ID: id, Kind: KindPrompt, Recognize: RecognizeDateTime, Validate: validate}
}

// NewPrompt builds a prompt with a custom recognizer.
func NewPrompt(id string, recognize Recognizer, validate Validator) *Dialog {
	return &Dialog{ID: id, Kind: KindPrompt, Recognize: recognize, Validate: validate}
}

// rawText extracts the textual form of the incoming input, preferring a card
// postback value over typed text.
func rawText(activity *domain.Activity) string {
	if s, ok := activity.Value.(string); ok && s != "" {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(activity.Text)
}

// RecognizeText accepts any non-empty text.
func RecognizeText(activity *domain.Activity, _ domain.PromptOptions) (any, error) {
	text := rawText(activity)
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrNotRecognized)
	}
	return text, nil
}

// RecognizeNumber accepts an integer, either as typed text or as a numeric
// card postback value.
func RecognizeNumber(activity *domain.Activity, _ domain.PromptOptions) (any, error) {
	switch v := activity.Value.(type) {
	case int:
		return v, nil
	case float64:
		if v == float64(int(v)) {
			return int(v), nil
		}
	}
	n, err := strconv.Atoi(rawText(activity))
	if err != nil {
		return nil, fmt.Errorf("%w: not a number", domain.ErrNotRecognized)
	}
	return n, nil
}

// RecognizeChoice matches input against opts.Choices, either by
// case-insensitive name or by 1-based index, and returns the canonical
// choice string.
func RecognizeChoice(activity *domain.Activity, opts domain.PromptOptions) (any, error) {
	text := rawText(activity)
	if text == "" || len(opts.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choice given", domain.ErrNotRecognized)
	}

	for _, choice := range opts.Choices {
		if strings.EqualFold(choice, text) {
			return choice, nil
		}
	}

	if idx, err := strconv.Atoi(text); err == nil && idx >= 1 && idx <= len(opts.Choices) {
		return opts.Choices[idx-1], nil
	}

	return nil, fmt.Errorf("%w: %q is not one of the choices", domain.ErrNotRecognized, text)
}

// dateTimeLayouts are tried in order by RecognizeDateTime. Date-only input
// resolves to midnight local time; time-only input resolves to today.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"15:04",
	"3:04 PM",
	"3:04pm",
}

// RecognizeDateTime parses a date and/or time from the input.
func RecognizeDateTime(activity *domain.Activity, _ domain.PromptOptions) (any, error) {
	text := rawText(activity)
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrNotRecognized)
	}

	now := time.Now()
	for _, layout := range dateTimeLayouts {
		parsed, err := time.ParseInLocation(layout, text, now.Location())
		if err != nil {
			continue
		}
		// Layouts without a date component parse into year zero; pin them
		// to today.
		if parsed.Year() == 0 {
			parsed = time.Date(now.Year(), now.Month(), now.Day(),
				parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
		}
		return parsed, nil
	}

	return nil, fmt.Errorf("%w: %q is not a date or time", domain.ErrNotRecognized, text)
}

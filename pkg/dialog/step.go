package dialog

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/turn"
)

// ErrValueNotSet is returned by DecodeValue when the requested frame value
// has never been stored.
var ErrValueNotSet = errors.New("frame value not set")

// StepFunc is one step of a waterfall dialog. Steps are pure orchestration:
// they read ambient state, optionally send activities through step.Turn, and
// return the tagged action that tells the engine what happens next.
type StepFunc func(ctx context.Context, step *Step) (domain.StepAction, error)

// Step is the context handed to a StepFunc.
type Step struct {
	// Turn is the current turn context.
	Turn *turn.Context

	// Index is the zero-based position of this step within its dialog.
	Index int

	// Values is the frame-local scratch map. It survives suspensions; after
	// a persistence round-trip typed entries come back as map[string]any,
	// so read them with DecodeValue.
	Values map[string]any

	// Result is the previous step's result: the options passed at begin for
	// step zero, the recognized prompt value or child dialog result after a
	// resume, or the raw incoming activity result after an end of turn.
	Result any

	// Options is the value passed when the dialog was begun.
	Options any
}

// DecodeValue reads a frame value into out, tolerating the map[string]any
// shape values take after a round-trip through persistence.
func DecodeValue(values map[string]any, key string, out any) error {
	raw, ok := values[key]
	if !ok {
		return fmt.Errorf("%w: %q", ErrValueNotSet, key)
	}
	return decodeLoose(raw, out)
}

// DecodeOptions reads the options a dialog was begun with into out. A nil
// options value leaves out untouched.
func DecodeOptions(options, out any) error {
	if options == nil {
		return nil
	}
	return decodeLoose(options, out)
}

// decodeLoose maps between typed structs and the generic maps produced by
// JSON persistence, honoring json tags and weak numeric conversion (JSON
// numbers arrive as float64).
func decodeLoose(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("failed to decode value: %w", err)
	}
	return nil
}

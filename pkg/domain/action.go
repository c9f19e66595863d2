package domain

// ActionKind discriminates the tagged union a dialog step returns to the
// engine. All kinds except EndOfTurn and Prompt are resolved synchronously
// within the same turn.
type ActionKind string

const (
	// ActionEndOfTurn suspends the turn; the active frame is resumed at its
	// next step when the following activity arrives.
	ActionEndOfTurn ActionKind = "end_of_turn"

	// ActionPrompt begins a prompt dialog and suspends until its input has
	// been recognized and validated.
	ActionPrompt ActionKind = "prompt"

	// ActionContinue advances to the next step of the same frame immediately,
	// without waiting for user input.
	ActionContinue ActionKind = "continue"

	// ActionEndDialog pops the active frame and resumes the parent with the
	// dialog's result.
	ActionEndDialog ActionKind = "end_dialog"

	// ActionBeginDialog pushes a child dialog frame and runs its first step
	// in the same turn.
	ActionBeginDialog ActionKind = "begin_dialog"

	// ActionReplaceDialog pops the active frame and begins the named dialog
	// in a fresh frame, keeping the stack depth unchanged.
	ActionReplaceDialog ActionKind = "replace_dialog"
)

// PromptOptions configures one suspension of a prompt dialog.
type PromptOptions struct {
	// Prompt is the message sent when the prompt begins.
	Prompt string `json:"prompt,omitempty"`

	// RetryPrompt is sent after the recognizer or validator rejects input,
	// unless the validator already responded itself.
	RetryPrompt string `json:"retryPrompt,omitempty"`

	// Choices constrains a choice prompt to a fixed list.
	Choices []string `json:"choices,omitempty"`
}

// StepAction is the closed result union returned by every dialog step.
// Construct values with the helpers below rather than literal structs.
type StepAction struct {
	Kind     ActionKind
	DialogID string
	Result   any
	Options  any
	Prompt   PromptOptions
}

// EndOfTurn suspends the current frame until the next activity arrives.
func EndOfTurn() StepAction {
	return StepAction{Kind: ActionEndOfTurn}
}

// Prompt suspends the current frame behind the named prompt dialog.
func Prompt(dialogID string, opts PromptOptions) StepAction {
	return StepAction{Kind: ActionPrompt, DialogID: dialogID, Prompt: opts}
}

// ContinueWith advances to the next step in the same turn, passing result as
// the next step's input.
func ContinueWith(result any) StepAction {
	return StepAction{Kind: ActionContinue, Result: result}
}

// EndDialog pops the current dialog, returning result to the parent.
func EndDialog(result any) StepAction {
	return StepAction{Kind: ActionEndDialog, Result: result}
}

// BeginDialog pushes the named dialog as a child of the current frame.
func BeginDialog(dialogID string, options any) StepAction {
	return StepAction{Kind: ActionBeginDialog, DialogID: dialogID, Options: options}
}

// ReplaceDialog restarts the stack's top slot with the named dialog. Frame
// values and step index are reset; stack depth is unchanged.
func ReplaceDialog(dialogID string, options any) StepAction {
	return StepAction{Kind: ActionReplaceDialog, DialogID: dialogID, Options: options}
}

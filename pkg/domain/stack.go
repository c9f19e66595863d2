package domain

// PromptState is stored on a frame while its prompt dialog is suspended,
// waiting for the next turn's input. The same options are re-used on every
// retry, so an invalid answer never changes what the user is asked.
type PromptState struct {
	Options PromptOptions `json:"options"`
}

// Frame is one entry in the dialog stack: a dialog identifier paired with its
// progress and local data.
//
// Values is frame-local scratch space; after a round-trip through persistence
// typed entries come back as map[string]any (see dialog.DecodeValue).
// Child holds the sub-stack owned by a composite dialog's frame.
type Frame struct {
	DialogID  string         `json:"dialogId"`
	StepIndex int            `json:"stepIndex"`
	Values    map[string]any `json:"values,omitempty"`
	Options   any            `json:"options,omitempty"`
	Prompt    *PromptState   `json:"prompt,omitempty"`
	Child     *Stack         `json:"child,omitempty"`
}

// NewFrame creates a fresh frame for a dialog at step zero.
func NewFrame(dialogID string) *Frame {
	return &Frame{
		DialogID: dialogID,
		Values:   make(map[string]any),
	}
}

// Stack is the persisted call stack of active dialogs for one conversation.
// Frame 0, if present, is the conversation's root dialog. Only the engine
// mutates the stack; dialogs mutate only the Values of their own frame.
type Stack struct {
	Frames []*Frame `json:"frames,omitempty"`
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Depth reports the number of active frames.
func (s *Stack) Depth() int {
	return len(s.Frames)
}

// Empty reports whether no dialog is active.
func (s *Stack) Empty() bool {
	return len(s.Frames) == 0
}

// Top returns the active frame, or nil when the stack is empty.
func (s *Stack) Top() *Frame {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}

// Push makes frame the active frame.
func (s *Stack) Push(frame *Frame) {
	s.Frames = append(s.Frames, frame)
}

// Pop removes and returns the active frame, or nil when the stack is empty.
func (s *Stack) Pop() *Frame {
	if len(s.Frames) == 0 {
		return nil
	}
	top := s.Frames[len(s.Frames)-1]
	s.Frames = s.Frames[:len(s.Frames)-1]
	return top
}

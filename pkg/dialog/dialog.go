package dialog

import (
	"fmt"
	"sort"
	"sync"
)

// Kind discriminates the closed set of dialog variants. The engine dispatches
// on it with a single switch; extensibility comes from registry composition,
// not from open-ended polymorphism.
type Kind string

const (
	// KindSteps is a linear, ordered script of steps executed one per
	// suspension (a waterfall).
	KindSteps Kind = "steps"

	// KindPrompt is a one-step dialog that collects and validates one piece
	// of typed user input, retrying until the validator approves.
	KindPrompt Kind = "prompt"

	// KindComposite is a namespacing container that owns a nested registry
	// and delegates to its configured initial dialog.
	KindComposite Kind = "composite"
)

// Dialog is one unit of conversational behavior. The populated fields depend
// on Kind; use the constructors rather than literal structs.
type Dialog struct {
	ID   string
	Kind Kind

	// KindSteps
	Steps []StepFunc

	// KindPrompt
	Recognize Recognizer
	Validate  Validator

	// KindComposite
	InitialID string
	Children  *Registry
}

// NewStepSequence builds a waterfall dialog from an ordered list of steps.
func NewStepSequence(id string, steps ...StepFunc) *Dialog {
	return &Dialog{ID: id, Kind: KindSteps, Steps: steps}
}

// NewComposite builds a container dialog that begins initialID from its own
// nested registry when begun.
func NewComposite(id, initialID string, children ...*Dialog) *Dialog {
	return &Dialog{
		ID:        id,
		Kind:      KindComposite,
		InitialID: initialID,
		Children:  NewRegistry(children...),
	}
}

// Registry maps dialog ids to dialogs. It is built once at startup and
// treated as immutable afterwards, so unsynchronized concurrent reads across
// turns are safe; Add is only for wiring time.
type Registry struct {
	mu      sync.RWMutex
	dialogs map[string]*Dialog
}

// NewRegistry creates a registry pre-populated with the given dialogs.
func NewRegistry(dialogs ...*Dialog) *Registry {
	r := &Registry{dialogs: make(map[string]*Dialog)}
	for _, d := range dialogs {
		r.Add(d)
	}
	return r
}

// Add registers a dialog and returns the registry for chaining. Registration
// is append-only; a duplicate or empty id is a wiring bug and panics.
func (r *Registry) Add(d *Dialog) *Registry {
	if d == nil || d.ID == "" {
		panic("dialog registry: cannot add dialog without an id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.dialogs[d.ID]; exists {
		panic(fmt.Sprintf("dialog registry: duplicate dialog id %q", d.ID))
	}
	r.dialogs[d.ID] = d
	return r
}

// Find returns the dialog registered under id.
func (r *Registry) Find(id string) (*Dialog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dialogs[id]
	return d, ok
}

// IDs returns the registered dialog ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.dialogs))
	for id := range r.dialogs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

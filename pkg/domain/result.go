package domain

// TurnStatus reports what the engine did with one resume/advance cycle.
type TurnStatus string

const (
	// TurnWaiting means a dialog suspended (prompt or end of turn) and the
	// conversation is parked in storage until the next activity.
	TurnWaiting TurnStatus = "waiting"

	// TurnComplete means the root dialog fully ended; Value carries its
	// final return value (nil when the stack was already empty).
	TurnComplete TurnStatus = "complete"

	// TurnActiveAndWaiting means a dialog was begun while another was
	// already active, and the new dialog suspended on top of it.
	TurnActiveAndWaiting TurnStatus = "active_and_waiting"
)

// TurnResult is returned by the engine after one resume/advance cycle.
type TurnResult struct {
	Status TurnStatus
	Value  any
}

// Complete builds a TurnComplete result carrying the root dialog's value.
func Complete(value any) TurnResult {
	return TurnResult{Status: TurnComplete, Value: value}
}

// Waiting builds a TurnWaiting result.
func Waiting() TurnResult {
	return TurnResult{Status: TurnWaiting}
}

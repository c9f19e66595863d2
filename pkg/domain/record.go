package domain

import "encoding/json"

// StateRecord is the opaque persisted form of one state scope: property name
// to serialized value. Stores round-trip it without interpreting contents.
type StateRecord map[string]json.RawMessage

// Clone returns a deep copy so no turn ever aliases another turn's record.
func (r StateRecord) Clone() StateRecord {
	if r == nil {
		return nil
	}
	out := make(StateRecord, len(r))
	for k, v := range r {
		buf := make(json.RawMessage, len(v))
		copy(buf, v)
		out[k] = buf
	}
	return out
}

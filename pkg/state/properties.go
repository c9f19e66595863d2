package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/ports"
)

// Properties is the staged view of one scope's record for one turn. Get and
// Set work against the in-memory record, so a write is immediately visible
// to later reads in the same turn. Save is the only durable commit point; a
// turn that returns without saving leaves storage untouched.
//
// A Properties value belongs to a single turn and is not safe for concurrent
// use.
type Properties struct {
	store  ports.StateStore
	scope  Scope
	key    string
	record domain.StateRecord
	dirty  bool
}

// Load reads the scope's record for the activity's addressing. A record that
// does not exist yet loads as empty, not as an error.
func Load(ctx context.Context, store ports.StateStore, scope Scope, activity *domain.Activity) (*Properties, error) {
	key, err := StorageKey(scope, activity)
	if err != nil {
		return nil, err
	}

	record, err := store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load %s state: %w", scope, err)
		}
		record = make(domain.StateRecord)
	}
	if record == nil {
		record = make(domain.StateRecord)
	}

	return &Properties{store: store, scope: scope, key: key, record: record}, nil
}

// Scope returns the scope this view was loaded for.
func (p *Properties) Scope() Scope {
	return p.scope
}

// Key returns the storage key this view was loaded under.
func (p *Properties) Key() string {
	return p.key
}

// Get unmarshals the named property into out. A property that has never been
// set fails with ErrPropertyNotFound; use an Accessor with a factory for the
// create-on-first-read pattern.
func (p *Properties) Get(name string, out any) error {
	raw, ok := p.record[name]
	if !ok {
		return fmt.Errorf("%w: %q in %s state", domain.ErrPropertyNotFound, name, p.scope)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode property %q: %w", name, err)
	}
	return nil
}

// Set stages the named property. The value is marshaled immediately so later
// mutations of the original do not leak into the staged record.
func (p *Properties) Set(name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode property %q: %w", name, err)
	}
	p.record[name] = raw
	p.dirty = true
	return nil
}

// Delete removes the named property from the staged record.
func (p *Properties) Delete(name string) {
	if _, ok := p.record[name]; ok {
		delete(p.record, name)
		p.dirty = true
	}
}

// Dirty reports whether the staged record has diverged from what was loaded.
func (p *Properties) Dirty() bool {
	return p.dirty
}

// Save commits the staged record to storage. Saving a clean view is a no-op.
func (p *Properties) Save(ctx context.Context) error {
	if !p.dirty {
		return nil
	}
	if err := p.store.Save(ctx, p.key, p.record.Clone()); err != nil {
		return fmt.Errorf("failed to save %s state: %w", p.scope, err)
	}
	p.dirty = false
	return nil
}

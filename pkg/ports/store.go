package ports

import (
	"context"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
)

// StateStore persists opaque state records keyed by a scope-derived storage
// key (see state.StorageKey). This is the only durability the engine relies
// on; semantics are last-write-wins per key.
type StateStore interface {
	// Load retrieves the record for a key.
	// Returns domain.ErrRecordNotFound if no record exists.
	Load(ctx context.Context, key string) (domain.StateRecord, error)

	// Save atomically replaces the record for a key.
	Save(ctx context.Context, key string, record domain.StateRecord) error

	// Delete removes the record for a key.
	Delete(ctx context.Context, key string) error

	// List returns the keys of all stored records.
	List(ctx context.Context) ([]string, error)
}

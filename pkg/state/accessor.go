package state

import (
	"errors"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
)

// Accessor is a typed handle to one named property. The optional factory
// turns a missing property into a fresh value instead of an error, staging
// the new value so the same turn reads it back consistently.
type Accessor[T any] struct {
	name    string
	factory func() *T
}

// NewAccessor creates an accessor without a factory; Get fails loudly when
// the property has never been set.
func NewAccessor[T any](name string) Accessor[T] {
	return Accessor[T]{name: name}
}

// NewAccessorWithFactory creates an accessor that materializes a default
// value on first read.
func NewAccessorWithFactory[T any](name string, factory func() *T) Accessor[T] {
	return Accessor[T]{name: name, factory: factory}
}

// Name returns the property name this accessor reads and writes.
func (a Accessor[T]) Name() string {
	return a.name
}

// Get reads the property from the staged view. The returned value is a
// private copy; stage mutations back with Set before saving.
func (a Accessor[T]) Get(p *Properties) (*T, error) {
	value := new(T)
	err := p.Get(a.name, value)
	if err == nil {
		return value, nil
	}
	if errors.Is(err, domain.ErrPropertyNotFound) && a.factory != nil {
		value = a.factory()
		if err := a.Set(p, value); err != nil {
			return nil, err
		}
		return value, nil
	}
	return nil, err
}

// Set stages the property.
func (a Accessor[T]) Set(p *Properties, value *T) error {
	return p.Set(a.name, value)
}

// Delete removes the property from the staged view.
func (a Accessor[T]) Delete(p *Properties) {
	p.Delete(a.name)
}

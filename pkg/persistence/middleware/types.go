// Package middleware wraps StateStore implementations with cross-cutting
// persistence behavior such as encryption at rest.
package middleware

import "github.com/adamhockemeyer/BotPlayground-v4/pkg/ports"

// Middleware wraps a StateStore to add behavior.
type Middleware func(ports.StateStore) ports.StateStore

// Chain composes middlewares so the first one listed sees calls first.
func Chain(store ports.StateStore, middlewares ...Middleware) ports.StateStore {
	for i := len(middlewares) - 1; i >= 0; i-- {
		store = middlewares[i](store)
	}
	return store
}

package state

import "context"

type scopeContextKey struct{ scope Scope }

// WithTurnScopes makes the turn's loaded scopes reachable from inside dialog
// steps, which only see the context and their step handle.
func WithTurnScopes(ctx context.Context, conversation, user *Properties) context.Context {
	if conversation != nil {
		ctx = context.WithValue(ctx, scopeContextKey{ScopeConversation}, conversation)
	}
	if user != nil {
		ctx = context.WithValue(ctx, scopeContextKey{ScopeUser}, user)
	}
	return ctx
}

// ConversationFrom returns the turn's conversation scope, or nil when the
// turn was processed without one.
func ConversationFrom(ctx context.Context) *Properties {
	p, _ := ctx.Value(scopeContextKey{ScopeConversation}).(*Properties)
	return p
}

// UserFrom returns the turn's user scope, or nil when the activity had no
// identifiable sender.
func UserFrom(ctx context.Context) *Properties {
	p, _ := ctx.Value(scopeContextKey{ScopeUser}).(*Properties)
	return p
}

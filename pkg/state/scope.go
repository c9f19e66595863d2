// Package state layers named, scoped properties over the opaque StateStore
// port. Reads and writes are staged in memory during a turn; nothing reaches
// storage until Save.
package state

import (
	"fmt"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
)

// Scope selects whose state a property store holds.
type Scope string

const (
	// ScopeConversation is shared by everyone in one conversation and keyed
	// by channel and conversation id.
	ScopeConversation Scope = "conversation"

	// ScopeUser follows one user across conversations on a channel and is
	// keyed by channel and sender id.
	ScopeUser Scope = "user"
)

// StorageKey derives the storage key for a scope from the incoming
// activity's addressing. It fails with ErrScopeIdentityUnavailable when the
// activity lacks the ids the scope needs, rather than silently sharing state
// under an empty key.
func StorageKey(scope Scope, activity *domain.Activity) (string, error) {
	if activity == nil || activity.ChannelID == "" {
		return "", fmt.Errorf("%w: missing channel id", domain.ErrScopeIdentityUnavailable)
	}

	switch scope {
	case ScopeConversation:
		if activity.Conversation.ID == "" {
			return "", fmt.Errorf("%w: missing conversation id", domain.ErrScopeIdentityUnavailable)
		}
		return fmt.Sprintf("%s/%s/%s", scope, activity.ChannelID, activity.Conversation.ID), nil
	case ScopeUser:
		if activity.From.ID == "" {
			return "", fmt.Errorf("%w: missing sender id", domain.ErrScopeIdentityUnavailable)
		}
		return fmt.Sprintf("%s/%s/%s", scope, activity.ChannelID, activity.From.ID), nil
	default:
		return "", fmt.Errorf("%w: unknown scope %q", domain.ErrScopeIdentityUnavailable, scope)
	}
}

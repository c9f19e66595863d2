package memory_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamhockemeyer/BotPlayground-v4/internal/adapters/memory"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
	"github.com/adamhockemeyer/BotPlayground-v4/pkg/ports"
)

func TestStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, memory.NewStore())
}

func TestStore_CallersDoNotShareMemory(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	record := domain.StateRecord{"stack": json.RawMessage(`{"frames":[]}`)}
	require.NoError(t, store.Save(ctx, "conversation/test/c1", record))

	// Mutating the saved record must not affect what the store returns.
	record["stack"] = json.RawMessage(`"corrupted"`)

	loaded, err := store.Load(ctx, "conversation/test/c1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"frames":[]}`, string(loaded["stack"]))
}

package ports

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamhockemeyer/BotPlayground-v4/pkg/domain"
)

// RunStateStoreContract verifies that a StateStore implementation adheres to
// the interface contract. Every adapter's test suite should call it.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	record := domain.StateRecord{
		"DialogState": json.RawMessage(`{"frames":[{"dialogId":"main","stepIndex":1}]}`),
		"UserInfo":    json.RawMessage(`{"guest":{"name":"Kai"}}`),
	}

	t.Run("Save and Load", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, record), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.JSONEq(t, string(record["DialogState"]), string(loaded["DialogState"]))
		assert.JSONEq(t, string(record["UserInfo"]), string(loaded["UserInfo"]))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})

	t.Run("Last Write Wins", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, record))
		updated := domain.StateRecord{
			"DialogState": json.RawMessage(`{"frames":[]}`),
		}
		require.NoError(t, store.Save(ctx, key, updated))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, `{"frames":[]}`, string(loaded["DialogState"]))
		assert.NotContains(t, loaded, "UserInfo", "Save replaces the whole record")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, record))
		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound, "Load after Delete should return ErrRecordNotFound")
	})

	t.Run("List", func(t *testing.T) {
		k1 := key + "-1"
		k2 := key + "-2"
		require.NoError(t, store.Save(ctx, k1, record))
		require.NoError(t, store.Save(ctx, k2, record))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}

// Package compliance holds the behavioural test suite every storage backend must pass.
package compliance

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/focusboard/internal/storage"
)

// RunStorageComplianceTest runs a standard set of tests against a storage.Bucket implementation.
// setup returns a fresh store and a cleanup function called when the subtest ends.
func RunStorageComplianceTest(t *testing.T, setup func() (storage.Bucket, func())) {
	newKey := func(prefix string) string {
		return prefix + "-" + uuid.New().String()
	}

	t.Run("SetAndGet", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		key := newKey("tasks")
		require.NoError(t, store.Set(ctx, key, []byte(`[{"id":1}]`)))

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":1}]`, string(got))
	})

	t.Run("GetMissingKey", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()

		_, err := store.Get(context.Background(), newKey("missing"))
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		key := newKey("session")
		require.NoError(t, store.Set(ctx, key, []byte(`{"taskId":1}`)))
		require.NoError(t, store.Set(ctx, key, []byte(`{"taskId":2}`)))

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, `{"taskId":2}`, string(got))
	})

	t.Run("Delete", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		key := newKey("session")
		require.NoError(t, store.Set(ctx, key, []byte(`{}`)))
		require.NoError(t, store.Delete(ctx, key))

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, storage.ErrKeyNotFound)

		assert.NoError(t, store.Delete(ctx, key), "deleting twice is not an error")
	})

	t.Run("ReturnedValueIsACopy", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		key := newKey("copy")
		value := []byte(`"abc"`)
		require.NoError(t, store.Set(ctx, key, value))
		value[1] = 'z'

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `"abc"`, string(got))

		got[1] = 'q'
		again, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `"abc"`, string(again))
	})

	t.Run("RejectsInvalidKey", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		assert.ErrorIs(t, store.Set(ctx, "../escape", []byte(`{}`)), storage.ErrInvalidKey)
		_, err := store.Get(ctx, "a/b")
		assert.ErrorIs(t, err, storage.ErrInvalidKey)
	})

	t.Run("ListByPrefix", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		prefix := newKey("snap")
		require.NoError(t, store.Set(ctx, prefix+"-b", []byte(`{"n":2}`)))
		require.NoError(t, store.Set(ctx, prefix+"-a", []byte(`{"n":1}`)))
		require.NoError(t, store.Set(ctx, newKey("other"), []byte(`{}`)))

		entries, err := store.List(ctx, prefix)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, prefix+"-a", entries[0].Key)
		assert.Equal(t, prefix+"-b", entries[1].Key)
		assert.Equal(t, int64(len(`{"n":1}`)), entries[0].Size)
		assert.False(t, entries[0].Updated.IsZero())
	})
}

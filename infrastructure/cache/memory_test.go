package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Chave ausente devolve nil sem erro", func(t *testing.T) {
		store := NewMemoryStore()

		payload, err := store.Get(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, payload)

		exists, err := store.Exists(ctx, "missing")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Set e Get devolvem o payload gravado", func(t *testing.T) {
		store := NewMemoryStore()

		assert.NoError(t, store.Set(ctx, "key", []byte("payload"), time.Hour))

		payload, err := store.Get(ctx, "key")
		assert.NoError(t, err)
		assert.Equal(t, []byte("payload"), payload)

		exists, err := store.Exists(ctx, "key")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("A última gravação vence", func(t *testing.T) {
		store := NewMemoryStore()

		assert.NoError(t, store.Set(ctx, "key", []byte("primeiro"), time.Hour))
		assert.NoError(t, store.Set(ctx, "key", []byte("segundo"), time.Hour))

		payload, err := store.Get(ctx, "key")
		assert.NoError(t, err)
		assert.Equal(t, []byte("segundo"), payload)
	})

	t.Run("Entrada expira após o TTL", func(t *testing.T) {
		store := NewMemoryStore()

		current := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return current }

		assert.NoError(t, store.Set(ctx, "key", []byte("payload"), time.Hour))

		// Ainda dentro do TTL
		current = current.Add(59 * time.Minute)
		payload, err := store.Get(ctx, "key")
		assert.NoError(t, err)
		assert.Equal(t, []byte("payload"), payload)

		// Exatamente no limite a entrada já é considerada expirada
		current = current.Add(time.Minute)
		payload, err = store.Get(ctx, "key")
		assert.NoError(t, err)
		assert.Nil(t, payload)

		exists, err := store.Exists(ctx, "key")
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("TTL zero nunca expira", func(t *testing.T) {
		store := NewMemoryStore()

		current := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return current }

		assert.NoError(t, store.Set(ctx, "key", []byte("payload"), 0))

		current = current.Add(1000 * time.Hour)
		payload, err := store.Get(ctx, "key")
		assert.NoError(t, err)
		assert.Equal(t, []byte("payload"), payload)
	})
}

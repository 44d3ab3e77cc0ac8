package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	t.Run("Stores copies", func(t *testing.T) {
		repo, err := NewRepository(4)
		require.NoError(t, err)

		c := newCart("c-1")
		c.set("rice", 2)
		repo.Put(c)

		c.set("rice", 99)
		got, ok := repo.Get("c-1")
		require.True(t, ok)
		assert.Equal(t, 2, got.Items[0].Quantity)

		got.set("wheat", 1)
		again, _ := repo.Get("c-1")
		assert.Len(t, again.Items, 1)
	})

	t.Run("Evicts least recently used", func(t *testing.T) {
		repo, err := NewRepository(2)
		require.NoError(t, err)

		repo.Put(newCart("a"))
		repo.Put(newCart("b"))
		_, _ = repo.Get("a")
		repo.Put(newCart("c"))

		_, ok := repo.Get("b")
		assert.False(t, ok)
		_, ok = repo.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, repo.Len())
	})

	t.Run("Drops stale schema", func(t *testing.T) {
		repo, err := NewRepository(2)
		require.NoError(t, err)

		old := newCart("c-1")
		old.SchemaVersion = schemaVersion - 1
		repo.Put(old)

		_, ok := repo.Get("c-1")
		assert.False(t, ok)
		assert.Equal(t, 0, repo.Len())
	})

	t.Run("Delete", func(t *testing.T) {
		repo, err := NewRepository(0)
		require.NoError(t, err)
		repo.Put(newCart("c-1"))
		repo.Delete("c-1")
		_, ok := repo.Get("c-1")
		assert.False(t, ok)
	})
}

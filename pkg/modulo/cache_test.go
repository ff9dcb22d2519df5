package modulo_test

import (
	"sync"
	"testing"

	"github.com/aretw0/modfsm/pkg/domain"
	"github.com/aretw0/modfsm/pkg/modulo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetOrBuild(t *testing.T) {
	c := modulo.NewCache(0)

	a, hit, err := c.GetOrBuild(3)
	require.NoError(t, err)
	assert.False(t, hit)

	b, hit, err := c.GetOrBuild(3)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Same(t, a, b)

	_, _, err = c.GetOrBuild(1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, c.Len(), "failed builds are not cached")
}

func TestCache_Limit(t *testing.T) {
	c := modulo.NewCache(2)
	for _, m := range []int{2, 3, 4, 5} {
		_, _, err := c.GetOrBuild(m)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get(5)
	assert.True(t, ok, "latest insert is kept")
	_, ok = c.Get(2)
	assert.False(t, ok, "oldest entry is evicted")
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := modulo.NewCache(2)
	for _, m := range []int{2, 3} {
		_, _, err := c.GetOrBuild(m)
		require.NoError(t, err)
	}

	_, ok := c.Get(2)
	require.True(t, ok)
	_, _, err := c.GetOrBuild(4)
	require.NoError(t, err)

	_, ok = c.Get(3)
	assert.False(t, ok, "3 was the least recently used")
	_, ok = c.Get(2)
	assert.True(t, ok)
}

func TestCache_Remove(t *testing.T) {
	c := modulo.NewCache(0)
	_, _, err := c.GetOrBuild(6)
	require.NoError(t, err)

	c.Remove(6)
	_, ok := c.Get(6)
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestCache_FirstInsertWins(t *testing.T) {
	c := modulo.NewCache(0)
	a1, err := modulo.Build(9)
	require.NoError(t, err)
	a2, err := modulo.Build(9)
	require.NoError(t, err)

	assert.Same(t, a1, c.Put(a1))
	assert.Same(t, a1, c.Put(a2))
}

func TestCache_Concurrent(t *testing.T) {
	c := modulo.NewCache(0)
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			modulus := 2 + i%5
			a, _, err := c.GetOrBuild(modulus)
			assert.NoError(t, err)
			got, err := a.Remainder("1101")
			assert.NoError(t, err)
			assert.Equal(t, 13%modulus, got)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
}

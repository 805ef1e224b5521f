package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityPool_ZeroHandleNeverIssued(t *testing.T) {
	p := NewEntityPool()
	id := p.Create()

	assert.False(t, id.IsZero())
	assert.Equal(t, uint32(1), id.Index())
	assert.False(t, p.Alive(0))
}

func TestEntityPool_DestroyInvalidatesStaleHandle(t *testing.T) {
	p := NewEntityPool()
	first := p.Create()
	p.Destroy(first)

	assert.False(t, p.Alive(first))

	reused := p.Create()
	assert.Equal(t, first.Index(), reused.Index())
	assert.Equal(t, first.Generation()+1, reused.Generation())
	assert.True(t, p.Alive(reused))
	assert.False(t, p.Alive(first), "stale handle must stay dead after slot reuse")
}

func TestEntityPool_DoubleDestroyIsNoop(t *testing.T) {
	p := NewEntityPool()
	id := p.Create()
	p.Destroy(id)
	p.Destroy(id)

	assert.Equal(t, 0, p.Len())
	a := p.Create()
	b := p.Create()
	assert.NotEqual(t, a.Index(), b.Index(), "free list must not hold the slot twice")
}

func TestStore_IDsAreOrdered(t *testing.T) {
	s := NewStore[string]()
	for _, id := range []EntityID{NewEntityID(5, 0), NewEntityID(2, 0), NewEntityID(9, 0)} {
		v := "x"
		s.Set(id, &v)
	}

	ids := s.IDs()
	require.Len(t, ids, 3)
	assert.Equal(t, []EntityID{NewEntityID(2, 0), NewEntityID(5, 0), NewEntityID(9, 0)}, ids)
}

func TestWorld_FlushRunsHooksAndClearsStores(t *testing.T) {
	w := NewWorld()
	s := NewStore[int]()
	w.Registry().Register(s)

	id := w.CreateEntity()
	v := 7
	s.Set(id, &v)

	var seen []int
	w.OnDestroy(func(e EntityID) {
		got, ok := s.Get(e)
		require.True(t, ok, "hook must run before stores are cleared")
		seen = append(seen, *got)
	})

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	assert.True(t, w.PendingDestruction(id))

	assert.Equal(t, 1, w.FlushDestroyQueue())
	assert.Equal(t, []int{7}, seen)
	assert.False(t, w.Alive(id))
	assert.False(t, s.Has(id))
	assert.False(t, w.PendingDestruction(id))
}

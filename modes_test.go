package zerolist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
	}{
		{"unknown mode", []Option{WithMode(Mode(99))}},
		{"zero capacity", []Option{WithCapacity(0)}},
		{"zero index limit", []Option{WithIndexLimit(0)}},
		{"capacity above limit", []Option{WithCapacity(100), WithIndexLimit(10)}},
		{"heap with fast alloc", []Option{WithMode(ModeHeap), WithFastAlloc(true)}},
		{"heap with buffer", []Option{WithMode(ModeHeap), WithBuffer(make([]Node, 4))}},
		{"growable with buffer", []Option{WithBuffer(make([]Node, 4))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	// Disabling fast alloc on a heap list is explicit but harmless.
	_, err := New(WithMode(ModeHeap), WithFastAlloc(false))
	assert.NoError(t, err)
}

func TestStaticExhaustion(t *testing.T) {
	l, err := New(WithMode(ModeStatic), WithCapacity(3))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.PushBack(i))
	}
	assert.ErrorIs(t, l.PushBack(3), ErrCapacityExceeded)

	// The failed insert left the resident nodes untouched.
	assert.Equal(t, []any{0, 1, 2}, values(l))
	checkRing(t, l, 3)
	s := l.Stats()
	assert.Equal(t, uint32(3), s.Capacity)
	assert.Equal(t, uint64(0), s.Grows)

	// Freeing a slot makes room again.
	_, err = l.PopFront()
	require.NoError(t, err)
	require.NoError(t, l.PushBack(3))
	assert.Equal(t, []any{1, 2, 3}, values(l))
}

func TestStaticScanAlloc(t *testing.T) {
	l, err := New(WithMode(ModeStatic), WithCapacity(3), WithFastAlloc(false))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.PushBack(i))
	}
	assert.ErrorIs(t, l.PushBack(3), ErrCapacityExceeded)

	// Scan allocation hands out the lowest free slot after a removal.
	require.NoError(t, l.RemoveAt(1))
	require.NoError(t, l.PushBack(9))
	assert.Equal(t, []any{0, 2, 9}, values(l))
	checkRing(t, l, 3)
	assert.Equal(t, uint32(0), l.Stats().FreeSlots)
}

func TestCallerBuffer(t *testing.T) {
	buf := make([]Node, 4)
	l, err := New(WithMode(ModeStatic), WithBuffer(buf))
	require.NoError(t, err)

	// Capacity is the buffer length.
	assert.Equal(t, uint32(4), l.Stats().Capacity)

	for i := 0; i < 4; i++ {
		require.NoError(t, l.PushBack(i))
	}
	assert.ErrorIs(t, l.PushBack(4), ErrCapacityExceeded)

	// Nodes live in the caller's storage.
	n := l.Find(2)
	require.NotNil(t, n)
	found := false
	for i := range buf {
		if &buf[i] == n {
			found = true
		}
	}
	assert.True(t, found, "node not placed in the caller buffer")

	// Destroy keeps the buffer; Reinit reuses it.
	l.Destroy()
	require.NoError(t, l.Reinit())
	require.NoError(t, l.PushBack("fresh"))
	assert.Equal(t, []any{"fresh"}, values(l))
	assert.Same(t, &buf[0], l.head)
}

func TestHeapMode(t *testing.T) {
	l, err := New(WithMode(ModeHeap))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, l.PushBack(i))
	}
	checkRing(t, l, 10)

	s := l.Stats()
	assert.Equal(t, ModeHeap, s.Mode)
	assert.Equal(t, uint32(0), s.Capacity)
	assert.Equal(t, uint32(10), s.HeapNodes)

	for i := 0; i < 10; i++ {
		_, err := l.PopFront()
		require.NoError(t, err)
	}
	assert.Equal(t, uint32(0), l.Stats().HeapNodes)
}

func TestHeapModeHooks(t *testing.T) {
	var created, freed int
	l, err := New(WithMode(ModeHeap), WithAllocators(Allocators{
		NewNode:  func() (*Node, error) { created++; return new(Node), nil },
		FreeNode: func(*Node) { freed++ },
	}))
	require.NoError(t, err)

	require.NoError(t, l.PushBack(1))
	require.NoError(t, l.PushBack(2))
	assert.Equal(t, 2, created)

	_, err = l.PopFront()
	require.NoError(t, err)
	assert.Equal(t, 1, freed)

	l.Clear()
	assert.Equal(t, 2, freed)
}

func TestFallbackMode(t *testing.T) {
	l, err := New(WithMode(ModeFallback), WithCapacity(5))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, l.PushBack(i))
	}
	checkRing(t, l, 10)

	s := l.Stats()
	assert.Equal(t, uint32(5), s.Capacity)
	assert.Equal(t, uint32(0), s.FreeSlots)
	assert.Equal(t, uint32(5), s.HeapNodes)
	assert.Equal(t, uint64(0), s.Grows)

	// Order is uniform across the two storage origins.
	assert.Equal(t, []any{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, values(l))

	// Draining returns both arena slots and heap nodes; a refill exercises
	// the arena first again.
	for i := 0; i < 10; i++ {
		_, err := l.PopFront()
		require.NoError(t, err)
	}
	s = l.Stats()
	assert.Equal(t, uint32(5), s.FreeSlots)
	assert.Equal(t, uint32(0), s.HeapNodes)

	// Two exhaust-and-refill cycles prove slots are recycled, not leaked.
	for cycle := 0; cycle < 2; cycle++ {
		for i := 0; i < 10; i++ {
			require.NoError(t, l.PushBack(i))
		}
		s = l.Stats()
		assert.Equal(t, uint32(0), s.FreeSlots)
		assert.Equal(t, uint32(5), s.HeapNodes)
		checkRing(t, l, 10)
		for i := 0; i < 10; i++ {
			_, err := l.PopFront()
			require.NoError(t, err)
		}
	}
	s = l.Stats()
	assert.Equal(t, uint32(5), s.FreeSlots)
	assert.Equal(t, uint32(0), s.HeapNodes)
}

func TestFallbackRemovalByProvenance(t *testing.T) {
	l, err := New(WithMode(ModeFallback), WithCapacity(2))
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, l.PushBack(i))
	}
	// Remove one arena node and one heap node; each returns to its origin.
	require.NoError(t, l.RemoveAt(0))
	require.NoError(t, l.RemoveAt(2))
	s := l.Stats()
	assert.Equal(t, uint32(1), s.FreeSlots)
	assert.Equal(t, uint32(1), s.HeapNodes)
	assert.Equal(t, []any{1, 2}, values(l))
	checkRing(t, l, 2)
}

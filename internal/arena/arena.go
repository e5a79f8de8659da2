package arena

import (
	"errors"
	"fmt"
	"unsafe"
)

var (
	// ErrExhausted is returned when no free slot is available and the arena
	// cannot grow.
	ErrExhausted = errors.New("arena: exhausted")
	// ErrAllocationFailed is returned when a storage primitive fails.
	ErrAllocationFailed = errors.New("arena: allocation failed")
	// ErrInvalidGrowth is returned when Grow is called with a capacity that
	// is not larger than the current one.
	ErrInvalidGrowth = errors.New("arena: new capacity not larger than current")
	// ErrInvalidConfig is returned for nil buffers, zero capacities and
	// missing occupancy probes.
	ErrInvalidConfig = errors.New("arena: invalid configuration")
)

// Allocators bundles the raw storage primitives used by the arena. Any nil
// field is replaced by a default backed by make/copy. Custom primitives allow
// the arena to run on top of caller-managed memory pools.
//
// Realloc must preserve the old contents and return zero-initialized memory
// beyond the old length. It may return a slice sharing the old base address
// (the cheap path) or a freshly placed one (the expensive path, which forces
// the caller's rebase).
type Allocators[T any] struct {
	Alloc   func(n int) ([]T, error)
	Realloc func(old []T, n int) ([]T, error)
	Free    func(buf []T)

	AllocIndex   func(n int) ([]uint32, error)
	ReallocIndex func(old []uint32, n int) ([]uint32, error)
	FreeIndex    func(buf []uint32)
}

func (al *Allocators[T]) fill() {
	if al.Alloc == nil {
		al.Alloc = func(n int) ([]T, error) { return make([]T, n), nil }
	}
	if al.Realloc == nil {
		al.Realloc = defaultRealloc[T]
	}
	if al.Free == nil {
		al.Free = func([]T) {}
	}
	if al.AllocIndex == nil {
		al.AllocIndex = func(n int) ([]uint32, error) { return make([]uint32, n), nil }
	}
	if al.ReallocIndex == nil {
		al.ReallocIndex = defaultRealloc[uint32]
	}
	if al.FreeIndex == nil {
		al.FreeIndex = func([]uint32) {}
	}
}

// defaultRealloc reuses the old backing array when its capacity suffices,
// mirroring an in-place realloc. Otherwise it allocates and copies.
func defaultRealloc[E any](old []E, n int) ([]E, error) {
	if n <= cap(old) {
		nb := old[:n]
		if n > len(old) {
			// The backing array may hold remnants of an earlier, longer
			// length.
			clear(nb[len(old):])
		}
		return nb, nil
	}
	nb := make([]E, n)
	copy(nb, old)
	return nb, nil
}

// Config configures an Arena.
type Config[T any] struct {
	// FastAlloc enables the free-index stack. Without it Take scans the
	// buffer with the Used probe.
	FastAlloc bool
	// Used reports whether a slot currently participates in the resident
	// structure. Required when FastAlloc is disabled.
	Used func(*T) bool
	// Allocators are the storage primitives; zero value means make/copy.
	Allocators Allocators[T]
}

// Stats is a snapshot of arena bookkeeping.
type Stats struct {
	Capacity  uint32
	FreeSlots uint32
	Grows     uint64 // successful buffer reallocations
	Rebases   uint64 // base moves that required link rewriting
	Rollbacks uint64 // grow attempts rolled back
	Degraded  bool   // rollback itself failed; see package doc
}

// Arena is a contiguous slot arena with optional O(1) free-index allocation.
type Arena[T any] struct {
	buf       []T
	freeStack []uint32
	freeTop   uint32
	ownsBuf   bool
	ownsStack bool
	cfg       Config[T]
	stats     Stats
}

// New creates an arena with library-owned storage of the given capacity.
func New[T any](capacity uint32, cfg Config[T]) (*Arena[T], error) {
	if capacity == 0 {
		return nil, fmt.Errorf("%w: zero capacity", ErrInvalidConfig)
	}
	cfg.Allocators.fill()
	buf, err := cfg.Allocators.Alloc(int(capacity))
	if err != nil || buf == nil {
		return nil, allocErr(err)
	}
	a, err := newArena(buf, cfg)
	if err != nil {
		cfg.Allocators.Free(buf)
		return nil, err
	}
	a.ownsBuf = true
	return a, nil
}

// Wrap creates an arena over a caller-owned buffer. The buffer is not
// released on Destroy. With FastAlloc enabled the free stack is still
// allocated by the library, once, at construction.
func Wrap[T any](buf []T, cfg Config[T]) (*Arena[T], error) {
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: nil or empty buffer", ErrInvalidConfig)
	}
	cfg.Allocators.fill()
	return newArena(buf, cfg)
}

func newArena[T any](buf []T, cfg Config[T]) (*Arena[T], error) {
	if !cfg.FastAlloc && cfg.Used == nil {
		return nil, fmt.Errorf("%w: scan allocation requires an occupancy probe", ErrInvalidConfig)
	}
	a := &Arena[T]{buf: buf, cfg: cfg}
	if cfg.FastAlloc {
		stack, err := cfg.Allocators.AllocIndex(len(buf))
		if err != nil || stack == nil {
			return nil, allocErr(err)
		}
		a.freeStack = stack
		a.ownsStack = true
	}
	a.Reset()
	return a, nil
}

func allocErr(err error) error {
	if err == nil {
		return ErrAllocationFailed
	}
	return fmt.Errorf("%w: %w", ErrAllocationFailed, err)
}

// Cap returns the number of slots in the buffer actually in use.
func (a *Arena[T]) Cap() uint32 {
	return uint32(len(a.buf))
}

// Slot returns a pointer to the slot at idx.
func (a *Arena[T]) Slot(idx uint32) *T {
	return &a.buf[idx]
}

// Take hands out a free slot and its index. It fails with ErrExhausted when
// every slot is in use.
func (a *Arena[T]) Take() (*T, uint32, error) {
	if a.freeStack != nil {
		if a.freeTop == 0 {
			return nil, 0, ErrExhausted
		}
		a.freeTop--
		idx := a.freeStack[a.freeTop]
		return &a.buf[idx], idx, nil
	}
	for i := range a.buf {
		if !a.cfg.Used(&a.buf[i]) {
			return &a.buf[i], uint32(i), nil
		}
	}
	return nil, 0, ErrExhausted
}

// Release returns the slot at idx to the free pool. The caller is expected
// to have reset the slot contents already; in scan mode the occupancy probe
// is the only bookkeeping, so Release is a no-op there.
func (a *Arena[T]) Release(idx uint32) {
	if a.freeStack == nil {
		return
	}
	// Guards against double release and stale indices from a shrunken buffer.
	if idx >= a.Cap() || a.freeTop >= uint32(len(a.freeStack)) {
		return
	}
	a.freeStack[a.freeTop] = idx
	a.freeTop++
}

// Contains reports whether p points into the arena buffer. This is the
// provenance test that decides recycle-vs-heap-release on free.
func (a *Arena[T]) Contains(p *T) bool {
	return Within(a.buf, p)
}

// IndexOf returns the slot index of p, derived from address arithmetic
// against the buffer base. p must point into the buffer.
func (a *Arena[T]) IndexOf(p *T) uint32 {
	return IndexIn(a.buf, p)
}

// Within reports whether p points into buf.
func Within[T any](buf []T, p *T) bool {
	if len(buf) == 0 || p == nil {
		return false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	addr := uintptr(unsafe.Pointer(p))
	end := base + uintptr(len(buf))*unsafe.Sizeof(*p)
	return addr >= base && addr < end
}

// IndexIn returns the slot index of p within buf by address arithmetic.
// p must point into buf; offsets computed against a stale buffer are the
// caller's way of recovering indices during relocation.
func IndexIn[T any](buf []T, p *T) uint32 {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	off := uintptr(unsafe.Pointer(p)) - base
	return uint32(off / unsafe.Sizeof(*p))
}

// Reset clears every slot to its zero value and rebuilds the free stack to
// all-free. Resident structures become invalid.
func (a *Arena[T]) Reset() {
	var zero T
	for i := range a.buf {
		a.buf[i] = zero
	}
	if a.freeStack != nil {
		// Stack is filled so that slot 0 pops first.
		n := uint32(len(a.freeStack))
		if n > a.Cap() {
			n = a.Cap()
		}
		for i := uint32(0); i < n; i++ {
			a.freeStack[i] = n - 1 - i
		}
		a.freeTop = n
	}
}

// Destroy releases library-owned storage. The arena must not be used
// afterwards; build a new one instead.
func (a *Arena[T]) Destroy() {
	if a.ownsBuf && a.buf != nil {
		a.cfg.Allocators.Free(a.buf)
	}
	if a.ownsStack && a.freeStack != nil {
		a.cfg.Allocators.FreeIndex(a.freeStack)
	}
	a.buf = nil
	a.freeStack = nil
	a.freeTop = 0
}

// FreeSlots returns the number of slots currently available.
func (a *Arena[T]) FreeSlots() uint32 {
	if a.freeStack != nil {
		return a.freeTop
	}
	return a.Cap() - uint32(a.Occupancy().GetCardinality())
}

// Stats returns a snapshot of the arena bookkeeping.
func (a *Arena[T]) Stats() Stats {
	s := a.stats
	s.Capacity = a.Cap()
	s.FreeSlots = a.FreeSlots()
	return s
}

package zerolist

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/WeChatLhc/zerolist/internal/arena"
)

// Mode selects the node storage strategy. It is chosen once at construction
// and stored as part of the list's configuration; the uniform operation
// surface is identical across modes.
type Mode int

const (
	// ModeGrowable uses an arena that doubles its capacity on exhaustion,
	// saturating at the index limit. The default.
	ModeGrowable Mode = iota
	// ModeStatic uses a fixed-capacity arena; inserts fail when it is full.
	ModeStatic
	// ModeFallback uses the arena first and falls back to per-node heap
	// allocation once the arena is exhausted.
	ModeFallback
	// ModeHeap allocates every node from the heap.
	ModeHeap
)

func (m Mode) String() string {
	switch m {
	case ModeGrowable:
		return "growable"
	case ModeStatic:
		return "static"
	case ModeFallback:
		return "fallback"
	case ModeHeap:
		return "heap"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// DefaultCapacity is the initial arena capacity when none is configured.
const DefaultCapacity = 16

// Allocators are the pluggable storage primitives, enabling custom memory
// pools. Nil fields fall back to make/copy defaults; FreeNode defaults to
// doing nothing (the garbage collector reclaims heap nodes).
//
// ReallocNodes must preserve old contents and return zeroed memory beyond
// the old length. Returning a slice that shares the old base address is the
// cheap path; a moved base forces a full link rebase.
type Allocators struct {
	AllocNodes   func(n int) ([]Node, error)
	ReallocNodes func(old []Node, n int) ([]Node, error)
	FreeNodes    func(buf []Node)

	AllocIndexes   func(n int) ([]uint32, error)
	ReallocIndexes func(old []uint32, n int) ([]uint32, error)
	FreeIndexes    func(buf []uint32)

	// NewNode and FreeNode serve the heap and fallback modes.
	NewNode  func() (*Node, error)
	FreeNode func(*Node)
}

type options struct {
	mode         Mode
	capacity     uint32
	buffer       []Node
	fastAlloc    bool
	fastAllocSet bool
	sizeTracking bool
	indexLimit   uint32
	allocators   Allocators
	logger       *slog.Logger
}

// Option configures a List at construction time.
type Option func(*options)

// WithMode selects the storage strategy.
func WithMode(m Mode) Option {
	return func(o *options) { o.mode = m }
}

// WithCapacity sets the arena capacity: fixed for static and fallback
// lists, initial for growable ones. Ignored by ModeHeap.
func WithCapacity(n uint32) Option {
	return func(o *options) { o.capacity = n }
}

// WithBuffer supplies caller-owned node storage for static and fallback
// lists. The capacity is len(buf); the buffer is never released by the list
// and is reused across Destroy/Reinit cycles.
func WithBuffer(buf []Node) Option {
	return func(o *options) { o.buffer = buf }
}

// WithFastAlloc toggles the free-index stack: O(1) allocation against a
// linear scan for a free slot. Enabled by default for arena-backed modes;
// invalid with ModeHeap.
func WithFastAlloc(enabled bool) Option {
	return func(o *options) {
		o.fastAlloc = enabled
		o.fastAllocSet = true
	}
}

// WithSizeTracking toggles the cached node counter. Disabling it saves a
// word and makes Len an O(n) traversal.
func WithSizeTracking(enabled bool) Option {
	return func(o *options) { o.sizeTracking = enabled }
}

// WithIndexLimit bounds the maximum node count of arena-backed storage and
// the growth ceiling: doubling saturates at the limit, and growth at the
// limit fails with ErrCapacityExceeded.
func WithIndexLimit(limit uint32) Option {
	return func(o *options) { o.indexLimit = limit }
}

// WithAllocators installs custom storage primitives.
func WithAllocators(a Allocators) Option {
	return func(o *options) { o.allocators = a }
}

// WithLogger enables structured logging of storage-relocation events
// (growth, rebase, rollback). Nothing is logged on hot paths, and a nil
// logger (the default) disables output entirely.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func defaultOptions() options {
	return options{
		mode:         ModeGrowable,
		capacity:     DefaultCapacity,
		fastAlloc:    true,
		sizeTracking: true,
		indexLimit:   math.MaxUint32,
	}
}

func (o *options) validate() error {
	if o.mode < ModeGrowable || o.mode > ModeHeap {
		return fmt.Errorf("%w: unknown mode %v", ErrInvalidArgument, o.mode)
	}
	if o.indexLimit == 0 {
		return fmt.Errorf("%w: zero index limit", ErrInvalidArgument)
	}
	if o.mode == ModeHeap {
		if o.fastAllocSet && o.fastAlloc {
			return fmt.Errorf("%w: fast allocation requires arena storage", ErrInvalidArgument)
		}
		if o.buffer != nil {
			return fmt.Errorf("%w: buffer requires arena storage", ErrInvalidArgument)
		}
		return nil
	}
	if o.buffer != nil {
		if o.mode == ModeGrowable {
			return fmt.Errorf("%w: growable storage must be list-owned", ErrInvalidArgument)
		}
		o.capacity = uint32(len(o.buffer))
	}
	if o.capacity == 0 {
		return fmt.Errorf("%w: zero capacity", ErrInvalidArgument)
	}
	if o.capacity > o.indexLimit {
		return fmt.Errorf("%w: capacity %d exceeds index limit %d", ErrInvalidArgument, o.capacity, o.indexLimit)
	}
	return nil
}

func (o *options) arenaConfig() arena.Config[Node] {
	return arena.Config[Node]{
		FastAlloc: o.fastAlloc,
		Used:      func(n *Node) bool { return n.inUse },
		Allocators: arena.Allocators[Node]{
			Alloc:        o.allocators.AllocNodes,
			Realloc:      o.allocators.ReallocNodes,
			Free:         o.allocators.FreeNodes,
			AllocIndex:   o.allocators.AllocIndexes,
			ReallocIndex: o.allocators.ReallocIndexes,
			FreeIndex:    o.allocators.FreeIndexes,
		},
	}
}

func (o *options) newNode() (*Node, error) {
	if o.allocators.NewNode != nil {
		return o.allocators.NewNode()
	}
	return new(Node), nil
}

func (o *options) freeHeapNode(n *Node) {
	if o.allocators.FreeNode != nil {
		o.allocators.FreeNode(n)
	}
}

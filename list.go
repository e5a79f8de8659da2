package zerolist

import (
	"fmt"

	"github.com/WeChatLhc/zerolist/internal/arena"
)

type listState uint8

const (
	stateUninitialized listState = iota
	stateInitialized
	stateDestroyed
)

// List is a circular doubly-linked list. The head references the first
// node; the tail is implicit as head.prev. The zero value is uninitialized
// and rejects every structural operation; build lists with New.
type List struct {
	head  *Node
	size  uint32 // maintained only when size tracking is enabled
	state listState

	opts      options
	arena     *arena.Arena[Node] // nil in ModeHeap
	heapNodes uint32
}

// New builds an initialized list. Invalid option combinations fail with
// ErrInvalidArgument; storage primitive failures with ErrAllocationFailed.
func New(opts ...Option) (*List, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}
	l := &List{opts: o}
	if err := l.initStorage(); err != nil {
		return nil, err
	}
	l.state = stateInitialized
	return l, nil
}

func (l *List) initStorage() error {
	l.head = nil
	l.size = 0
	l.heapNodes = 0
	if l.opts.mode == ModeHeap {
		l.arena = nil
		return nil
	}
	var (
		a   *arena.Arena[Node]
		err error
	)
	if l.opts.buffer != nil {
		a, err = arena.Wrap(l.opts.buffer, l.opts.arenaConfig())
	} else {
		a, err = arena.New(l.opts.capacity, l.opts.arenaConfig())
	}
	if err != nil {
		return translateArenaErr(err)
	}
	l.arena = a
	return nil
}

func (l *List) check() error {
	if l == nil || l.state != stateInitialized {
		return ErrNotInitialized
	}
	return nil
}

func (l *List) incSize() {
	if l.opts.sizeTracking {
		l.size++
	}
}

func (l *List) decSize() {
	if l.opts.sizeTracking {
		l.size--
	}
}

// insert allocates a node carrying data and links it relative to pos.
// A nil pos means the head (before) or the tail (after). The position is
// captured as a slot index before allocating, because a growable arena may
// relocate every node while satisfying the allocation; the index re-resolves
// pos against the buffer actually in use afterwards.
func (l *List) insert(pos *Node, data any, before bool) error {
	var posIdx uint32
	posInArena := false
	if pos != nil && l.arena != nil && l.arena.Contains(pos) {
		posIdx = l.arena.IndexOf(pos)
		posInArena = true
	}

	n, err := l.allocNode()
	if err != nil {
		return err
	}
	n.data = data

	if posInArena && !l.arena.Contains(pos) {
		pos = l.arena.Slot(posIdx)
	}

	if l.head == nil {
		n.prev = n
		n.next = n
		l.head = n
		l.incSize()
		return nil
	}

	if pos == nil {
		if before {
			pos = l.head
		} else {
			pos = l.head.prev
		}
	}

	if before {
		n.prev = pos.prev
		n.next = pos
		pos.prev.next = n
		pos.prev = n
		if pos == l.head {
			l.head = n
		}
	} else {
		n.next = pos.next
		n.prev = pos
		pos.next.prev = n
		pos.next = n
	}
	l.incSize()
	return nil
}

// detach unlinks a node from the ring. It touches structure only; size
// bookkeeping and node release are the caller's.
func (l *List) detach(n *Node) {
	if n.next == n {
		l.head = nil
		return
	}
	// A node with severed links must not take the ring down with it.
	if n.prev == nil || n.next == nil {
		if n == l.head {
			l.head = nil
		}
		return
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	if n == l.head {
		l.head = n.next
	}
}

// PushFront inserts data as the new head.
func (l *List) PushFront(data any) error {
	if err := l.check(); err != nil {
		return err
	}
	return l.insert(l.head, data, true)
}

// PushBack inserts data as the new tail.
func (l *List) PushBack(data any) error {
	if err := l.check(); err != nil {
		return err
	}
	return l.insert(nil, data, false)
}

// InsertBefore inserts data immediately before the first node whose payload
// reference equals target. It fails with ErrNotFound when no node carries
// target.
func (l *List) InsertBefore(target, data any) error {
	if err := l.check(); err != nil {
		return err
	}
	if l.head == nil {
		return ErrNotFound
	}
	cur := l.head
	for {
		if cur.data == target {
			return l.insert(cur, data, true)
		}
		cur = cur.next
		if cur == l.head {
			return ErrNotFound
		}
	}
}

// PopFront detaches and frees the head, returning its payload.
func (l *List) PopFront() (any, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	if l.head == nil {
		return nil, ErrIndexOutOfRange
	}
	n := l.head
	data := n.data
	l.detach(n)
	l.freeNode(n)
	l.decSize()
	return data, nil
}

// PopBack detaches and frees the tail (head.prev), returning its payload.
func (l *List) PopBack() (any, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	if l.head == nil {
		return nil, ErrIndexOutOfRange
	}
	n := l.head.prev
	data := n.data
	l.detach(n)
	l.freeNode(n)
	l.decSize()
	return data, nil
}

// PopAt detaches and frees the node at the given position, returning its
// payload. O(n).
func (l *List) PopAt(index int) (any, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	n, err := l.nodeAt(index)
	if err != nil {
		return nil, err
	}
	data := n.data
	l.detach(n)
	l.freeNode(n)
	l.decSize()
	return data, nil
}

// RemoveAt removes the node at the given position. O(n).
func (l *List) RemoveAt(index int) error {
	_, err := l.PopAt(index)
	return err
}

// RemoveValue removes the first node whose payload reference equals data.
// At most one node is removed per call.
func (l *List) RemoveValue(data any) error {
	if err := l.check(); err != nil {
		return err
	}
	if data == nil {
		return fmt.Errorf("%w: nil payload reference", ErrInvalidArgument)
	}
	return l.removeFirst(func(v any) bool { return v == data })
}

// RemoveFunc removes the first node whose payload satisfies match. At most
// one node is removed per call; later matches stay untouched.
func (l *List) RemoveFunc(match func(data any) bool) error {
	if err := l.check(); err != nil {
		return err
	}
	if match == nil {
		return fmt.Errorf("%w: nil predicate", ErrInvalidArgument)
	}
	return l.removeFirst(match)
}

func (l *List) removeFirst(match func(any) bool) error {
	if l.head == nil {
		return ErrNotFound
	}
	cur := l.head
	for {
		if match(cur.data) {
			l.detach(cur)
			l.freeNode(cur)
			l.decSize()
			return nil
		}
		cur = cur.next
		if cur == l.head {
			return ErrNotFound
		}
	}
}

// RemoveNode detaches and frees a single node previously obtained from Find
// or Nodes. This is the explicit node release: the node is always detached
// before its storage is recycled.
func (l *List) RemoveNode(n *Node) error {
	if err := l.check(); err != nil {
		return err
	}
	if n == nil || !n.inUse {
		return fmt.Errorf("%w: nil or free node", ErrInvalidArgument)
	}
	l.detach(n)
	l.freeNode(n)
	l.decSize()
	return nil
}

// nodeAt walks to the given position. With size tracking the index is
// bounds-checked up front; without it the walk detects wrap-around.
func (l *List) nodeAt(index int) (*Node, error) {
	if l.head == nil || index < 0 {
		return nil, ErrIndexOutOfRange
	}
	if l.opts.sizeTracking && index >= int(l.size) {
		return nil, ErrIndexOutOfRange
	}
	cur := l.head
	for i := 0; i < index; i++ {
		cur = cur.next
		if cur == l.head {
			return nil, ErrIndexOutOfRange
		}
	}
	return cur, nil
}

// At returns the payload at the given position. O(n).
func (l *List) At(index int) (any, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	n, err := l.nodeAt(index)
	if err != nil {
		return nil, err
	}
	return n.data, nil
}

// Find returns the first node whose payload reference equals data, or nil.
func (l *List) Find(data any) *Node {
	if l.check() != nil {
		return nil
	}
	return l.findFirst(func(v any) bool { return v == data })
}

// FindFunc returns the first node whose payload satisfies match, or nil.
func (l *List) FindFunc(match func(data any) bool) *Node {
	if l.check() != nil || match == nil {
		return nil
	}
	return l.findFirst(match)
}

func (l *List) findFirst(match func(any) bool) *Node {
	if l.head == nil {
		return nil
	}
	cur := l.head
	for {
		if match(cur.data) {
			return cur
		}
		cur = cur.next
		if cur == l.head {
			return nil
		}
	}
}

// Reverse swaps every node's prev/next in place and moves the head to the
// former tail. No-op on empty and single-node lists. O(n).
func (l *List) Reverse() {
	if l.check() != nil || l.head == nil || l.head.next == l.head {
		return
	}
	oldTail := l.head.prev
	cur := l.head
	for {
		cur.prev, cur.next = cur.next, cur.prev
		cur = cur.prev // the original successor
		if cur == l.head {
			break
		}
	}
	l.head = oldTail
}

// Len returns the number of nodes: O(1) with size tracking, one traversal
// without.
func (l *List) Len() int {
	if l.check() != nil || l.head == nil {
		return 0
	}
	if l.opts.sizeTracking {
		return int(l.size)
	}
	n := 0
	cur := l.head
	for {
		n++
		cur = cur.next
		if cur == l.head {
			return n
		}
	}
}

// Clear detaches and frees every node without destroying the list itself.
// The list stays initialized and reusable; calling Clear on an already
// empty list is a no-op.
func (l *List) Clear() {
	if l.check() != nil {
		return
	}
	if l.arena == nil {
		first := l.head
		cur := first
		for cur != nil {
			next := cur.next
			l.freeNode(cur)
			if next == first {
				break
			}
			cur = next
		}
	} else {
		if l.heapNodes > 0 && l.head != nil {
			first := l.head
			cur := first
			for {
				next := cur.next
				if !l.arena.Contains(cur) {
					l.freeNode(cur)
				}
				if next == first {
					break
				}
				cur = next
			}
		}
		// Rebuilding the arena wholesale restores the all-free state and
		// the free stack in one pass.
		l.arena.Reset()
	}
	l.head = nil
	l.size = 0
	l.heapNodes = 0
}

// Destroy clears the list and releases list-owned storage. The list
// transitions to the destroyed state; only Reinit is valid afterwards.
// Caller-provided buffers are kept for reuse.
func (l *List) Destroy() {
	if l == nil || l.state != stateInitialized {
		return
	}
	l.Clear()
	if l.arena != nil {
		l.arena.Destroy()
		l.arena = nil
	}
	l.state = stateDestroyed
}

// Reinit re-creates (or, for caller buffers, reuses) storage at the
// configured capacity and returns a destroyed list to the initialized
// state.
func (l *List) Reinit() error {
	if l == nil || l.state != stateDestroyed {
		return fmt.Errorf("%w: reinit requires a destroyed list", ErrInvalidArgument)
	}
	if err := l.initStorage(); err != nil {
		return err
	}
	l.state = stateInitialized
	return nil
}

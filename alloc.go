package zerolist

import (
	"fmt"

	"github.com/WeChatLhc/zerolist/internal/arena"
)

// allocNode obtains a node according to the configured strategy. The
// returned node is marked in use with self-referential links and no payload.
func (l *List) allocNode() (*Node, error) {
	if l.opts.mode == ModeHeap {
		return l.allocHeapNode()
	}

	n, idx, err := l.arena.Take()
	if err == nil {
		prepareArenaNode(n, idx)
		return n, nil
	}

	switch l.opts.mode {
	case ModeGrowable:
		if gerr := l.growArena(); gerr != nil {
			return nil, gerr
		}
		n, idx, err = l.arena.Take()
		if err != nil {
			return nil, translateArenaErr(err)
		}
		prepareArenaNode(n, idx)
		return n, nil
	case ModeFallback:
		return l.allocHeapNode()
	default: // ModeStatic
		return nil, translateArenaErr(err)
	}
}

func prepareArenaNode(n *Node, idx uint32) {
	n.data = nil
	n.prev = n
	n.next = n
	n.inUse = true
	n.slot = idx
}

func (l *List) allocHeapNode() (*Node, error) {
	n, err := l.opts.newNode()
	if err != nil || n == nil {
		if err == nil {
			return nil, ErrAllocationFailed
		}
		return nil, fmt.Errorf("%w: %w", ErrAllocationFailed, err)
	}
	n.data = nil
	n.prev = n
	n.next = n
	n.inUse = true
	n.slot = 0
	l.heapNodes++
	return n, nil
}

// freeNode returns a structurally detached node to its origin: arena slots
// are reset and recycled, heap nodes are handed to the release hook. The
// node's provenance is decided by address-range containment, never by any
// stored marker.
func (l *List) freeNode(n *Node) {
	if l.arena != nil && l.arena.Contains(n) {
		idx := l.arena.IndexOf(n)
		n.reset()
		l.arena.Release(idx)
		return
	}
	n.reset()
	l.heapNodes--
	l.opts.freeHeapNode(n)
}

// growArena doubles the arena capacity, saturating at the index limit.
func (l *List) growArena() error {
	cur := l.arena.Cap()
	limit := l.opts.indexLimit
	if cur >= limit {
		return fmt.Errorf("%w: index limit %d reached", ErrCapacityExceeded, limit)
	}
	newCap := limit
	if cur <= limit>>1 {
		newCap = cur << 1
	}

	err := l.arena.Grow(newCap, l.rebase)
	if err != nil {
		if l.opts.logger != nil {
			l.opts.logger.Warn("arena growth failed",
				"capacity", l.arena.Cap(), "wanted", newCap, "err", err)
		}
		return translateArenaErr(err)
	}
	if l.opts.logger != nil {
		l.opts.logger.Debug("arena grown", "old_capacity", cur, "new_capacity", newCap)
	}
	return nil
}

// rebase rewrites the head reference and every intrusive link after the
// arena buffer moved from old to new. Offsets of the visited node are
// computed against the new base; offsets of its neighbors against the old
// base, since they still hold stale addresses at that point. Offsets at or
// beyond the new capacity are clamped to the node's own slot; that cannot
// happen in correct operation and only guards against corruption when a
// rollback shrinks the buffer.
func (l *List) rebase(old, new []Node) {
	if l.head == nil {
		return
	}
	newCap := uint32(len(new))

	headIdx := arena.IndexIn(old, l.head)
	l.head = &new[headIdx]

	cur := l.head
	for {
		curIdx := arena.IndexIn(new, cur)
		prevIdx := arena.IndexIn(old, cur.prev)
		nextIdx := arena.IndexIn(old, cur.next)
		if prevIdx >= newCap {
			prevIdx = curIdx
		}
		if nextIdx >= newCap {
			nextIdx = curIdx
		}
		cur.prev = &new[prevIdx]
		cur.next = &new[nextIdx]
		cur.slot = curIdx
		cur = cur.next
		if cur == l.head {
			break
		}
	}
	if l.opts.logger != nil {
		l.opts.logger.Debug("arena storage relocated", "capacity", newCap)
	}
}

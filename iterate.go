package zerolist

import "iter"

// Values returns a read-only forward traversal of the payload references in
// list order. The traversal is undefined if the list is structurally
// mutated while it runs; use Nodes when the body needs to remove elements.
func (l *List) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		if l.check() != nil || l.head == nil {
			return
		}
		cur := l.head
		for {
			if !yield(cur.data) {
				return
			}
			cur = cur.next
			if cur == l.head {
				return
			}
		}
	}
}

// Nodes returns a deletion-safe forward traversal: each node's successor is
// captured before the node is yielded, so the body may remove the yielded
// node (and only that node) via RemoveNode. Insertions during the traversal
// are undefined.
func (l *List) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if l.check() != nil || l.head == nil {
			return
		}
		// The node count is fixed up front: removing the current node must
		// not cut the traversal short or revisit survivors.
		remaining := l.Len()
		cur := l.head
		for ; remaining > 0; remaining-- {
			next := cur.next
			if !yield(cur) {
				return
			}
			if l.head == nil {
				return
			}
			cur = next
		}
	}
}

// ForEach invokes fn with every payload reference in list order. The
// callback must not mutate the list.
func (l *List) ForEach(fn func(data any)) {
	if fn == nil {
		return
	}
	for v := range l.Values() {
		fn(v)
	}
}

package zerolist

// Node is the structural unit of a list: an opaque payload reference plus
// the two intrusive links that form the circular ring.
//
// Nodes are created only by the list in response to an insert and destroyed
// only after the list has structurally detached them. A *Node obtained from
// Find or Nodes is invalidated by any operation that can trigger arena
// growth (any insert on a growable list); re-resolve by index or payload
// lookup instead of holding handles across such calls.
type Node struct {
	data any
	prev *Node
	next *Node

	// inUse marks the slot as participating in a list; it is the occupancy
	// source of truth for scan allocation.
	inUse bool
	// slot is the node's arena offset at the time it was last placed.
	// Address arithmetic against the arena base is authoritative; this is
	// only a fallback identity during relocation repair.
	slot uint32
}

// Value returns the payload reference carried by the node.
func (n *Node) Value() any { return n.data }

// reset clears a node to its free state: no payload, links to self.
func (n *Node) reset() {
	n.data = nil
	n.prev = n
	n.next = n
	n.inUse = false
	n.slot = 0
}

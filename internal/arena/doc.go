// Package arena provides a fixed-or-growable slot arena for intrusive
// list nodes.
//
// The arena owns a contiguous buffer of node slots and hands them out one at
// a time, either in O(1) via a free-index stack or by linear scan with an
// occupancy probe. Slot identity is derived from address arithmetic against
// the buffer base, so the arena can also answer provenance questions: whether
// an arbitrary node pointer lives inside its buffer.
//
// # Growth
//
// Grow reallocates the buffer through a pluggable realloc primitive. When the
// reallocation moves the base address, every intrusive link in the resident
// structure becomes stale; the caller supplies a rebase callback that is
// invoked after every move, including the move a rollback may cause. If the
// free-stack reallocation fails after the buffer reallocation already
// succeeded, Grow attempts to reallocate the buffer back down; if that also
// fails the arena stays on the grown buffer with its capacity bookkeeping
// matching the buffer actually in use (the free stack is then shorter than
// the capacity, which only prevents the added slots from being handed out).
//
// # Safety
//
// The arena is not safe for concurrent use. All methods return errors instead
// of panicking.
package arena

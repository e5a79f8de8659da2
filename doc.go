// Package zerolist provides an intrusive, circular, doubly-linked list whose
// node storage is not fixed to one allocation strategy.
//
// The list can run entirely from a pre-sized arena (no heap calls after
// construction, deterministic latency), from the heap, or in two hybrid
// forms: arena with heap fallback and arena with automatic growth. The
// target is resource-constrained or latency-sensitive code that still wants
// a general-purpose list when running in a richer environment.
//
// # Quick Start
//
//	l, _ := zerolist.New(zerolist.WithCapacity(64))
//	_ = l.PushBack(&order{id: 1})
//	_ = l.PushFront(&order{id: 2})
//	for v := range l.Values() {
//	    fmt.Println(v)
//	}
//	front, _ := l.PopFront()
//
// # Storage Modes
//
//   - ModeGrowable (default): arena storage that doubles on exhaustion,
//     saturating at the configured index limit. Growth may relocate every
//     node; any *Node handle held across an insert must be re-resolved.
//   - ModeStatic: fixed-capacity arena, optionally over a caller-provided
//     buffer. Inserts fail with ErrCapacityExceeded when full.
//   - ModeFallback: arena first, individual heap nodes once the arena is
//     exhausted. Arena slots are recycled before the heap is touched again.
//   - ModeHeap: one heap allocation per node.
//
// # Ownership
//
// The list owns the linkage, never the payload: payloads are opaque
// references to caller-owned data and are never read, copied or freed.
// Payload lookups (Find, RemoveValue) compare by reference identity, so
// payloads should be pointers or other comparable references.
//
// # Concurrency
//
// A List is single-threaded: no locking, no atomics. The caller serializes
// all access to an instance.
package zerolist

package zerolist

// Stats is a point-in-time snapshot of the list's storage bookkeeping.
type Stats struct {
	Mode      Mode
	Len       int
	Capacity  uint32 // arena slots; zero in heap mode
	FreeSlots uint32 // unused arena slots
	HeapNodes uint32 // nodes living outside the arena (heap and fallback modes)

	Grows     uint64 // successful arena reallocations
	Rebases   uint64 // reallocations that moved the base and rewrote links
	Rollbacks uint64 // growth attempts rolled back after a partial failure
	Degraded  bool   // a rollback failed; capacity reflects the buffer in use
}

// Stats reports storage usage and growth counters. On an uninitialized or
// destroyed list it reports zeros.
func (l *List) Stats() Stats {
	if l == nil {
		return Stats{}
	}
	s := Stats{Mode: l.opts.mode}
	if l.check() != nil {
		return s
	}
	s.Len = l.Len()
	s.HeapNodes = l.heapNodes
	if l.arena != nil {
		as := l.arena.Stats()
		s.Capacity = as.Capacity
		s.FreeSlots = as.FreeSlots
		s.Grows = as.Grows
		s.Rebases = as.Rebases
		s.Rollbacks = as.Rollbacks
		s.Degraded = as.Degraded
	}
	return s
}

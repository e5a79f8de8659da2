package arena

import "unsafe"

// Grow reallocates the buffer to newCap slots and extends the free stack.
//
// rebase is invoked whenever a reallocation changes the buffer base address,
// with the stale buffer and the freshly installed one; it must rewrite every
// address held by the resident structure. The arena's own bookkeeping
// (capacity, free stack) is already updated to the new buffer when rebase
// runs, so slot lookups against the arena resolve into the new placement.
//
// On a free-stack reallocation failure the buffer reallocation is rolled
// back, which may itself move the base and trigger another rebase. A failed
// rollback leaves the arena on the grown buffer (degraded state, see the
// package doc). Both failure shapes surface as ErrAllocationFailed.
func (a *Arena[T]) Grow(newCap uint32, rebase func(old, new []T)) error {
	if newCap <= a.Cap() {
		return ErrInvalidGrowth
	}
	old := a.buf
	oldCap := a.Cap()

	nb, err := a.cfg.Allocators.Realloc(old, int(newCap))
	if err != nil || nb == nil {
		return allocErr(err)
	}
	a.stats.Grows++
	a.buf = nb
	if moved(old, nb) && rebase != nil {
		a.stats.Rebases++
		rebase(old, nb)
	}

	if a.freeStack != nil {
		ns, serr := a.cfg.Allocators.ReallocIndex(a.freeStack, int(newCap))
		if serr != nil || ns == nil {
			a.stats.Rollbacks++
			rb, rerr := a.cfg.Allocators.Realloc(nb, int(oldCap))
			if rerr != nil || rb == nil {
				// Rollback failed too. Keep the grown buffer; the free
				// stack stays at its old length so the added slots are
				// never handed out.
				a.stats.Degraded = true
				return allocErr(serr)
			}
			a.buf = rb
			if moved(nb, rb) && rebase != nil {
				a.stats.Rebases++
				rebase(nb, rb)
			}
			return allocErr(serr)
		}
		a.freeStack = ns
		for i := oldCap; i < newCap; i++ {
			a.freeStack[a.freeTop] = i
			a.freeTop++
		}
	}
	return nil
}

func moved[T any](old, new []T) bool {
	return unsafe.SliceData(old) != unsafe.SliceData(new)
}

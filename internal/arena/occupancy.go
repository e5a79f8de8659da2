package arena

import "github.com/RoaringBitmap/roaring/v2"

// Occupancy returns a bitmap of the in-use slot indices.
//
// In fast-alloc mode the bitmap is the complement of the free stack, so it
// doubles as a consistency check: the stack must hold each unused index
// exactly once. In scan mode it is derived from the occupancy probe.
func (a *Arena[T]) Occupancy() *roaring.Bitmap {
	bm := roaring.New()
	if a.freeStack != nil {
		// Slots past the free stack's length exist only after a failed
		// rollback and are never handed out.
		n := uint32(len(a.freeStack))
		if c := a.Cap(); c < n {
			n = c
		}
		bm.AddRange(0, uint64(n))
		for i := uint32(0); i < a.freeTop; i++ {
			bm.Remove(a.freeStack[i])
		}
		return bm
	}
	for i := range a.buf {
		if a.cfg.Used(&a.buf[i]) {
			bm.Add(uint32(i))
		}
	}
	return bm
}

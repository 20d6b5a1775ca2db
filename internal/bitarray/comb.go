package bitarray

// CombIterator is a stateful cursor over all k-subsets of an n-element
// universe (optionally projected through a mask), enumerated in strict
// colex order via the classic "lowest block" bit-twiddle.
type CombIterator struct {
	n, k    int
	mask    *BitArray // nil when unmasked
	cur     uint64    // current combination over the inner n (or popcount(mask)) positions
	limit   uint64    // 1<<n, bound for validity checks
	invalid bool
}

// FirstComb returns an iterator positioned at the lexicographically first
// k-subset of an n-element universe.
func FirstComb(n, k int) *CombIterator {
	return newComb(n, k, nil)
}

// FirstCombMasked returns an iterator over k-subsets of mask's 1-positions;
// the external bit-pattern is materialized by placing bits only at mask's
// set positions.
func FirstCombMasked(mask *BitArray, k int) *CombIterator {
	return newComb(mask.CountOnes(), k, mask)
}

func newComb(n, k int, mask *BitArray) *CombIterator {
	if k < 0 || k > n || n < 0 {
		return &CombIterator{n: n, k: k, mask: mask, invalid: true}
	}
	it := &CombIterator{n: n, k: k, mask: mask, limit: uint64(1) << uint(n)}
	it.cur = (uint64(1) << uint(k)) - 1
	return it
}

// LastComb returns an iterator positioned at the lexicographically last
// k-subset (the "highest" colex combination).
func LastComb(n, k int) *CombIterator {
	it := newComb(n, k, nil)
	if it.invalid {
		return it
	}
	it.cur = ((uint64(1) << uint(k)) - 1) << uint(n-k)
	return it
}

// LastCombMasked is the masked analogue of LastComb.
func LastCombMasked(mask *BitArray, k int) *CombIterator {
	n := mask.CountOnes()
	it := newComb(n, k, mask)
	if it.invalid {
		return it
	}
	it.cur = ((uint64(1) << uint(k)) - 1) << uint(n-k)
	return it
}

// Valid reports whether the iterator currently denotes a combination.
func (it *CombIterator) Valid() bool {
	return !it.invalid
}

// Value materializes the current combination as a BitArray. For a masked
// iterator the inner popcount(mask)-bit pattern is projected onto mask's
// set positions; for an unmasked iterator it is returned directly over an
// n-bit universe.
func (it *CombIterator) Value() *BitArray {
	if it.invalid {
		panic("bitarray: CombIterator.Value on invalid iterator")
	}
	if it.mask == nil {
		out := New(it.n)
		for i := 0; i < it.n; i++ {
			if it.cur&(uint64(1)<<uint(i)) != 0 {
				out.Set(i, true)
			}
		}
		return out
	}
	out := New(it.mask.Len())
	pos := 0
	for i := 0; i < it.mask.Len(); i++ {
		if !it.mask.Get(i) {
			continue
		}
		if it.cur&(uint64(1)<<uint(pos)) != 0 {
			out.Set(i, true)
		}
		pos++
	}
	return out
}

// IsFirstComb reports whether the iterator is at the lexicographically
// first k-subset.
func (it *CombIterator) IsFirstComb() bool {
	if it.invalid {
		return false
	}
	return it.cur == (uint64(1)<<uint(it.k))-1
}

// IsLastComb reports whether the iterator is at the lexicographically
// last k-subset.
func (it *CombIterator) IsLastComb() bool {
	if it.invalid {
		return false
	}
	return it.cur == ((uint64(1)<<uint(it.k))-1)<<uint(it.n-it.k)
}

// Next advances to the following combination in colex order. Advancing
// past the last element invalidates the iterator without panicking.
func (it *CombIterator) Next() {
	if it.invalid || it.IsLastComb() {
		it.invalid = true
		return
	}
	it.cur = nextComb(it.cur)
}

// Prev retreats to the preceding combination. Retreating past the first
// element invalidates the iterator without panicking.
func (it *CombIterator) Prev() {
	if it.invalid || it.IsFirstComb() {
		it.invalid = true
		return
	}
	// Invert within the n-bit universe, advance, invert back: this turns
	// "previous combination" into "next combination of the complement".
	universe := it.limit - 1
	comp := (^it.cur) & universe
	comp = nextComb(comp)
	it.cur = (^comp) & universe
}

// nextComb implements the lowest-block bit-twiddle: lo = c & -c (lowest
// set bit), c += lo (propagate the carry across the lowest run), hi =
// (c & -c) - lo (the newly promoted block), then right-shift hi until its
// lowest bit aligns with bit 0, shift one more, and OR into c.
func nextComb(c uint64) uint64 {
	lo := c & (-c)
	next := c + lo
	hi := (next & (-next)) - lo
	hi /= lo
	hi >>= 1
	return next | hi
}

// CountCombs returns C(n, k), the number of distinct k-subsets.
func CountCombs(n, k int) uint64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := uint64(1)
	for i := 0; i < k; i++ {
		result = result * uint64(n-i) / uint64(i+1)
	}
	return result
}

package magic

import "math/bits"

// Blockers returns all 2^k subsets of mask, k = popcount(mask). Subset i
// places bit j of i on the j-th lowest set square of mask, so index 0 is the
// empty board and index 2^k-1 is the full mask.
func Blockers(mask Bitboard) []Bitboard {
	n := 1 << mask.PopCount()
	out := make([]Bitboard, n)
	for idx := 0; idx < n; idx++ {
		out[idx] = Deposit(uint64(idx), mask)
	}
	return out
}

// Deposit is a software pdep: the low bits of x are placed, in order, on the
// set squares of mask.
func Deposit(x uint64, mask Bitboard) Bitboard {
	var res Bitboard
	var idx uint
	m := uint64(mask)
	for m != 0 {
		bit := uint(bits.TrailingZeros64(m))
		if (x>>idx)&1 != 0 {
			res |= 1 << bit
		}
		idx++
		m &= m - 1
	}
	return res
}

// Extract is a software pext: the bits of occ on the set squares of mask
// are packed into the low bits of the result. Extract(Deposit(x, m), m) == x
// for x < 2^popcount(m).
func Extract(occ Bitboard, mask Bitboard) uint64 {
	var res uint64
	var idx uint
	m := uint64(mask)
	for m != 0 {
		bit := uint(bits.TrailingZeros64(m))
		if (uint64(occ)>>bit)&1 != 0 {
			res |= 1 << idx
		}
		idx++
		m &= m - 1
	}
	return res
}

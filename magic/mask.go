package magic

// RelevantMask returns the squares whose occupancy can change the attack set
// of slider s on sq. The origin is excluded, and so is the last square of
// every ray since nothing lies beyond it.
func RelevantMask(sq Square, s Slider) Bitboard {
	var mask Bitboard
	for _, d := range s.directions() {
		f, r, ok := step(sq.File(), sq.Rank(), d)
		for ok {
			nf, nr, more := step(f, r, d)
			if !more {
				// edge square
				break
			}
			mask |= SquareBB(NewSquare(f, r))
			f, r, ok = nf, nr, more
		}
	}
	return mask
}

// Shift is the right shift that compresses a product to popcount(mask) bits.
func Shift(mask Bitboard) uint {
	return uint(64 - mask.PopCount())
}

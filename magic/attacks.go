package magic

// Attacks casts rays from sq and returns every square slider s reaches given
// the occupied squares. The first occupied square on each ray is included
// and ends that ray. occupied may be any board, not just a mask subset.
func Attacks(sq Square, s Slider, occupied Bitboard) Bitboard {
	var attacks Bitboard
	for _, d := range s.directions() {
		f, r, ok := step(sq.File(), sq.Rank(), d)
		for ok {
			t := SquareBB(NewSquare(f, r))
			attacks |= t
			if occupied&t != 0 {
				break
			}
			f, r, ok = step(f, r, d)
		}
	}
	return attacks
}

// Pair is one blocker occupancy together with its ground-truth attack set.
type Pair struct {
	Occupancy Bitboard
	Attacks   Bitboard
}

// Pairs expands the relevant mask of (sq, s) into every blocker subset and
// computes the attack set of each. The order matches Blockers.
func Pairs(sq Square, s Slider) []Pair {
	return pairsForMask(sq, s, RelevantMask(sq, s))
}

func pairsForMask(sq Square, s Slider, mask Bitboard) []Pair {
	blockers := Blockers(mask)
	pairs := make([]Pair, len(blockers))
	for i, occ := range blockers {
		pairs[i] = Pair{Occupancy: occ, Attacks: Attacks(sq, s, occ)}
	}
	return pairs
}

package magic

import "fmt"

// Table is the attack lookup a move generator builds from a Set: one flat
// slice per slider, each square owning 2^bits entries at its offset.
type Table struct {
	records [NumSliders][NumSquares]Record
	offsets [NumSliders][NumSquares]int
	attacks [NumSliders][]Bitboard
}

// NewTable fills the lookup from the ray oracle. It fails if a record maps two
// blocker subsets with different attack sets to the same entry.
func NewTable(set *Set) (*Table, error) {
	t := &Table{}
	for _, s := range Sliders {
		total := 0
		for sq := Square(0); sq < NumSquares; sq++ {
			r := set.Record(s, sq)
			if r.Slider != s || r.Square != sq {
				return nil, fmt.Errorf("table: slot %v %v holds record for %v %v", s, sq, r.Slider, r.Square)
			}
			if r.Bits() != r.Mask.PopCount() {
				return nil, fmt.Errorf("table: %v %v shift %d does not match mask popcount %d", s, sq, r.Shift, r.Mask.PopCount())
			}
			t.records[s][sq] = r
			t.offsets[s][sq] = total
			total += 1 << r.Bits()
		}

		t.attacks[s] = make([]Bitboard, total)
		filled := make([]bool, total)
		for sq := Square(0); sq < NumSquares; sq++ {
			r := t.records[s][sq]
			base := t.offsets[s][sq]
			for idx := uint64(0); idx < 1<<r.Bits(); idx++ {
				occ := Deposit(idx, r.Mask)
				att := Attacks(sq, s, occ)
				slot := base + int(Index(occ, r.Magic, r.Shift))
				if filled[slot] && t.attacks[s][slot] != att {
					return nil, fmt.Errorf("table: %v %v magic 0x%016x collides on occupancy 0x%016x", s, sq, r.Magic, uint64(occ))
				}
				filled[slot] = true
				t.attacks[s][slot] = att
			}
		}
	}
	return t, nil
}

// Attacks looks up the attack set of slider s on sq for a full-board occupancy.
func (t *Table) Attacks(s Slider, sq Square, occupied Bitboard) Bitboard {
	r := &t.records[s][sq]
	return t.attacks[s][t.offsets[s][sq]+int(r.Index(occupied))]
}

// QueenAttacks is the union of the rook and bishop lookups.
func (t *Table) QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return t.Attacks(Rook, sq, occupied) | t.Attacks(Bishop, sq, occupied)
}

// Len returns the number of entries in the slider's flat table.
func (t *Table) Len(s Slider) int { return len(t.attacks[s]) }

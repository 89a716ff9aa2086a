package magic

import (
	"testing"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// subsetsByCarryRipple enumerates the power set of mask without pdep.
func subsetsByCarryRipple(mask Bitboard) map[Bitboard]struct{} {
	out := make(map[Bitboard]struct{})
	var sub Bitboard
	for {
		out[sub] = struct{}{}
		sub = (sub - mask) & mask
		if sub == 0 {
			break
		}
	}
	return out
}

func TestBlockersIsPowerSet(t *testing.T) {
	masks := []Bitboard{0, 1, board("a1", "h8"), board("c3", "d4", "e5")}
	for _, s := range Sliders {
		for sq := Square(0); sq < NumSquares; sq++ {
			masks = append(masks, RelevantMask(sq, s))
		}
	}
	for _, mask := range masks {
		got := Blockers(mask)
		if len(got) != 1<<mask.PopCount() {
			t.Fatalf("mask %#x: %d subsets, want %d", uint64(mask), len(got), 1<<mask.PopCount())
		}
		seen := make(map[Bitboard]struct{}, len(got))
		for _, b := range got {
			if b&^mask != 0 {
				t.Fatalf("mask %#x: subset %#x has bits outside the mask", uint64(mask), uint64(b))
			}
			if _, dup := seen[b]; dup {
				t.Fatalf("mask %#x: duplicate subset %#x", uint64(mask), uint64(b))
			}
			seen[b] = struct{}{}
		}
		if want := subsetsByCarryRipple(mask); !maps.Equal(seen, want) {
			t.Fatalf("mask %#x: subsets differ from carry-ripple enumeration", uint64(mask))
		}
		if got[0] != 0 || got[len(got)-1] != mask {
			t.Fatalf("mask %#x: first %#x last %#x, want empty and full", uint64(mask), uint64(got[0]), uint64(got[len(got)-1]))
		}
	}
}

func TestDepositExtractInverse(t *testing.T) {
	mask := RelevantMask(square("a1"), Rook)
	for x := uint64(0); x < 1<<mask.PopCount(); x++ {
		occ := Deposit(x, mask)
		if got := Extract(occ, mask); got != x {
			t.Fatalf("Extract(Deposit(%d)) = %d", x, got)
		}
	}
	// Bits outside the mask are ignored.
	if got := Extract(^Bitboard(0), mask); got != 1<<mask.PopCount()-1 {
		t.Fatalf("Extract(full board) = %#x", got)
	}
}

func TestPairsAreIdempotent(t *testing.T) {
	for _, s := range Sliders {
		for sq := Square(0); sq < NumSquares; sq++ {
			first := Pairs(sq, s)
			second := Pairs(sq, s)
			if !slices.Equal(first, second) {
				t.Fatalf("%v %v: pair lists differ between runs", s, sq)
			}
			if len(first) != 1<<RelevantMask(sq, s).PopCount() {
				t.Fatalf("%v %v: %d pairs", s, sq, len(first))
			}
		}
	}
}

// Package verify re-checks a generated magic set against the ray oracle and
// against an independent slider implementation (dragontoothmg).
package verify

import (
	"errors"
	"fmt"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/rand"

	"github.com/kawacukennedy/chess-wizard/magic"
)

// RecordError describes the first problem found with one record.
type RecordError struct {
	Slider magic.Slider
	Square magic.Square
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("verify: %v %v: %s", e.Slider, e.Square, e.Reason)
}

// referenceAttacks is the dragontoothmg slider lookup for the same square numbering.
func referenceAttacks(s magic.Slider, sq magic.Square, occ magic.Bitboard) magic.Bitboard {
	if s == magic.Bishop {
		return magic.Bitboard(dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), uint64(occ)))
	}
	return magic.Bitboard(dragontoothmg.CalculateRookMoveBitboard(uint8(sq), uint64(occ)))
}

// Record checks one record from scratch: mask and shift are rebuilt, every
// blocker subset is rehashed with zero mismatches allowed, and every oracle
// attack set must agree with the reference implementation.
func Record(r magic.Record) error {
	fail := func(format string, args ...any) error {
		return &RecordError{Slider: r.Slider, Square: r.Square, Reason: fmt.Sprintf(format, args...)}
	}
	if mask := magic.RelevantMask(r.Square, r.Slider); r.Mask != mask {
		return fail("mask 0x%016x, want 0x%016x", uint64(r.Mask), uint64(mask))
	}
	if shift := magic.Shift(r.Mask); r.Shift != shift {
		return fail("shift %d, want %d", r.Shift, shift)
	}
	pairs := magic.Pairs(r.Square, r.Slider)
	for i, p := range pairs {
		if magic.Extract(p.Occupancy, r.Mask) != uint64(i) {
			return fail("pair %d out of enumeration order", i)
		}
		if ref := referenceAttacks(r.Slider, r.Square, p.Occupancy); ref != p.Attacks {
			return fail("oracle attacks 0x%016x disagree with reference 0x%016x for occupancy 0x%016x", uint64(p.Attacks), uint64(ref), uint64(p.Occupancy))
		}
	}
	if n := magic.Mismatches(r.Magic, r.Shift, pairs); n != 0 {
		return fail("magic 0x%016x has %d mismatching occupancies", r.Magic, n)
	}
	return nil
}

// Set runs Record on all 128 records and joins every failure.
func Set(set *magic.Set) error {
	var errs []error
	for _, r := range set.Records() {
		if err := Record(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RandomBoards builds the lookup table a move generator would use and
// compares it with the reference on n random full-board occupancies.
func RandomBoards(set *magic.Set, n int, seed uint64) error {
	table, err := magic.NewTable(set)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n; i++ {
		// Alternate dense and sparse boards.
		occ := magic.Bitboard(rng.Uint64())
		if i%2 == 1 {
			occ &= magic.Bitboard(rng.Uint64())
		}
		for _, s := range magic.Sliders {
			for sq := magic.Square(0); sq < magic.NumSquares; sq++ {
				got := table.Attacks(s, sq, occ)
				if want := referenceAttacks(s, sq, occ); got != want {
					return &RecordError{Slider: s, Square: sq, Reason: fmt.Sprintf("lookup 0x%016x, reference 0x%016x on board 0x%016x", uint64(got), uint64(want), uint64(occ))}
				}
			}
		}
	}
	return nil
}

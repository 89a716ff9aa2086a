package magic

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// Record is a validated magic for one (square, slider). A consumer computes
// index = ((occupied & Mask) * Magic) >> Shift.
type Record struct {
	Square Square
	Slider Slider
	Magic  uint64
	Mask   Bitboard
	Shift  uint

	// Attempts is the number of candidates drawn before Magic was found.
	// It is diagnostic only and not part of emitted artifacts.
	Attempts uint64
}

// Bits is the width of the index, 64 - Shift.
func (r Record) Bits() int { return 64 - int(r.Shift) }

// Index hashes a full-board occupancy.
func (r Record) Index(occupied Bitboard) uint64 {
	return Index(occupied&r.Mask, r.Magic, r.Shift)
}

func (r Record) String() string {
	return fmt.Sprintf("%v %v: magic 0x%016x mask 0x%016x shift %d", r.Slider, r.Square, r.Magic, uint64(r.Mask), r.Shift)
}

// Set holds one record per slider and square.
type Set struct {
	records [NumSliders][NumSquares]Record
}

// NewSet assembles a Set from exactly one record per (slider, square).
// Shifts above 64 are rejected.
func NewSet(records []Record) (*Set, error) {
	var (
		set  Set
		seen [NumSliders][NumSquares]bool
	)
	for _, r := range records {
		if r.Slider >= NumSliders || r.Square >= NumSquares {
			return nil, fmt.Errorf("record out of range: %v %v", r.Slider, r.Square)
		}
		if r.Shift > 64 {
			return nil, fmt.Errorf("record %v %v: shift %d out of range", r.Slider, r.Square, r.Shift)
		}
		if seen[r.Slider][r.Square] {
			return nil, fmt.Errorf("duplicate record for %v %v", r.Slider, r.Square)
		}
		seen[r.Slider][r.Square] = true
		set.records[r.Slider][r.Square] = r
	}
	for _, s := range Sliders {
		for sq := Square(0); sq < NumSquares; sq++ {
			if !seen[s][sq] {
				return nil, fmt.Errorf("missing record for %v %v", s, sq)
			}
		}
	}
	return &set, nil
}

// Record returns the record for (s, sq).
func (set *Set) Record(s Slider, sq Square) Record { return set.records[s][sq] }

// Records lists all records in artifact order: rook a1..h8, then bishop a1..h8.
func (set *Set) Records() []Record {
	out := make([]Record, 0, NumSliders*NumSquares)
	for _, s := range Sliders {
		out = append(out, set.records[s][:]...)
	}
	return out
}

var fingerprintSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/kawacukennedy/chess-wizard/magic"))

// Fingerprint is a name-based UUID over magics, masks and shifts in artifact
// order. Equal sets have equal fingerprints; Attempts does not contribute.
func (set *Set) Fingerprint() uuid.UUID {
	buf := make([]byte, 0, NumSliders*NumSquares*17)
	for _, r := range set.Records() {
		buf = binary.LittleEndian.AppendUint64(buf, r.Magic)
		buf = binary.LittleEndian.AppendUint64(buf, uint64(r.Mask))
		buf = append(buf, byte(r.Shift))
	}
	return uuid.NewSHA1(fingerprintSpace, buf)
}

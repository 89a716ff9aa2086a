package magic

import (
	"fmt"
	"math/bits"
	"strings"
)

// Bitboard is a set of squares, bit s set means square s is a member.
type Bitboard uint64

// Square indexes the board: rank = sq/8, file = sq%8, a1 = 0, h8 = 63.
type Square uint8

const (
	NumSquares = 64
	NumFiles   = 8
	NumRanks   = 8
)

// NewSquare builds a square from zero-based file and rank.
func NewSquare(file, rank int) Square { return Square(rank*8 + file) }

// Rank returns the zero-based rank (0 = first rank).
func (sq Square) Rank() int { return int(sq) / 8 }

// File returns the zero-based file (0 = a-file).
func (sq Square) File() int { return int(sq) % 8 }

// String returns the algebraic name, e.g. "e4".
func (sq Square) String() string {
	if sq >= NumSquares {
		return fmt.Sprintf("Square(%d)", uint8(sq))
	}
	return string([]byte{byte('a' + sq.File()), byte('1' + sq.Rank())})
}

// ParseSquare converts an algebraic coordinate ("a1".."h8") to a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return 0, fmt.Errorf("invalid square %q", s)
	}
	return NewSquare(int(s[0]-'a'), int(s[1]-'1')), nil
}

// SquareBB returns the bitboard holding only sq.
func SquareBB(sq Square) Bitboard { return Bitboard(1) << sq }

// Has reports whether sq is in the set.
func (b Bitboard) Has(sq Square) bool { return b&SquareBB(sq) != 0 }

// PopCount returns the number of set bits.
func (b Bitboard) PopCount() int { return bits.OnesCount64(uint64(b)) }

// LSB returns the lowest set square. Undefined for an empty board.
func (b Bitboard) LSB() Square { return Square(bits.TrailingZeros64(uint64(b))) }

// PopLSB removes the lowest set square and returns it.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// String renders the board as an 8x8 grid with rank 8 on top.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := NumRanks - 1; rank >= 0; rank-- {
		for file := 0; file < NumFiles; file++ {
			if b.Has(NewSquare(file, rank)) {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('.')
			}
			if file < NumFiles-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

package magic

import (
	"context"
	"errors"
	"fmt"
	"math/bits"

	"golang.org/x/exp/rand"
)

var ErrAttemptsExhausted = errors.New("magic: attempt limit reached")

const topByte = 0xFF00000000000000

// ctxCheckEvery is how many candidates are drawn between context checks.
const ctxCheckEvery = 1024

// Index hashes an occupancy already restricted to its mask.
func Index(occupancy Bitboard, magic uint64, shift uint) uint64 {
	return (uint64(occupancy) * magic) >> shift
}

// SearchError reports a square whose search ended without a magic.
type SearchError struct {
	Square   Square
	Slider   Slider
	Attempts uint64
	Err      error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%v %v: no magic after %d candidates: %v", e.Slider, e.Square, e.Attempts, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// SearchStats counts candidates seen by a Searcher.
type SearchStats struct {
	Drawn     uint64 // all candidates
	Filtered  uint64 // rejected by the top-byte filter, never validated
	Validated uint64 // checked against the pair list
}

// Searcher runs trial-and-validate searches. A Searcher is not safe for
// concurrent use; give each goroutine its own.
type Searcher struct {
	rng         *rand.Rand
	minTopBits  int
	maxAttempts uint64
	candidates  CandidateStrategy

	// slot table, valid where stamps[i] == epoch
	slots  []Bitboard
	stamps []uint32
	epoch  uint32

	Stats SearchStats
}

// NewSearcher returns a searcher drawing from a PCG stream seeded with seed.
func NewSearcher(seed uint64, cfg Config) *Searcher {
	src := &rand.PCGSource{}
	src.Seed(seed)
	return &Searcher{
		rng:         rand.New(src),
		minTopBits:  cfg.MinTopBits,
		maxAttempts: cfg.MaxAttempts,
		candidates:  cfg.Candidates,
	}
}

func (s *Searcher) candidate() uint64 {
	if s.candidates == Uniform {
		return s.rng.Uint64()
	}
	return s.rng.Uint64() & s.rng.Uint64() & s.rng.Uint64()
}

func (s *Searcher) reserve(n int) {
	if cap(s.slots) >= n {
		s.slots = s.slots[:n]
		s.stamps = s.stamps[:n]
		clear(s.stamps)
	} else {
		s.slots = make([]Bitboard, n)
		s.stamps = make([]uint32, n)
	}
	s.epoch = 0
}

// Find searches for a magic for (sq, slider) given its mask and the full
// pair list of that mask. It returns when a candidate validates against every
// pair, when MaxAttempts candidates have been drawn, or when ctx is done.
func (s *Searcher) Find(ctx context.Context, sq Square, slider Slider, mask Bitboard, pairs []Pair) (Record, error) {
	shift := Shift(mask)
	s.reserve(1 << mask.PopCount())

	for attempt := uint64(1); ; attempt++ {
		if s.maxAttempts > 0 && attempt > s.maxAttempts {
			return Record{}, &SearchError{Square: sq, Slider: slider, Attempts: s.maxAttempts, Err: ErrAttemptsExhausted}
		}
		if attempt%ctxCheckEvery == 1 {
			if err := ctx.Err(); err != nil {
				return Record{}, &SearchError{Square: sq, Slider: slider, Attempts: attempt - 1, Err: err}
			}
		}

		m := s.candidate()
		s.Stats.Drawn++
		if bits.OnesCount64((m*uint64(mask))&topByte) < s.minTopBits {
			s.Stats.Filtered++
			continue
		}
		s.Stats.Validated++
		if s.try(m, shift, pairs) {
			return Record{
				Square:   sq,
				Slider:   slider,
				Magic:    m,
				Mask:     mask,
				Shift:    shift,
				Attempts: attempt,
			}, nil
		}
	}
}

// try validates m, stopping at the first slot holding a different attack set.
func (s *Searcher) try(m uint64, shift uint, pairs []Pair) bool {
	s.epoch++
	if s.epoch == 0 {
		clear(s.stamps)
		s.epoch = 1
	}
	for _, p := range pairs {
		idx := Index(p.Occupancy, m, shift)
		if s.stamps[idx] != s.epoch {
			s.stamps[idx] = s.epoch
			s.slots[idx] = p.Attacks
			continue
		}
		if s.slots[idx] != p.Attacks {
			return false
		}
	}
	return true
}

// Validate rechecks a magic from scratch: it holds when every two pairs that
// share an index share an attack set.
func Validate(magic uint64, shift uint, pairs []Pair) bool {
	return mismatches(magic, shift, pairs, true) == 0
}

// Mismatches counts the pairs whose index is already claimed by a different
// attack set. Zero for every valid magic.
func Mismatches(magic uint64, shift uint, pairs []Pair) int {
	return mismatches(magic, shift, pairs, false)
}

func mismatches(magic uint64, shift uint, pairs []Pair, stopEarly bool) int {
	if shift > 64 {
		return len(pairs)
	}
	seen := make(map[uint64]Bitboard, len(pairs))
	bad := 0
	for _, p := range pairs {
		idx := Index(p.Occupancy, magic, shift)
		a, ok := seen[idx]
		if !ok {
			seen[idx] = p.Attacks
			continue
		}
		if a != p.Attacks {
			bad++
			if stopEarly {
				return bad
			}
		}
	}
	return bad
}

package magic

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// DefaultSeed makes generated artifacts reproducible unless overridden.
const DefaultSeed uint64 = 0x5EEDC0DE20240001

// DefaultMinTopBits is the quality filter threshold: a candidate m is only
// validated when (m*mask) has at least this many bits set in its top byte.
const DefaultMinTopBits = 6

var ErrInvalidConfig = errors.New("magic: invalid config")

// CandidateStrategy selects how candidate multipliers are drawn.
type CandidateStrategy uint8

const (
	// Sparse ANDs three uniform draws, giving about 8 set bits per candidate.
	Sparse CandidateStrategy = iota
	// Uniform uses one uniform 64-bit draw per candidate.
	Uniform
)

func (c CandidateStrategy) String() string {
	switch c {
	case Sparse:
		return "sparse"
	case Uniform:
		return "uniform"
	default:
		return fmt.Sprintf("CandidateStrategy(%d)", uint8(c))
	}
}

// ParseCandidateStrategy accepts "sparse" or "uniform".
func ParseCandidateStrategy(s string) (CandidateStrategy, error) {
	switch s {
	case "sparse":
		return Sparse, nil
	case "uniform":
		return Uniform, nil
	}
	return 0, fmt.Errorf("%w: unknown candidate strategy %q", ErrInvalidConfig, s)
}

// Config controls a generation run.
type Config struct {
	Seed       uint64
	MinTopBits int // 0..8

	// MaxAttempts bounds the candidates drawn per square; 0 searches until found.
	MaxAttempts uint64
	Candidates  CandidateStrategy

	// Workers is the number of concurrent searches; 0 means runtime.NumCPU().
	Workers int

	// SquareTimeout bounds each search; 0 disables it. Running past it fails
	// that square only.
	SquareTimeout time.Duration

	// Progress, if set, is called once per finished record. It may be called
	// from several goroutines at once.
	Progress func(Record)
}

// DefaultConfig returns the reproducible default configuration.
func DefaultConfig() Config {
	return Config{
		Seed:       DefaultSeed,
		MinTopBits: DefaultMinTopBits,
		Candidates: Sparse,
		Workers:    runtime.NumCPU(),
	}
}

// Validate rejects out-of-range settings.
func (c Config) Validate() error {
	if c.MinTopBits < 0 || c.MinTopBits > 8 {
		return fmt.Errorf("%w: min top bits %d outside 0..8", ErrInvalidConfig, c.MinTopBits)
	}
	if c.Candidates != Sparse && c.Candidates != Uniform {
		return fmt.Errorf("%w: candidate strategy %v", ErrInvalidConfig, c.Candidates)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	if c.SquareTimeout < 0 {
		return fmt.Errorf("%w: square timeout %v", ErrInvalidConfig, c.SquareTimeout)
	}
	return nil
}

// WorkerCount is the number of concurrent searches Generate runs.
func (c Config) WorkerCount() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

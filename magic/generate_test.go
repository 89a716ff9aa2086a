package magic

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"golang.org/x/exp/slices"
)

var (
	defaultSetOnce sync.Once
	defaultSetVal  *Set
	defaultSetErr  error
)

// defaultSet generates the default-config set once per test binary.
func defaultSet(t testing.TB) *Set {
	t.Helper()
	defaultSetOnce.Do(func() {
		defaultSetVal, defaultSetErr = Generate(context.Background(), DefaultConfig())
	})
	if defaultSetErr != nil {
		t.Fatalf("Generate: %v", defaultSetErr)
	}
	return defaultSetVal
}

func TestGenerateValidatesEveryRecord(t *testing.T) {
	set := defaultSet(t)
	records := set.Records()
	if len(records) != 128 {
		t.Fatalf("got %d records", len(records))
	}
	for i, rec := range records {
		wantSlider := Sliders[i/64]
		wantSquare := Square(i % 64)
		if rec.Slider != wantSlider || rec.Square != wantSquare {
			t.Fatalf("record %d is %v %v, want %v %v", i, rec.Slider, rec.Square, wantSlider, wantSquare)
		}
		mask := RelevantMask(rec.Square, rec.Slider)
		if rec.Mask != mask || rec.Shift != Shift(mask) {
			t.Fatalf("%v: mask/shift differ from %#x/%d", rec, uint64(mask), Shift(mask))
		}
		// Every blocker subset, not a sample.
		if n := Mismatches(rec.Magic, rec.Shift, Pairs(rec.Square, rec.Slider)); n != 0 {
			t.Fatalf("%v: %d mismatches", rec, n)
		}
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1
	serial, err := Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate serial: %v", err)
	}
	parallel := defaultSet(t)
	if !slices.Equal(serial.Records(), parallel.Records()) {
		t.Fatalf("records depend on worker count")
	}
	if serial.Fingerprint() != parallel.Fingerprint() {
		t.Fatalf("fingerprints differ: %v vs %v", serial.Fingerprint(), parallel.Fingerprint())
	}
}

func TestGenerateSeedChangesMagics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 12345
	other, err := Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if other.Fingerprint() == defaultSet(t).Fingerprint() {
		t.Fatalf("different seeds produced identical sets")
	}
}

func TestFindMagicMatchesGenerate(t *testing.T) {
	set := defaultSet(t)
	for _, c := range []struct {
		sq string
		s  Slider
	}{{"a1", Rook}, {"e4", Rook}, {"h8", Bishop}, {"d5", Bishop}} {
		sq := square(c.sq)
		rec, err := FindMagic(context.Background(), sq, c.s, DefaultConfig())
		if err != nil {
			t.Fatalf("FindMagic %v %v: %v", c.s, sq, err)
		}
		if rec != set.Record(c.s, sq) {
			t.Fatalf("FindMagic %v, Generate %v", rec, set.Record(c.s, sq))
		}
	}
}

func TestGenerateReportsProgress(t *testing.T) {
	var calls atomic.Int32
	var seen [NumSliders][NumSquares]atomic.Bool
	cfg := DefaultConfig()
	cfg.Progress = func(r Record) {
		calls.Add(1)
		seen[r.Slider][r.Square].Store(true)
	}
	if _, err := Generate(context.Background(), cfg); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if calls.Load() != 128 {
		t.Fatalf("progress called %d times", calls.Load())
	}
	for _, s := range Sliders {
		for sq := Square(0); sq < NumSquares; sq++ {
			if !seen[s][sq].Load() {
				t.Fatalf("no progress for %v %v", s, sq)
			}
		}
	}
}

func TestGenerateCollectsPerSquareFailures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinTopBits = 8
	cfg.MaxAttempts = 1
	set, err := Generate(context.Background(), cfg)
	if set != nil {
		t.Fatalf("expected no set when searches fail")
	}
	var ge *GenerateError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *GenerateError, got %v", err)
	}
	if len(ge.Failures) == 0 {
		t.Fatalf("no failures listed")
	}
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("failures do not wrap ErrAttemptsExhausted: %v", err)
	}
	for i, f := range ge.Failures {
		if i > 0 {
			prev := ge.Failures[i-1]
			if jobIndex(prev.Slider, prev.Square) >= jobIndex(f.Slider, f.Square) {
				t.Fatalf("failures out of artifact order at %d", i)
			}
		}
		if !errors.Is(f, ErrAttemptsExhausted) {
			t.Fatalf("%v: unexpected cause", f)
		}
	}
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	set, err := Generate(ctx, DefaultConfig())
	if set != nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled and no set, got %v, %v", set, err)
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	for _, mutate := range []func(*Config){
		func(c *Config) { c.MinTopBits = 9 },
		func(c *Config) { c.MinTopBits = -1 },
		func(c *Config) { c.Workers = -2 },
		func(c *Config) { c.Candidates = CandidateStrategy(7) },
		func(c *Config) { c.SquareTimeout = -1 },
	} {
		cfg := DefaultConfig()
		mutate(&cfg)
		if _, err := Generate(context.Background(), cfg); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("config %+v: expected ErrInvalidConfig, got %v", cfg, err)
		}
	}
}

func TestJobSeedsDistinct(t *testing.T) {
	seen := make(map[uint64]int)
	for job := 0; job < numJobs; job++ {
		s := jobSeed(DefaultSeed, job)
		if prev, dup := seen[s]; dup {
			t.Fatalf("jobs %d and %d share seed %#x", prev, job, s)
		}
		seen[s] = job
	}
}

func TestWorkerCountResolvesZero(t *testing.T) {
	if got := (Config{}).WorkerCount(); got != runtime.NumCPU() {
		t.Fatalf("WorkerCount() = %d with Workers 0, want %d", got, runtime.NumCPU())
	}
	if got := (Config{Workers: 3}).WorkerCount(); got != 3 {
		t.Fatalf("WorkerCount() = %d, want 3", got)
	}
}

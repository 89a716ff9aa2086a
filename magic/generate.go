package magic

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

const numJobs = NumSliders * NumSquares

// GenerateError lists every (square, slider) whose search failed.
type GenerateError struct {
	Failures []*SearchError
}

func (e *GenerateError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("magic: %d of %d searches failed: %s", len(e.Failures), numJobs, strings.Join(parts, "; "))
}

func (e *GenerateError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// jobIndex orders jobs like the artifact: rook a1..h8, bishop a1..h8.
func jobIndex(s Slider, sq Square) int { return int(s)*NumSquares + int(sq) }

// jobSeed derives an independent stream per job (splitmix64 finalizer), so
// results do not depend on scheduling or worker count.
func jobSeed(seed uint64, job int) uint64 {
	z := seed + uint64(job+1)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// FindMagic searches one (square, slider) with the stream Generate would use
// for it, so both return the same record for the same config.
func FindMagic(ctx context.Context, sq Square, s Slider, cfg Config) (Record, error) {
	if err := cfg.Validate(); err != nil {
		return Record{}, err
	}
	return findOne(ctx, cfg, s, sq)
}

func findOne(ctx context.Context, cfg Config, s Slider, sq Square) (Record, error) {
	if cfg.SquareTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.SquareTimeout)
		defer cancel()
	}
	mask := RelevantMask(sq, s)
	pairs := pairsForMask(sq, s, mask)
	searcher := NewSearcher(jobSeed(cfg.Seed, jobIndex(s, sq)), cfg)
	return searcher.Find(ctx, sq, s, mask, pairs)
}

// Generate finds magics for all 64 squares of both sliders. The 128 searches
// run concurrently and each writes only its own slot. A search that hits
// MaxAttempts or SquareTimeout fails only its square; the run still finishes
// the others and then returns a *GenerateError naming every failure and no
// Set. Cancelling ctx aborts the whole run.
func Generate(ctx context.Context, cfg Config) (*Set, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		set      Set
		failures [numJobs]*SearchError
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.WorkerCount())

	for job := 0; job < numJobs; job++ {
		if gctx.Err() != nil {
			break
		}
		s := Sliders[job/NumSquares]
		sq := Square(job % NumSquares)
		g.Go(func() error {
			rec, err := findOne(gctx, cfg, s, sq)
			if err != nil {
				if cerr := gctx.Err(); cerr != nil {
					return cerr
				}
				se, ok := err.(*SearchError)
				if !ok {
					se = &SearchError{Square: sq, Slider: s, Err: err}
				}
				failures[jobIndex(s, sq)] = se
				return nil
			}
			set.records[s][sq] = rec
			if cfg.Progress != nil {
				cfg.Progress(rec)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var failed []*SearchError
	for _, f := range failures {
		if f != nil {
			failed = append(failed, f)
		}
	}
	if len(failed) > 0 {
		return nil, &GenerateError{Failures: failed}
	}
	return &set, nil
}

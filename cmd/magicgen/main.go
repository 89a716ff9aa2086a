// cmd/magicgen/main.go
//
// magicgen searches rook and bishop magic multipliers for all 64 squares and
// writes them, with their relevant-occupancy masks and shifts, as one artifact.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/kawacukennedy/chess-wizard/emit"
	"github.com/kawacukennedy/chess-wizard/magic"
	"github.com/kawacukennedy/chess-wizard/verify"
)

var (
	outPath       = flag.String("out", "", "Output artifact path (required)")
	formatName    = flag.String("format", "", `Artifact format: "cpp", "go" or "json" (default: from -out extension)`)
	pkgName       = flag.String("package", "magics", "Package name for -format go")
	seed          = flag.Uint64("seed", magic.DefaultSeed, "Seed for the candidate generator")
	minTopBits    = flag.Int("min-top-bits", magic.DefaultMinTopBits, "Quality filter: minimum set bits in the top byte of magic*mask (0..8)")
	maxAttempts   = flag.Uint64("max-attempts", 0, "Candidates per square before giving up (0 = unbounded)")
	candidates    = flag.String("candidates", "sparse", `Candidate draw: "sparse" or "uniform"`)
	workers       = flag.Int("workers", runtime.NumCPU(), "Concurrent square searches")
	squareTimeout = flag.Duration("square-timeout", 0, "Time limit per square search (0 = none)")
	verifyOut     = flag.Bool("verify", true, "Cross-check every record against a reference slider implementation before writing")
	verifyBoards  = flag.Int("verify-boards", 2000, "Random full boards checked through the lookup table when -verify is set")
	svgPath       = flag.String("svg", "", "Optional SVG diagram of index widths")
	quiet         = flag.Bool("quiet", false, "Suppress per-square progress")
	cpuProf       = flag.String("cpuprofile", "", "Write CPU profile to file during run")
)

func main() {
	flag.Parse()
	log.SetOutput(os.Stdout)
	log.SetFlags(log.Ltime)
	log.SetPrefix("magicgen: ")

	if *outPath == "" {
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, format, err := configFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "magicgen: %v\n", err)
		os.Exit(2)
	}

	if *cpuProf != "" {
		f, err := os.Create(*cpuProf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating cpuprofile: %v\n", err)
			os.Exit(2)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "start cpu profile: %v\n", err)
			os.Exit(2)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, format); err != nil {
		log.Print(err)
		var ge *magic.GenerateError
		if errors.As(err, &ge) {
			for _, f := range ge.Failures {
				log.Printf("failed: %v", f)
			}
		}
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}

func configFromFlags() (magic.Config, emit.Format, error) {
	cfg := magic.DefaultConfig()
	cfg.Seed = *seed
	cfg.MinTopBits = *minTopBits
	cfg.MaxAttempts = *maxAttempts
	cfg.Workers = *workers
	cfg.SquareTimeout = *squareTimeout

	strategy, err := magic.ParseCandidateStrategy(*candidates)
	if err != nil {
		return cfg, "", err
	}
	cfg.Candidates = strategy
	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}

	var format emit.Format
	if *formatName != "" {
		format, err = emit.ParseFormat(*formatName)
	} else {
		format, err = emit.FormatFromPath(*outPath)
	}
	if err != nil {
		return cfg, "", err
	}
	return cfg, format, nil
}

func run(ctx context.Context, cfg magic.Config, format emit.Format) error {
	if !*quiet {
		cfg.Progress = func(r magic.Record) {
			log.Printf("%-6v %v: 0x%016x shift %d (%d candidates)", r.Slider, r.Square, r.Magic, r.Shift, r.Attempts)
		}
	}

	log.Printf("searching 128 magics, seed 0x%016x, %s candidates, %d workers", cfg.Seed, cfg.Candidates, cfg.WorkerCount())
	start := time.Now()
	set, err := magic.Generate(ctx, cfg)
	if err != nil {
		return fmt.Errorf("generation failed, nothing written: %w", err)
	}
	log.Printf("found all magics in %s, fingerprint %s", time.Since(start).Round(time.Millisecond), set.Fingerprint())

	if *verifyOut {
		if err := verify.Set(set); err != nil {
			return fmt.Errorf("verification failed, nothing written: %w", err)
		}
		if err := verify.RandomBoards(set, *verifyBoards, cfg.Seed); err != nil {
			return fmt.Errorf("verification failed, nothing written: %w", err)
		}
		log.Printf("verified 128 records and %d random boards", *verifyBoards)
	}

	meta := emit.NewMeta(set, cfg)
	meta.Package = *pkgName
	data, err := emit.Render(set, format, meta)
	if err != nil {
		return err
	}
	var files []emit.File
	if *svgPath != "" {
		files = append(files, emit.File{Path: *svgPath, Data: emit.RenderSVG(set)})
	}
	files = append(files, emit.File{Path: *outPath, Data: data})
	if err := emit.WriteFiles(files...); err != nil {
		return err
	}
	for _, f := range files {
		log.Printf("wrote %s", f.Path)
	}
	return nil
}

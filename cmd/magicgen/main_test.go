package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/kawacukennedy/chess-wizard/emit"
	"github.com/kawacukennedy/chess-wizard/magic"
)

func setFlags(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		old := flag.Lookup(k).Value.String()
		if err := flag.Set(k, v); err != nil {
			t.Fatalf("flag.Set(%s, %s): %v", k, v, err)
		}
		t.Cleanup(func() { _ = flag.Set(k, old) })
	}
}

func TestRunWritesVerifiedArtifact(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "magics.json")
	setFlags(t, map[string]string{
		"out":           out,
		"quiet":         "true",
		"verify-boards": "50",
		"svg":           filepath.Join(dir, "widths.svg"),
	})
	cfg, format, err := configFromFlags()
	if err != nil {
		t.Fatalf("configFromFlags: %v", err)
	}
	if format != emit.FormatJSON {
		t.Fatalf("format %q", format)
	}
	if err := run(context.Background(), cfg, format); err != nil {
		t.Fatalf("run: %v", err)
	}
	set, meta, err := emit.LoadJSON(out)
	if err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if meta.Seed != magic.DefaultSeed {
		t.Fatalf("seed %#x", meta.Seed)
	}
	if len(set.Records()) != 128 {
		t.Fatalf("%d records", len(set.Records()))
	}
	if _, err := os.Stat(filepath.Join(dir, "widths.svg")); err != nil {
		t.Fatalf("svg: %v", err)
	}
}

func TestRunWritesNothingOnFailure(t *testing.T) {
	out := filepath.Join(t.TempDir(), "magics.h")
	setFlags(t, map[string]string{
		"out":          out,
		"quiet":        "true",
		"min-top-bits": "8",
		"max-attempts": "1",
	})
	cfg, format, err := configFromFlags()
	if err != nil {
		t.Fatalf("configFromFlags: %v", err)
	}
	if err := run(context.Background(), cfg, format); err == nil {
		t.Fatalf("expected generation to fail")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("artifact written after failure: %v", err)
	}
}

func TestRunWritesNothingWhenDiagramFails(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "magics.json")
	setFlags(t, map[string]string{
		"out":    out,
		"quiet":  "true",
		"verify": "false",
		"svg":    filepath.Join(dir, "missing", "widths.svg"),
	})
	cfg, format, err := configFromFlags()
	if err != nil {
		t.Fatalf("configFromFlags: %v", err)
	}
	if err := run(context.Background(), cfg, format); err == nil {
		t.Fatalf("expected diagram write to fail")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("artifact written after failure: %v", err)
	}
}

func TestConfigFromFlagsRejectsBadValues(t *testing.T) {
	for _, kv := range []map[string]string{
		{"out": "magics.h", "candidates": "dense"},
		{"out": "magics.h", "min-top-bits": "9"},
		{"out": "magics.txt"},
		{"out": "magics.h", "format": "yaml"},
	} {
		t.Run(kv["out"], func(t *testing.T) {
			setFlags(t, kv)
			if _, _, err := configFromFlags(); err == nil {
				t.Fatalf("flags %v accepted", kv)
			}
		})
	}
}

// Package emit serializes a magic.Set into artifacts a native move generator
// can embed. Every writer renders the whole artifact in memory first and then
// replaces the destination atomically, so a failed run leaves no partial file.
package emit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kawacukennedy/chess-wizard/magic"
)

// Format names an artifact layout.
type Format string

const (
	FormatCpp  Format = "cpp"
	FormatGo   Format = "go"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCpp, FormatGo, FormatJSON}

// ParseFormat accepts "cpp", "go" or "json".
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".h", ".hh", ".hpp", ".hxx":
		return FormatCpp, nil
	case ".go":
		return FormatGo, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("cannot infer format from %q, use -format", path)
}

// Meta is provenance written next to the records.
type Meta struct {
	Seed        uint64
	MinTopBits  int
	Candidates  string
	Fingerprint string
	Package     string // Go package name for FormatGo
}

// NewMeta fills Meta from the config that produced set.
func NewMeta(set *magic.Set, cfg magic.Config) Meta {
	return Meta{
		Seed:        cfg.Seed,
		MinTopBits:  cfg.MinTopBits,
		Candidates:  cfg.Candidates.String(),
		Fingerprint: set.Fingerprint().String(),
		Package:     "magics",
	}
}

// Render produces the artifact bytes.
func Render(set *magic.Set, format Format, meta Meta) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatCpp:
		err = renderCpp(&buf, set, meta)
	case FormatGo:
		return renderGo(set, meta)
	case FormatJSON:
		err = renderJSON(&buf, set, meta)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders set and atomically replaces path with it.
func WriteFile(path string, set *magic.Set, format Format, meta Meta) error {
	data, err := Render(set, format, meta)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// File is one rendered output of a run.
type File struct {
	Path string
	Data []byte
}

// WriteFiles stages every file in a temp file beside its destination and
// renames them into place, in order, only after all of them were staged.
// If staging fails no destination is touched. Put the primary artifact last.
func WriteFiles(files ...File) (err error) {
	tmps := make([]string, 0, len(files))
	defer func() {
		if err != nil {
			for _, tmp := range tmps {
				_ = os.Remove(tmp)
			}
		}
	}()
	for _, f := range files {
		var tmp string
		if tmp, err = stage(f.Path, f.Data); err != nil {
			return err
		}
		tmps = append(tmps, tmp)
	}
	for i, f := range files {
		if err = os.Rename(tmps[i], f.Path); err != nil {
			return fmt.Errorf("emit: %w", err)
		}
	}
	return nil
}

// writeAtomic writes data to a temp file beside path and renames it into
// place. On failure the temp file is removed and path is untouched.
func writeAtomic(path string, data []byte) error {
	return WriteFiles(File{Path: path, Data: data})
}

// stage writes data to a new temp file in path's directory and returns its
// name. On failure nothing is left behind.
func stage(path string, data []byte) (tmp string, err error) {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return "", fmt.Errorf("emit: %w", err)
	}
	tmp = f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("emit: write %s: %w", path, err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("emit: sync %s: %w", path, err)
	}
	if err = f.Close(); err != nil {
		return "", fmt.Errorf("emit: close %s: %w", path, err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return "", fmt.Errorf("emit: %w", err)
	}
	return tmp, nil
}

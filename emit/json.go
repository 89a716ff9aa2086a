package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kawacukennedy/chess-wizard/magic"
)

const jsonLayoutTag = "magic_v1"

// 64-bit values are hex strings so readers without exact 64-bit numbers
// (JavaScript, jq) keep them lossless.
type recordJSON struct {
	Slider string `json:"slider"`
	Square string `json:"square"`
	Magic  string `json:"magic"`
	Mask   string `json:"mask"`
	Shift  uint   `json:"shift"`
}

type artifactJSON struct {
	Layout      string       `json:"layout"`
	Seed        string       `json:"seed"`
	MinTopBits  int          `json:"min_top_bits"`
	Candidates  string       `json:"candidates"`
	Fingerprint string       `json:"fingerprint"`
	Records     []recordJSON `json:"records"`
}

func hex64(v uint64) string { return fmt.Sprintf("0x%016x", v) }

func renderJSON(w io.Writer, set *magic.Set, meta Meta) error {
	payload := artifactJSON{
		Layout:      jsonLayoutTag,
		Seed:        hex64(meta.Seed),
		MinTopBits:  meta.MinTopBits,
		Candidates:  meta.Candidates,
		Fingerprint: meta.Fingerprint,
	}
	for _, r := range set.Records() {
		payload.Records = append(payload.Records, recordJSON{
			Slider: r.Slider.String(),
			Square: r.Square.String(),
			Magic:  hex64(r.Magic),
			Mask:   hex64(uint64(r.Mask)),
			Shift:  r.Shift,
		})
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// LoadJSON reads an artifact written with FormatJSON. The stored fingerprint
// must match the records.
func LoadJSON(path string) (*magic.Set, Meta, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, Meta{}, err
	}
	var p artifactJSON
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, Meta{}, fmt.Errorf("emit: %s: %w", path, err)
	}
	if p.Layout != jsonLayoutTag {
		return nil, Meta{}, fmt.Errorf("emit: %s: unsupported layout %q", path, p.Layout)
	}

	records := make([]magic.Record, 0, len(p.Records))
	for i, rj := range p.Records {
		r, err := rj.record()
		if err != nil {
			return nil, Meta{}, fmt.Errorf("emit: %s: record %d: %w", path, i, err)
		}
		records = append(records, r)
	}
	set, err := magic.NewSet(records)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("emit: %s: %w", path, err)
	}

	seed, err := strconv.ParseUint(p.Seed, 0, 64)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("emit: %s: seed: %w", path, err)
	}
	meta := Meta{
		Seed:        seed,
		MinTopBits:  p.MinTopBits,
		Candidates:  p.Candidates,
		Fingerprint: p.Fingerprint,
	}
	if got := set.Fingerprint().String(); got != meta.Fingerprint {
		return nil, Meta{}, fmt.Errorf("emit: %s: fingerprint %s does not match records (%s)", path, meta.Fingerprint, got)
	}
	return set, meta, nil
}

func (rj recordJSON) record() (magic.Record, error) {
	s, err := magic.ParseSlider(rj.Slider)
	if err != nil {
		return magic.Record{}, err
	}
	sq, err := magic.ParseSquare(rj.Square)
	if err != nil {
		return magic.Record{}, err
	}
	m, err := strconv.ParseUint(rj.Magic, 0, 64)
	if err != nil {
		return magic.Record{}, fmt.Errorf("magic: %w", err)
	}
	mask, err := strconv.ParseUint(rj.Mask, 0, 64)
	if err != nil {
		return magic.Record{}, fmt.Errorf("mask: %w", err)
	}
	if want := magic.Shift(magic.Bitboard(mask)); rj.Shift != want {
		return magic.Record{}, fmt.Errorf("shift %d does not match mask popcount (want %d)", rj.Shift, want)
	}
	return magic.Record{
		Square: sq,
		Slider: s,
		Magic:  m,
		Mask:   magic.Bitboard(mask),
		Shift:  rj.Shift,
	}, nil
}

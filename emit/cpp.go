package emit

import (
	"fmt"
	"io"
	"strings"

	"github.com/kawacukennedy/chess-wizard/magic"
)

// formatHex64 formats 64 values as one "0x...ULL" entry per line.
func formatHex64(vals [64]uint64, suffix string) string {
	var b strings.Builder
	for i, v := range vals {
		b.WriteString(fmt.Sprintf("    0x%016x%s", v, suffix))
		if i < 63 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatInt64 formats 64 ints, eight per row. Go literals need the
// trailing comma, C arrays are written without it.
func formatInt64(vals [64]int, indent string, trailingComma bool) string {
	var b strings.Builder
	for i := 0; i < 64; i++ {
		if i%8 == 0 {
			b.WriteString(indent)
		}
		b.WriteString(fmt.Sprintf("%d", vals[i]))
		switch {
		case i == 63 && !trailingComma:
			b.WriteString("\n")
		case i%8 == 7:
			b.WriteString(",\n")
		default:
			b.WriteString(", ")
		}
	}
	return b.String()
}

// columns splits one slider's records into flat arrays indexed by square.
func columns(set *magic.Set, s magic.Slider) (magics, masks [64]uint64, shifts [64]int) {
	for sq := magic.Square(0); sq < magic.NumSquares; sq++ {
		r := set.Record(s, sq)
		magics[sq] = r.Magic
		masks[sq] = uint64(r.Mask)
		shifts[sq] = int(r.Shift)
	}
	return
}

func renderCpp(w io.Writer, set *magic.Set, meta Meta) error {
	var b strings.Builder
	b.WriteString("#pragma once\n\n")
	b.WriteString("#include <cstdint>\n\n")
	b.WriteString("// Generated by magicgen. index = ((occupied & MASK[sq]) * MAGIC[sq]) >> SHIFT[sq]\n")
	b.WriteString(fmt.Sprintf("// seed 0x%016x, min top bits %d, candidates %s\n", meta.Seed, meta.MinTopBits, meta.Candidates))
	b.WriteString(fmt.Sprintf("// fingerprint %s\n\n", meta.Fingerprint))

	for _, s := range magic.Sliders {
		lower := s.String()
		name := strings.ToUpper(lower)
		magics, masks, shifts := columns(set, s)
		b.WriteString(fmt.Sprintf("// %s magic bitboard constants\n", name[:1]+lower[1:]))
		b.WriteString(fmt.Sprintf("const uint64_t %s_MAGICS[64] = {\n", name))
		b.WriteString(formatHex64(magics, "ULL"))
		b.WriteString("};\n\n")
		b.WriteString(fmt.Sprintf("const uint64_t %s_MASKS[64] = {\n", name))
		b.WriteString(formatHex64(masks, "ULL"))
		b.WriteString("};\n\n")
		b.WriteString(fmt.Sprintf("const int %s_SHIFTS[64] = {\n", name))
		b.WriteString(formatInt64(shifts, "    ", false))
		b.WriteString("};\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

package emit

import (
	"fmt"
	"go/format"
	"go/token"
	"strings"

	"github.com/kawacukennedy/chess-wizard/magic"
)

// formatHexRows formats 64 values as Go hex literals, four per row.
func formatHexRows(vals [64]uint64) string {
	var b strings.Builder
	for i := 0; i < 64; i++ {
		if i%4 == 0 {
			b.WriteString("\t")
		}
		b.WriteString(fmt.Sprintf("0x%016x", vals[i]))
		if i%4 == 3 {
			b.WriteString(",\n")
		} else {
			b.WriteString(", ")
		}
	}
	return b.String()
}

func renderGo(set *magic.Set, meta Meta) ([]byte, error) {
	pkg := meta.Package
	if pkg == "" {
		pkg = "magics"
	}
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("emit: invalid package name %q", pkg)
	}

	var b strings.Builder
	b.WriteString("// Code generated by magicgen; DO NOT EDIT.\n")
	b.WriteString(fmt.Sprintf("// seed 0x%016x, min top bits %d, candidates %s\n", meta.Seed, meta.MinTopBits, meta.Candidates))
	b.WriteString(fmt.Sprintf("// fingerprint %s\n\n", meta.Fingerprint))
	b.WriteString(fmt.Sprintf("package %s\n\n", pkg))
	b.WriteString("// index = ((occupied & Mask[sq]) * Magic[sq]) >> Shift[sq]\n\n")

	for _, s := range magic.Sliders {
		lower := s.String()
		name := strings.ToUpper(lower[:1]) + lower[1:]
		magics, masks, shifts := columns(set, s)

		b.WriteString(fmt.Sprintf("var %sMagics = [64]uint64{\n", name))
		b.WriteString(formatHexRows(magics))
		b.WriteString("}\n\n")
		b.WriteString(fmt.Sprintf("var %sMasks = [64]uint64{\n", name))
		b.WriteString(formatHexRows(masks))
		b.WriteString("}\n\n")
		b.WriteString(fmt.Sprintf("var %sShifts = [64]uint8{\n", name))
		b.WriteString(formatInt64(shifts, "\t", true))
		b.WriteString("}\n\n")
	}

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("emit: gofmt generated source: %w", err)
	}
	return src, nil
}

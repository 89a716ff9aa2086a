package emit

import (
	"bytes"
	"fmt"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/kawacukennedy/chess-wizard/magic"
)

const (
	svgCell   = 40
	svgMargin = 30
	svgGap    = 40
)

// indexBitsColor shades a square by index width; wider masks are darker.
func indexBitsColor(bits int) string {
	// 5 (smallest bishop mask) .. 12 (rook corner)
	t := float64(bits-5) / 7
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	g := int(235 - 150*t)
	return fmt.Sprintf("rgb(%d,%d,255)", g, g)
}

// RenderSVG draws one 8x8 board per slider with each square labelled by its
// index width (64 - shift).
func RenderSVG(set *magic.Set) []byte {
	var buf bytes.Buffer
	side := 8 * svgCell
	width := svgMargin*2 + side*magic.NumSliders + svgGap*(magic.NumSliders-1)
	height := svgMargin*2 + side + 20

	canvas := svg.New(&buf)
	canvas.Start(width, height)
	canvas.Title(fmt.Sprintf("magic index widths, fingerprint %s", set.Fingerprint()))
	canvas.Rect(0, 0, width, height, "fill:white")

	for i, s := range magic.Sliders {
		x0 := svgMargin + i*(side+svgGap)
		y0 := svgMargin
		canvas.Text(x0, y0-10, s.String(), "font-family:monospace;font-size:14px")
		for sq := magic.Square(0); sq < magic.NumSquares; sq++ {
			r := set.Record(s, sq)
			x := x0 + sq.File()*svgCell
			y := y0 + (7-sq.Rank())*svgCell
			canvas.Rect(x, y, svgCell, svgCell, "stroke:#555;fill:"+indexBitsColor(r.Bits()))
			canvas.Text(x+svgCell/2, y+svgCell/2+5, strconv.Itoa(r.Bits()), "text-anchor:middle;font-family:monospace;font-size:13px")
		}
		canvas.Text(x0, y0+side+18, fmt.Sprintf("table entries %d", tableEntries(set, s)), "font-family:monospace;font-size:12px")
	}
	canvas.End()
	return buf.Bytes()
}

func tableEntries(set *magic.Set, s magic.Slider) int {
	n := 0
	for sq := magic.Square(0); sq < magic.NumSquares; sq++ {
		n += 1 << set.Record(s, sq).Bits()
	}
	return n
}

// WriteSVG renders set and atomically replaces path with it.
func WriteSVG(path string, set *magic.Set) error {
	return writeAtomic(path, RenderSVG(set))
}

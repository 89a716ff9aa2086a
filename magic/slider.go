package magic

import "fmt"

// Slider is a sliding piece type that has its own magic table.
type Slider uint8

const (
	Rook Slider = iota
	Bishop
)

// NumSliders is the number of slider tables in a Set.
const NumSliders = 2

// Sliders lists the slider types in artifact order.
var Sliders = [NumSliders]Slider{Rook, Bishop}

func (s Slider) String() string {
	switch s {
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	default:
		return fmt.Sprintf("Slider(%d)", uint8(s))
	}
}

// ParseSlider accepts "rook" or "bishop".
func ParseSlider(s string) (Slider, error) {
	switch s {
	case "rook":
		return Rook, nil
	case "bishop":
		return Bishop, nil
	}
	return 0, fmt.Errorf("unknown slider %q", s)
}

// direction is one (file, rank) step along a ray.
type direction struct{ df, dr int }

// Rook directions: 0=N, 1=S, 2=E, 3=W
var rookDirs = [4]direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Bishop directions: 0=NE, 1=NW, 2=SE, 3=SW
var bishopDirs = [4]direction{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}

func (s Slider) directions() [4]direction {
	if s == Bishop {
		return bishopDirs
	}
	return rookDirs
}

// step moves one square along d, reporting false when it would leave the board.
func step(file, rank int, d direction) (int, int, bool) {
	f, r := file+d.df, rank+d.dr
	if f < 0 || f >= NumFiles || r < 0 || r >= NumRanks {
		return file, rank, false
	}
	return f, r, true
}

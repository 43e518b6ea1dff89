// Package label formats grid coordinate labels and decides where
// they go on screen.
package label

import (
	"strconv"
	"strings"

	"github.com/go-spatial/gridline/gridline/interval"
)

// Align is the alignment rule the renderer applies when painting a
// label at its anchor point.
type Align int

const (
	// AlignAxisSouth is an easting label, drawn along its vertical
	// grid line near the south edge.
	AlignAxisSouth Align = iota
	// AlignAxisWest is a northing label, drawn along its horizontal
	// grid line near the west edge.
	AlignAxisWest
	// AlignSquareCorner is a square identifier, offset from the
	// cell's bottom-left corner.
	AlignSquareCorner
)

// CornerOffset is the pixel offset of a square label from its cell's
// bottom-left corner.
const CornerOffset = 4.0

// Spec is one label to paint: transient, produced and consumed within
// a single redraw pass.
type Spec struct {
	Text  string
	X, Y  float64
	Align Align
}

var subscriptDigits = [...]rune{
	'₀', '₁', '₂', '₃', '₄',
	'₅', '₆', '₇', '₈', '₉',
}

// Code formats a coordinate value (meters) for the given interval.
// The value splits into the hundreds-of-km index h and the position
// within the 100km square; the in-square part is truncated to 3
// digits below the 1km interval, 2 below 10km and 1 otherwise. With
// subscript set, each digit of h is prepended as a Unicode subscript
// glyph. Eastings and northings format identically.
func Code(meters int64, iv interval.Interval, subscript bool) string {
	h := floorDiv(meters, int64(interval.Interval100K))
	rem := meters - h*int64(interval.Interval100K)

	digits := iv.Width()
	if digits == 0 {
		digits = 1
	}
	div := int64(1)
	for i := 0; i < 5-digits; i++ {
		div *= 10
	}

	var sb strings.Builder
	if subscript {
		for _, r := range strconv.FormatInt(h, 10) {
			if r >= '0' && r <= '9' {
				sb.WriteRune(subscriptDigits[r-'0'])
				continue
			}
			sb.WriteRune(r) // sign of a negative index
		}
	}

	val := strconv.FormatInt(rem/div, 10)
	for pad := digits - len(val); pad > 0; pad-- {
		sb.WriteByte('0')
	}
	sb.WriteString(val)
	return sb.String()
}

// floorDiv rounds toward negative infinity, so coordinates south or
// west of the false origin still index a stable 100km square.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

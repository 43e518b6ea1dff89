// Package ie names 100km squares of the Irish Grid (single letter,
// I skipped).
package ie

import (
	"math"

	"github.com/go-spatial/gridline/gridline/namer"
)

// Name is the name the scheme registers under.
const Name = "ie"

// letters run A..E west to east, north to south, I skipped.
const letters = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

func init() {
	namer.Register(Name, namer.Func(SquareName))
}

// SquareName returns the single letter identifier of the 100km
// square, e.g. 310000,230000 -> "O". Outside the 5x5 lettered area
// it returns "".
func SquareName(easting, northing float64) string {
	e100 := int(math.Floor(easting / 100000))
	n100 := int(math.Floor(northing / 100000))
	if e100 < 0 || e100 > 4 || n100 < 0 || n100 > 4 {
		return ""
	}
	return string(letters[(4-n100)*5+e100])
}

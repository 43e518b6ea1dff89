// Package osgb names 100km squares of the Ordnance Survey National
// Grid (two letters, I skipped in both positions).
package osgb

import (
	"math"

	"github.com/go-spatial/gridline/gridline/namer"
)

// Name is the name the scheme registers under.
const Name = "osgb"

func init() {
	namer.Register(Name, namer.Func(SquareName))
}

// SquareName returns the two letter identifier of the 100km square,
// e.g. 430000,550000 -> "NZ". Outside the lettered area (7x13
// squares from the false origin) it returns "".
func SquareName(easting, northing float64) string {
	e100 := int(math.Floor(easting / 100000))
	n100 := int(math.Floor(northing / 100000))
	if e100 < 0 || e100 > 6 || n100 < 0 || n100 > 12 {
		return ""
	}

	// 500km square letter then 100km square letter within it.
	l1 := (19 - n100) - (19-n100)%5 + (e100+10)/5
	l2 := (19-n100)*5%25 + e100%5

	// the grid skips I
	if l1 > 7 {
		l1++
	}
	if l2 > 7 {
		l2++
	}

	return string([]byte{byte('A' + l1), byte('A' + l2)})
}

// Package mgrs names 100km squares of a UTM zone with MGRS column
// and row letters (AA scheme, I and O skipped).
package mgrs

import (
	"math"

	"github.com/go-spatial/gridline/gridline/namer"
)

const (
	columns = "ABCDEFGHJKLMNPQRSTUVWXYZ" // 24 usable column letters
	rows    = "ABCDEFGHJKLMNPQRSTUV"     // 20 row letters, 2,000km cycle
)

// Scheme names squares for one UTM zone. Column letters depend on
// the zone's position in the 3-zone letter cycle, row letters on the
// zone's parity.
type Scheme struct {
	zone int
}

var _ namer.Namer = Scheme{}

// New returns the naming scheme for the given UTM zone (1-60).
func New(zone int) Scheme { return Scheme{zone: zone} }

// SquareName returns the two letter 100km square identifier, e.g.
// zone 30, 699000,5710000 (central London) -> "XC".
func (s Scheme) SquareName(easting, northing float64) string {
	e100 := int(math.Floor(easting / 100000))
	if e100 < 1 || e100 > 8 {
		return ""
	}
	n100 := int(math.Floor(northing/100000)) % 20
	if n100 < 0 {
		n100 += 20
	}

	col := ((s.zone-1)%3)*8 + e100 - 1
	row := n100
	if s.zone%2 == 0 {
		row = (row + 5) % 20
	}

	return string([]byte{columns[col], rows[row]})
}

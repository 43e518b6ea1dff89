// Package extent derives the grid-space rectangle of lines to draw
// for the current viewport.
package extent

import (
	"math"

	"github.com/go-spatial/geom"
	"github.com/paulmach/orb"

	"github.com/go-spatial/gridline/gridline/interval"
)

// Forward maps a geographic point to grid easting/northing (meters).
type Forward func(pt orb.Point) (easting, northing float64, err error)

// Visible returns the grid extent covering the geographic viewport,
// each edge snapped to a multiple of the spacing and clamped inside
// the grid's configured bounds. ok is false when the viewport and
// bounds are disjoint on some axis, in which case nothing should be
// drawn this frame.
//
// The viewport is sampled at its four corners and its four edge
// midpoints: under a curved display projection the grid-space image
// of the viewport can bow outward beyond what the corners alone
// cover. Samples outside the grid projection's domain are skipped.
func Visible(viewport orb.Bound, forward Forward, spacing interval.Interval, bounds *geom.Extent) (ext *geom.Extent, ok bool) {
	var (
		minE, minN = math.Inf(1), math.Inf(1)
		maxE, maxN = math.Inf(-1), math.Inf(-1)
		sampled    bool
	)

	west, east := viewport.Min[0], viewport.Max[0]
	south, north := viewport.Min[1], viewport.Max[1]
	midLng, midLat := (west+east)/2, (south+north)/2

	samples := [...]orb.Point{
		{west, south}, {east, south}, {east, north}, {west, north},
		{midLng, south}, {east, midLat}, {midLng, north}, {west, midLat},
	}

	for _, pt := range samples {
		e, n, err := forward(pt)
		if err != nil {
			continue
		}
		sampled = true
		minE, maxE = math.Min(minE, e), math.Max(maxE, e)
		minN, maxN = math.Min(minN, n), math.Max(maxN, n)
	}
	if !sampled {
		return nil, false
	}

	size := float64(spacing.Size())
	w := math.Max(floorTo(minE, size), ceilTo(bounds.MinX(), size))
	e := math.Min(ceilTo(maxE, size), floorTo(bounds.MaxX(), size))
	s := math.Max(floorTo(minN, size), ceilTo(bounds.MinY(), size))
	n := math.Min(ceilTo(maxN, size), floorTo(bounds.MaxY(), size))

	if w > e || s > n {
		return nil, false
	}
	return geom.NewExtent([2]float64{w, s}, [2]float64{e, n}), true
}

func floorTo(v, size float64) float64 { return math.Floor(v/size) * size }
func ceilTo(v, size float64) float64  { return math.Ceil(v/size) * size }

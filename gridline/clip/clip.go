// Package clip builds the screen-space clip region a grid is drawn
// within, either from a grid-space polygon or from a geographic
// rectangle.
package clip

import (
	"github.com/go-spatial/geom"
	"github.com/paulmach/orb"

	"github.com/go-spatial/gridline/gridline/flatten"
)

// Inverse maps grid easting/northing (meters) to a geographic point.
type Inverse func(easting, northing float64) (orb.Point, error)

// Region is the clip for one redraw, in screen pixels. Exactly one of
// Path or Rect is set.
type Region struct {
	// Path is a closed polygon, polygon clip mode.
	Path [][2]float64
	// Rect is an axis-aligned rectangle, rectangle clip mode. The
	// rectangle doubles as the screen bounds the label engine tests
	// visibility against.
	Rect *geom.Extent
}

// Contains reports whether the screen point is inside the region. A
// nil region contains everything.
func (r *Region) Contains(x, y float64) bool {
	if r == nil {
		return true
	}
	if r.Rect != nil {
		return r.Rect.ContainsPoint([2]float64{x, y})
	}
	return ContainsPoint(r.Path, [2]float64{x, y})
}

// ContainsPoint is a ray casting point-in-polygon test: crossings of
// the horizontal ray running +x from the point are counted. An edge
// crosses when its endpoints straddle the point's y and its
// x-intercept at that y exceeds the point's x. The straddle test is
// half-open ("strictly above" vs "not strictly above"), so a vertex
// shared by two edges is counted exactly once; a point exactly on a
// vertex lands inside or outside deterministically by that rule.
func ContainsPoint(ring [][2]float64, pt [2]float64) bool {
	inside := false
	for i, j := 0, len(ring)-1; i < len(ring); j, i = i, i+1 {
		pi, pj := ring[i], ring[j]
		if (pi[1] > pt[1]) == (pj[1] > pt[1]) {
			continue
		}
		xIntercept := pi[0] + (pt[1]-pi[1])*(pj[0]-pi[0])/(pj[1]-pi[1])
		if pt[0] < xIntercept {
			inside = !inside
		}
	}
	return inside
}

// CoversExtent reports whether all four corners of the grid extent
// are inside the grid-space ring. When it does, clipping can be
// skipped for the redraw: nothing the extent produces would be cut.
func CoversExtent(ring [][2]float64, ext *geom.Extent) bool {
	if ext == nil {
		return false
	}
	for _, pt := range [...][2]float64{
		{ext.MinX(), ext.MinY()},
		{ext.MaxX(), ext.MinY()},
		{ext.MaxX(), ext.MaxY()},
		{ext.MinX(), ext.MaxY()},
	} {
		if !ContainsPoint(ring, pt) {
			return false
		}
	}
	return true
}

// PolygonRegion tessellates each edge of the grid-space ring through
// the grid inverse into one closed screen path. The ring is expected
// closed (first point repeated last); an unclosed ring is closed
// implicitly.
func PolygonRegion(ring [][2]float64, inverse Inverse, project flatten.Projector) (*Region, error) {
	if len(ring) < 3 {
		return nil, nil
	}

	closed := ring
	if ring[0] != ring[len(ring)-1] {
		closed = make([][2]float64, 0, len(ring)+1)
		closed = append(closed, ring...)
		closed = append(closed, ring[0])
	}

	var path [][2]float64
	for i := 1; i < len(closed); i++ {
		p, q := closed[i-1], closed[i]
		edge := func(t float64) (orb.Point, error) {
			return inverse(p[0]+t*(q[0]-p[0]), p[1]+t*(q[1]-p[1]))
		}
		pts, err := flatten.Polyline(edge, project, flatten.DefaultTolerance)
		if err != nil && err != flatten.ErrBudgetExhausted {
			return nil, err
		}
		if len(path) > 0 && len(pts) > 0 && path[len(path)-1] == pts[0] {
			pts = pts[1:] // shared joint
		}
		path = append(path, pts...)
	}

	return &Region{Path: path}, nil
}

// RectRegion converts the two geographic corners of the rectangle
// directly to screen points and returns their axis-aligned bounds.
// The four edges are treated as straight screen lines; for large
// rectangles this will not perfectly track the display projection's
// curvature.
func RectRegion(b orb.Bound, project flatten.Projector) *Region {
	x0, y0 := project(b.Min)
	x1, y1 := project(b.Max)
	return &Region{Rect: geom.NewExtent([2]float64{x0, y0}, [2]float64{x1, y1})}
}

package label

import (
	"github.com/go-spatial/geom"

	"github.com/go-spatial/gridline/gridline/clip"
	"github.com/go-spatial/gridline/gridline/interval"
)

// Project maps grid easting/northing (meters) to screen pixels.
type Project func(easting, northing float64) (x, y float64, err error)

// Namer produces the short identifier of the 100km square holding
// the given grid point.
type Namer func(easting, northing float64) string

// Placement carries the per-redraw inputs the placement scans share.
type Placement struct {
	Extent  *geom.Extent // spacing-aligned grid extent
	Spacing interval.Interval
	Bounds  *geom.Extent // the grid's configured bounds
	Project Project
	Width   float64 // surface pixels
	Height  float64
	Region  *clip.Region // nil when no clip is installed
	// Subscript enables the hundred-km prefix on axis labels.
	Subscript bool
}

func (p Placement) onSurface(x, y float64) bool {
	return x >= 0 && x <= p.Width && y >= 0 && y <= p.Height
}

// AxisLabels returns one label per visible grid line of each family,
// placed at the first crossing with the perpendicular family that is
// on the surface, inside the grid bounds, and inside any clip region.
// The scan starts at the grid's south/west edge so the label sits
// nearest the origin edge; a line gets at most one label.
func (p Placement) AxisLabels() []Spec {
	if p.Extent == nil {
		return nil
	}
	var specs []Spec
	size := float64(p.Spacing.Size())

	// Easting labels along the vertical lines.
	for e := p.Extent.MinX(); e <= p.Extent.MaxX(); e += size {
		for n := p.Extent.MinY(); n < p.Extent.MaxY(); n += size {
			if !p.visibleCrossing(e, n) {
				continue
			}
			x, y, err := p.Project(e, n+size/2)
			if err != nil {
				break
			}
			specs = append(specs, Spec{
				Text:  Code(int64(e), p.Spacing, p.Subscript),
				X:     x,
				Y:     y,
				Align: AlignAxisSouth,
			})
			break
		}
	}

	// Northing labels along the horizontal lines.
	for n := p.Extent.MinY(); n <= p.Extent.MaxY(); n += size {
		for e := p.Extent.MinX(); e < p.Extent.MaxX(); e += size {
			if !p.visibleCrossing(e, n) {
				continue
			}
			x, y, err := p.Project(e+size/2, n)
			if err != nil {
				break
			}
			specs = append(specs, Spec{
				Text:  Code(int64(n), p.Spacing, p.Subscript),
				X:     x,
				Y:     y,
				Align: AlignAxisWest,
			})
			break
		}
	}

	return specs
}

func (p Placement) visibleCrossing(e, n float64) bool {
	if !p.Bounds.ContainsPoint([2]float64{e, n}) {
		return false
	}
	x, y, err := p.Project(e, n)
	if err != nil {
		return false
	}
	return p.onSurface(x, y) && p.Region.Contains(x, y)
}

// SquareLabels returns one label per visible grid cell, composed of
// the square name and the cell's easting/northing codes. The codes
// are omitted at the 100km interval where the square name alone
// identifies the cell. Placement is the cell's bottom-left corner
// plus a fixed offset; the installed clip region does the rest.
func (p Placement) SquareLabels(name Namer) []Spec {
	if p.Extent == nil {
		return nil
	}
	var specs []Spec
	size := float64(p.Spacing.Size())

	for e := p.Extent.MinX(); e < p.Extent.MaxX(); e += size {
		for n := p.Extent.MinY(); n < p.Extent.MaxY(); n += size {
			if !p.Bounds.ContainsPoint([2]float64{e, n}) {
				continue
			}
			x, y, err := p.Project(e, n)
			if err != nil {
				continue
			}
			if !p.onSurface(x, y) {
				continue
			}

			text := ""
			if name != nil {
				text = name(e, n)
			}
			if p.Spacing != interval.Interval100K {
				text += Code(int64(e), p.Spacing, false) + Code(int64(n), p.Spacing, false)
			}
			if text == "" {
				continue
			}

			specs = append(specs, Spec{
				Text:  text,
				X:     x + CornerOffset,
				Y:     y - CornerOffset,
				Align: AlignSquareCorner,
			})
		}
	}

	return specs
}

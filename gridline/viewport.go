package gridline

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/go-spatial/gridline/gridline/flatten"
	"github.com/go-spatial/gridline/internal/resolution"
)

// Viewport is the view state for a single redraw: the geographic
// window of the underlying map, the pixel size of the overlay surface
// and the slippy map zoom. The bound is in WGS84 degrees; the surface
// uses the usual screen convention with y growing downward.
type Viewport struct {
	Bound         orb.Bound
	Width, Height int
	// Zoom is the map's zoom level. Zero means unknown; the level is
	// then derived from the bound and the surface width.
	Zoom float64
}

// mercator forward-projects a geographic point to web mercator
// meters, the display projection of the map underneath.
func mercator(pt orb.Point) (x, y float64) {
	x = resolution.MercatorEarthRadius * pt[0] * resolution.Rad
	y = resolution.MercatorEarthRadius * math.Log(math.Tan(math.Pi/4+pt[1]*resolution.Rad/2))
	return x, y
}

func unmercator(x, y float64) orb.Point {
	lng := x / resolution.MercatorEarthRadius / resolution.Rad
	lat := (2*math.Atan(math.Exp(y/resolution.MercatorEarthRadius)) - math.Pi/2) / resolution.Rad
	return orb.Point{lng, lat}
}

// frame is the mercator-to-pixel mapping of a viewport, computed once
// per redraw so the flattener's inner loop does no repeated setup.
type frame struct {
	minX, maxY float64
	sx, sy     float64 // pixels per mercator meter
}

func (v Viewport) frame() frame {
	minX, minY := mercator(v.Bound.Min)
	maxX, maxY := mercator(v.Bound.Max)
	return frame{
		minX: minX,
		maxY: maxY,
		sx:   float64(v.Width) / (maxX - minX),
		sy:   float64(v.Height) / (maxY - minY),
	}
}

func (f frame) screen(pt orb.Point) (x, y float64) {
	mx, my := mercator(pt)
	return (mx - f.minX) * f.sx, (f.maxY - my) * f.sy
}

func (f frame) geo(x, y float64) orb.Point {
	return unmercator(f.minX+x/f.sx, f.maxY-y/f.sy)
}

// ScreenPoint maps a geographic point to surface pixels.
func (v Viewport) ScreenPoint(pt orb.Point) (x, y float64) {
	return v.frame().screen(pt)
}

// GeoPoint maps surface pixels back to a geographic point.
func (v Viewport) GeoPoint(x, y float64) orb.Point {
	return v.frame().geo(x, y)
}

// Projector returns the geographic-to-pixel mapping as a single
// closure with the frame precomputed.
func (v Viewport) Projector() flatten.Projector {
	f := v.frame()
	return func(pt orb.Point) (x, y float64) {
		return f.screen(pt)
	}
}

// Scale returns the true ground scale in meters per pixel at the
// center of the viewport: the center and the point one pixel east of
// it are unprojected and their geographic distance taken. Mercator's
// latitude inflation is thereby accounted for.
func (v Viewport) Scale() float64 {
	f := v.frame()
	cx, cy := float64(v.Width)/2, float64(v.Height)/2
	return geo.DistanceHaversine(f.geo(cx, cy), f.geo(cx+1, cy))
}

func (v Viewport) zoom() float64 {
	if v.Zoom != 0 {
		return v.Zoom
	}
	return resolution.ZoomForWidth(v.Bound.Max[0]-v.Bound.Min[0], float64(v.Width))
}

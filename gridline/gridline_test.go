package gridline

import (
	"image"
	"testing"

	"github.com/go-spatial/geom"
	"github.com/paulmach/orb"

	"github.com/go-spatial/gridline/gridline/extent"
	"github.com/go-spatial/gridline/gridline/interval"
)

// planar is a degenerate grid projection for tests: 2km per degree,
// no distortion, no domain limit.
type planar struct{}

func (planar) Forward(lng, lat float64) (float64, float64, error) {
	return lng * 2000, lat * 2000, nil
}

func (planar) Inverse(easting, northing float64) (float64, float64, error) {
	return easting / 2000, northing / 2000, nil
}

func testDefinition() Definition {
	return Definition{
		Name:        "test",
		CRS:         planar{},
		Bounds:      geom.NewExtent([2]float64{0, 0}, [2]float64{100000, 100000}),
		MinInterval: interval.Interval100K,
		MaxInterval: interval.Interval100K,
	}
}

// testViewport covers the whole grid with margin: the bounds span
// 0..50 degrees on each axis under the planar projection.
func testViewport() *Viewport {
	return &Viewport{
		Bound:  orb.Bound{Min: orb.Point{-5, -5}, Max: orb.Point{55, 55}},
		Width:  240,
		Height: 240,
		Zoom:   10,
	}
}

func opaque(img image.Image, x, y int) bool {
	_, _, _, a := img.At(x, y).RGBA()
	return a > 0
}

func anyOpaqueNear(img image.Image, x, y, r int) bool {
	for py := y - r; py <= y+r; py++ {
		for px := x - r; px <= x+r; px++ {
			if opaque(img, px, py) {
				return true
			}
		}
	}
	return false
}

func TestNewGridValidation(t *testing.T) {
	def := testDefinition()
	def.CRS = nil
	if _, err := NewGrid(def); err != ErrMissingCRS {
		t.Errorf("missing crs, expected %v got %v", ErrMissingCRS, err)
	}

	def = testDefinition()
	def.Bounds = nil
	if _, err := NewGrid(def); err != ErrMissingBounds {
		t.Errorf("missing bounds, expected %v got %v", ErrMissingBounds, err)
	}

	if _, err := NewGrid(testDefinition()); err != nil {
		t.Errorf("valid definition, got %v", err)
	}
}

func TestRedrawNilViewport(t *testing.T) {
	grid, err := NewGrid(testDefinition())
	if err != nil {
		t.Fatal(err)
	}
	if err := grid.Redraw(nil); err != ErrNilViewport {
		t.Errorf("expected %v got %v", ErrNilViewport, err)
	}
}

// TestRedrawBoundaryLines draws the whole grid at the 100km spacing.
// The bounds hold exactly one cell, so the only lines are the four
// edges; cell interiors stay transparent.
func TestRedrawBoundaryLines(t *testing.T) {
	grid, err := NewGrid(testDefinition())
	if err != nil {
		t.Fatal(err)
	}
	vp := testViewport()
	if err := grid.Redraw(vp); err != nil {
		t.Fatal(err)
	}
	img := grid.Surface()
	if img == nil {
		t.Fatal("expected a surface after redraw")
	}

	// The western edge, easting 0, runs along longitude 0.
	x, y := vp.ScreenPoint(orb.Point{0, 25})
	if !anyOpaqueNear(img, int(x), int(y), 2) {
		t.Errorf("expected stroke near western edge (%v,%v)", x, y)
	}

	// The eastern edge at easting 100000.
	x, y = vp.ScreenPoint(orb.Point{50, 25})
	if !anyOpaqueNear(img, int(x), int(y), 2) {
		t.Errorf("expected stroke near eastern edge (%v,%v)", x, y)
	}

	// The middle of the only cell is far from any line.
	x, y = vp.ScreenPoint(orb.Point{25, 25})
	if anyOpaqueNear(img, int(x), int(y), 3) {
		t.Errorf("expected transparent cell interior at (%v,%v)", x, y)
	}
}

func TestRedrawBelowMinZoom(t *testing.T) {
	def := testDefinition()
	def.MinZoom = 12
	grid, err := NewGrid(def)
	if err != nil {
		t.Fatal(err)
	}
	vp := testViewport() // zoom 10
	if err := grid.Redraw(vp); err != nil {
		t.Fatal(err)
	}

	img := grid.Surface()
	for y := 0; y < vp.Height; y += 4 {
		for x := 0; x < vp.Width; x += 4 {
			if opaque(img, x, y) {
				t.Fatalf("expected hidden grid, opaque pixel at (%d,%d)", x, y)
			}
		}
	}
}

func TestRedrawOffView(t *testing.T) {
	grid, err := NewGrid(testDefinition())
	if err != nil {
		t.Fatal(err)
	}
	vp := testViewport()
	vp.Bound = orb.Bound{Min: orb.Point{100, 60}, Max: orb.Point{110, 70}}
	if err := grid.Redraw(vp); err != nil {
		t.Fatal(err)
	}

	img := grid.Surface()
	for y := 0; y < vp.Height; y += 4 {
		for x := 0; x < vp.Width; x += 4 {
			if opaque(img, x, y) {
				t.Fatalf("expected empty surface, opaque pixel at (%d,%d)", x, y)
			}
		}
	}
}

func TestRedrawWithLabels(t *testing.T) {
	def := testDefinition()
	def.AxisIntervals = []interval.Interval{interval.Interval100K}
	grid, err := NewGrid(def)
	if err != nil {
		t.Fatal(err)
	}
	if err := grid.Redraw(testViewport()); err != nil {
		t.Fatal(err)
	}
}

func TestReadyFiresOnce(t *testing.T) {
	grid, err := NewGrid(testDefinition())
	if err != nil {
		t.Fatal(err)
	}

	fired := 0
	grid.OnReady(func() { fired++ })

	if err := grid.Redraw(testViewport()); err != nil {
		t.Fatal(err)
	}
	if err := grid.Redraw(testViewport()); err != nil {
		t.Fatal(err)
	}
	if fired != 1 {
		t.Errorf("ready, expected 1 firing got %d", fired)
	}
}

func TestRedrawClipPolygon(t *testing.T) {
	def := testDefinition()
	// Clip to the western half of the grid.
	def.ClipPolygon = [][2]float64{
		{0, 0}, {50000, 0}, {50000, 100000}, {0, 100000},
	}
	grid, err := NewGrid(def)
	if err != nil {
		t.Fatal(err)
	}
	vp := testViewport()
	if err := grid.Redraw(vp); err != nil {
		t.Fatal(err)
	}
	img := grid.Surface()

	// The western edge survives the clip.
	x, y := vp.ScreenPoint(orb.Point{0, 25})
	if !anyOpaqueNear(img, int(x), int(y), 2) {
		t.Errorf("expected stroke inside clip at (%v,%v)", x, y)
	}

	// The eastern edge is clipped away.
	x, y = vp.ScreenPoint(orb.Point{50, 25})
	if anyOpaqueNear(img, int(x)+4, int(y), 2) {
		t.Errorf("expected nothing east of the clip at (%v,%v)", x, y)
	}
}

func TestRedrawClipCoversExtent(t *testing.T) {
	def := testDefinition()
	// A ring with margin around the grid bounds holds every corner of
	// the visible extent, so no clip region should be built at all.
	def.ClipPolygon = [][2]float64{
		{-10000, -10000}, {110000, -10000}, {110000, 110000}, {-10000, 110000},
	}
	grid, err := NewGrid(def)
	if err != nil {
		t.Fatal(err)
	}
	vp := testViewport()

	ext, ok := extent.Visible(vp.Bound, grid.forward, interval.Interval100K, def.Bounds)
	if !ok {
		t.Fatal("expected a visible extent")
	}
	region, err := grid.region(vp.Projector(), ext)
	if err != nil {
		t.Fatal(err)
	}
	if region != nil {
		t.Errorf("covering ring, expected no clip region got %v", region)
	}

	if err := grid.Redraw(vp); err != nil {
		t.Fatal(err)
	}
	img := grid.Surface()

	// Both edges draw as if there were no clip.
	for _, lng := range []float64{0, 50} {
		x, y := vp.ScreenPoint(orb.Point{lng, 25})
		if !anyOpaqueNear(img, int(x), int(y), 2) {
			t.Errorf("expected stroke at lng %v (%v,%v)", lng, x, y)
		}
	}
}

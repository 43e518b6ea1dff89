package extent

import (
	"math"
	"testing"

	"github.com/gdey/errors"
	"github.com/go-spatial/geom"
	"github.com/paulmach/orb"

	"github.com/go-spatial/gridline/gridline/interval"
)

// planar pretends lng/lat are easting/northing scaled by 1000, enough
// to exercise snapping without a real projection.
func planar(pt orb.Point) (float64, float64, error) {
	return pt[0] * 1000, pt[1] * 1000, nil
}

func TestVisible(t *testing.T) {
	type tcase struct {
		viewport orb.Bound
		forward  Forward
		spacing  interval.Interval
		bounds   *geom.Extent
		expected *geom.Extent
		ok       bool
	}

	fn := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			fwd := tc.forward
			if fwd == nil {
				fwd = planar
			}
			got, ok := Visible(tc.viewport, fwd, tc.spacing, tc.bounds)
			if ok != tc.ok {
				t.Fatalf("ok, expected %v got %v", tc.ok, ok)
			}
			if !tc.ok {
				return
			}
			if *got != *tc.expected {
				t.Errorf("extent, expected %v got %v", tc.expected, got)
			}
		}
	}

	wide := geom.NewExtent([2]float64{-1e9, -1e9}, [2]float64{1e9, 1e9})

	tests := map[string]tcase{
		"snapped outward": {
			viewport: orb.Bound{Min: orb.Point{1.5, 2.5}, Max: orb.Point{3.5, 4.5}},
			spacing:  interval.Interval1K,
			bounds:   wide,
			expected: geom.NewExtent([2]float64{1000, 2000}, [2]float64{4000, 5000}),
			ok:       true,
		},
		"already aligned": {
			viewport: orb.Bound{Min: orb.Point{1, 2}, Max: orb.Point{3, 4}},
			spacing:  interval.Interval1K,
			bounds:   wide,
			expected: geom.NewExtent([2]float64{1000, 2000}, [2]float64{3000, 4000}),
			ok:       true,
		},
		"clamped to bounds": {
			viewport: orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}},
			spacing:  interval.Interval1K,
			bounds:   geom.NewExtent([2]float64{0, 0}, [2]float64{5000, 4000}),
			expected: geom.NewExtent([2]float64{0, 0}, [2]float64{5000, 4000}),
			ok:       true,
		},
		"clamped edge snaps inward": {
			viewport: orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}},
			spacing:  interval.Interval1K,
			bounds:   geom.NewExtent([2]float64{-2500, -2500}, [2]float64{2500, 2500}),
			expected: geom.NewExtent([2]float64{-2000, -2000}, [2]float64{2000, 2000}),
			ok:       true,
		},
		"disjoint on x": {
			viewport: orb.Bound{Min: orb.Point{100, 0}, Max: orb.Point{110, 1}},
			spacing:  interval.Interval1K,
			bounds:   geom.NewExtent([2]float64{0, 0}, [2]float64{50000, 50000}),
			ok:       false,
		},
		"single cell": {
			viewport: orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{101, 101}},
			spacing:  interval.Interval100K,
			bounds:   geom.NewExtent([2]float64{0, 0}, [2]float64{100000, 100000}),
			expected: geom.NewExtent([2]float64{0, 0}, [2]float64{100000, 100000}),
			ok:       true,
		},
	}

	for name, tc := range tests {
		t.Run(name, fn(tc))
	}
}

func TestVisibleEnclosesSamples(t *testing.T) {
	// A bowing projection: northing gains a bulge toward the meridian
	// center, so edge midpoints poke outside the corner hull.
	bow := func(pt orb.Point) (float64, float64, error) {
		bulge := 900 * math.Cos(pt[0]*math.Pi/20)
		return pt[0] * 1000, pt[1]*1000 + bulge, nil
	}

	viewport := orb.Bound{Min: orb.Point{-5, 0}, Max: orb.Point{5, 10}}
	bounds := geom.NewExtent([2]float64{-1e9, -1e9}, [2]float64{1e9, 1e9})
	ext, ok := Visible(viewport, bow, interval.Interval1K, bounds)
	if !ok {
		t.Fatal("ok, expected an extent")
	}

	// All 8 sample points must fall inside, including the bulged top
	// midpoint that corner-only sampling would miss.
	pts := []orb.Point{
		{-5, 0}, {5, 0}, {5, 10}, {-5, 10},
		{0, 0}, {5, 5}, {0, 10}, {-5, 5},
	}
	for _, pt := range pts {
		e, n, _ := bow(pt)
		if !ext.ContainsPoint([2]float64{e, n}) {
			t.Errorf("sample %v -> (%v,%v) outside extent %v", pt, e, n, ext)
		}
	}

	// Each edge must be spacing aligned.
	for _, edge := range [...]float64{ext.MinX(), ext.MinY(), ext.MaxX(), ext.MaxY()} {
		if math.Mod(edge, 1000) != 0 {
			t.Errorf("edge %v not a multiple of spacing", edge)
		}
	}
}

func TestVisibleProjectionFailure(t *testing.T) {
	errOut := errors.String("out of domain")

	// Only the eastern samples project; the extent is built from the
	// survivors.
	partial := func(pt orb.Point) (float64, float64, error) {
		if pt[0] < 0 {
			return 0, 0, errOut
		}
		return planar(pt)
	}
	none := func(pt orb.Point) (float64, float64, error) { return 0, 0, errOut }

	viewport := orb.Bound{Min: orb.Point{-2, 0}, Max: orb.Point{2, 2}}
	bounds := geom.NewExtent([2]float64{-1e9, -1e9}, [2]float64{1e9, 1e9})

	ext, ok := Visible(viewport, partial, interval.Interval1K, bounds)
	if !ok {
		t.Fatal("partial, expected an extent from surviving samples")
	}
	if ext.MinX() != 0 || ext.MaxX() != 2000 {
		t.Errorf("partial, expected x [0,2000] got [%v,%v]", ext.MinX(), ext.MaxX())
	}

	if _, ok := Visible(viewport, none, interval.Interval1K, bounds); ok {
		t.Error("none, expected no extent when every sample fails")
	}
}

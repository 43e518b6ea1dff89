package resolution

import (
	"math"
	"testing"
)

// TOLERANCE is the epsilon value used in comparing floats.
const TOLERANCE = 0.000001

func TestGround(t *testing.T) {
	// At zoom 0 one tile covers the world: ~156543 m/px at the
	// equator.
	got := Ground(0, 0)
	expected := MercatorEarthCircumference / TileSize
	if math.Abs(got-expected) > TOLERANCE {
		t.Errorf("ground, expected %v got %v", expected, got)
	}

	// Each zoom level halves the resolution.
	if g1, g2 := Ground(10, 54), Ground(11, 54); math.Abs(g1/g2-2) > TOLERANCE {
		t.Errorf("halving, expected ratio 2 got %v", g1/g2)
	}
}

func TestZoomForGroundInverts(t *testing.T) {
	for _, zoom := range []float64{2, 8, 14.5, 19} {
		lat := 51.5
		ground := Ground(zoom, lat)
		if got := ZoomForGround(ground, lat); math.Abs(got-zoom) > TOLERANCE {
			t.Errorf("zoom %v, got %v", zoom, got)
		}
	}
}

func TestZoomForWidth(t *testing.T) {
	// The whole world in one tile's width is zoom 0.
	if got := ZoomForWidth(360, TileSize); math.Abs(got) > TOLERANCE {
		t.Errorf("zoom, expected 0 got %v", got)
	}
}

package crs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	type tcase struct {
		adapter  Adapter
		lng, lat float64
	}

	fn := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			e, n, err := tc.adapter.Forward(tc.lng, tc.lat)
			require.NoError(t, err)

			lng, lat, err := tc.adapter.Inverse(e, n)
			require.NoError(t, err)
			// the series expansions round-trip to well under a
			// hundredth of a second of arc, not to float precision
			require.InDelta(t, tc.lng, lng, 1e-4)
			require.InDelta(t, tc.lat, lat, 1e-4)
		}
	}

	tests := map[string]tcase{
		"osgb london":    {adapter: OSGB36(), lng: -0.1246, lat: 51.5007},
		"osgb newcastle": {adapter: OSGB36(), lng: -1.6178, lat: 54.9783},
		"irish dublin":   {adapter: IrishGrid(), lng: -6.2603, lat: 53.3498},
		"utm 30n london": {adapter: UTM(30, true), lng: -0.1246, lat: 51.5007},
		"utm 33s sydney-ish": {adapter: UTM(56, false), lng: 151.2, lat: -33.86},
	}

	for name, tc := range tests {
		t.Run(name, fn(tc))
	}
}

func TestForwardMonotonic(t *testing.T) {
	// Moving east increases easting, moving north increases northing.
	adapter := OSGB36()
	e1, n1, err := adapter.Forward(-2.0, 52.0)
	require.NoError(t, err)
	e2, _, err := adapter.Forward(-1.5, 52.0)
	require.NoError(t, err)
	_, n3, err := adapter.Forward(-2.0, 52.5)
	require.NoError(t, err)

	require.Greater(t, e2, e1)
	require.Greater(t, n3, n1)
}

func TestOutOfDomain(t *testing.T) {
	type tcase struct {
		fn func() (float64, float64, error)
	}

	run := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			_, _, err := tc.fn()
			require.ErrorIs(t, err, ErrOutOfDomain)
		}
	}

	osgb, irish := OSGB36(), IrishGrid()
	tests := map[string]tcase{
		"osgb forward antipodes": {
			fn: func() (float64, float64, error) { return osgb.Forward(151.2, -33.86) },
		},
		"osgb forward atlantic": {
			fn: func() (float64, float64, error) { return osgb.Forward(-30, 52) },
		},
		"irish forward london": {
			fn: func() (float64, float64, error) { return irish.Forward(-0.1246, 51.5007) },
		},
		"osgb inverse far east": {
			fn: func() (float64, float64, error) { return osgb.Inverse(5e6, 5e6) },
		},
		"utm inverse off zone": {
			fn: func() (float64, float64, error) { return UTM(30, true).Inverse(5e6, 0) },
		},
	}

	for name, tc := range tests {
		t.Run(name, run(tc))
	}
}

func TestForID(t *testing.T) {
	type tcase struct {
		id  string
		err bool
	}

	fn := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			adapter, err := ForID(tc.id)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, adapter)
		}
	}

	tests := map[string]tcase{
		"osgb36":     {id: "osgb36"},
		"irish":      {id: "irish"},
		"utm north":  {id: "utm:30n"},
		"utm south":  {id: "utm:56s"},
		"utm bare":   {id: "utm:30"},
		"mixed case": {id: "OSGB36"},
		"utm zone 0": {id: "utm:0n", err: true},
		"gibberish":  {id: "flat-earth", err: true},
	}

	for name, tc := range tests {
		t.Run(name, fn(tc))
	}
}

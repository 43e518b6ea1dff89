package builtin_test

import (
	"testing"

	"github.com/go-spatial/tegola/dict"

	"github.com/go-spatial/gridline/griddef"
	"github.com/go-spatial/gridline/griddef/builtin"
)

func newProvider(t *testing.T, cfg dict.Dict) griddef.Provider {
	t.Helper()
	p, err := griddef.For(builtin.Name, cfg)
	if err != nil {
		t.Fatalf("provider, expected nil got %v", err)
	}
	return p
}

func TestGridFor(t *testing.T) {
	type tcase struct {
		name    string
		err     bool
		namer   bool
		minZoom float64
	}

	fn := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			p := newProvider(t, dict.Dict{
				builtin.ConfigKeyMinZoom: tc.minZoom,
			})

			def, err := p.GridFor(tc.name)
			if tc.err {
				if _, ok := err.(griddef.ErrGridNotFound); !ok {
					t.Errorf("error, expected ErrGridNotFound got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error, expected nil got %v", err)
			}
			if def.CRS == nil {
				t.Errorf("crs, expected not nil")
			}
			if def.Bounds == nil {
				t.Errorf("bounds, expected not nil")
			}
			if tc.namer && def.Namer == nil {
				t.Errorf("namer, expected not nil")
			}
			if def.MinZoom != tc.minZoom {
				t.Errorf("min zoom, expected %v got %v", tc.minZoom, def.MinZoom)
			}
		}
	}

	tests := map[string]tcase{
		"osgb":         {name: "osgb", namer: true},
		"irish":        {name: "irish", namer: true},
		"utm 30n":      {name: "utm:30n", namer: true},
		"utm 56s":      {name: "utm:56s", namer: true},
		"osgb zoomed":  {name: "osgb", namer: true, minZoom: 7},
		"unknown":      {name: "mars", err: true},
		"utm bad zone": {name: "utm:99n", err: true},
	}

	for name, tc := range tests {
		t.Run(name, fn(tc))
	}
}

func TestGrids(t *testing.T) {
	p := newProvider(t, dict.Dict{})
	names, err := p.Grids()
	if err != nil {
		t.Fatalf("grids, expected nil got %v", err)
	}
	if len(names) != 2 {
		t.Errorf("grids, expected 2 got %v", names)
	}
}

package namer_test

import (
	"testing"

	"github.com/go-spatial/gridline/gridline/namer"
	"github.com/go-spatial/gridline/gridline/namer/ie"
	"github.com/go-spatial/gridline/gridline/namer/mgrs"
	"github.com/go-spatial/gridline/gridline/namer/osgb"
)

func TestOSGB(t *testing.T) {
	type tcase struct {
		easting  float64
		northing float64
		expected string
	}

	fn := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			got := osgb.SquareName(tc.easting, tc.northing)
			if got != tc.expected {
				t.Errorf("square, expected %q got %q", tc.expected, got)
			}
		}
	}

	tests := map[string]tcase{
		"Newcastle NZ":  {easting: 430000, northing: 550000, expected: "NZ"},
		"London TQ":     {easting: 530000, northing: 180000, expected: "TQ"},
		"Ben Nevis NN":  {easting: 216000, northing: 771000, expected: "NN"},
		"origin SV":     {easting: 0, northing: 0, expected: "SV"},
		"off grid west": {easting: -100000, northing: 0, expected: ""},
		"off grid north": {easting: 0, northing: 1400000, expected: ""},
	}

	for name, tc := range tests {
		t.Run(name, fn(tc))
	}
}

func TestIrish(t *testing.T) {
	type tcase struct {
		easting  float64
		northing float64
		expected string
	}

	fn := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			got := ie.SquareName(tc.easting, tc.northing)
			if got != tc.expected {
				t.Errorf("square, expected %q got %q", tc.expected, got)
			}
		}
	}

	tests := map[string]tcase{
		"Dublin O":    {easting: 310000, northing: 230000, expected: "O"},
		"north west A": {easting: 50000, northing: 450000, expected: "A"},
		"south east Z": {easting: 450000, northing: 50000, expected: "Z"},
		"off grid":    {easting: 600000, northing: 0, expected: ""},
	}

	for name, tc := range tests {
		t.Run(name, fn(tc))
	}
}

func TestMGRS(t *testing.T) {
	type tcase struct {
		zone     int
		easting  float64
		northing float64
		expected string
	}

	fn := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			got := mgrs.New(tc.zone).SquareName(tc.easting, tc.northing)
			if got != tc.expected {
				t.Errorf("square, expected %q got %q", tc.expected, got)
			}
		}
	}

	tests := map[string]tcase{
		"London 30 XC": {zone: 30, easting: 699000, northing: 5710000, expected: "XC"},
		"zone 31 first set": {zone: 31, easting: 150000, northing: 0, expected: "AA"},
		"zone 32 offset row": {zone: 32, easting: 150000, northing: 0, expected: "JF"},
		"west of zone": {zone: 30, easting: 50000, northing: 5710000, expected: ""},
	}

	for name, tc := range tests {
		t.Run(name, fn(tc))
	}
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{osgb.Name, ie.Name} {
		n, err := namer.For(name)
		if err != nil {
			t.Fatalf("%v, expected registered got %v", name, err)
		}
		if n == nil {
			t.Fatalf("%v, expected a namer", name)
		}
	}
	if _, err := namer.For("atlantis"); err == nil {
		t.Error("unknown, expected an error")
	}
}

// Package crs adapts between WGS84 longitude/latitude and the planar
// easting/northing of a grid's own scale-preserving projection.
package crs

import (
	"math"
	"strconv"
	"strings"

	"github.com/gdey/errors"
	"github.com/wroge/wgs84"
)

const (
	// ErrOutOfDomain is returned when the transform is undefined for
	// a coordinate. Callers abort the current line or label and move
	// on to the next; the error never fails a redraw.
	ErrOutOfDomain = errors.String("crs: coordinate outside projection domain")
)

// ErrUnknownID is returned for a projection identifier no adapter is
// known for.
type ErrUnknownID string

func (err ErrUnknownID) Error() string {
	return "crs: unknown projection id (" + string(err) + ")"
}

// Adapter converts between geographic and grid coordinates. Both
// directions are pure and total over the adapter's valid domain.
type Adapter interface {
	// Forward converts longitude/latitude (degrees) to grid
	// easting/northing (meters).
	Forward(lng, lat float64) (easting, northing float64, err error)
	// Inverse converts grid easting/northing (meters) to
	// longitude/latitude (degrees).
	Inverse(easting, northing float64) (lng, lat float64, err error)
}

// adapter wraps a pair of wgs84 safe transform funcs. The library
// reports a coordinate outside the system's area as ErrOutOfBounds,
// which we surface as ErrOutOfDomain, and we guard against
// non-finite output the same way.
type adapter struct {
	fwd, inv wgs84.SafeFunc
}

func (t adapter) Forward(lng, lat float64) (float64, float64, error) {
	e, n, _, err := t.fwd(lng, lat, 0)
	if err != nil || math.IsNaN(e) || math.IsNaN(n) || math.IsInf(e, 0) || math.IsInf(n, 0) {
		return 0, 0, ErrOutOfDomain
	}
	return e, n, nil
}

func (t adapter) Inverse(easting, northing float64) (float64, float64, error) {
	lng, lat, _, err := t.inv(easting, northing, 0)
	if err != nil || math.IsNaN(lng) || math.IsNaN(lat) || math.Abs(lat) > 90 {
		return 0, 0, ErrOutOfDomain
	}
	return lng, lat, nil
}

// New returns an adapter between WGS84 longitude/latitude and the
// given coordinate reference system.
func New(sys wgs84.CoordinateReferenceSystem) Adapter {
	return adapter{
		fwd: wgs84.SafeTransform(wgs84.LonLat(), sys),
		inv: wgs84.SafeTransform(sys, wgs84.LonLat()),
	}
}

// ForID returns the adapter for a projection identifier as it
// appears in grid configuration: "osgb36", "irish", "utm:30n",
// "utm:33s", or "epsg:27700".
func ForID(id string) (Adapter, error) {
	key := strings.ToLower(strings.TrimSpace(id))
	switch {
	case key == "osgb36":
		return OSGB36(), nil
	case key == "irish":
		return IrishGrid(), nil
	case strings.HasPrefix(key, "utm:"):
		zone, northern, err := parseUTMZone(strings.TrimPrefix(key, "utm:"))
		if err != nil {
			return nil, err
		}
		return UTM(zone, northern), nil
	case strings.HasPrefix(key, "epsg:"):
		code, err := strconv.Atoi(strings.TrimPrefix(key, "epsg:"))
		if err != nil {
			return nil, ErrUnknownID(id)
		}
		return FromEPSG(code)
	}
	return nil, ErrUnknownID(id)
}

func parseUTMZone(s string) (zone int, northern bool, err error) {
	northern = true
	switch {
	case strings.HasSuffix(s, "n"):
		s = strings.TrimSuffix(s, "n")
	case strings.HasSuffix(s, "s"):
		northern = false
		s = strings.TrimSuffix(s, "s")
	}
	zone, aerr := strconv.Atoi(s)
	if aerr != nil || zone < 1 || zone > 60 {
		return 0, false, ErrUnknownID("utm:" + s)
	}
	return zone, northern, nil
}

// FromEPSG returns an adapter for a code in the wgs84 EPSG
// repository.
func FromEPSG(code int) (Adapter, error) {
	sys := wgs84.EPSG().Code(code)
	if sys == nil {
		return nil, ErrUnknownID("epsg:" + strconv.Itoa(code))
	}
	return New(sys), nil
}

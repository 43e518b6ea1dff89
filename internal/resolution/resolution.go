// Package resolution holds the web mercator scale arithmetic shared
// by the viewport, the server and the CLI.
package resolution

import "math"

const (
	// MercatorEarthRadius is the sphere radius of the web mercator
	// display projection.
	MercatorEarthRadius = 6378137
	// MercatorEarthCircumference is the equatorial circumference of
	// that sphere.
	MercatorEarthCircumference = 2 * math.Pi * MercatorEarthRadius
	// Rad converts degrees to radians.
	Rad = math.Pi / 180
	// TileSize is the pixel size of a slippy map tile.
	TileSize = 256
)

// Ground returns the ground resolution (meters per pixel) at the
// given zoom and latitude.
// Formula from https://docs.microsoft.com/en-us/bingmaps/articles/bing-maps-tile-system
func Ground(zoom float64, lat float64) float64 {
	mapWidth := TileSize * math.Pow(2, zoom)
	width := math.Cos(lat * Rad)
	return width * MercatorEarthCircumference / mapWidth
}

// ZoomForGround returns the zoom at which the given ground resolution
// is reached at the given latitude.
func ZoomForGround(ground float64, lat float64) float64 {
	width := math.Cos(lat * Rad)
	return math.Log2((width * MercatorEarthCircumference) / (ground * TileSize))
}

// ZoomForWidth returns the zoom at which the longitude span covers
// the given pixel width.
func ZoomForWidth(lngSpan float64, pixelWidth float64) float64 {
	return math.Log2(pixelWidth * 360 / (lngSpan * TileSize))
}

// Package interval maps the map scale at the viewport center to the
// spacing between adjacent grid lines.
package interval

// Interval is the distance in meters between adjacent parallel grid
// lines.
type Interval int64

const (
	// Interval100 is a 100m grid.
	Interval100 Interval = 100
	// Interval1K is a 1km grid.
	Interval1K Interval = 1000
	// Interval10K is a 10km grid.
	Interval10K Interval = 10000
	// Interval100K is a 100km grid; the largest spacing, one grid
	// cell per 100km square.
	Interval100K Interval = 100000
)

// scale staircase, in meters per pixel at the viewport center.
const (
	maxScale100 = 1
	maxScale1K  = 20
	maxScale10K = 175
)

// ForScale returns the interval to use for the given ground
// resolution (meters per screen pixel at the viewport center). Pure
// step function, no hysteresis.
func ForScale(metersPerPixel float64) Interval {
	switch {
	case metersPerPixel <= maxScale100:
		return Interval100
	case metersPerPixel <= maxScale1K:
		return Interval1K
	case metersPerPixel <= maxScale10K:
		return Interval10K
	default:
		return Interval100K
	}
}

// Clamp restricts the interval to [min,max]. A zero min or max leaves
// that side unrestricted.
func (i Interval) Clamp(min, max Interval) Interval {
	if min > 0 && i < min {
		i = min
	}
	if max > 0 && i > max {
		i = max
	}
	return i
}

// Size is the interval size in meters.
func (i Interval) Size() int64 { return int64(i) }

// PartsFor breaks a coordinate value (meters) into the 100km-square
// index, the in-square label value at this interval, and the
// remainder below the interval.
func (i Interval) PartsFor(meters int64) (prefix, label, suffix int) {
	mask := int64(i)

	suffix = int(meters % mask)
	val := meters / mask
	label = int(val % (int64(Interval100K) / mask))
	prefix = int(meters / int64(Interval100K))

	return prefix, label, suffix
}

// Width is the number of digits of an in-square label value at this
// interval: 3 within a 1km grid, 2 within a 10km grid, 1 within a
// 100km grid, 0 at the 100km interval itself (labels carry no
// numeric part there).
func (i Interval) Width() int {
	w := 0
	for mask := int64(i); mask > 0 && mask < int64(Interval100K); mask *= 10 {
		w++
	}
	return w
}

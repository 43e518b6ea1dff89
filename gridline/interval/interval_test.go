package interval

import (
	"fmt"
	"testing"
)

func TestForScale(t *testing.T) {
	type tcase struct {
		scale    float64
		min, max Interval
		expected Interval
	}

	fn := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			got := ForScale(tc.scale).Clamp(tc.min, tc.max)
			if got != tc.expected {
				t.Errorf("interval, expected %v got %v", tc.expected, got)
			}
		}
	}

	tests := map[string]tcase{
		"sub meter":        {scale: 0.5, expected: Interval100},
		"one meter":        {scale: 1, expected: Interval100},
		"street level":     {scale: 10, expected: Interval1K},
		"city level":       {scale: 100, expected: Interval10K},
		"country level":    {scale: 10000, expected: Interval100K},
		"boundary 20":      {scale: 20, expected: Interval1K},
		"boundary 175":     {scale: 175, expected: Interval10K},
		"clamped min":      {scale: 0.5, min: Interval1K, expected: Interval1K},
		"clamped max":      {scale: 10000, max: Interval10K, expected: Interval10K},
		"clamp unaffected": {scale: 10, min: Interval100, max: Interval100K, expected: Interval1K},
	}

	for name, tc := range tests {
		t.Run(name, fn(tc))
	}
}

func TestForScaleMonotonic(t *testing.T) {
	scales := []float64{0.1, 0.5, 1, 2, 5, 19, 20, 50, 174, 175, 500, 10000}
	last := Interval(0)
	for _, s := range scales {
		got := ForScale(s)
		if got < last {
			t.Errorf("monotonic, interval decreased to %v at scale %v", got, s)
		}
		last = got
	}
}

func TestPartsFor(t *testing.T) {
	type tcase struct {
		interval Interval
		meters   int64
		prefix   int
		label    int
		suffix   int
	}

	fn := func(tc tcase) func(*testing.T) {
		return func(t *testing.T) {
			prefix, label, suffix := tc.interval.PartsFor(tc.meters)
			if prefix != tc.prefix || label != tc.label || suffix != tc.suffix {
				t.Errorf("parts, expected (%v,%v,%v) got (%v,%v,%v)",
					tc.prefix, tc.label, tc.suffix, prefix, label, suffix)
			}
		}
	}

	tests := map[string]tcase{
		"100m":       {interval: Interval100, meters: 123456, prefix: 1, label: 234, suffix: 56},
		"1km":        {interval: Interval1K, meters: 123456, prefix: 1, label: 23, suffix: 456},
		"10km":       {interval: Interval10K, meters: 123456, prefix: 1, label: 2, suffix: 3456},
		"100km":      {interval: Interval100K, meters: 123456, prefix: 1, label: 0, suffix: 23456},
		"origin":     {interval: Interval1K, meters: 0, prefix: 0, label: 0, suffix: 0},
		"big northing": {interval: Interval1K, meters: 1234567, prefix: 12, label: 34, suffix: 567},
	}

	for name, tc := range tests {
		t.Run(fmt.Sprintf("%v %v", name, tc.meters), fn(tc))
	}
}

func TestWidth(t *testing.T) {
	widths := map[Interval]int{
		Interval100:  3,
		Interval1K:   2,
		Interval10K:  1,
		Interval100K: 0,
	}
	for iv, w := range widths {
		if got := iv.Width(); got != w {
			t.Errorf("width %v, expected %v got %v", iv, w, got)
		}
	}
}

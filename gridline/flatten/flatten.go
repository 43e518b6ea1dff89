// Package flatten approximates projected curves by screen-space
// polylines within a pixel tolerance.
//
// The test used to decide whether a chord is a good enough stand-in
// for the curve is the parametric midpoint test: the curve and the
// chord are compared at their midpoints rather than geometrically.
// This keeps the two parametrically close together and stays robust
// near projection singularities where the parameterization speed
// changes rapidly.
package flatten

import (
	"math"

	"github.com/gdey/errors"
	"github.com/paulmach/orb"
)

const (
	// DefaultTolerance is the pixel tolerance used when the caller
	// passes a non-positive one.
	DefaultTolerance = 1.0

	// Budget is the maximum number of midpoint evaluations for a
	// single curve. It is a safety valve for curves that never
	// converge locally, e.g. near an inflection point of the display
	// projection. When the budget runs out whatever points have been
	// accumulated are returned as a best effort approximation.
	Budget = 1000

	// ErrBudgetExhausted is returned alongside the partial polyline
	// when Budget midpoint evaluations were not enough to flatten the
	// curve. Never fatal; callers stroke what they got.
	ErrBudgetExhausted = errors.String("flatten: subdivision budget exhausted")
)

// Curve maps a fraction in [0,1] to a geographic point.
type Curve func(t float64) (orb.Point, error)

// Projector maps a geographic point to screen pixels.
type Projector func(pt orb.Point) (x, y float64)

// fraction is an exact dyadic rational in [0,1]. Subdivision only
// ever halves intervals, so every parameter value we visit is one of
// these. Using the exact value as the dedup key avoids the
// precision-driven duplicate or missing joint points that keying on
// the floating point value invites.
type fraction struct {
	num, den uint64 // den is a power of two
}

func (f fraction) value() float64 { return float64(f.num) / float64(f.den) }

// maxDen bounds the subdivision depth so the midpoint arithmetic
// cannot overflow. float64 parameters stop being distinguishable well
// before this depth.
const maxDen = uint64(1) << 62

// mid returns the normalized midpoint of two dyadic fractions.
func mid(a, b fraction) fraction {
	den := a.den
	if b.den > den {
		den = b.den
	}
	m := fraction{
		num: a.num*(den/a.den) + b.num*(den/b.den),
		den: den * 2,
	}
	for m.num != 0 && m.num%2 == 0 {
		m.num /= 2
		m.den /= 2
	}
	return m
}

// segment is one candidate chord: both endpoints with their fraction,
// geographic point, and screen point. Consumed from the work stack,
// never persisted.
type segment struct {
	t0, t1 fraction
	g0, g1 orb.Point
	s0, s1 [2]float64
}

// Polyline tessellates the curve into screen points such that the
// chord between any two consecutive points deviates from the curve's
// midpoint by less than tolerance pixels. The points run in curve
// order from t=0 to t=1.
//
// An error from the curve aborts tessellation; the points gathered so
// far are returned with it.
func Polyline(curve Curve, project Projector, tolerance float64) ([][2]float64, error) {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	g0, err := curve(0)
	if err != nil {
		return nil, err
	}
	g1, err := curve(1)
	if err != nil {
		return nil, err
	}

	x0, y0 := project(g0)
	x1, y1 := project(g1)

	stack := make([]segment, 1, 32)
	stack[0] = segment{
		t0: fraction{0, 1}, t1: fraction{1, 1},
		g0: g0, g1: g1,
		s0: [2]float64{x0, y0}, s1: [2]float64{x1, y1},
	}

	var (
		out  [][2]float64
		seen = make(map[fraction]struct{}, 16)
	)
	emit := func(t fraction, pt [2]float64) {
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, pt)
	}

	for evals := 0; len(stack) > 0; evals++ {
		if evals >= Budget {
			return out, ErrBudgetExhausted
		}

		seg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		tm := mid(seg.t0, seg.t1)
		gm, err := curve(tm.value())
		if err != nil {
			return out, err
		}
		mx, my := project(gm)

		if distToChord(mx, my, seg.s0, seg.s1) < tolerance || tm.den >= maxDen {
			emit(seg.t0, seg.s0)
			emit(seg.t1, seg.s1)
			continue
		}

		// Second half first so the first half pops first and the
		// output stays in curve order.
		stack = append(stack,
			segment{t0: tm, t1: seg.t1, g0: gm, g1: seg.g1, s0: [2]float64{mx, my}, s1: seg.s1},
			segment{t0: seg.t0, t1: tm, g0: seg.g0, g1: gm, s0: seg.s0, s1: [2]float64{mx, my}},
		)
	}

	return out, nil
}

// distToChord is the perpendicular distance from (x,y) to the line
// through a and b. A degenerate chord falls back to point distance.
func distToChord(x, y float64, a, b [2]float64) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return math.Hypot(x-a[0], y-a[1])
	}
	return math.Abs(dx*(a[1]-y)-(a[0]-x)*dy) / length
}

// Package gridline renders metric grid overlays, national grids and
// UTM, onto a transparent surface sized to a web mercator map view.
// A Grid is built once from a Definition and redrawn per view change;
// everything on the surface, line work and labels, is recomputed for
// the viewport it is given.
package gridline

import (
	"image"
	"io"
	"math"

	"github.com/go-spatial/geom"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/paulmach/orb"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/go-spatial/gridline/crs"
	"github.com/go-spatial/gridline/gridline/clip"
	"github.com/go-spatial/gridline/gridline/extent"
	"github.com/go-spatial/gridline/gridline/flatten"
	"github.com/go-spatial/gridline/gridline/interval"
	"github.com/go-spatial/gridline/gridline/label"
	"github.com/go-spatial/gridline/gridline/namer"
)

// Style collects the drawing knobs of a grid. The zero value of any
// field falls back to the matching DefaultStyle value.
type Style struct {
	// Color is the stroke and label color as a hex string.
	Color string
	// LineWidth is the stroke width in pixels.
	LineWidth float64
	// Opacity in (0,1] is multiplied into the color's alpha.
	Opacity float64
	// FontSize is the label size in pixels.
	FontSize float64
	// FontPath points at a TTF on disk. Empty uses the builtin face.
	FontPath string
	// Tolerance is the flattening tolerance in pixels.
	Tolerance float64
	// DebugClip strokes the clip outline, dashed, for diagnosing clip
	// configuration.
	DebugClip bool
}

// DefaultStyle is the style an empty Style resolves to.
func DefaultStyle() Style {
	return Style{
		Color:     "#444444",
		LineWidth: 1,
		Opacity:   1,
		FontSize:  11,
		Tolerance: flatten.DefaultTolerance,
	}
}

func (s Style) resolved() Style {
	def := DefaultStyle()
	if s.Color == "" {
		s.Color = def.Color
	}
	if s.LineWidth <= 0 {
		s.LineWidth = def.LineWidth
	}
	if s.Opacity <= 0 || s.Opacity > 1 {
		s.Opacity = def.Opacity
	}
	if s.FontSize <= 0 {
		s.FontSize = def.FontSize
	}
	if s.Tolerance <= 0 {
		s.Tolerance = def.Tolerance
	}
	return s
}

// Definition describes one grid: its projection, where it is valid,
// and how it is labelled.
type Definition struct {
	Name string

	// CRS converts between WGS84 and the grid's own easting/northing.
	CRS crs.Adapter

	// Bounds is the grid's valid area in grid meters. Lines are never
	// drawn outside it.
	Bounds *geom.Extent

	// ClipPolygon restricts drawing to a polygon ring in grid meters,
	// typically a coastline or zone outline. ClipBound restricts to a
	// geographic rectangle. The polygon wins when both are set.
	ClipPolygon [][2]float64
	ClipBound   *orb.Bound

	// Namer names 100km squares for square labels. Nil leaves square
	// labels with their numeric codes only.
	Namer namer.Namer

	// MinInterval and MaxInterval clamp the scale-chosen line spacing.
	// Zero means unrestricted on that side.
	MinInterval interval.Interval
	MaxInterval interval.Interval

	// MinZoom hides the grid entirely below this zoom level.
	MinZoom float64

	// AxisIntervals and SquareIntervals list the spacings at which
	// edge labels and square labels are drawn. Empty means never.
	AxisIntervals   []interval.Interval
	SquareIntervals []interval.Interval

	// Subscript draws the hundred-km prefix of axis labels small.
	Subscript bool

	Style Style
}

// Grid renders one definition into an offscreen overlay surface. A
// Grid is not safe for concurrent redraws.
type Grid struct {
	def   Definition
	style Style

	ctx  *gg.Context
	face text.Face

	onReady func()
	ready   bool
}

// NewGrid validates the definition and prepares a renderer for it.
func NewGrid(def Definition) (*Grid, error) {
	if def.CRS == nil {
		return nil, ErrMissingCRS
	}
	if def.Bounds == nil {
		return nil, ErrMissingBounds
	}

	style := def.Style.resolved()

	var (
		source *text.FontSource
		err    error
	)
	if style.FontPath != "" {
		source, err = text.NewFontSourceFromFile(style.FontPath)
	} else {
		source, err = text.NewFontSource(goregular.TTF)
	}
	if err != nil {
		return nil, err
	}

	return &Grid{
		def:   def,
		style: style,
		face:  source.Face(style.FontSize),
	}, nil
}

// Name returns the definition's name.
func (g *Grid) Name() string { return g.def.Name }

// OnReady registers fn to be called once, after the first redraw that
// completes without error.
func (g *Grid) OnReady(fn func()) { g.onReady = fn }

// Surface returns the rendered overlay, or nil before the first
// redraw.
func (g *Grid) Surface() image.Image {
	if g.ctx == nil {
		return nil
	}
	return g.ctx.Image()
}

// EncodePNG writes the rendered overlay as a PNG.
func (g *Grid) EncodePNG(w io.Writer) error {
	if g.ctx == nil {
		return ErrNilViewport
	}
	return g.ctx.EncodePNG(w)
}

// Redraw recomputes the overlay for the viewport. The previous
// content is discarded first, so a redraw that draws nothing (grid
// hidden or off-view) still leaves a valid, fully transparent
// surface.
func (g *Grid) Redraw(vp *Viewport) (err error) {
	if vp == nil || vp.Width <= 0 || vp.Height <= 0 {
		return ErrNilViewport
	}

	if g.ctx == nil || g.ctx.Width() != vp.Width || g.ctx.Height() != vp.Height {
		g.ctx = gg.NewContext(vp.Width, vp.Height)
		g.ctx.SetFont(g.face)
	}
	g.ctx.Clear()

	defer func() {
		if err == nil && !g.ready {
			g.ready = true
			if g.onReady != nil {
				g.onReady()
			}
		}
	}()

	if vp.zoom() < g.def.MinZoom {
		return nil
	}

	spacing := interval.ForScale(vp.Scale()).Clamp(g.def.MinInterval, g.def.MaxInterval)
	ext, ok := extent.Visible(vp.Bound, g.forward, spacing, g.def.Bounds)
	if !ok {
		return nil
	}

	project := vp.Projector()
	region, err := g.region(project, ext)
	if err != nil {
		return err
	}

	col := gg.Hex(g.style.Color)
	col.A *= g.style.Opacity

	g.ctx.Push()
	g.installClip(region)
	g.ctx.SetColor(col.Color())
	g.ctx.SetLineWidth(g.style.LineWidth)
	g.strokeLines(project, ext, spacing)
	g.drawLabels(vp, project, ext, spacing, region, col)
	g.ctx.Pop()

	if g.style.DebugClip {
		g.strokeClipOutline(region, col)
	}
	return nil
}

func (g *Grid) forward(pt orb.Point) (easting, northing float64, err error) {
	return g.def.CRS.Forward(pt[0], pt[1])
}

func (g *Grid) inverse(easting, northing float64) (orb.Point, error) {
	lng, lat, err := g.def.CRS.Inverse(easting, northing)
	if err != nil {
		return orb.Point{}, err
	}
	return orb.Point{lng, lat}, nil
}

func (g *Grid) region(project flatten.Projector, ext *geom.Extent) (*clip.Region, error) {
	switch {
	case len(g.def.ClipPolygon) > 0:
		// when the ring holds every corner of the visible extent
		// nothing would be cut, skip tessellating the clip
		if clip.CoversExtent(g.def.ClipPolygon, ext) {
			return nil, nil
		}
		return clip.PolygonRegion(g.def.ClipPolygon, g.inverse, project)
	case g.def.ClipBound != nil:
		return clip.RectRegion(*g.def.ClipBound, project), nil
	}
	return nil, nil
}

func (g *Grid) installClip(region *clip.Region) {
	switch {
	case region == nil:
	case region.Rect != nil:
		r := region.Rect
		g.ctx.ClipRect(r.MinX(), r.MinY(), r.MaxX()-r.MinX(), r.MaxY()-r.MinY())
	case len(region.Path) > 2:
		g.tracePath(region.Path)
		g.ctx.ClosePath()
		g.ctx.Clip()
	}
}

func (g *Grid) tracePath(pts [][2]float64) {
	g.ctx.MoveTo(pts[0][0], pts[0][1])
	for _, pt := range pts[1:] {
		g.ctx.LineTo(pt[0], pt[1])
	}
}

// strokeLines flattens and strokes both line families over the
// extent. A line whose curve leaves the projection domain is dropped;
// a line that exhausts the flattening budget is drawn with whatever
// points were gathered.
func (g *Grid) strokeLines(project flatten.Projector, ext *geom.Extent, spacing interval.Interval) {
	size := float64(spacing.Size())

	for e := ext.MinX(); e <= ext.MaxX(); e += size {
		g.strokeLine(project, func(t float64) (orb.Point, error) {
			return g.inverse(e, ext.MinY()+t*(ext.MaxY()-ext.MinY()))
		})
	}
	for n := ext.MinY(); n <= ext.MaxY(); n += size {
		g.strokeLine(project, func(t float64) (orb.Point, error) {
			return g.inverse(ext.MinX()+t*(ext.MaxX()-ext.MinX()), n)
		})
	}
}

func (g *Grid) strokeLine(project flatten.Projector, curve flatten.Curve) {
	pts, err := flatten.Polyline(curve, project, g.style.Tolerance)
	if err != nil && err != flatten.ErrBudgetExhausted {
		return
	}
	if len(pts) < 2 {
		return
	}
	g.tracePath(pts)
	g.ctx.Stroke()
}

func (g *Grid) drawLabels(vp *Viewport, project flatten.Projector, ext *geom.Extent, spacing interval.Interval, region *clip.Region, col gg.RGBA) {
	axis := hasInterval(g.def.AxisIntervals, spacing)
	square := hasInterval(g.def.SquareIntervals, spacing)
	if !axis && !square {
		return
	}

	placement := label.Placement{
		Extent:  ext,
		Spacing: spacing,
		Bounds:  g.def.Bounds,
		Project: func(easting, northing float64) (x, y float64, err error) {
			pt, err := g.inverse(easting, northing)
			if err != nil {
				return 0, 0, err
			}
			x, y = project(pt)
			return x, y, nil
		},
		Width:     float64(vp.Width),
		Height:    float64(vp.Height),
		Region:    region,
		Subscript: g.def.Subscript,
	}

	var specs []label.Spec
	if axis {
		specs = append(specs, placement.AxisLabels()...)
	}
	if square {
		var name label.Namer
		if g.def.Namer != nil {
			name = g.def.Namer.SquareName
		}
		specs = append(specs, placement.SquareLabels(name)...)
	}

	g.ctx.SetColor(col.Color())
	for _, spec := range specs {
		g.drawLabel(spec)
	}
}

// labelPad is the rub-out margin around a label's text box, in
// pixels.
const labelPad = 2

func (g *Grid) drawLabel(spec label.Spec) {
	ax, ay := 0.5, 0.5
	if spec.Align == label.AlignSquareCorner {
		ax, ay = 0, 1
	}

	w, h := g.ctx.MeasureString(spec.Text)
	g.rubOut(spec.X-ax*w, spec.Y-ay*h, w, h)
	g.ctx.DrawStringAnchored(spec.Text, spec.X, spec.Y, ax, ay)
}

// rubOut punches a transparent hole for a label so the line it sits
// on does not strike through the text. The pixels are written
// directly; the hole also clears whatever the map alpha-composites
// under it, which is the point.
func (g *Grid) rubOut(x, y, w, h float64) {
	x0, y0 := int(math.Floor(x))-labelPad, int(math.Floor(y))-labelPad
	x1, y1 := int(math.Ceil(x+w))+labelPad, int(math.Ceil(y+h))+labelPad
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			g.ctx.SetPixel(px, py, gg.Transparent)
		}
	}
}

func (g *Grid) strokeClipOutline(region *clip.Region, col gg.RGBA) {
	if region == nil {
		return
	}
	g.ctx.SetColor(col.Color())
	g.ctx.SetLineWidth(g.style.LineWidth)
	g.ctx.SetDash(4, 2)
	switch {
	case region.Rect != nil:
		r := region.Rect
		g.ctx.DrawRectangle(r.MinX(), r.MinY(), r.MaxX()-r.MinX(), r.MaxY()-r.MinY())
	case len(region.Path) > 2:
		g.tracePath(region.Path)
		g.ctx.ClosePath()
	}
	g.ctx.Stroke()
	g.ctx.SetDash()
}

func hasInterval(list []interval.Interval, iv interval.Interval) bool {
	for _, have := range list {
		if have == iv {
			return true
		}
	}
	return false
}

// Package builtin serves the compiled-in grid definitions: the
// British and Irish national grids and the UTM zones. UTM grids are
// named "utm:30n" style and synthesized on demand; "osgb" and "irish"
// are fixed.
package builtin

import (
	"strconv"
	"strings"

	"github.com/go-spatial/geom"

	"github.com/go-spatial/gridline/crs"
	"github.com/go-spatial/gridline/griddef"
	"github.com/go-spatial/gridline/gridline"
	"github.com/go-spatial/gridline/gridline/interval"
	"github.com/go-spatial/gridline/gridline/namer"
	"github.com/go-spatial/gridline/gridline/namer/mgrs"

	// The square namers the builtin grids reference.
	_ "github.com/go-spatial/gridline/gridline/namer/ie"
	_ "github.com/go-spatial/gridline/gridline/namer/osgb"
)

// Name is the name of the provider type.
const Name = "builtin"

const (
	// ConfigKeyMinZoom hides all served grids below this zoom.
	ConfigKeyMinZoom = "min_zoom"
	// ConfigKeyColor is the stroke and label color, hex.
	ConfigKeyColor = "color"
	// ConfigKeyLineWidth is the stroke width in pixels.
	ConfigKeyLineWidth = "line_width"
	// ConfigKeyOpacity is the overlay opacity.
	ConfigKeyOpacity = "opacity"
	// ConfigKeyFontSize is the label size in pixels.
	ConfigKeyFontSize = "font_size"
)

func init() {
	griddef.Register(Name, NewProvider, nil)
}

// Provider implements griddef.Provider over the compiled-in set.
type Provider struct {
	minZoom float64
	style   gridline.Style
}

// NewProvider returns the builtin provider, styled per the config.
func NewProvider(config griddef.ProviderConfig) (griddef.Provider, error) {
	var p Provider

	minZoom := 0.0
	minZoom, err := config.Float(ConfigKeyMinZoom, &minZoom)
	if err != nil {
		return nil, err
	}
	p.minZoom = minZoom

	color := ""
	if color, err = config.String(ConfigKeyColor, &color); err != nil {
		return nil, err
	}
	lineWidth := 0.0
	if lineWidth, err = config.Float(ConfigKeyLineWidth, &lineWidth); err != nil {
		return nil, err
	}
	opacity := 0.0
	if opacity, err = config.Float(ConfigKeyOpacity, &opacity); err != nil {
		return nil, err
	}
	fontSize := 0.0
	if fontSize, err = config.Float(ConfigKeyFontSize, &fontSize); err != nil {
		return nil, err
	}
	p.style = gridline.Style{
		Color:     color,
		LineWidth: lineWidth,
		Opacity:   opacity,
		FontSize:  fontSize,
	}

	return &p, nil
}

// everyInterval enables a label family at all spacings.
var everyInterval = []interval.Interval{
	interval.Interval100,
	interval.Interval1K,
	interval.Interval10K,
	interval.Interval100K,
}

// GridFor returns the named definition.
func (p *Provider) GridFor(name string) (*gridline.Definition, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case key == "osgb":
		return p.osgb()
	case key == "irish":
		return p.irish()
	case strings.HasPrefix(key, "utm:"):
		return p.utm(key)
	}
	return nil, griddef.ErrGridNotFound(name)
}

// Grids lists the fixed names. The UTM family is served by pattern
// and not enumerated.
func (p *Provider) Grids() ([]string, error) {
	return []string{"irish", "osgb"}, nil
}

func (p *Provider) osgb() (*gridline.Definition, error) {
	squares, err := namer.For("osgb")
	if err != nil {
		return nil, err
	}
	return &gridline.Definition{
		Name:            "osgb",
		CRS:             crs.OSGB36(),
		Bounds:          geom.NewExtent([2]float64{0, 0}, [2]float64{700000, 1300000}),
		Namer:           squares,
		MinZoom:         p.minZoom,
		AxisIntervals:   everyInterval,
		SquareIntervals: []interval.Interval{interval.Interval10K, interval.Interval100K},
		Subscript:       true,
		Style:           p.style,
	}, nil
}

func (p *Provider) irish() (*gridline.Definition, error) {
	squares, err := namer.For("ie")
	if err != nil {
		return nil, err
	}
	return &gridline.Definition{
		Name:            "irish",
		CRS:             crs.IrishGrid(),
		Bounds:          geom.NewExtent([2]float64{0, 0}, [2]float64{400000, 500000}),
		Namer:           squares,
		MinZoom:         p.minZoom,
		AxisIntervals:   everyInterval,
		SquareIntervals: []interval.Interval{interval.Interval10K, interval.Interval100K},
		Subscript:       true,
		Style:           p.style,
	}, nil
}

func (p *Provider) utm(key string) (*gridline.Definition, error) {
	adapter, err := crs.ForID(key)
	if err != nil {
		return nil, griddef.ErrGridNotFound(key)
	}
	zone, err := strconv.Atoi(strings.TrimRight(strings.TrimPrefix(key, "utm:"), "ns"))
	if err != nil {
		return nil, griddef.ErrGridNotFound(key)
	}
	return &gridline.Definition{
		Name: key,
		CRS:  adapter,
		// One zone's worth of eastings around the central meridian;
		// northings cover both hemispheres' false-northing range.
		Bounds:          geom.NewExtent([2]float64{100000, 0}, [2]float64{900000, 9500000}),
		Namer:           mgrs.New(zone),
		MinZoom:         p.minZoom,
		AxisIntervals:   everyInterval,
		SquareIntervals: []interval.Interval{interval.Interval10K, interval.Interval100K},
		Style:           p.style,
	}, nil
}

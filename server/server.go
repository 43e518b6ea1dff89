// Package server exposes the grid engine over http: listing the
// configured grids, describing them, and rendering overlay PNGs for a
// given viewport.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/dimfeld/httptreemux"
	"github.com/paulmach/orb"
	"github.com/prometheus/common/log"

	"github.com/go-spatial/gridline/griddef"
	"github.com/go-spatial/gridline/gridline"
)

type URLPath string

func (u URLPath) PathComponent() string { return ":" + string(u) }

const (
	// ParamsKeyGrid is the key used for the grid name.
	ParamsKeyGrid = URLPath("grid")

	HTTPErrorHeader = "X-HTTP-Error-Description"

	// QueryKeyBBox is the viewport bound, "west,south,east,north" in
	// degrees.
	QueryKeyBBox = "bbox"
	// QueryKeyWidth is the surface width in pixels.
	QueryKeyWidth = "width"
	// QueryKeyHeight is the surface height in pixels.
	QueryKeyHeight = "height"
	// QueryKeyZoom is the map zoom; derived from bbox and width when
	// absent.
	QueryKeyZoom = "zoom"

	// DefaultSurfaceSize is used when width/height are not given.
	DefaultSurfaceSize = 1024
	// MaxSurfaceSize caps the requested surface.
	MaxSurfaceSize = 4096
)

// GenPath builds a route path out of fixed strings and URLPath
// components.
func GenPath(paths ...interface{}) string {
	var path strings.Builder
	for _, p := range paths {
		var str string
		switch pp := p.(type) {
		case URLPath:
			str = pp.PathComponent()
		case string:
			str = pp
		case rune:
			str = string(pp)
		default:
			if pp == nil {
				continue
			}
			str = fmt.Sprintf("%v", p)
		}
		if str == "/" || str == "" {
			continue
		}
		path.WriteString("/" + str)
	}
	return path.String()
}

// Server serves up grid information and renders overlays.
type Server struct {
	// Hostname is the name of the host to use for construction of URLs.
	Hostname string

	// Port is the port the server is listening on, used for construction of URLs.
	Port string

	// Scheme is the scheme that should be used for construction of URLs.
	Scheme string

	// Headers is the map of user defined response headers.
	Headers map[string]string

	// Provider resolves grid names to definitions.
	Provider griddef.Provider

	// grids caches renderers by grid name. A renderer redraws into a
	// single surface, so renders are serialized.
	gridsLck sync.Mutex
	grids    map[string]*gridline.Grid
}

var (
	// Version is the version of the software; set by the main program
	// before starting up.
	Version = "Version Not Set"

	// DefaultCORSHeaders define the default CORS response headers
	// added to all requests.
	DefaultCORSHeaders = map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET, OPTIONS",
	}
)

func setHeaders(h map[string]string, w http.ResponseWriter) {
	// add CORS headers
	for name, val := range DefaultCORSHeaders {
		if val == "" {
			log.Warnf("default CORS header (%v) has no value", name)
		}
		w.Header().Set(name, val)
	}

	// set user defined headers
	for name, val := range h {
		if val == "" {
			log.Warnf("header (%v) has no value", name)
		}
		w.Header().Set(name, val)
	}
}

func badRequest(w http.ResponseWriter, reasonFmt string, data ...interface{}) {
	w.Header().Set(HTTPErrorHeader, fmt.Sprintf(reasonFmt, data...))
	w.WriteHeader(http.StatusBadRequest)
}

// GetHostName determines the hostname:port to return based on the
// values in the server object, falling back to the request.
func (s *Server) GetHostName(r *http.Request) string {
	var (
		rHostname = s.Hostname
		// the listen address style ":8080" is accepted here too
		rPort = strings.TrimPrefix(s.Port, ":")
	)

	if rHostname == "" {
		substrs := strings.Split(r.Host, ":")
		switch len(substrs) {
		case 1:
			rHostname = substrs[0]
		case 2:
			rHostname = substrs[0]
			if rPort == "" || rPort == "none" {
				rPort = substrs[1]
			}
		default:
			log.Warnf("multiple colons (':') in host string: %v", r.Host)
		}
	}

	if rPort == "" || rPort == "none" {
		return rHostname
	}
	return rHostname + ":" + rPort
}

// GetScheme checks to determine if the request is http or https.
func (s *Server) GetScheme(r *http.Request) string {
	switch {
	case r.Header.Get("X-Forwarded-Proto") != "":
		return r.Header.Get("X-Forwarded-Proto")
	case r.TLS != nil:
		return "https"
	case s.Scheme != "":
		return s.Scheme
	default:
		return "http"
	}
}

// URLRoot builds a string containing the scheme, host and port based
// on a combination of user defined values, headers and request
// parameters.
func (s *Server) URLRoot(r *http.Request) string {
	return fmt.Sprintf("%v://%v", s.GetScheme(r), s.GetHostName(r))
}

// gridFor returns the cached renderer for a grid name, creating it on
// first use.
func (s *Server) gridFor(name string) (*gridline.Grid, error) {
	s.gridsLck.Lock()
	defer s.gridsLck.Unlock()

	if grid, ok := s.grids[name]; ok {
		return grid, nil
	}

	def, err := s.Provider.GridFor(name)
	if err != nil {
		return nil, err
	}
	grid, err := gridline.NewGrid(*def)
	if err != nil {
		return nil, err
	}
	if s.grids == nil {
		s.grids = make(map[string]*gridline.Grid)
	}
	s.grids[name] = grid
	return grid, nil
}

// GridListHandler writes the JSON list of grid names the provider
// serves.
func (s *Server) GridListHandler(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	setHeaders(s.Headers, w)

	names, err := s.Provider.Grids()
	if err != nil {
		badRequest(w, "error listing grids: %v", err)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Grids []string `json:"grids"`
	}{Grids: names})
}

// GridInfoHandler writes information about the requested grid: its
// bounds in grid meters, labelling, and the overlay url template.
func (s *Server) GridInfoHandler(w http.ResponseWriter, r *http.Request, urlParams map[string]string) {
	setHeaders(s.Headers, w)

	name := urlParams[string(ParamsKeyGrid)]
	def, err := s.Provider.GridFor(name)
	if err != nil {
		badRequest(w, "error getting grid(%v): %v", name, err)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Name      string     `json:"name"`
		Bounds    [4]float64 `json:"bounds"`
		MinZoom   float64    `json:"min_zoom"`
		Subscript bool       `json:"subscript"`
		Overlay   string     `json:"overlay_url"`
	}{
		Name:      def.Name,
		Bounds:    [4]float64(*def.Bounds),
		MinZoom:   def.MinZoom,
		Overlay:   s.URLRoot(r) + GenPath(name, "overlay.png") + "?bbox=w,s,e,n",
		Subscript: def.Subscript,
	})
}

// OverlayHandler renders the grid overlay for the viewport given in
// the query string and writes it out as a PNG.
func (s *Server) OverlayHandler(w http.ResponseWriter, r *http.Request, urlParams map[string]string) {
	setHeaders(s.Headers, w)

	name := urlParams[string(ParamsKeyGrid)]
	q := r.URL.Query()

	bound, err := parseBBox(q.Get(QueryKeyBBox))
	if err != nil {
		badRequest(w, "error parsing bbox(%v): %v", q.Get(QueryKeyBBox), err)
		return
	}

	width, err := parseSize(q.Get(QueryKeyWidth))
	if err != nil {
		badRequest(w, "error parsing width(%v): %v", q.Get(QueryKeyWidth), err)
		return
	}
	height, err := parseSize(q.Get(QueryKeyHeight))
	if err != nil {
		badRequest(w, "error parsing height(%v): %v", q.Get(QueryKeyHeight), err)
		return
	}

	var zoom float64
	if zstr := q.Get(QueryKeyZoom); zstr != "" {
		if zoom, err = strconv.ParseFloat(zstr, 64); err != nil {
			badRequest(w, "error parsing zoom(%v): %v", zstr, err)
			return
		}
	}

	grid, err := s.gridFor(name)
	if err != nil {
		badRequest(w, "error getting grid(%v): %v", name, err)
		return
	}

	s.gridsLck.Lock()
	defer s.gridsLck.Unlock()
	vp := &gridline.Viewport{
		Bound:  bound,
		Width:  width,
		Height: height,
		Zoom:   zoom,
	}
	if err = grid.Redraw(vp); err != nil {
		log.Errorf("redraw failed for grid (%v): %v", name, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "image/png")
	if err = grid.EncodePNG(w); err != nil {
		log.Errorf("png encode failed for grid (%v): %v", name, err)
	}
}

func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("expected west,south,east,north")
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, err
		}
		vals[i] = v
	}
	if vals[0] >= vals[2] || vals[1] >= vals[3] {
		return orb.Bound{}, fmt.Errorf("degenerate bbox")
	}
	return orb.Bound{
		Min: orb.Point{vals[0], vals[1]},
		Max: orb.Point{vals[2], vals[3]},
	}, nil
}

func parseSize(s string) (int, error) {
	if s == "" {
		return DefaultSurfaceSize, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 || v > MaxSurfaceSize {
		return 0, fmt.Errorf("size out of range (0, %v]", MaxSurfaceSize)
	}
	return v, nil
}

// RegisterRoutes sets up the routes.
func (s *Server) RegisterRoutes(r *httptreemux.TreeMux) {
	r.GET(GenPath("grids"), s.GridListHandler)

	group := r.NewGroup(GenPath(ParamsKeyGrid))
	group.GET(GenPath("info"), s.GridInfoHandler)
	group.GET(GenPath("overlay.png"), s.OverlayHandler)
}

package cmd

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/go-spatial/tegola/dict"
	"github.com/paulmach/orb"
	"github.com/prometheus/common/log"
	"github.com/spf13/cobra"

	"github.com/go-spatial/gridline/config"
	"github.com/go-spatial/gridline/filestore"
	fsmulti "github.com/go-spatial/gridline/filestore/multi"
	"github.com/go-spatial/gridline/griddef"
	"github.com/go-spatial/gridline/gridline"
)

const (
	// DefaultSurfaceSize is the pixel size used when the config and
	// flags do not give one.
	DefaultSurfaceSize = 1024
)

var (
	// Providers are the configured grid definition providers, by name.
	Providers = make(map[string]griddef.Provider)
	// FileStores are the configured file store providers, by name.
	FileStores = make(map[string]filestore.Provider)
	// GridStores maps a configured grid name to its file store.
	GridStores = make(map[string]filestore.Provider)
	// GridSizes maps a configured grid name to its surface size.
	GridSizes = make(map[string][2]int)

	// Flags
	configFile string
	gridName   string
	bboxStr    string
	width      int
	height     int
	zoom       float64
	outFile    string
)

func init() {
	Root.PersistentFlags().StringVar(&configFile, "config", "config.toml", "config file to use")
	Root.Flags().StringVar(&gridName, "grid", "", "name of the grid to render")
	Root.Flags().StringVar(&bboxStr, "bbox", "", "viewport as west,south,east,north degrees")
	Root.Flags().IntVar(&width, "width", 0, "surface width in pixels")
	Root.Flags().IntVar(&height, "height", 0, "surface height in pixels")
	Root.Flags().Float64Var(&zoom, "zoom", 0, "map zoom, derived from the bbox when omitted")
	Root.Flags().StringVarP(&outFile, "output", "o", "", "also write the overlay to this local file")

	Root.AddCommand(Server)
}

// Root is the main cobra command
var Root = &cobra.Command{
	Use:   "gridline",
	Short: "Gridline renders metric grid overlays for web maps",
	Long: `Gridline renders national grid and UTM overlays sized to a web
mercator viewport, as transparent PNGs. Complete documentation is
available at http://github.com/go-spatial/gridline`,
	RunE: rootCmdRunE,
}

// ProviderConfig is a config structure for definition providers.
type ProviderConfig struct {
	dict.Dicter
}

// FilestoreConfig is a config for file stores.
type FilestoreConfig struct {
	dict.Dicter
}

// FileStoreFor implements the filestore.Config interface.
func (fscfg FilestoreConfig) FileStoreFor(name string) (filestore.Provider, error) {
	name = strings.ToLower(name)
	p, ok := FileStores[name]
	if !ok {
		return nil, filestore.ErrUnknownProvider(name)
	}
	return p, nil
}

// LoadConfig will attempt to load and validate a config at the given
// location, and wire up the providers and file stores it names.
func LoadConfig(location string) (*config.Config, error) {
	aURL, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	conf, err := config.LoadAndValidate(aURL)
	if err != nil {
		return nil, err
	}

	// Loop through providers creating a provider type mapping.
	for i, p := range conf.Providers {
		// type is required
		typ, err := p.String("type", nil)
		if err != nil {
			return nil, fmt.Errorf("error provider (%v) missing type : %v", i, err)
		}
		name, err := p.String("name", nil)
		if err != nil {
			return nil, fmt.Errorf("error provider (%v) missing name : %v", i, err)
		}
		name = strings.ToLower(name)
		if _, ok := Providers[name]; ok {
			return nil, fmt.Errorf("error provider with name (%v) is already registered", name)
		}
		prv, err := griddef.For(typ, ProviderConfig{p})
		if err != nil {
			return nil, fmt.Errorf("error registering provider #%v: %v", i, err)
		}

		Providers[name] = prv
	}

	// filestores
	for i, fstore := range conf.FileStores {
		// type is required
		typ, err := fstore.String("type", nil)
		if err != nil {
			return nil, fmt.Errorf("error filestore (%v) missing type : %v", i, err)
		}
		name, err := fstore.String("name", nil)
		if err != nil {
			return nil, fmt.Errorf("error filestore (%v) missing name: %v", i, err)
		}
		name = strings.ToLower(name)
		if _, ok := FileStores[name]; ok {
			return nil, fmt.Errorf("error filestore (%v) with name (%v) is already registered", i, name)
		}
		prv, err := filestore.For(typ, FilestoreConfig{fstore})
		if err != nil {
			return nil, fmt.Errorf("error registering filestore %v: %v", i, err)
		}
		FileStores[name] = prv
	}

	// Wire up each configured grid's store and size.
	for _, g := range conf.Grids {
		var fstores []filestore.Provider
		for _, filestoreString := range g.FileStores {
			filestoreName := strings.TrimSpace(strings.ToLower(filestoreString))
			if filestoreName == "" {
				continue
			}
			fsprv, ok := FileStores[filestoreName]
			if !ok {
				log.Infoln("known file stores are:")
				for k := range FileStores {
					log.Infoln("\t", k)
				}
				return nil, filestore.ErrUnknownProvider(filestoreName)
			}
			fstores = append(fstores, fsprv)
		}
		switch len(fstores) {
		case 0:
		case 1:
			GridStores[g.Name] = fstores[0]
		default:
			GridStores[g.Name] = fsmulti.New(fstores...)
		}

		w, h := g.Width, g.Height
		if w <= 0 {
			w = DefaultSurfaceSize
		}
		if h <= 0 {
			h = DefaultSurfaceSize
		}
		GridSizes[g.Name] = [2]int{w, h}
	}

	return &conf, nil
}

// DefinitionFor resolves a grid name against the configured
// providers, in the order the config names them in the grids blocks,
// falling back to trying every provider.
func DefinitionFor(conf *config.Config, name string) (*gridline.Definition, error) {
	for _, g := range conf.Grids {
		if g.Name != name || g.Provider == "" {
			continue
		}
		prv, ok := Providers[strings.ToLower(g.Provider)]
		if !ok {
			return nil, griddef.ErrProviderNotRegistered(g.Provider)
		}
		return prv.GridFor(name)
	}

	var firstErr error
	for _, prv := range Providers {
		def, err := prv.GridFor(name)
		if err == nil {
			return def, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = griddef.ErrGridNotFound(name)
	}
	return nil, firstErr
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

// writeOverlay sends the rendered overlay to the grid's file store
// and, when requested, a local file.
func writeOverlay(grid *gridline.Grid, name string) error {
	if store, ok := GridStores[name]; ok && store != nil {
		fw, err := store.FileWriter(name)
		if err != nil {
			return err
		}
		w, err := fw.Writer("overlay.png", false)
		if err != nil && err != filestore.ErrSkipWrite {
			return err
		}
		if w != nil {
			if err = grid.EncodePNG(w); err != nil {
				w.Close()
				return err
			}
			if err = w.Close(); err != nil {
				return err
			}
		}
	}

	if outFile == "" {
		return nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return err
	}
	if err = grid.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func rootCmdRunE(cmd *cobra.Command, args []string) error {
	defer filestore.Cleanup()

	conf, err := LoadConfig(configFile)
	if err != nil {
		return ErrExitWith{
			Err:       err,
			Msg:       fmt.Sprintf("error loading config: %v", err),
			ExitCode:  1,
			ShowUsage: true,
		}
	}

	name := strings.ToLower(strings.TrimSpace(gridName))
	if name == "" {
		if len(conf.Grids) == 0 {
			return ErrExitWith{
				Msg:       "no grid given and none configured",
				ExitCode:  1,
				ShowUsage: true,
			}
		}
		name = conf.Grids[0].Name
	}

	bound, err := parseBBox(bboxStr)
	if err != nil {
		return ErrExitWith{
			Err:       err,
			Msg:       fmt.Sprintf("error parsing bbox (%v): %v", bboxStr, err),
			ExitCode:  1,
			ShowUsage: true,
		}
	}

	def, err := DefinitionFor(conf, name)
	if err != nil {
		return ErrExitWith{
			Err:      err,
			Msg:      fmt.Sprintf("error getting grid (%v): %v", name, err),
			ExitCode: 2,
		}
	}
	grid, err := gridline.NewGrid(*def)
	if err != nil {
		return ErrExitWith{
			Err:      err,
			Msg:      fmt.Sprintf("error building renderer for (%v): %v", name, err),
			ExitCode: 2,
		}
	}

	size := GridSizes[name]
	w, h := size[0], size[1]
	if width > 0 {
		w = width
	}
	if height > 0 {
		h = height
	}
	if w <= 0 {
		w = DefaultSurfaceSize
	}
	if h <= 0 {
		h = DefaultSurfaceSize
	}

	vp := &gridline.Viewport{
		Bound:  bound,
		Width:  w,
		Height: h,
		Zoom:   zoom,
	}
	if err = grid.Redraw(vp); err != nil {
		return ErrExitWith{
			Err:      err,
			Msg:      fmt.Sprintf("error rendering grid (%v): %v", name, err),
			ExitCode: 2,
		}
	}

	if err = writeOverlay(grid, name); err != nil {
		return ErrExitWith{
			Err:      err,
			Msg:      fmt.Sprintf("error writing overlay for (%v): %v", name, err),
			ExitCode: 2,
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rendered %v overlay (%vx%v)\n", name, w, h)
	return nil
}

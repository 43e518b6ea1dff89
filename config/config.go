// Package config models the toml config file of the gridline server
// and CLI: which definition providers to stand up, which grids to
// serve, and where rendered overlays are written.
package config

import (
	"io"
	"net/url"

	"github.com/BurntSushi/toml"
	"github.com/gdey/errors"
	"github.com/go-spatial/tegola/dict"

	"github.com/go-spatial/gridline/internal/urlutil"
)

const (
	// ErrNotInitialized is returned when Validate is called on a nil
	// config.
	ErrNotInitialized = errors.String("config: not initialized")
)

// ErrGridUnknownProvider is returned when a grid entry references a
// provider name that has no providers block.
type ErrGridUnknownProvider string

func (err ErrGridUnknownProvider) Error() string {
	return "config: grid references unknown provider (" + string(err) + ")"
}

// ErrProviderNoName is returned for a providers block without a name.
const ErrProviderNoName = errors.String("config: provider missing name")

// Config models the config file that can be passed into the
// application.
type Config struct {
	// FileLocation is the location the config file was read from. If
	// this value is nil, the Parse() function was used directly.
	FileLocation *url.URL `toml:"-"`

	// Webserver is the configuration for the webserver.
	Webserver Webserver `toml:"webserver"`

	// Providers configure the grid definition providers; each block
	// carries a name, a type, and the type's own keys.
	Providers []dict.Dict `toml:"providers"`

	// Grids are the grid overlays this deployment serves.
	Grids []Grid `toml:"grids"`

	// FileStores are used to move rendered overlays to the locations
	// the user wants.
	FileStores []dict.Dict `toml:"file_stores"`

	// metadata holds the metadata from parsing the toml file.
	metadata toml.MetaData `toml:"-"`
}

// Webserver represents the config values for the webserver portion of
// the application.
type Webserver struct {
	HostName string            `toml:"hostname"`
	Port     string            `toml:"port"`
	Scheme   string            `toml:"scheme"`
	Headers  map[string]string `toml:"headers"`
}

// Grid models one served grid overlay in the config file.
type Grid struct {
	// Name of the definition inside the provider, e.g. "osgb" or
	// "utm:30n".
	Name string `toml:"name"`
	// Provider is the name of the providers block to resolve the
	// definition with.
	Provider string `toml:"provider"`
	// FileStores name the file_stores blocks rendered overlays are
	// written through.
	FileStores []string `toml:"file_stores"`
	// Width and Height give the default surface size for batch
	// renders.
	Width       int    `toml:"width"`
	Height      int    `toml:"height"`
	Description string `toml:"description"`
}

// providerNames collects the name key of each providers block.
func (c *Config) providerNames() (map[string]struct{}, error) {
	names := make(map[string]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		name, err := p.String("name", nil)
		if err != nil || name == "" {
			return nil, ErrProviderNoName
		}
		names[name] = struct{}{}
	}
	return names, nil
}

// Validate will validate the config and make sure it is valid.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNotInitialized
	}
	names, err := c.providerNames()
	if err != nil {
		return err
	}
	for _, g := range c.Grids {
		if g.Provider == "" {
			continue // resolved against the sole provider at wire-up
		}
		if _, ok := names[g.Provider]; !ok {
			return ErrGridUnknownProvider(g.Provider)
		}
	}
	return nil
}

// Parse will parse a config file in the io.Reader.
func Parse(reader io.Reader, fileLocation *url.URL) (conf Config, err error) {
	conf.metadata, err = toml.DecodeReader(reader, &conf)
	conf.FileLocation = fileLocation

	return conf, err
}

// Load will load and parse the config file from the given location.
func Load(location *url.URL) (conf Config, err error) {
	err = urlutil.VisitReader(location, func(r io.Reader) error {
		var e error
		conf, e = Parse(r, location)
		return e
	})
	return conf, err
}

// LoadAndValidate is a helper function that just calls Load and then
// Validate.
func LoadAndValidate(location *url.URL) (cfg Config, err error) {
	cfg, err = Load(location)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

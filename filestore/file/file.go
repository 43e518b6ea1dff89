// Package file provides a filestore that writes overlays to the
// local filesystem.
package file

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gdey/errors"

	"github.com/go-spatial/gridline/filestore"
)

const (
	// TYPE is the name of the provider.
	TYPE = "file"

	// ConfigKeyBasepath is the base directory where files are placed.
	ConfigKeyBasepath = "base_path"
	// ConfigKeyGroup indicates whether assets should be grouped in a
	// subdirectory named after the group (the grid name).
	ConfigKeyGroup = "group"
	// ConfigKeyIntermediate tells the store to write out intermediate
	// files (debug renders) as well.
	ConfigKeyIntermediate = "intermediate"

	// ErrMissingBasePath is returned when the configured value for the
	// base path is missing.
	ErrMissingBasePath = errors.String("error " + ConfigKeyBasepath + " missing value")
)

func initFunc(cfg filestore.Config) (filestore.Provider, error) {
	basepath, err := cfg.String(ConfigKeyBasepath, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "error invalid for config key: %v", ConfigKeyBasepath)
	}
	if basepath == "" {
		return nil, ErrMissingBasePath
	}
	basepath = filepath.Clean(basepath)
	if basepath != "." {
		if err = os.MkdirAll(basepath, os.ModePerm); err != nil {
			return nil, errors.Wrapf(err, "error failed to write to %v", basepath)
		}
	}

	grp, _ := cfg.Bool(ConfigKeyGroup, nil)
	intermediate, _ := cfg.Bool(ConfigKeyIntermediate, nil)

	return Provider{
		Base:         basepath,
		Group:        grp,
		Intermediate: intermediate,
	}, nil
}

func init() {
	filestore.Register(TYPE, initFunc, nil)
}

// Provider provides a filestore that writes to the local file system.
type Provider struct {
	Base         string
	Group        bool
	Intermediate bool
}

// FileWriter implements the filestore.Provider interface.
func (p Provider) FileWriter(grp string) (filestore.FileWriter, error) {
	base := p.Base
	if p.Group {
		base = filepath.Clean(filepath.Join(base, grp))
		if err := os.MkdirAll(base, os.ModePerm); err != nil {
			return nil, errors.Wrapf(err, "error failed to write to %v", base)
		}
	}
	return Writer{
		Base:         base,
		Intermediate: p.Intermediate,
	}, nil
}

// Writer writes the given file under its base directory.
type Writer struct {
	Base         string
	Intermediate bool
}

// Writer implements the filestore.FileWriter interface.
func (w Writer) Writer(fpath string, isIntermediate bool) (io.WriteCloser, error) {
	if !w.Intermediate && isIntermediate {
		return nil, filestore.ErrSkipWrite
	}
	path := filepath.Join(w.Base, fpath)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Wrapf(err, "error failed create base dir %v", dir)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error failed to create file %v", path)
	}
	return f, nil
}

// Exists reports whether the file is already on disk.
func (w Writer) Exists(fpath string) bool {
	_, err := os.Stat(filepath.Join(w.Base, fpath))
	return err == nil
}

// make sure we are always adhering to the interface.
var (
	_ = filestore.Provider(Provider{})
	_ = filestore.FileWriter(Writer{})
	_ = filestore.Exister(Writer{})
)

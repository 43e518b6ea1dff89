// Package null provides a filestore that discards everything written
// to it, optionally logging what it throws away. Useful for dry runs.
package null

import (
	"io"

	"github.com/prometheus/common/log"

	"github.com/go-spatial/gridline/filestore"
)

const (
	// TYPE is the name of the provider.
	TYPE = "null"

	// ConfigKeyLog is the key used in the config to select a logging
	// null filestore.
	ConfigKeyLog = "log"
	// ConfigKeyIntermediate selects logging of intermediate files as
	// well; only meaningful when log is enabled.
	ConfigKeyIntermediate = "intermediate"
)

func initFunc(cfg filestore.Config) (filestore.Provider, error) {
	if shouldLog, _ := cfg.Bool(ConfigKeyLog, nil); !shouldLog {
		return Provider{}, nil
	}
	intermediate, _ := cfg.Bool(ConfigKeyIntermediate, nil)
	return LogProvider{
		intermediate: intermediate,
	}, nil
}

func init() {
	filestore.Register(TYPE, initFunc, nil)
}

// Writer is a null writer.
type Writer struct{}

// Write implements io.Writer.
func (Writer) Write(p []byte) (int, error) { return len(p), nil }

// Close implements io.Closer.
func (Writer) Close() error { return nil }

// Provider provides a filestore that throws away any file written to
// it.
type Provider struct{}

// Writer implements the filestore.FileWriter interface.
func (p Provider) Writer(string, bool) (io.WriteCloser, error) { return Writer{}, nil }

// FileWriter implements the filestore.Provider interface.
func (p Provider) FileWriter(string) (filestore.FileWriter, error) { return p, nil }

// LogProvider throws away any file written to it, but logs the files
// it is throwing away.
type LogProvider struct {
	intermediate bool
}

type writer struct {
	grp          string
	intermediate bool
}

// FileWriter implements the filestore.Provider interface.
func (l LogProvider) FileWriter(grp string) (filestore.FileWriter, error) {
	return writer{
		grp:          grp,
		intermediate: l.intermediate,
	}, nil
}

// Writer implements the filestore.FileWriter interface.
func (l writer) Writer(filepath string, isIntermediate bool) (io.WriteCloser, error) {
	if !l.intermediate && isIntermediate {
		return nil, filestore.ErrSkipWrite
	}
	log.Infof("%v would write: %v", l.grp, filepath)
	return nil, filestore.ErrSkipWrite
}

// make sure we are always adhering to the interface.
var (
	_ = filestore.Provider(Provider{})
	_ = filestore.Provider(LogProvider{})

	_ = filestore.FileWriter(Provider{})
	_ = filestore.FileWriter(writer{})
)

// Package filestore moves rendered overlays to where the user wants
// them: the local filesystem, an s3 bucket, several places at once,
// or nowhere. Providers register by type and are configured from the
// file_stores blocks of the config.
package filestore

import (
	"io"
	"net/url"
)

// ConfigKeyName is the config key for a store's name; the name is
// how grids reference their stores.
const ConfigKeyName = "name"

// FileWriter hands out writers into the store.
type FileWriter interface {
	// Writer returns an io.WriteCloser the file's content is written
	// to. A nil writer (or ErrSkipWrite) means the store is not
	// interested in this file.
	Writer(filepath string, isIntermediate bool) (io.WriteCloser, error)
}

// Provider returns a filestore that can be used to store files.
type Provider interface {
	// FileWriter provides a writer scoped to a group; overlays are
	// grouped by grid name.
	FileWriter(group string) (FileWriter, error)
}

// Exister is implemented by stores that can check whether a file is
// already present.
type Exister interface {
	Exists(filepath string) bool
}

// Pather is implemented by stores that can produce a public url for
// a stored file.
type Pather interface {
	PathURL(group string, filepath string, isIntermediate bool) (*url.URL, error)
}

// Pipe adapts a reader-consuming upload function into an
// io.WriteCloser. The upload runs concurrently; Close flushes and
// reports the upload's error, wrapped in an ErrPath naming the store.
func Pipe(fsType, name string, fn func(io.Reader) error) io.WriteCloser {
	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- fn(pr) }()
	return &pipeWriter{
		pw:     pw,
		done:   done,
		fsType: fsType,
		name:   name,
	}
}

type pipeWriter struct {
	pw     *io.PipeWriter
	done   chan error
	fsType string
	name   string
}

func (p *pipeWriter) Write(b []byte) (int, error) { return p.pw.Write(b) }

func (p *pipeWriter) Close() error {
	if err := p.pw.Close(); err != nil {
		return err
	}
	if err := <-p.done; err != nil {
		return ErrPath{
			Filepath:      p.name,
			FilestoreType: p.fsType,
			Err:           err,
		}
	}
	return nil
}

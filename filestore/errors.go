package filestore

import "github.com/gdey/errors"

const (
	// ErrSkipWrite is returned by a store's Writer to decline a file
	// without failing the overall write.
	ErrSkipWrite = errors.String("skip write")

	// ErrUnsupportedOperation is returned when the filestore does not
	// support the operation for the filepath or type.
	ErrUnsupportedOperation = errors.String("unsupported operation")

	// ErrFileDoesNotExist is returned when the requested file does not
	// exist, usually wrapped by an ErrPath object.
	ErrFileDoesNotExist = errors.String("file does not exist")
)

type timeout interface {
	Timeout() bool
}

// ErrPath records the error and the operation and file that caused it.
type ErrPath struct {
	Filepath       string
	IsIntermediate bool
	FilestoreType  string
	Err            error
}

// Timeout reports if the error represents a timeout.
func (err ErrPath) Timeout() bool {
	t, ok := err.Err.(timeout)
	return ok && t.Timeout()
}

func (err ErrPath) Error() string { return err.Err.Error() }

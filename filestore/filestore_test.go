package filestore_test

import (
	"bytes"
	"io"
	"io/ioutil"
	"testing"

	"github.com/gdey/errors"

	"github.com/go-spatial/gridline/filestore"
)

func TestPipe(t *testing.T) {
	var got bytes.Buffer
	w := filestore.Pipe("test", "store", func(r io.Reader) error {
		_, err := io.Copy(&got, r)
		return err
	})

	if _, err := w.Write([]byte("overlay bytes")); err != nil {
		t.Fatalf("write, expected nil got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close, expected nil got %v", err)
	}
	if got.String() != "overlay bytes" {
		t.Errorf("content, expected %q got %q", "overlay bytes", got.String())
	}
}

func TestPipeUploadError(t *testing.T) {
	uploadErr := errors.String("upload failed")
	w := filestore.Pipe("test", "store", func(r io.Reader) error {
		io.Copy(ioutil.Discard, r)
		return uploadErr
	})

	w.Write([]byte("x"))
	err := w.Close()
	perr, ok := err.(filestore.ErrPath)
	if !ok {
		t.Fatalf("close, expected ErrPath got %T (%v)", err, err)
	}
	if perr.Err != uploadErr {
		t.Errorf("wrapped error, expected %v got %v", uploadErr, perr.Err)
	}
	if perr.FilestoreType != "test" {
		t.Errorf("filestore type, expected test got %v", perr.FilestoreType)
	}
}

package main

import (
	// Import various filestores
	"github.com/go-spatial/gridline/filestore"
	_ "github.com/go-spatial/gridline/filestore/file"
	_ "github.com/go-spatial/gridline/filestore/multi"
	_ "github.com/go-spatial/gridline/filestore/null"
	_ "github.com/go-spatial/gridline/filestore/s3"
)

func init() {
	cleanupFns = append(cleanupFns, filestore.Cleanup)
}

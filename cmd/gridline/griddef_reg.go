package main

import (
	// Import various grid definition providers
	"github.com/go-spatial/gridline/griddef"
	_ "github.com/go-spatial/gridline/griddef/builtin"
	_ "github.com/go-spatial/gridline/griddef/postgresql"
)

func init() {
	cleanupFns = append(cleanupFns, griddef.Cleanup)
}

// Package griddef sources grid definitions: which projections, bounds
// and labelling a deployment serves. Definitions can come from the
// builtin set or from a database; providers register themselves by
// type and are instantiated from configuration.
package griddef

import "github.com/go-spatial/gridline/gridline"

// Provider serves grid definitions by name.
type Provider interface {
	// GridFor returns the definition with the given name.
	GridFor(name string) (*gridline.Definition, error)
	// Grids lists the definition names the provider serves.
	Grids() ([]string, error)
}

// ErrGridNotFound is returned by GridFor for an unknown name.
type ErrGridNotFound string

func (err ErrGridNotFound) Error() string {
	return "grid (" + string(err) + ") not found"
}

package gridline

import "github.com/gdey/errors"

const (
	// ErrMissingCRS is returned by NewGrid for a definition without a
	// grid projection.
	ErrMissingCRS = errors.String("gridline: definition has no projection")

	// ErrMissingBounds is returned by NewGrid for a definition without
	// grid bounds.
	ErrMissingBounds = errors.String("gridline: definition has no bounds")

	// ErrNilViewport is returned by Redraw when no viewport is given.
	ErrNilViewport = errors.String("gridline: nil viewport")
)

// Package namer names the 100km square a grid point falls in.
// Naming schemes differ per national grid and are injected into a
// grid definition as a capability, not subclassed.
package namer

import (
	"sort"
	"sync"

	"github.com/gdey/errors"
)

const (
	// ErrNoNamersRegistered is returned when no naming schemes have
	// been registered with the system.
	ErrNoNamersRegistered = errors.String("no namers registered")
)

// ErrNamerNotRegistered is returned when the requested naming scheme
// has not registered.
type ErrNamerNotRegistered string

func (err ErrNamerNotRegistered) Error() string {
	return "namer (" + string(err) + ") not registered"
}

// Namer produces the short identifier of the 100km square containing
// the given grid point (meters). An empty string means the point has
// no named square.
type Namer interface {
	SquareName(easting, northing float64) string
}

// Func adapts a bare function to the Namer interface.
type Func func(easting, northing float64) string

// SquareName implements the Namer interface.
func (f Func) SquareName(easting, northing float64) string { return f(easting, northing) }

var (
	namersLock sync.RWMutex
	namers     map[string]Namer
)

// Register is called by the init functions of the naming schemes.
// Registering a name twice replaces the earlier scheme.
func Register(name string, n Namer) {
	namersLock.Lock()
	defer namersLock.Unlock()
	if namers == nil {
		namers = make(map[string]Namer)
	}
	namers[name] = n
}

// Registered returns the names of the registered schemes.
func Registered() (names []string) {
	namersLock.RLock()
	for k := range namers {
		names = append(names, k)
	}
	namersLock.RUnlock()
	sort.Strings(names)
	return names
}

// For returns the naming scheme registered under the given name.
func For(name string) (Namer, error) {
	namersLock.RLock()
	defer namersLock.RUnlock()
	if namers == nil {
		return nil, ErrNoNamersRegistered
	}
	n, ok := namers[name]
	if !ok {
		return nil, ErrNamerNotRegistered(name)
	}
	return n, nil
}

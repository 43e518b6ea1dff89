package griddef

import (
	"errors"
	"sort"
	"sync"

	"github.com/go-spatial/tegola/dict"
)

// ErrProviderTypeExists is returned when the provider type was already
// registered.
type ErrProviderTypeExists string

func (err ErrProviderTypeExists) Error() string {
	return "provider (" + string(err) + ") already exists"
}

// ErrNoProvidersRegistered is returned when no providers have been
// registered with the system.
var ErrNoProvidersRegistered = errors.New("no providers registered")

// ErrProviderNotRegistered is returned when the requested provider has
// not registered.
type ErrProviderNotRegistered string

func (err ErrProviderNotRegistered) Error() string {
	return "provider (" + string(err) + ") not registered"
}

// ProviderConfig is the configuration given to a provider's InitFunc.
type ProviderConfig interface {
	dict.Dicter
}

// InitFunc initializes a definition provider given a config map. The
// InitFunc should validate the config map and report any errors; it is
// called by the For function.
type InitFunc func(ProviderConfig) (Provider, error)

// CleanupFunc is called when the system is shutting down, allowing the
// provider to do any needed cleanup.
type CleanupFunc func()

type funcs struct {
	init    InitFunc
	cleanup CleanupFunc
}

var providersLock sync.RWMutex
var providers map[string]funcs

// Register is called by the init functions of the providers.
func Register(providerType string, init InitFunc, cleanup CleanupFunc) error {
	providersLock.Lock()
	defer providersLock.Unlock()

	if providers == nil {
		providers = make(map[string]funcs)
	}
	if _, ok := providers[providerType]; ok {
		return ErrProviderTypeExists(providerType)
	}
	providers[providerType] = funcs{
		init:    init,
		cleanup: cleanup,
	}
	return nil
}

// Unregister will remove a provider and call its cleanup function.
func Unregister(providerType string) {
	providersLock.Lock()
	defer providersLock.Unlock()

	p, ok := providers[providerType]
	if !ok {
		return // nothing to do
	}
	if p.cleanup != nil {
		p.cleanup()
	}
	delete(providers, providerType)
}

// Registered returns the provider types that have been registered.
func Registered() (p []string) {
	providersLock.RLock()
	p = make([]string, 0, len(providers))
	for k := range providers {
		p = append(p, k)
	}
	providersLock.RUnlock()
	sort.Strings(p)
	return p
}

// For returns a configured provider of the given type.
func For(providerType string, config ProviderConfig) (Provider, error) {
	providersLock.RLock()
	defer providersLock.RUnlock()
	if providers == nil {
		return nil, ErrNoProvidersRegistered
	}

	p, ok := providers[providerType]
	if !ok {
		return nil, ErrProviderNotRegistered(providerType)
	}
	return p.init(config)
}

// Cleanup should be called when the system is shutting down. This
// gives each provider a chance to do any needed cleanup, and
// unregisters all providers.
func Cleanup() {
	providersLock.Lock()
	for _, p := range providers {
		if p.cleanup != nil {
			p.cleanup()
		}
	}
	providers = make(map[string]funcs)
	providersLock.Unlock()
}

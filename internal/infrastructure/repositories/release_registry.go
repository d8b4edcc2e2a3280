package repositories

import (
	"fmt"
	"sort"
	"strings"

	domainRepos "github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
)

// ReleaseFactory is a constructor function that creates a ReleaseRepository.
type ReleaseFactory func(opts domainRepos.ReleaseProviderOptions) (domainRepos.ReleaseRepository, error)

// ReleaseRegistry manages all registered release provider implementations.
type ReleaseRegistry struct {
	providers map[string]ReleaseFactory
}

// NewReleaseRegistry creates an empty release registry.
func NewReleaseRegistry() *ReleaseRegistry {
	return &ReleaseRegistry{
		providers: make(map[string]ReleaseFactory),
	}
}

// Register adds a provider factory under the given name (e.g. "github").
func (r *ReleaseRegistry) Register(name string, factory ReleaseFactory) {
	r.providers[name] = factory
}

// Get returns a configured provider instance for the given name.
func (r *ReleaseRegistry) Get(name string, opts domainRepos.ReleaseProviderOptions) (domainRepos.ReleaseRepository, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown release provider type: %q (registered: %s)", name, strings.Join(r.Names(), ", "))
	}
	return factory(opts)
}

// Names returns the sorted list of registered provider names.
func (r *ReleaseRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

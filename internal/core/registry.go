package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/git-pkgs/purl2src/client"
)

// Factory creates a handler bound to an HTTP client.
type Factory func(c *client.Client) Handler

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds a handler factory to the global registry. ecosystem is the
// PURL type (e.g. "npm", "pypi", "gem", "golang").
func Register(ecosystem string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[ecosystem] = factory
}

// New creates a handler for the given ecosystem.
// If c is nil, client.DefaultClient() is used.
func New(ecosystem string, c *client.Client) (Handler, error) {
	mu.RLock()
	factory, ok := factories[ecosystem]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown ecosystem: %s", ecosystem)
	}

	if c == nil {
		c = client.DefaultClient()
	}

	return factory(c), nil
}

// SupportedEcosystems returns all registered ecosystem types, sorted.
// Note: ecosystems must be imported to be registered.
func SupportedEcosystems() []string {
	mu.RLock()
	defer mu.RUnlock()

	ecosystems := make([]string, 0, len(factories))
	for eco := range factories {
		ecosystems = append(ecosystems, eco)
	}
	sort.Strings(ecosystems)
	return ecosystems
}

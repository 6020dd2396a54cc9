package content

import (
	"errors"
	"fmt"
	"sort"

	"github.com/eykd/sitecontent/internal/loader"
	"github.com/eykd/sitecontent/internal/schema"
)

// ErrDuplicateCollection is returned when a collection name is registered twice.
var ErrDuplicateCollection = errors.New("duplicate collection name")

// Collection pairs a loader with the schema applied to every entry it produces.
type Collection struct {
	Name   string
	Loader loader.Loader
	Schema schema.Schema
}

// DefineCollection returns a collection for l and s. The loader's target is
// not checked here; it is resolved when the collection is synced.
func DefineCollection(l loader.Loader, s schema.Schema) Collection {
	return Collection{Loader: l, Schema: s}
}

// Registry maps collection names to their definitions.
type Registry struct {
	collections map[string]Collection
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{collections: make(map[string]Collection)}
}

// Add registers c under name. A name already present is rejected with
// ErrDuplicateCollection and the existing collection is kept.
func (r *Registry) Add(name string, c Collection) error {
	if name == "" {
		return fmt.Errorf("collection name must not be empty")
	}
	if c.Loader == nil {
		return fmt.Errorf("collection %q has no loader", name)
	}
	if _, exists := r.collections[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateCollection, name)
	}
	c.Name = name
	r.collections[name] = c
	return nil
}

// Get returns the collection registered under name.
func (r *Registry) Get(name string) (Collection, bool) {
	c, ok := r.collections[name]
	return c, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Collections returns a copy of the name → collection mapping.
func (r *Registry) Collections() map[string]Collection {
	out := make(map[string]Collection, len(r.collections))
	for name, c := range r.collections {
		out[name] = c
	}
	return out
}

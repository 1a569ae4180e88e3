// Package backend provides registration of filesystem backend descriptors.
// A descriptor names a backend, declares the options it needs, reports
// whether it can run with a given option set and constructs the filesystem.
package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/afero"
)

// Options carries the values a backend is constructed from.
type Options map[string]any

// OptionSpec declares a single option a backend accepts.
type OptionSpec struct {
	Name        string
	Description string
	Required    bool
}

// Descriptor describes an available filesystem backend.
type Descriptor struct {
	// Name uniquely identifies the backend.
	Name string
	// Options is the declared option schema.
	Options []OptionSpec
	// Available reports whether the backend can be constructed from the
	// given options.
	Available func(opts Options) bool
	// New constructs the filesystem from the given options.
	New func(opts Options) (afero.Fs, error)
}

// CheckOptions verifies that all required options are present.
func (d Descriptor) CheckOptions(opts Options) error {
	for _, spec := range d.Options {
		if !spec.Required {
			continue
		}
		if _, ok := opts[spec.Name]; !ok {
			return fmt.Errorf("backend %s: missing required option %q", d.Name, spec.Name)
		}
	}
	return nil
}

// Registry is a set of backend descriptors keyed by name.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[string]Descriptor),
	}
}

// Register adds a descriptor. Registering an empty name or a duplicate is
// an error.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("backend descriptor has no name")
	}
	if d.New == nil {
		return fmt.Errorf("backend %s: descriptor has no factory", d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[d.Name]; exists {
		return fmt.Errorf("backend %s: already registered", d.Name)
	}

	r.descriptors[d.Name] = d
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[name]
	return d, ok
}

// Names returns the registered backend names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Register adds a descriptor to the default registry.
func Register(d Descriptor) error {
	return defaultRegistry.Register(d)
}

// Lookup returns a descriptor from the default registry.
func Lookup(name string) (Descriptor, bool) {
	return defaultRegistry.Lookup(name)
}

// Names lists the default registry's backend names.
func Names() []string {
	return defaultRegistry.Names()
}

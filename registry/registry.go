// Package registry holds the set of known activities and their
// enabled/disabled state, sourced from a JSON constraints file.
//
// Activity implementations are registered once at startup as factories keyed
// by name. The constraints file then decides which of them are enabled and
// supplies their per-activity options. Constraint names with no registered
// factory are ignored with a warning; they typically belong to activities
// compiled out of this build.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/digitalbeing/being/activity"
)

// ErrNotFound is returned when an unknown activity name is queried.
var ErrNotFound = errors.New("activity not found")

// Factory produces a fresh activity instance configured with the options
// from its constraints descriptor and the logger for this invocation.
type Factory func(options map[string]any, logger *slog.Logger) activity.Activity

// Registry maps activity names to factories and tracks which activities the
// constraints configuration has enabled.
type Registry struct {
	logger *slog.Logger

	mu          sync.RWMutex
	factories   map[string]Factory
	descriptors []Descriptor // declaration order from the constraints file
	index       map[string]int
}

// New creates an empty registry.
func New(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger.With("component", "registry"),
		factories: make(map[string]Factory),
		index:     make(map[string]int),
	}
}

// Register adds a factory under the given name. Names must be unique.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("activity %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// LoadConstraints reads the constraints file at path and replaces the
// current descriptors. Returns ErrInvalidConstraints when the file is
// missing or malformed. Names without a registered factory are kept out of
// the registry and logged at warn level.
func (r *Registry) LoadConstraints(path string) error {
	descriptors, err := loadConstraintsFile(path)
	if err != nil {
		return err
	}
	r.setDescriptors(descriptors)
	r.logger.Info("constraints loaded", "path", path, "activities", len(r.descriptors))
	return nil
}

// setDescriptors installs parsed descriptors, dropping unknown names.
func (r *Registry) setDescriptors(descriptors []Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := make([]Descriptor, 0, len(descriptors))
	index := make(map[string]int, len(descriptors))
	for _, desc := range descriptors {
		if _, known := r.factories[desc.Name]; !known {
			r.logger.Warn("ignoring constraint for unknown activity", "activity", desc.Name)
			continue
		}
		index[desc.Name] = len(kept)
		kept = append(kept, desc)
	}

	r.descriptors = kept
	r.index = index
}

// ListEnabled returns the names of all enabled activities, in the order they
// were declared in the constraints file.
func (r *Registry) ListEnabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, desc := range r.descriptors {
		if desc.Enabled {
			names = append(names, desc.Name)
		}
	}
	return names
}

// IsEnabled reports whether the named activity is enabled. Returns
// ErrNotFound when the name is not in the registry.
func (r *Registry) IsEnabled(name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return r.descriptors[i].Enabled, nil
}

// Descriptor returns the descriptor for the named activity.
func (r *Registry) Descriptor(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return r.descriptors[i], nil
}

// Resolve builds a fresh instance of the named activity from its factory and
// constraint options. Disabled activities cannot be resolved; the runner may
// only invoke activities whose descriptor is enabled.
func (r *Registry) Resolve(name string, logger *slog.Logger) (activity.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	desc := r.descriptors[i]
	if !desc.Enabled {
		return nil, fmt.Errorf("%w: %q is disabled", ErrNotFound, name)
	}

	factory := r.factories[name]
	return factory(desc.Options, logger), nil
}

// Names returns all registered factory names, for diagnostics.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// Package registry maps method identifiers to detector constructors. The
// table is populated once at process startup and read-only afterwards;
// every resolution hands out a brand-new detector instance, which is what
// makes concurrent experiment runs safe.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"hatebench/domain/detect"
	"hatebench/internal/errors"
	"hatebench/ports"
)

type entry struct {
	descriptor  detect.Descriptor
	constructor ports.DetectorConstructor
}

// Registry is the process-wide method table.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{methods: make(map[string]entry)}
}

// Register adds a method at startup. Re-registering an identifier is a
// programming error and fails loudly.
func (r *Registry) Register(descriptor detect.Descriptor, constructor ports.DetectorConstructor) error {
	if descriptor.Identifier == "" {
		return errors.InternalError("method descriptor has no identifier")
	}
	if constructor == nil {
		return errors.InternalError("method " + descriptor.Identifier + " has no constructor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.methods[descriptor.Identifier]; exists {
		return errors.InternalError("method " + descriptor.Identifier + " registered twice")
	}
	r.methods[descriptor.Identifier] = entry{descriptor: descriptor, constructor: constructor}
	return nil
}

// MustRegister panics on registration failure; used at startup wiring
// where a broken table must not boot.
func (r *Registry) MustRegister(descriptor detect.Descriptor, constructor ports.DetectorConstructor) {
	if err := r.Register(descriptor, constructor); err != nil {
		panic(err)
	}
}

// Resolve validates params against the method's schema and returns a
// fresh, isolated detector instance. Instances are never cached or shared.
func (r *Registry) Resolve(identifier string, params detect.Params) (ports.Detector, error) {
	r.mu.RLock()
	e, ok := r.methods[identifier]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.UnknownMethod(identifier)
	}

	effective, err := validateParams(e.descriptor, params)
	if err != nil {
		return nil, err
	}
	return e.constructor(effective)
}

// Descriptor returns the immutable descriptor of a registered method.
func (r *Registry) Descriptor(identifier string) (detect.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.methods[identifier]
	return e.descriptor, ok
}

// List returns all descriptors sorted by identifier.
func (r *Registry) List() []detect.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]detect.Descriptor, 0, len(r.methods))
	for _, e := range r.methods {
		out = append(out, e.descriptor)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}

// Identifiers returns the registered method ids sorted.
func (r *Registry) Identifiers() []string {
	descs := r.List()
	out := make([]string, len(descs))
	for i, d := range descs {
		out[i] = d.Identifier
	}
	return out
}

// validateParams checks caller params against the schema and overlays them
// on the declared defaults.
func validateParams(descriptor detect.Descriptor, params detect.Params) (detect.Params, error) {
	effective := make(detect.Params, len(descriptor.Params)+len(params))
	for name, spec := range descriptor.Params {
		if spec.Default != nil {
			effective[name] = spec.Default
		}
	}
	for name, value := range params {
		spec, ok := descriptor.Params[name]
		if !ok {
			return nil, errors.InvalidParams(
				fmt.Sprintf("method %q does not accept param %q", descriptor.Identifier, name))
		}
		if err := spec.CheckValue(name, value); err != nil {
			return nil, errors.InvalidParams(err.Error())
		}
		effective[name] = value
	}
	return effective, nil
}

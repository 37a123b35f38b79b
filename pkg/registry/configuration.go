// Package registry holds the configuration and command registries populated
// during discovery.
//
// A ConfigurationRegistry stores configuration types keyed by the base name of
// the fragment that declared them (database.json → "database"). Adding a type
// that already exists merges the new entries into it: new keys are appended,
// colliding keys are overwritten by the later fragment.
//
//	reg := registry.NewConfigurationRegistry()
//	t, _ := registry.ParseFragment("database", data)
//	reg.AddConfiguration("database", t)
//
//	for _, group := range reg.ByTag("magento") {
//	    fmt.Println(group.Type, len(group.Entries))
//	}
//
// Registries are plain values owned by the application; tests create a fresh
// one per case.
package registry

import (
	"fmt"
	"slices"
	"sync"
)

// ConfigurationRegistry is an ordered store of configuration types.
type ConfigurationRegistry struct {
	mu    sync.RWMutex
	order []string
	types map[string]*Type
}

// TaggedGroup is one configuration type selected by a tag.
type TaggedGroup struct {
	Type    string
	Entries []*Entry
}

// NewConfigurationRegistry creates an empty registry.
func NewConfigurationRegistry() *ConfigurationRegistry {
	return &ConfigurationRegistry{
		types: make(map[string]*Type),
	}
}

// Configurations returns every type in registration order.
func (r *ConfigurationRegistry) Configurations() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Type, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.types[id])
	}
	return out
}

// Types returns the registered type identifiers in registration order.
func (r *ConfigurationRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Configuration returns the type registered under id.
func (r *ConfigurationRegistry) Configuration(id string) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.types[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConfigurationType, id)
	}
	return t, nil
}

// HasConfiguration reports whether a type is registered under id.
func (r *ConfigurationRegistry) HasConfiguration(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[id]
	return ok
}

// AddConfiguration merges t into the type registered under id, creating it first
// when needed. The registry keeps its own copy of t.
func (r *ConfigurationRegistry) AddConfiguration(id string, t *Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.types[id]
	if !ok {
		existing = NewType(id)
		r.types[id] = existing
		r.order = append(r.order, id)
	}
	existing.merge(t)
}

// UpdateConfiguration replaces the type registered under id.
func (r *ConfigurationRegistry) UpdateConfiguration(id string, t *Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownConfigurationType, id)
	}
	c := t.Clone()
	c.ID = id
	r.types[id] = c
	return nil
}

// RemoveConfiguration deletes the type registered under id. Unknown ids are ignored.
func (r *ConfigurationRegistry) RemoveConfiguration(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.types[id]; !ok {
		return
	}
	delete(r.types, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
}

// ByTag returns, for every type with at least one entry carrying tag, all of
// that type's entries. Matching is per type: untagged siblings of a tagged
// entry are included.
func (r *ConfigurationRegistry) ByTag(tag string) []TaggedGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var groups []TaggedGroup
	for _, id := range r.order {
		t := r.types[id]
		if t.HasTag(tag) {
			groups = append(groups, TaggedGroup{Type: id, Entries: t.Entries()})
		}
	}
	return groups
}

// ByTagStrict is like ByTag but keeps only the entries carrying tag.
func (r *ConfigurationRegistry) ByTagStrict(tag string) []TaggedGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var groups []TaggedGroup
	for _, id := range r.order {
		var entries []*Entry
		for _, e := range r.types[id].Entries() {
			if e.HasTag(tag) {
				entries = append(entries, e)
			}
		}
		if len(entries) > 0 {
			groups = append(groups, TaggedGroup{Type: id, Entries: entries})
		}
	}
	return groups
}

// Len returns the number of registered types.
func (r *ConfigurationRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

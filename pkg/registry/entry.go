package registry

import "slices"

// Field names of a configuration fragment.
const (
	FieldConfigurations  = "configurations"
	FieldTags            = "tags"
	FieldShortcut        = "shortcut"
	FieldMode            = "mode"
	FieldName            = "name"
	FieldDescription     = "description"
	FieldDefault         = "default"
	FieldSuggestedValues = "suggestedValues"
	FieldPrompt          = "prompt"
	FieldWhen            = "when"
	FieldSensitive       = "sensitive"
	FieldSource          = "source"
	FieldHint            = "hint"
)

// RequiredFields lists the fields every entry must declare, in validation order.
var RequiredFields = []string{FieldName, FieldDescription, FieldDefault, FieldSuggestedValues}

// Entry is one declared configurable option.
type Entry struct {
	// Key is the option name, unique within its type.
	Key string
	// Name is the question shown by the wizard.
	Name        string
	Description string
	// Mode is the raw declared mode; only meaningful when Declares(FieldMode).
	Mode string
	// Default is the raw default value and may be nil.
	Default         any
	SuggestedValues []string
	Shortcut        string
	Tags            []string

	// Prompt selects the wizard prompt kind (text, password, select, confirm, search).
	Prompt string
	// When is an expression over collected answers; the wizard skips the entry when false.
	When      string
	Sensitive bool
	// Source names a catalog providing suggestions (currency, language, timezone).
	Source string
	Hint   string

	declared map[string]struct{}
}

// NewEntry creates an entry with the given key and no declared fields.
func NewEntry(key string) *Entry {
	return &Entry{Key: key, declared: make(map[string]struct{})}
}

// Declare marks fields as present in the source fragment.
func (e *Entry) Declare(fields ...string) *Entry {
	if e.declared == nil {
		e.declared = make(map[string]struct{}, len(fields))
	}
	for _, f := range fields {
		e.declared[f] = struct{}{}
	}
	return e
}

// Declares reports whether the source fragment contained the field.
func (e *Entry) Declares(field string) bool {
	_, ok := e.declared[field]
	return ok
}

// HasTag reports whether the entry carries the tag.
func (e *Entry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	c.SuggestedValues = slices.Clone(e.SuggestedValues)
	c.Tags = slices.Clone(e.Tags)
	c.declared = make(map[string]struct{}, len(e.declared))
	for f := range e.declared {
		c.declared[f] = struct{}{}
	}
	if values, ok := e.Default.([]any); ok {
		c.Default = slices.Clone(values)
	}
	return &c
}

// Type is a named group of entries, one per configuration fragment base name.
type Type struct {
	ID          string
	Name        string
	Description string

	keys    []string
	entries map[string]*Entry
}

// NewType creates an empty configuration type.
func NewType(id string) *Type {
	return &Type{ID: id, entries: make(map[string]*Entry)}
}

// Set inserts or overwrites an entry. A new key is appended; an existing key
// keeps its position.
func (t *Type) Set(entry *Entry) {
	if t.entries == nil {
		t.entries = make(map[string]*Entry)
	}
	if _, ok := t.entries[entry.Key]; !ok {
		t.keys = append(t.keys, entry.Key)
	}
	t.entries[entry.Key] = entry
}

// Entry returns the entry for key.
func (t *Type) Entry(key string) (*Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// Keys returns the entry keys in insertion order.
func (t *Type) Keys() []string {
	return slices.Clone(t.keys)
}

// Entries returns the entries in insertion order.
func (t *Type) Entries() []*Entry {
	out := make([]*Entry, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.entries[k])
	}
	return out
}

// Len returns the number of entries.
func (t *Type) Len() int {
	return len(t.keys)
}

// HasTag reports whether any entry of the type carries the tag.
func (t *Type) HasTag(tag string) bool {
	for _, k := range t.keys {
		if t.entries[k].HasTag(tag) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the type.
func (t *Type) Clone() *Type {
	c := &Type{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		keys:        slices.Clone(t.keys),
		entries:     make(map[string]*Entry, len(t.entries)),
	}
	for k, e := range t.entries {
		c.entries[k] = e.Clone()
	}
	return c
}

// merge applies other on top of t: header fields are replaced when set, entries
// are appended or overwritten key by key.
func (t *Type) merge(other *Type) {
	if other.Name != "" {
		t.Name = other.Name
	}
	if other.Description != "" {
		t.Description = other.Description
	}
	for _, e := range other.Entries() {
		t.Set(e.Clone())
	}
}

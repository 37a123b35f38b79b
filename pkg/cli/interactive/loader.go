package interactive

import (
	"fmt"

	"github.com/maginium/installer/pkg/catalog"
)

// OptionLoader resolves prompt options from named catalogs.
type OptionLoader struct {
	catalogs map[string]catalog.Catalog
}

// NewOptionLoader creates a loader over the given catalogs, keyed by source name.
func NewOptionLoader(catalogs map[string]catalog.Catalog) *OptionLoader {
	if catalogs == nil {
		catalogs = make(map[string]catalog.Catalog)
	}
	return &OptionLoader{catalogs: catalogs}
}

// Has reports whether source names a known catalog.
func (l *OptionLoader) Has(source string) bool {
	_, ok := l.catalogs[source]
	return ok
}

// LoadOptions returns the codes of the catalog named source.
func (l *OptionLoader) LoadOptions(source string) ([]string, error) {
	c, ok := l.catalogs[source]
	if !ok {
		return nil, fmt.Errorf("unknown option source: %s", source)
	}
	return catalog.Codes(c), nil
}

// Validate reports an error when value is not a code of the catalog named source.
func (l *OptionLoader) Validate(source, value string) error {
	c, ok := l.catalogs[source]
	if !ok {
		return fmt.Errorf("unknown option source: %s", source)
	}
	if !c.Exists(value) {
		return fmt.Errorf("%q is not a valid %s", value, source)
	}
	return nil
}

// PromptFromSource fills the options of spec from its catalog and switches it
// to a search prompt, since catalogs are long.
func PromptFromSource(spec *PromptSpec, source string, loader *OptionLoader) (*PromptSpec, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}
	if source == "" || loader == nil {
		return spec, nil
	}

	options, err := loader.LoadOptions(source)
	if err != nil {
		return nil, fmt.Errorf("failed to load options for %s: %w", spec.Name, err)
	}

	out := *spec
	out.Options = options
	if out.Kind == "" || out.Kind == KindText || out.Kind == KindSelect {
		out.Kind = KindSearch
	}
	return &out, nil
}

// Package catalog provides the code/name tables that feed wizard suggestions
// for currencies, languages and timezones.
package catalog

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Catalog names, as referenced by the "source" field of configuration entries.
const (
	Currency = "currency"
	Language = "language"
	Timezone = "timezone"
)

// Item is one catalog row.
type Item struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Catalog is a mutable code to name lookup table.
type Catalog interface {
	// Lookup returns the display name of code.
	Lookup(code string) (string, bool)
	// List returns every item in catalog order.
	List() []Item
	// Exists reports whether code is known.
	Exists(code string) bool
	// Add inserts or renames an item.
	Add(code, name string) error
	// Remove deletes code. Unknown codes are ignored.
	Remove(code string)
}

// Table is the Catalog implementation backed by embedded YAML data.
type Table struct {
	mu       sync.RWMutex
	name     string
	items    []Item
	index    map[string]int
	validate func(code string) error
	namer    func(code string) string
}

// Load returns the named embedded catalog.
func Load(name string) (*Table, error) {
	var file string
	t := &Table{name: name}

	switch name {
	case Currency:
		file = "data/currencies.yaml"
		t.validate = validateCurrency
	case Language:
		file = "data/languages.yaml"
		t.validate = validateLanguage
		t.namer = languageName
	case Timezone:
		file = "data/timezones.yaml"
		t.validate = validateTimezone
	default:
		return nil, fmt.Errorf("unknown catalog: %s", name)
	}

	data, err := dataFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s catalog: %w", name, err)
	}

	var items []Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s catalog: %w", name, err)
	}

	t.items = make([]Item, 0, len(items))
	t.index = make(map[string]int, len(items))
	for _, item := range items {
		t.put(item)
	}
	return t, nil
}

// LoadAll returns every embedded catalog keyed by name.
func LoadAll() (map[string]Catalog, error) {
	out := make(map[string]Catalog, 3)
	for _, name := range []string{Currency, Language, Timezone} {
		t, err := Load(name)
		if err != nil {
			return nil, err
		}
		out[name] = t
	}
	return out, nil
}

// Name returns the catalog name.
func (t *Table) Name() string {
	return t.name
}

// Lookup returns the display name of code.
func (t *Table) Lookup(code string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i, ok := t.index[code]
	if !ok {
		return "", false
	}
	return t.items[i].Name, true
}

// List returns every item in catalog order.
func (t *Table) List() []Item {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Item, len(t.items))
	copy(out, t.items)
	return out
}

// Exists reports whether code is known.
func (t *Table) Exists(code string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.index[code]
	return ok
}

// Add inserts or renames an item. Codes are validated against the catalog
// kind; an empty name is derived when the catalog can name codes itself.
func (t *Table) Add(code, name string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("%s catalog: empty code", t.name)
	}
	if t.validate != nil {
		if err := t.validate(code); err != nil {
			return fmt.Errorf("%s catalog: %w", t.name, err)
		}
	}
	if name == "" && t.namer != nil {
		name = t.namer(code)
	}
	if name == "" {
		name = code
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.put(Item{Code: code, Name: name})
	return nil
}

// Remove deletes code.
func (t *Table) Remove(code string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.index[code]
	if !ok {
		return
	}
	t.items = append(t.items[:i], t.items[i+1:]...)
	delete(t.index, code)
	for j := i; j < len(t.items); j++ {
		t.index[t.items[j].Code] = j
	}
}

func (t *Table) put(item Item) {
	if i, ok := t.index[item.Code]; ok {
		t.items[i].Name = item.Name
		return
	}
	t.index[item.Code] = len(t.items)
	t.items = append(t.items, item)
}

// Codes returns the codes of c in catalog order.
func Codes(c Catalog) []string {
	items := c.List()
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Code
	}
	return out
}

// Search returns the items whose code or name contains query, case-insensitively,
// sorted by code.
func Search(c Catalog, query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []Item
	for _, item := range c.List() {
		if query == "" ||
			strings.Contains(strings.ToLower(item.Code), query) ||
			strings.Contains(strings.ToLower(item.Name), query) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func validateCurrency(code string) error {
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	return nil
}

func validateLanguage(code string) error {
	if _, err := language.Parse(localeTag(code)); err != nil {
		return fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return nil
}

func validateTimezone(code string) error {
	if _, err := time.LoadLocation(code); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", code, err)
	}
	return nil
}

// languageName renders the English display name of a locale code such as de_CH.
func languageName(code string) string {
	tag, err := language.Parse(localeTag(code))
	if err != nil {
		return ""
	}
	return display.English.Tags().Name(tag)
}

// localeTag converts a locale code (en_US) to a BCP 47 tag (en-US).
func localeTag(code string) string {
	return strings.ReplaceAll(code, "_", "-")
}

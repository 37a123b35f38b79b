package state

import (
	"slices"
	"sync"
	"time"
)

// Recent remembers the answers given to wizard options, most recent first.
type Recent struct {
	Lists      map[string]*RecentList `yaml:"lists,omitempty" json:"lists,omitempty"`
	MaxPerList int                    `yaml:"max_per_list,omitempty" json:"max_per_list,omitempty"`
	mu         sync.RWMutex           `yaml:"-" json:"-"`
}

// RecentList holds the remembered values of a single option.
type RecentList struct {
	Name    string        `yaml:"name" json:"name"`
	Entries []*RecentItem `yaml:"entries" json:"entries"`
	Max     int           `yaml:"max,omitempty" json:"max,omitempty"`
}

// RecentItem is one remembered value.
type RecentItem struct {
	Value    string    `yaml:"value" json:"value"`
	LastUsed time.Time `yaml:"last_used" json:"last_used"`
	UseCount int       `yaml:"use_count" json:"use_count"`
}

const (
	// DefaultMaxRecentEntries is the default number of values kept per option.
	DefaultMaxRecentEntries = 5
)

// NewRecent creates an empty set of recent lists.
func NewRecent() *Recent {
	return NewRecentWithMax(DefaultMaxRecentEntries)
}

// NewRecentWithMax creates an empty set of recent lists keeping maxPerList values each.
func NewRecentWithMax(maxPerList int) *Recent {
	if maxPerList <= 0 {
		maxPerList = DefaultMaxRecentEntries
	}
	return &Recent{
		Lists:      make(map[string]*RecentList),
		MaxPerList: maxPerList,
	}
}

// Add records value for the option. A value already present moves to the
// front and its use count grows. Empty values are ignored.
func (r *Recent) Add(listName, value string) {
	if value == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.list(listName)

	for i, item := range list.Entries {
		if item.Value == value {
			item.LastUsed = time.Now()
			item.UseCount++
			list.Entries = append([]*RecentItem{item}, slices.Delete(list.Entries, i, i+1)...)
			return
		}
	}

	list.Entries = append([]*RecentItem{{
		Value:    value,
		LastUsed: time.Now(),
		UseCount: 1,
	}}, list.Entries...)

	if len(list.Entries) > list.Max {
		list.Entries = list.Entries[:list.Max]
	}
}

// list returns the named list, creating it. Callers hold the write lock.
func (r *Recent) list(name string) *RecentList {
	if r.Lists == nil {
		r.Lists = make(map[string]*RecentList)
	}
	list, ok := r.Lists[name]
	if !ok {
		max := r.MaxPerList
		if max <= 0 {
			max = DefaultMaxRecentEntries
		}
		list = &RecentList{Name: name, Entries: []*RecentItem{}, Max: max}
		r.Lists[name] = list
	}
	return list
}

// Get returns the remembered values of an option, most recent first.
func (r *Recent) Get(listName string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.Lists[listName]
	if !ok {
		return []string{}
	}

	values := make([]string, len(list.Entries))
	for i, item := range list.Entries {
		values[i] = item.Value
	}
	return values
}

// Latest returns the most recent value of an option.
func (r *Recent) Latest(listName string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.Lists[listName]
	if !ok || len(list.Entries) == 0 {
		return "", false
	}
	return list.Entries[0].Value, true
}

// Remove forgets a single value.
func (r *Recent) Remove(listName, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.Lists[listName]
	if !ok {
		return
	}
	list.Entries = slices.DeleteFunc(list.Entries, func(item *RecentItem) bool {
		return item.Value == value
	})
}

// Clear forgets every value of an option.
func (r *Recent) Clear(listName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Lists, listName)
}

// ListNames returns the names of the options with remembered values, sorted.
func (r *Recent) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.Lists))
	for name := range r.Lists {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetMax changes how many values every list keeps, trimming longer lists.
func (r *Recent) SetMax(max int) {
	if max <= 0 {
		max = DefaultMaxRecentEntries
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.MaxPerList = max
	for _, list := range r.Lists {
		list.Max = max
		if len(list.Entries) > max {
			list.Entries = list.Entries[:max]
		}
	}
}

// Prune removes values not used within maxAge from every list.
func (r *Recent) Prune(maxAge time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for name, list := range r.Lists {
		list.Entries = slices.DeleteFunc(list.Entries, func(item *RecentItem) bool {
			return !item.LastUsed.After(cutoff)
		})
		if len(list.Entries) == 0 {
			delete(r.Lists, name)
		}
	}
}

// normalize repairs lists decoded from a state file.
func (r *Recent) normalize() {
	if r.Lists == nil {
		r.Lists = make(map[string]*RecentList)
	}
	if r.MaxPerList <= 0 {
		r.MaxPerList = DefaultMaxRecentEntries
	}
	for name, list := range r.Lists {
		if list == nil {
			delete(r.Lists, name)
			continue
		}
		if list.Entries == nil {
			list.Entries = []*RecentItem{}
		}
		if list.Max <= 0 {
			list.Max = r.MaxPerList
		}
	}
}

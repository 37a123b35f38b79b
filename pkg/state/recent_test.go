package state

import (
	"slices"
	"testing"
	"time"
)

func TestNewRecent(t *testing.T) {
	r := NewRecent()

	if r.Lists == nil {
		t.Error("Expected lists to be initialized")
	}

	if r.MaxPerList != DefaultMaxRecentEntries {
		t.Errorf("Expected maxPerList to be %d, got %d", DefaultMaxRecentEntries, r.MaxPerList)
	}

	if NewRecentWithMax(0).MaxPerList != DefaultMaxRecentEntries {
		t.Error("Expected non-positive max to fall back to the default")
	}
}

func TestRecentAdd(t *testing.T) {
	r := NewRecent()

	r.Add("db-host", "localhost")
	r.Add("db-host", "db.local")

	values := r.Get("db-host")
	if !slices.Equal(values, []string{"db.local", "localhost"}) {
		t.Errorf("Expected most recent first, got %v", values)
	}

	latest, ok := r.Latest("db-host")
	if !ok || latest != "db.local" {
		t.Errorf("Expected latest to be 'db.local', got %q", latest)
	}
}

func TestRecentAddDuplicate(t *testing.T) {
	r := NewRecent()

	r.Add("db-host", "localhost")
	r.Add("db-host", "db.local")
	r.Add("db-host", "localhost")

	values := r.Get("db-host")
	if !slices.Equal(values, []string{"localhost", "db.local"}) {
		t.Errorf("Expected duplicate to move to the front, got %v", values)
	}

	if count := r.Lists["db-host"].Entries[0].UseCount; count != 2 {
		t.Errorf("Expected use count 2, got %d", count)
	}
}

func TestRecentIgnoresEmpty(t *testing.T) {
	r := NewRecent()
	r.Add("db-password", "")

	if _, ok := r.Latest("db-password"); ok {
		t.Error("Expected empty value not to be remembered")
	}
}

func TestRecentMaxEntries(t *testing.T) {
	r := NewRecentWithMax(2)

	r.Add("language", "en_US")
	r.Add("language", "fr_FR")
	r.Add("language", "de_DE")

	values := r.Get("language")
	if !slices.Equal(values, []string{"de_DE", "fr_FR"}) {
		t.Errorf("Expected oldest value to be trimmed, got %v", values)
	}

	r.SetMax(1)
	if got := r.Get("language"); !slices.Equal(got, []string{"de_DE"}) {
		t.Errorf("Expected SetMax to trim, got %v", got)
	}
}

func TestRecentRemoveAndClear(t *testing.T) {
	r := NewRecent()
	r.Add("currency", "USD")
	r.Add("currency", "EUR")
	r.Add("timezone", "UTC")

	r.Remove("currency", "USD")
	if got := r.Get("currency"); !slices.Equal(got, []string{"EUR"}) {
		t.Errorf("Expected USD to be removed, got %v", got)
	}

	r.Clear("currency")
	if got := r.Get("currency"); len(got) != 0 {
		t.Errorf("Expected currency to be cleared, got %v", got)
	}

	if names := r.ListNames(); !slices.Equal(names, []string{"timezone"}) {
		t.Errorf("Expected only timezone, got %v", names)
	}
}

func TestRecentPrune(t *testing.T) {
	r := NewRecent()
	r.Add("db-host", "old.local")
	r.Add("db-host", "new.local")
	r.Lists["db-host"].Entries[1].LastUsed = time.Now().Add(-48 * time.Hour)

	r.Prune(24 * time.Hour)

	if got := r.Get("db-host"); !slices.Equal(got, []string{"new.local"}) {
		t.Errorf("Expected old value to be pruned, got %v", got)
	}

	r.Lists["db-host"].Entries[0].LastUsed = time.Now().Add(-48 * time.Hour)
	r.Prune(24 * time.Hour)
	if len(r.ListNames()) != 0 {
		t.Error("Expected empty list to be dropped")
	}
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{Currency, "USD", "United States Dollar"},
		{Language, "en_US", "English (United States)"},
		{Timezone, "UTC", "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.name, c.Name())
			assert.NotEmpty(t, c.List())

			got, ok := c.Lookup(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.True(t, c.Exists(tt.code))
		})
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("planets")
	assert.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	all, err := LoadAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Contains(t, all, Currency)
	assert.Contains(t, all, Language)
	assert.Contains(t, all, Timezone)
}

func TestTable_AddAndRemove(t *testing.T) {
	c, err := Load(Currency)
	require.NoError(t, err)
	before := len(c.List())

	require.NoError(t, c.Add("USD", "US Dollar"))
	name, _ := c.Lookup("USD")
	assert.Equal(t, "US Dollar", name)
	assert.Len(t, c.List(), before)

	c.Remove("USD")
	assert.False(t, c.Exists("USD"))
	assert.Len(t, c.List(), before-1)

	// Indexes stay consistent after removal.
	for _, item := range c.List() {
		got, ok := c.Lookup(item.Code)
		require.True(t, ok, item.Code)
		assert.Equal(t, item.Name, got)
	}

	c.Remove("XYZ-unknown")
	assert.Len(t, c.List(), before-1)
}

func TestTable_AddValidates(t *testing.T) {
	currencies, err := Load(Currency)
	require.NoError(t, err)
	assert.Error(t, currencies.Add("DOLLARS", "x"))
	assert.Error(t, currencies.Add("  ", "x"))

	timezones, err := Load(Timezone)
	require.NoError(t, err)
	assert.Error(t, timezones.Add("Mars/Olympus_Mons", ""))
	require.NoError(t, timezones.Add("Europe/Lisbon", ""))
	name, _ := timezones.Lookup("Europe/Lisbon")
	assert.Equal(t, "Europe/Lisbon", name)
}

func TestTable_LanguageNames(t *testing.T) {
	languages, err := Load(Language)
	require.NoError(t, err)

	languages.Remove("cy_GB")
	require.NoError(t, languages.Add("cy_GB", ""))

	name, ok := languages.Lookup("cy_GB")
	require.True(t, ok)
	assert.Contains(t, name, "Welsh")
}

func TestSearch(t *testing.T) {
	c, err := Load(Currency)
	require.NoError(t, err)

	items := Search(c, "euro")
	require.NotEmpty(t, items)
	assert.Contains(t, Codes(fixed(items)), "EUR")

	assert.Len(t, Search(c, ""), len(c.List()))
}

// fixed is a read-only catalog over a slice.
type fixed []Item

func (f fixed) Lookup(code string) (string, bool) {
	for _, item := range f {
		if item.Code == code {
			return item.Name, true
		}
	}
	return "", false
}

func (f fixed) List() []Item { return f }

func (f fixed) Exists(code string) bool {
	_, ok := f.Lookup(code)
	return ok
}

func (f fixed) Add(string, string) error { return nil }

func (f fixed) Remove(string) {}

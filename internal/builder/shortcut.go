package builder

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ShortcutTable records the shortcuts issued during one option-building pass.
// A fresh table is used for every pass so that building is repeatable.
type ShortcutTable struct {
	used map[string]struct{}
}

// NewShortcutTable creates an empty table.
func NewShortcutTable() *ShortcutTable {
	return &ShortcutTable{used: make(map[string]struct{})}
}

// Has reports whether s was already issued or reserved.
func (t *ShortcutTable) Has(s string) bool {
	_, ok := t.used[s]
	return ok
}

// Reserve records s without deriving it. It returns false when s was already taken.
func (t *ShortcutTable) Reserve(s string) bool {
	if t.Has(s) {
		return false
	}
	t.add(s)
	return true
}

// Resolve derives a shortcut for key, optionally prefixed with namespace.
//
// The initials of the words of key (split on '-' and '_') form the candidate,
// e.g. db-host → dh and, with namespace "database", database:dh. When the
// candidate was already issued the full key is used instead (database:db-host).
// The chosen shortcut is recorded before it is returned.
func (t *ShortcutTable) Resolve(key, namespace string) string {
	candidate := strings.ToLower(withNamespace(namespace, initials(key)))
	if t.Has(candidate) {
		candidate = strings.ToLower(withNamespace(namespace, key))
	}
	t.add(candidate)
	return candidate
}

func (t *ShortcutTable) add(s string) {
	if t.used == nil {
		t.used = make(map[string]struct{})
	}
	t.used[s] = struct{}{}
}

// initials returns the upper-cased first rune of every word of key.
func initials(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '-' || r == '_'
	})

	var b strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func withNamespace(namespace, s string) string {
	if namespace == "" {
		return s
	}
	return namespace + ":" + s
}

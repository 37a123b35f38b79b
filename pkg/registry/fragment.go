package registry

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
)

// ParseFragment decodes a JSON configuration fragment into a type with the given ID.
// Comments and trailing commas are accepted. Entry order follows the document.
func ParseFragment(id string, data []byte) (*Type, error) {
	data = jsonc.ToJSON(data)
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedFragment)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformedFragment)
	}

	t := NewType(id)
	if v := root.Get(FieldName); v.Type == gjson.String {
		t.Name = v.String()
	}
	if v := root.Get(FieldDescription); v.Type == gjson.String {
		t.Description = v.String()
	}

	configs := root.Get(FieldConfigurations)
	if configs.IsObject() {
		configs.ForEach(func(key, value gjson.Result) bool {
			t.Set(parseEntry(key.String(), value))
			return true
		})
	}

	return t, nil
}

// parseEntry converts one entry object. Non-object values yield an entry with
// no declared fields so that validation reports what is missing.
func parseEntry(key string, value gjson.Result) *Entry {
	e := NewEntry(key)
	if !value.IsObject() {
		return e
	}

	value.ForEach(func(field, v gjson.Result) bool {
		switch name := field.String(); name {
		case FieldName:
			e.Name = v.String()
			e.Declare(name)
		case FieldDescription:
			e.Description = v.String()
			e.Declare(name)
		case FieldMode:
			// Non-string modes fall back to the default mode.
			if v.Type == gjson.String {
				e.Mode = v.String()
				e.Declare(name)
			}
		case FieldDefault:
			e.Default = v.Value()
			e.Declare(name)
		case FieldSuggestedValues:
			e.SuggestedValues = stringList(v)
			e.Declare(name)
		case FieldShortcut:
			e.Shortcut = v.String()
			e.Declare(name)
		case FieldTags:
			e.Tags = stringList(v)
			e.Declare(name)
		case FieldPrompt:
			e.Prompt = v.String()
			e.Declare(name)
		case FieldWhen:
			e.When = v.String()
			e.Declare(name)
		case FieldSensitive:
			e.Sensitive = v.Bool()
			e.Declare(name)
		case FieldSource:
			e.Source = v.String()
			e.Declare(name)
		case FieldHint:
			e.Hint = v.String()
			e.Declare(name)
		}
		return true
	})

	return e
}

func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		if v.Type == gjson.Null || !v.Exists() {
			return nil
		}
		return []string{v.String()}
	}
	items := v.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String())
	}
	return out
}

package wizard

import (
	"testing"

	"github.com/maginium/installer/pkg/catalog"
	"github.com/maginium/installer/pkg/cli/interactive"
	"github.com/maginium/installer/pkg/registry"
	"github.com/stretchr/testify/require"
)

const generalFragment = `{
	"name": "General Configuration",
	"description": "Base settings of the store.",
	"configurations": {
		"base-url": {
			"name": "Base URL?",
			"description": "URL the storefront is served from",
			"default": "http://localhost/",
			"suggestedValues": [],
			"tags": ["magento"]
		},
		"language": {
			"name": "Default language?",
			"description": "Store locale",
			"default": "en_US",
			"suggestedValues": [],
			"source": "language",
			"tags": ["magento"]
		}
	}
}`

const databaseFragment = `{
	"name": "Database Configuration",
	"configurations": {
		"db-host": {
			"name": "Database server host?",
			"description": "Host of the database server",
			"default": "127.0.0.1",
			"suggestedValues": [],
			"hint": "host or host:port",
			"tags": ["magento"]
		},
		"db-password": {
			"name": "Database server password?",
			"description": "Password of the database user",
			"default": "",
			"suggestedValues": [],
			"tags": ["magento"]
		},
		"db-engine": {
			"name": "Database engine?",
			"description": "Storage engine",
			"default": "innodb",
			"suggestedValues": ["innodb", "myisam"]
		}
	}
}`

const amqpFragment = `{
	"name": "AMQP Configuration",
	"configurations": {
		"amqp-enabled": {
			"name": "Amqp Enabled?",
			"description": "Enable the AMQP message queue",
			"mode": "none",
			"default": false,
			"suggestedValues": []
		},
		"amqp-host": {
			"name": "Amqp server host?",
			"description": "AMQP server host",
			"default": "127.0.0.1",
			"suggestedValues": [],
			"when": "enabled(\"amqp-enabled\")",
			"tags": ["magento"]
		}
	}
}`

const extraFragment = `{
	"configurations": {
		"session-save": {
			"name": "Session storage?",
			"description": "Session save handler",
			"default": "files",
			"suggestedValues": ["files", "db", "redis"],
			"prompt": "select"
		}
	}
}`

var fragments = map[string]string{
	"general":  generalFragment,
	"database": databaseFragment,
	"ampq":     amqpFragment,
	"extra":    extraFragment,
}

func newRegistry(t *testing.T, order ...string) *registry.ConfigurationRegistry {
	t.Helper()
	reg := registry.NewConfigurationRegistry()
	for _, id := range order {
		typ, err := registry.ParseFragment(id, []byte(fragments[id]))
		require.NoError(t, err)
		reg.AddConfiguration(id, typ)
	}
	return reg
}

// defaults returns the flag defaults of every fixture option.
func defaults() map[string]string {
	return map[string]string{
		"base-url":     "http://localhost/",
		"language":     "en_US",
		"db-host":      "127.0.0.1",
		"db-password":  "",
		"db-engine":    "innodb",
		"amqp-enabled": "false",
		"amqp-host":    "127.0.0.1",
		"session-save": "files",
	}
}

// scriptedPrompter answers from a table and records every spec it was given.
// Unknown questions get their default.
type scriptedPrompter struct {
	answers map[string]string
	specs   []*interactive.PromptSpec
}

func (p *scriptedPrompter) PromptFromSpec(spec *interactive.PromptSpec) (string, error) {
	p.specs = append(p.specs, spec)
	if v, ok := p.answers[spec.Name]; ok {
		return v, nil
	}
	return spec.Default, nil
}

func (p *scriptedPrompter) spec(name string) *interactive.PromptSpec {
	for _, s := range p.specs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

type memory map[string]string

func (m memory) Recall(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func (m memory) Remember(name, value string) {
	m[name] = value
}

type languages struct{}

func (languages) Lookup(code string) (string, bool) {
	switch code {
	case "en_US":
		return "English (United States)", true
	case "fr_FR":
		return "French (France)", true
	}
	return "", false
}

func (l languages) List() []catalog.Item {
	return []catalog.Item{{Code: "en_US", Name: "English (United States)"}, {Code: "fr_FR", Name: "French (France)"}}
}

func (l languages) Exists(code string) bool {
	_, ok := l.Lookup(code)
	return ok
}

func (languages) Add(string, string) error { return nil }

func (languages) Remove(string) {}

func newLoader() *interactive.OptionLoader {
	return interactive.NewOptionLoader(map[string]catalog.Catalog{catalog.Language: languages{}})
}

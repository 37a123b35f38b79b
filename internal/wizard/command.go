package wizard

import (
	"strings"

	"github.com/spf13/cast"

	"al.essio.dev/pkg/shellescape"
	"github.com/maginium/installer/pkg/options"
	"github.com/maginium/installer/pkg/registry"
	"github.com/maginium/installer/pkg/secrets"
)

// SetupInstall is the downstream installation command.
const SetupInstall = "setup:install"

// Argument is one --key=value argument of the installation command. A Switch
// argument is a bare --key.
type Argument struct {
	Key       string
	Value     string
	Sensitive bool
	Switch    bool
}

// String renders the argument unquoted.
func (a Argument) String() string {
	if a.Switch {
		return "--" + a.Key
	}
	return "--" + a.Key + "=" + a.Value
}

// InstallCommand is the assembled installation command line.
type InstallCommand struct {
	PHPBinary     string
	MagentoBinary string
	Arguments     []Argument
}

// CommandBuilder assembles the installation command from tagged options.
type CommandBuilder struct {
	PHPBinary     string
	MagentoBinary string
	// Tag selects the configuration types passed to the command.
	Tag      string
	Detector *secrets.Detector
}

// Build reads every option of the types carrying the tag from store. Options
// with an empty value and options listed in skipped are omitted. Valueless
// options are passed as a bare switch when true and omitted otherwise.
func (b *CommandBuilder) Build(reg *registry.ConfigurationRegistry, store options.Store, skipped map[string]bool) *InstallCommand {
	cmd := &InstallCommand{
		PHPBinary:     b.PHPBinary,
		MagentoBinary: b.MagentoBinary,
	}

	seen := make(map[string]bool)
	for _, group := range reg.ByTag(b.Tag) {
		for _, entry := range group.Entries {
			if seen[entry.Key] || skipped[entry.Key] {
				continue
			}
			seen[entry.Key] = true

			value, ok := store.Option(entry.Key)
			if !ok || value == "" {
				continue
			}

			if isSwitch(entry) {
				if cast.ToBool(value) {
					cmd.Arguments = append(cmd.Arguments, Argument{Key: entry.Key, Value: "true", Switch: true})
				}
				continue
			}

			cmd.Arguments = append(cmd.Arguments, Argument{
				Key:       entry.Key,
				Value:     value,
				Sensitive: entry.Sensitive || b.Detector.IsSecretField(entry.Key),
			})
		}
	}
	return cmd
}

// isSwitch reports whether the entry declares a mode that takes no value.
func isSwitch(entry *registry.Entry) bool {
	if !entry.Declares(registry.FieldMode) {
		return false
	}
	mode, err := options.ParseMode(entry.Mode)
	return err == nil && !mode.AcceptsValue() && mode != options.ModeArray
}

// Args returns the command as an argument vector.
func (c *InstallCommand) Args() []string {
	args := []string{c.PHPBinary, c.MagentoBinary, SetupInstall}
	for _, a := range c.Arguments {
		args = append(args, a.String())
	}
	return args
}

// String renders the command as a shell-quoted line.
func (c *InstallCommand) String() string {
	return shellescape.QuoteCommand(c.Args())
}

// Masked renders the command with sensitive values masked.
func (c *InstallCommand) Masked(masking *secrets.Masking) string {
	args := []string{c.PHPBinary, c.MagentoBinary, SetupInstall}
	for _, a := range c.Arguments {
		if a.Sensitive {
			a.Value = secrets.MaskValue(a.Value, masking)
		}
		args = append(args, a.String())
	}
	return shellescape.QuoteCommand(args)
}

// SecretValues returns the values of the sensitive arguments.
func (c *InstallCommand) SecretValues() []string {
	var values []string
	for _, a := range c.Arguments {
		if a.Sensitive {
			values = append(values, a.Value)
		}
	}
	return values
}

// Get returns the value passed for key.
func (c *InstallCommand) Get(key string) (string, bool) {
	for _, a := range c.Arguments {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Summary lists the arguments as key/value rows, masking sensitive values.
func (c *InstallCommand) Summary(masking *secrets.Masking) [][]string {
	rows := make([][]string, 0, len(c.Arguments))
	for _, a := range c.Arguments {
		v := a.Value
		if a.Sensitive {
			v = secrets.MaskValue(v, masking)
		}
		rows = append(rows, []string{a.Key, strings.TrimSpace(v)})
	}
	return rows
}

package builtin

import (
	"fmt"
	"io"
	"strings"

	"github.com/maginium/installer/pkg/options"
	"github.com/maginium/installer/pkg/output"
	"github.com/maginium/installer/pkg/registry"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

// ConfigsOptions configures the configs command.
type ConfigsOptions struct {
	// Load returns the populated registry and the option set built from it.
	Load         func() (*registry.ConfigurationRegistry, *options.Set, error)
	Tag          string
	Strict       bool
	OutputFormat string
	Output       io.Writer
}

// OptionView is one row of the configs listing.
type OptionView struct {
	Type        string   `json:"type" yaml:"type"`
	Name        string   `json:"name" yaml:"name"`
	Shortcut    string   `json:"shortcut,omitempty" yaml:"shortcut,omitempty"`
	Mode        string   `json:"mode" yaml:"mode"`
	Default     any      `json:"default" yaml:"default"`
	Suggested   []string `json:"suggested_values,omitempty" yaml:"suggested_values,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Description string   `json:"description" yaml:"description"`
}

// OptionList is the result of the configs command.
type OptionList []OptionView

// Header implements output.Tabular.
func (l OptionList) Header() []string {
	return []string{"TYPE", "OPTION", "SHORTCUT", "MODE", "DEFAULT", "TAGS"}
}

// Rows implements output.Tabular.
func (l OptionList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, v := range l {
		def := ""
		if v.Default != nil {
			def = cast.ToString(v.Default)
		}
		rows = append(rows, []string{v.Type, "--" + v.Name, v.Shortcut, v.Mode, def, strings.Join(v.Tags, ",")})
	}
	return rows
}

// NewConfigsCommand creates the configs command listing every discovered
// configuration option.
func NewConfigsCommand(opts *ConfigsOptions) *cobra.Command {
	formats := output.NewManager().Formats()

	cmd := &cobra.Command{
		Use:   "configs",
		Short: "List the discovered configuration options",
		Long: `List every option generated from the discovered configuration fragments,
in registry order, with its shortcut, mode and default.

With --tag only the configuration types carrying the tag are listed; every
option of such a type is included unless --strict is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Output == nil {
				opts.Output = cmd.OutOrStdout()
			}
			return runConfigs(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputFormat, "output", "o", "table", fmt.Sprintf("Output format (%s)", strings.Join(formats, "|")))
	cmd.Flags().StringVarP(&opts.Tag, "tag", "t", "", "Only list configuration types carrying this tag")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "With --tag, only list the options carrying the tag")
	SetupOutputCompletion(cmd, formats)

	return cmd
}

func runConfigs(opts *ConfigsOptions) error {
	if opts.Load == nil {
		return fmt.Errorf("no configuration loader")
	}

	reg, set, err := opts.Load()
	if err != nil {
		return err
	}

	list := ListOptions(reg, set, opts.Tag, opts.Strict)
	return output.NewManager().Format(opts.Output, list, opts.OutputFormat)
}

// ListOptions returns the generated options owned by a configuration type,
// filtered by tag when one is given.
func ListOptions(reg *registry.ConfigurationRegistry, set *options.Set, tag string, strict bool) OptionList {
	var allowed map[string]bool
	if tag != "" {
		allowed = make(map[string]bool)
		groups := reg.ByTag(tag)
		if strict {
			groups = reg.ByTagStrict(tag)
		}
		for _, g := range groups {
			for _, e := range g.Entries {
				allowed[e.Key] = true
			}
		}
	}

	list := OptionList{}
	for _, def := range set.Options {
		if def.Type == "" {
			continue
		}
		if allowed != nil && !allowed[def.Name] {
			continue
		}
		list = append(list, OptionView{
			Type:        def.Type,
			Name:        def.Name,
			Shortcut:    def.Shortcut,
			Mode:        def.Mode.String(),
			Default:     def.Default,
			Suggested:   def.SuggestedValues,
			Tags:        def.Tags,
			Description: def.Description,
		})
	}
	return list
}

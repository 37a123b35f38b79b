// Package interactive provides the terminal prompts used by the setup wizard.
//
// Prompts are rendered with pterm. Every prompt kind has a non-interactive
// fallback that returns the default, so the wizard can run unattended.
//
// # Prompt Types
//
//   - text: Free-form text input with optional regex validation
//   - password: Masked text input
//   - select: Single selection from a list of options
//   - search: Single selection with type-to-filter, for long lists
//   - multiselect: Several selections, joined with commas
//   - confirm: Yes/no confirmation prompt
//
// # Example Usage
//
//	prompter := interactive.NewPrompter(nil)
//
//	host, err := prompter.Text(&interactive.TextPromptOptions{
//		Message: "What is the database host?",
//		Default: "127.0.0.1",
//	})
//
//	currency, err := prompter.Search(&interactive.SelectPromptOptions{
//		Message: "Which currency should the store use?",
//		Options: []string{"EUR", "GBP", "USD"},
//		Default: "USD",
//	})
package interactive

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// Prompt kinds.
const (
	KindText        = "text"
	KindPassword    = "password"
	KindSelect      = "select"
	KindSearch      = "search"
	KindMultiSelect = "multiselect"
	KindConfirm     = "confirm"
)

// searchPageSize is the number of options a search prompt shows at once.
const searchPageSize = 10

// Prompter handles interactive user prompts.
type Prompter struct {
	input  io.Reader
	output io.Writer
	// DisableColor disables colored output
	DisableColor bool
	// DisableInteractive disables interactive prompts (for testing and --no-interaction)
	DisableInteractive bool
}

// PrompterConfig configures the Prompter.
type PrompterConfig struct {
	Input              io.Reader
	Output             io.Writer
	DisableColor       bool
	DisableInteractive bool
}

// NewPrompter creates a new Prompter with the given configuration.
// If config is nil, uses default configuration (stdin/stdout).
func NewPrompter(config *PrompterConfig) *Prompter {
	if config == nil {
		config = &PrompterConfig{
			Input:  os.Stdin,
			Output: os.Stdout,
		}
	}

	p := &Prompter{
		input:              config.Input,
		output:             config.Output,
		DisableColor:       config.DisableColor,
		DisableInteractive: config.DisableInteractive,
	}

	if config.DisableColor {
		pterm.DisableColor()
	}

	return p
}

// TextPromptOptions configures a text prompt.
type TextPromptOptions struct {
	Message           string
	Default           string
	Validation        string // Regex pattern
	ValidationMessage string
	Required          bool
	// Mask hides the input, for passwords.
	Mask bool
}

// Text prompts for text input with optional validation.
func (p *Prompter) Text(opts *TextPromptOptions) (string, error) {
	if opts == nil {
		return "", fmt.Errorf("options cannot be nil")
	}

	var validationRegex *regexp.Regexp
	if opts.Validation != "" {
		var err error
		validationRegex, err = regexp.Compile(opts.Validation)
		if err != nil {
			return "", fmt.Errorf("invalid validation pattern: %w", err)
		}
	}

	if p.DisableInteractive {
		if opts.Default == "" && opts.Required {
			return "", fmt.Errorf("interactive prompts disabled and %q has no default", opts.Message)
		}
		return opts.Default, nil
	}

	for {
		message := opts.Message
		if opts.Default != "" && !opts.Mask {
			message = fmt.Sprintf("%s (default: %s)", message, opts.Default)
		}

		input := pterm.DefaultInteractiveTextInput.WithMultiLine(false)
		if opts.Mask {
			input = input.WithMask("*")
		}

		result, err := input.Show(message)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}

		result = strings.TrimSpace(result)

		if result == "" && opts.Default != "" {
			result = opts.Default
		}

		if result == "" && opts.Required {
			pterm.Error.Println("This field is required")
			continue
		}

		if result == "" {
			return result, nil
		}

		if validationRegex != nil && !validationRegex.MatchString(result) {
			errMsg := opts.ValidationMessage
			if errMsg == "" {
				errMsg = fmt.Sprintf("Input does not match required pattern: %s", opts.Validation)
			}
			pterm.Error.Println(errMsg)
			continue
		}

		return result, nil
	}
}

// Password prompts for masked text input.
func (p *Prompter) Password(opts *TextPromptOptions) (string, error) {
	if opts == nil {
		return "", fmt.Errorf("options cannot be nil")
	}
	masked := *opts
	masked.Mask = true
	return p.Text(&masked)
}

// SelectPromptOptions configures a select prompt.
type SelectPromptOptions struct {
	Message string
	Options []string
	Default string
}

// Select prompts for selection from a list of options.
func (p *Prompter) Select(opts *SelectPromptOptions) (string, error) {
	return p.selectOne(opts, false)
}

// Search prompts for selection from a long list, filtered as the user types.
func (p *Prompter) Search(opts *SelectPromptOptions) (string, error) {
	return p.selectOne(opts, true)
}

func (p *Prompter) selectOne(opts *SelectPromptOptions, filter bool) (string, error) {
	if opts == nil {
		return "", fmt.Errorf("options cannot be nil")
	}

	if len(opts.Options) == 0 {
		return "", fmt.Errorf("options list cannot be empty")
	}

	if p.DisableInteractive {
		if opts.Default != "" {
			return opts.Default, nil
		}
		return opts.Options[0], nil
	}

	defaultIndex := 0
	if i := slices.Index(opts.Options, opts.Default); i >= 0 {
		defaultIndex = i
	}

	sel := pterm.DefaultInteractiveSelect.
		WithOptions(opts.Options).
		WithDefaultOption(opts.Options[defaultIndex]).
		WithFilter(filter)
	if filter {
		sel = sel.WithMaxHeight(searchPageSize)
	}

	result, err := sel.Show(opts.Message)
	if err != nil {
		return "", fmt.Errorf("failed to read selection: %w", err)
	}

	return result, nil
}

// MultiSelectPromptOptions configures a multi-select prompt.
type MultiSelectPromptOptions struct {
	Message  string
	Options  []string
	Defaults []string
}

// MultiSelect prompts for several selections from a list of options.
func (p *Prompter) MultiSelect(opts *MultiSelectPromptOptions) ([]string, error) {
	if opts == nil {
		return nil, fmt.Errorf("options cannot be nil")
	}

	if p.DisableInteractive || len(opts.Options) == 0 {
		return slices.Clone(opts.Defaults), nil
	}

	result, err := pterm.DefaultInteractiveMultiselect.
		WithOptions(opts.Options).
		WithDefaultOptions(opts.Defaults).
		WithFilter(true).
		Show(opts.Message)
	if err != nil {
		return nil, fmt.Errorf("failed to read selection: %w", err)
	}

	return result, nil
}

// ConfirmPromptOptions configures a confirmation prompt.
type ConfirmPromptOptions struct {
	Message string
	Default bool
}

// Confirm prompts for yes/no confirmation.
func (p *Prompter) Confirm(opts *ConfirmPromptOptions) (bool, error) {
	if opts == nil {
		return false, fmt.Errorf("options cannot be nil")
	}

	if p.DisableInteractive {
		return opts.Default, nil
	}

	result, err := pterm.DefaultInteractiveConfirm.
		WithDefaultValue(opts.Default).
		Show(opts.Message)
	if err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	return result, nil
}

// PromptSpec describes one question. Answers are always strings: confirm
// answers are "true" or "false" and multiselect answers are comma separated.
type PromptSpec struct {
	Name              string
	Kind              string
	Message           string
	Default           string
	Options           []string
	Validation        string
	ValidationMessage string
	Required          bool
}

// PromptFromSpec prompts the user with the prompt kind named by the spec.
func (p *Prompter) PromptFromSpec(spec *PromptSpec) (string, error) {
	if spec == nil {
		return "", fmt.Errorf("spec cannot be nil")
	}

	switch spec.Kind {
	case KindText, "":
		return p.Text(&TextPromptOptions{
			Message:           spec.Message,
			Default:           spec.Default,
			Validation:        spec.Validation,
			ValidationMessage: spec.ValidationMessage,
			Required:          spec.Required,
		})

	case KindPassword:
		return p.Password(&TextPromptOptions{
			Message:  spec.Message,
			Default:  spec.Default,
			Required: spec.Required,
		})

	case KindSelect, KindSearch:
		if len(spec.Options) == 0 {
			return "", fmt.Errorf("%s prompt requires options", spec.Kind)
		}
		opts := &SelectPromptOptions{
			Message: spec.Message,
			Options: spec.Options,
			Default: spec.Default,
		}
		if spec.Kind == KindSearch {
			return p.Search(opts)
		}
		return p.Select(opts)

	case KindMultiSelect:
		var defaults []string
		if spec.Default != "" {
			defaults = strings.Split(spec.Default, ",")
		}
		result, err := p.MultiSelect(&MultiSelectPromptOptions{
			Message:  spec.Message,
			Options:  spec.Options,
			Defaults: defaults,
		})
		if err != nil {
			return "", err
		}
		return strings.Join(result, ","), nil

	case KindConfirm:
		def, _ := strconv.ParseBool(spec.Default)
		result, err := p.Confirm(&ConfirmPromptOptions{
			Message: spec.Message,
			Default: def,
		})
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(result), nil

	default:
		return "", fmt.Errorf("unsupported prompt type: %s", spec.Kind)
	}
}

// Package wizard drives the interactive setup of a new project. It walks the
// configuration registry section by section, asks for every option that was
// not given on the command line and assembles the downstream installation
// command from the answers.
package wizard

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maginium/installer/pkg/cli/interactive"
	"github.com/maginium/installer/pkg/options"
	"github.com/maginium/installer/pkg/registry"
	"github.com/maginium/installer/pkg/secrets"
	"github.com/spf13/cast"
)

// Prompter asks a single question.
type Prompter interface {
	PromptFromSpec(spec *interactive.PromptSpec) (string, error)
}

// Memory remembers answers across runs.
type Memory interface {
	Recall(name string) (string, bool)
	Remember(name, value string)
}

// Config configures a Wizard.
type Config struct {
	Registry *registry.ConfigurationRegistry
	Prompter Prompter
	// Loader resolves entry sources to catalog options. Optional.
	Loader *interactive.OptionLoader
	// Memory supplies recent answers as defaults. Optional.
	Memory   Memory
	Detector *secrets.Detector
	Logger   *log.Logger
	Output   io.Writer
	// Order lists the section type IDs prompted first.
	Order []string
	// NoInteraction keeps every default without prompting.
	NoInteraction bool
}

// Wizard collects option values into an options.Store.
type Wizard struct {
	config Config
}

// Result describes a completed wizard run.
type Result struct {
	// Answers holds the final value of every visited option.
	Answers map[string]string
	// Skipped lists the options whose when condition did not hold.
	Skipped map[string]bool
	// Prompted lists the options the user was asked about, in order.
	Prompted []string
}

// New creates a wizard.
func New(config Config) *Wizard {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Wizard{config: config}
}

// Run prompts for every section and writes the answers into store.
func (w *Wizard) Run(store options.Store) (*Result, error) {
	if w.config.Registry == nil {
		return nil, fmt.Errorf("wizard requires a configuration registry")
	}
	if w.config.Prompter == nil && !w.config.NoInteraction {
		return nil, fmt.Errorf("wizard requires a prompter")
	}

	result := &Result{
		Answers: make(map[string]string),
		Skipped: make(map[string]bool),
	}

	for _, section := range Sections(w.config.Registry, w.config.Order) {
		if !w.config.NoInteraction {
			RenderSectionHeader(w.config.Output, section)
		}
		for _, entry := range section.Entries() {
			if err := w.visit(section.ID, entry, store, result); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// visit resolves one entry.
func (w *Wizard) visit(typeID string, entry *registry.Entry, store options.Store, result *Result) error {
	current, _ := store.Option(entry.Key)

	if store.Changed(entry.Key) {
		result.Answers[entry.Key] = current
		return nil
	}

	ok, err := NewCondition(result.Answers).Evaluate(entry.When)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", typeID, entry.Key, err)
	}
	if !ok {
		result.Skipped[entry.Key] = true
		w.config.Logger.Debug("skipping option", "option", entry.Key, "when", entry.When)
		return nil
	}

	if w.config.NoInteraction {
		result.Answers[entry.Key] = current
		return nil
	}

	spec, err := w.promptSpec(entry, current)
	if err != nil {
		return err
	}

	answer, err := w.config.Prompter.PromptFromSpec(spec)
	if err != nil {
		return fmt.Errorf("failed to prompt for %s: %w", entry.Key, err)
	}

	if entry.Source != "" && answer != "" && w.config.Loader != nil {
		if err := w.config.Loader.Validate(entry.Source, answer); err != nil {
			return fmt.Errorf("invalid value for %s: %w", entry.Key, err)
		}
	}

	if err := store.SetOption(entry.Key, answer); err != nil {
		return err
	}

	result.Answers[entry.Key] = answer
	result.Prompted = append(result.Prompted, entry.Key)

	if w.config.Memory != nil && !w.sensitive(entry) {
		w.config.Memory.Remember(entry.Key, answer)
	}
	return nil
}

// promptSpec converts an entry into a prompt.
func (w *Wizard) promptSpec(entry *registry.Entry, current string) (*interactive.PromptSpec, error) {
	mode := options.ModeOptional
	if entry.Declares(registry.FieldMode) {
		if m, err := options.ParseMode(entry.Mode); err == nil {
			mode = m
		}
	}

	spec := &interactive.PromptSpec{
		Name:     entry.Key,
		Kind:     w.promptKind(entry, mode),
		Message:  promptMessage(entry),
		Default:  current,
		Options:  entry.SuggestedValues,
		Required: mode == options.ModeRequired,
	}

	if spec.Kind == interactive.KindConfirm && spec.Default == "" {
		spec.Default = cast.ToString(cast.ToBool(entry.Default))
	}

	if w.config.Memory != nil && !w.sensitive(entry) {
		if recent, ok := w.config.Memory.Recall(entry.Key); ok {
			spec.Default = recent
		}
	}

	if entry.Source != "" && w.config.Loader != nil && w.config.Loader.Has(entry.Source) {
		return interactive.PromptFromSource(spec, entry.Source, w.config.Loader)
	}

	if (spec.Kind == interactive.KindSelect || spec.Kind == interactive.KindSearch) && len(spec.Options) == 0 {
		spec.Kind = interactive.KindText
	}
	return spec, nil
}

// promptKind picks the prompt for an entry: the declared prompt, otherwise
// one derived from the mode and the suggested values.
func (w *Wizard) promptKind(entry *registry.Entry, mode options.Mode) string {
	if entry.Prompt != "" {
		return strings.ToLower(entry.Prompt)
	}

	switch {
	case mode == options.ModeNone || mode == options.ModeNegatable:
		return interactive.KindConfirm
	case mode == options.ModeArray && len(entry.SuggestedValues) > 0:
		return interactive.KindMultiSelect
	case w.sensitive(entry):
		return interactive.KindPassword
	case len(entry.SuggestedValues) > 0:
		return interactive.KindSelect
	}
	return interactive.KindText
}

func (w *Wizard) sensitive(entry *registry.Entry) bool {
	return entry.Sensitive || w.config.Detector.IsSecretField(entry.Key)
}

func promptMessage(entry *registry.Entry) string {
	message := entry.Name
	if message == "" {
		message = entry.Description
	}
	if entry.Hint != "" {
		message += " (" + entry.Hint + ")"
	}
	return message
}

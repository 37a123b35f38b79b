package builder

import (
	"fmt"
	"strings"

	"github.com/maginium/installer/pkg/options"
	"github.com/maginium/installer/pkg/registry"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flag annotation keys.
const (
	AnnotationType     = "config-type"
	AnnotationMode     = "mode"
	AnnotationTags     = "tags"
	AnnotationShortcut = "shortcut"
)

// Apply registers the option set on cmd. Shortcuts become aliases resolved by
// the flag set's normalize func; a single-character shortcut also becomes the
// flag shorthand when it is free.
func Apply(cmd *cobra.Command, set *options.Set) error {
	flags := cmd.Flags()

	for _, def := range set.Options {
		if err := addFlag(cmd, def); err != nil {
			return err
		}

		annotate(flags, def)

		if len(def.SuggestedValues) > 0 {
			completions := cobra.FixedCompletions(def.SuggestedValues, cobra.ShellCompDirectiveNoFileComp)
			if err := cmd.RegisterFlagCompletionFunc(def.Name, completions); err != nil {
				return fmt.Errorf("failed to register completion for %s: %w", def.Name, err)
			}
		}
	}

	aliases := make(map[string]string)
	for name, shortcut := range set.Shortcuts() {
		if shortcut == name || isShorthand(flags, name, shortcut) {
			continue
		}
		aliases[strings.ToLower(shortcut)] = name
	}

	// Persistent flags of the parents are merged into this flag set on
	// execution, so an alias must not shadow them either.
	inherited := cmd.InheritedFlags()
	for alias := range aliases {
		if flags.Lookup(alias) != nil || inherited.Lookup(alias) != nil {
			return fmt.Errorf("%w: shortcut %q shadows an option", registry.ErrShortcutConflict, alias)
		}
	}
	if len(aliases) > 0 {
		flags.SetNormalizeFunc(AliasNormalizer(aliases))
	}

	cmd.Args = argumentsValidator(set.Arguments)

	return nil
}

// addFlag adds a flag for def based on its mode.
func addFlag(cmd *cobra.Command, def options.Definition) error {
	flags := cmd.Flags()
	if flags.Lookup(def.Name) != nil {
		return fmt.Errorf("%w: %q", registry.ErrDuplicateOption, def.Name)
	}

	shorthand := ""
	if len(def.Shortcut) == 1 && shorthandFree(cmd, def.Shortcut) {
		shorthand = def.Shortcut
	}

	switch def.Mode {
	case options.ModeNone:
		flags.BoolP(def.Name, shorthand, false, def.Description)

	case options.ModeNegatable:
		negated := options.NegatedName(def.Name)
		if flags.Lookup(negated) != nil {
			return fmt.Errorf("%w: %q", registry.ErrDuplicateOption, negated)
		}
		flags.BoolP(def.Name, shorthand, false, def.Description)
		flags.Bool(negated, false, fmt.Sprintf("Negate the %q option", def.Name))

	case options.ModeArray:
		flags.StringArrayP(def.Name, shorthand, nil, def.Description)

	default:
		flags.StringP(def.Name, shorthand, defaultString(def.Default), def.Description)
	}

	return nil
}

// annotate stores option metadata on the flag.
func annotate(flags *pflag.FlagSet, def options.Definition) {
	_ = flags.SetAnnotation(def.Name, AnnotationMode, []string{def.Mode.String()})
	if def.Type != "" {
		_ = flags.SetAnnotation(def.Name, AnnotationType, []string{def.Type})
	}
	if len(def.Tags) > 0 {
		_ = flags.SetAnnotation(def.Name, AnnotationTags, def.Tags)
	}
	if def.Shortcut != "" {
		_ = flags.SetAnnotation(def.Name, AnnotationShortcut, []string{def.Shortcut})
	}
}

// shorthandFree reports whether s is unused by the command and the persistent
// flags it inherits.
func shorthandFree(cmd *cobra.Command, s string) bool {
	if cmd.Flags().ShorthandLookup(s) != nil {
		return false
	}
	return cmd.InheritedFlags().ShorthandLookup(s) == nil
}

func isShorthand(flags *pflag.FlagSet, name, shortcut string) bool {
	f := flags.Lookup(name)
	return f != nil && f.Shorthand != "" && f.Shorthand == shortcut
}

// AliasNormalizer returns a normalize func mapping each alias to its option name.
func AliasNormalizer(aliases map[string]string) func(*pflag.FlagSet, string) pflag.NormalizedName {
	return func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if target, ok := aliases[strings.ToLower(name)]; ok {
			return pflag.NormalizedName(target)
		}
		return pflag.NormalizedName(name)
	}
}

// argumentsValidator accepts between the required and total argument counts.
func argumentsValidator(args []options.Argument) cobra.PositionalArgs {
	required := 0
	for _, a := range args {
		if a.Required {
			required++
		}
	}
	return cobra.RangeArgs(required, len(args))
}

// defaultString renders a raw default as a flag default.
func defaultString(v any) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}

package wizard

import (
	"fmt"
	"io"

	"github.com/maginium/installer/pkg/registry"
	"github.com/pterm/pterm"
)

// Sections returns the configuration types in prompting order: the types
// named in order first, then every other type in registry order.
func Sections(reg *registry.ConfigurationRegistry, order []string) []*registry.Type {
	types := reg.Configurations()
	byID := make(map[string]*registry.Type, len(types))
	for _, t := range types {
		byID[t.ID] = t
	}

	out := make([]*registry.Type, 0, len(types))
	placed := make(map[string]bool, len(types))
	for _, id := range order {
		if t, ok := byID[id]; ok && !placed[id] {
			out = append(out, t)
			placed[id] = true
		}
	}
	for _, t := range types {
		if !placed[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

// RenderSectionHeader prints the title and description of a section. A
// section without a title prints an error line naming the type instead.
func RenderSectionHeader(w io.Writer, t *registry.Type) {
	if t == nil {
		return
	}
	if t.Name == "" {
		pterm.Error.WithWriter(w).Println(fmt.Sprintf("No configuration title found for %q", t.ID))
		return
	}

	pterm.DefaultSection.WithWriter(w).Println(t.Name)
	if t.Description != "" {
		pterm.Fprintln(w, pterm.Gray(t.Description))
		pterm.Fprintln(w)
	}
}

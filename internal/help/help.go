// Package help renders usage text for a set of components and offers
// did-you-mean suggestions for mistyped names. The engine only ever calls
// into this package through the Generator interface; it never prints.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/specialistvlad/clapgo/internal/model"
)

// Generator formats help for the given components.
type Generator interface {
	Help(components []*model.Component) string
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(components []*model.Component) string

func (f GeneratorFunc) Help(components []*model.Component) string {
	return f(components)
}

// Default is the stock Generator.
type Default struct {
	// Prefix is the flag prefix shown in front of parameter names.
	Prefix string
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	verbStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// Help implements Generator.
func (d Default) Help(components []*model.Component) string {
	prefix := d.Prefix
	if prefix == "" {
		prefix = "--"
	}
	multi := len(components) > 1

	var b strings.Builder
	for i, c := range components {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headingStyle.Render(title(c)))
		b.WriteString("\n")
		if c.Description != "" {
			fmt.Fprintf(&b, "  %s\n", c.Description)
		}

		for _, v := range c.Verbs {
			name := v.Name
			if multi {
				name = c.Name + "." + v.Name
			}
			b.WriteString("\n  ")
			b.WriteString(verbStyle.Render(name))
			if len(v.Aliases) > 0 {
				b.WriteString(" ")
				b.WriteString(mutedStyle.Render("(" + strings.Join(v.Aliases, ", ") + ")"))
			}
			if v.Default {
				b.WriteString(" ")
				b.WriteString(mutedStyle.Render("[default]"))
			}
			if v.Description != "" {
				fmt.Fprintf(&b, ": %s", v.Description)
			}
			b.WriteString("\n")

			for _, p := range v.Params {
				if p.Inject {
					continue
				}
				fmt.Fprintf(&b, "    %s\n", paramLine(prefix, p))
			}
		}
	}
	return b.String()
}

func title(c *model.Component) string {
	if len(c.Aliases) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, strings.Join(c.Aliases, ", "))
}

func paramLine(prefix string, p *model.Parameter) string {
	names := make([]string, len(p.Names))
	for i, n := range p.Names {
		names[i] = prefix + n
	}

	var attrs []string
	attrs = append(attrs, p.TypeName())
	if p.Required {
		attrs = append(attrs, "required")
	}
	if p.HasDefault {
		attrs = append(attrs, fmt.Sprintf("default: %v", p.Default))
	}
	if p.Provider != nil {
		attrs = append(attrs, "default: "+p.Provider.Description())
	}
	if p.EnvVar != "" {
		attrs = append(attrs, "env: "+p.EnvVar)
	}
	if p.Separator != "" {
		attrs = append(attrs, fmt.Sprintf("separator: %q", p.Separator))
	}
	if len(p.EnumValues) > 0 {
		attrs = append(attrs, "values: "+strings.Join(p.EnumValues, "|"))
	}
	for _, v := range p.Validators {
		attrs = append(attrs, v.Description())
	}

	line := fmt.Sprintf("%s (%s)", strings.Join(names, ", "), strings.Join(attrs, ", "))
	if p.Description != "" {
		line += ": " + p.Description
	}
	return line
}

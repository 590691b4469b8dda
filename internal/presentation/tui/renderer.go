package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/stratum/pkg/schema"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// TypeReference builds the markdown reference of every tag, grouped by category.
func TypeReference() string {
	var b strings.Builder
	b.WriteString("# Data types\n")

	groups := schema.Categorize()
	for _, c := range schema.Categories() {
		fmt.Fprintf(&b, "\n## %s\n\n", c)
		b.WriteString("| Type | Description | Example |\n|---|---|---|\n")
		for _, tag := range groups[c] {
			info, _ := schema.Lookup(tag)
			fmt.Fprintf(&b, "| `%s` | %s | `%s` |\n", tag, cell(info.Description), cell(info.Example))
		}
	}
	return b.String()
}

// TypeDetail builds the markdown description of a single tag.
func TypeDetail(info schema.Info) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", info.Tag)
	fmt.Fprintf(&b, "%s\n\n", info.Description)
	fmt.Fprintf(&b, "- **Category:** %s\n", info.Category)
	fmt.Fprintf(&b, "- **Example:** `%s`\n", info.Example)
	fmt.Fprintf(&b, "- **Input:** %s", info.Input.Widget)
	if info.Input.Placeholder != "" {
		fmt.Fprintf(&b, " (`%s`)", info.Input.Placeholder)
	}
	b.WriteString("\n")
	if elem, ok := info.Tag.ElementType(); ok {
		fmt.Fprintf(&b, "\nElements are validated as `%s`, one JSON literal each.\n", elem)
	}
	return b.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

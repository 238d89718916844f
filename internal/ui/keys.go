package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	SwitchFocus key.Binding
	Copy        key.Binding
	Clear       key.Binding
	ToggleTheme key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		SwitchFocus: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch between Typst and LaTeX")),
		Copy:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy LaTeX")),
		Clear:       key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
		ToggleTheme: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "toggle dark/light preview")),
		Help:        key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.SwitchFocus, k.Copy, k.Clear, k.ToggleTheme, k.Help, k.Quit}
}

// helpMarkdown lists the bindings as a markdown document for the help overlay.
func (k keyMap) helpMarkdown() string {
	var b strings.Builder
	b.WriteString("# Typst to LaTeX Math Converter\n\n")
	b.WriteString("Type Typst math in the upper box. The LaTeX appears below and can be edited; ")
	b.WriteString("edits there only re-render the preview.\n\n")
	b.WriteString("| Key | Action |\n|---|---|\n")
	for _, binding := range k.bindings() {
		h := binding.Help()
		fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
	}
	b.WriteString("\nPress `f1` or `esc` to close.\n")
	return b.String()
}

// shortHelp is the one-line footer.
func (k keyMap) shortHelp() string {
	parts := make([]string, 0, len(k.bindings()))
	for _, binding := range k.bindings() {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

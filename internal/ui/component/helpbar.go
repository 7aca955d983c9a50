package component

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// HelpBar represents a help bar component showing keyboard shortcuts
type HelpBar struct {
	keyBindings []key.Binding
	model       help.Model
	width       int

	containerStyle lipgloss.Style
}

// NewHelpBar creates a new help bar component
func NewHelpBar() *HelpBar {
	palette := style.DefaultPalette()

	model := help.New()
	model.ShortSeparator = " • "
	model.Styles.ShortKey = lipgloss.NewStyle().Foreground(palette.Primary).Bold(true)
	model.Styles.ShortDesc = lipgloss.NewStyle().Foreground(palette.TextMuted)
	model.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(palette.TextMuted)

	return &HelpBar{
		model: model,
		width: 80,
		containerStyle: lipgloss.NewStyle().
			Padding(0, 1).
			Margin(1, 0, 0, 0),
	}
}

// SetKeyBindings sets the key bindings to display
func (h *HelpBar) SetKeyBindings(bindings []key.Binding) *HelpBar {
	h.keyBindings = bindings
	return h
}

// SetWidth sets the help bar width
func (h *HelpBar) SetWidth(width int) *HelpBar {
	h.width = width
	// help.Model обрезает строку сам, с учётом отступов контейнера
	h.model.Width = width - 2
	return h
}

// View renders the help bar
func (h *HelpBar) View() string {
	if len(h.keyBindings) == 0 {
		return ""
	}
	return h.containerStyle.Render(h.model.ShortHelpView(h.keyBindings))
}

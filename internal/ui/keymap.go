package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keyboard shortcuts for the application
type KeyMap struct {
	// Global navigation
	Quit key.Binding
	Back key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Tab      key.Binding
	ShiftTab key.Binding

	// Application specific
	CreateToken key.Binding
	Transfer    key.Binding
	Holdings    key.Binding
	ToggleLogs  key.Binding

	// Forms
	Submit key.Binding

	// Holdings
	Refresh key.Binding
	Export  key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev"),
		),

		CreateToken: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "create token"),
		),
		Transfer: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "transfer"),
		),
		Holdings: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "holdings"),
		),
		ToggleLogs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "toggle logs"),
		),

		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),

		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r/F5", "refresh"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),
	}
}

// ContextualHelp returns help text based on the current route
func (k KeyMap) ContextualHelp(route Route) []key.Binding {
	switch route {
	case RouteMainMenu:
		return []key.Binding{k.Up, k.Down, k.Enter, k.CreateToken, k.Transfer, k.Holdings, k.ToggleLogs, k.Quit}
	case RouteCreateToken, RouteTransfer:
		return []key.Binding{k.Tab, k.ShiftTab, k.Submit, k.ToggleLogs, k.Back, k.Quit}
	case RouteHoldings:
		return []key.Binding{k.Up, k.Down, k.Refresh, k.Export, k.Back, k.Quit}
	default:
		return []key.Binding{k.Back, k.Quit}
	}
}

package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/component"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/router"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// MenuItem represents a menu item
type MenuItem struct {
	Label       string
	Description string
	Route       ui.Route
}

// MainMenuScreen represents the main menu screen
type MainMenuScreen struct {
	width  int
	height int
	keyMap ui.KeyMap

	helpBar *component.HelpBar

	selectedIndex int
	menuItems     []MenuItem

	menuItemStyle    lipgloss.Style
	selectedStyle    lipgloss.Style
	descriptionStyle lipgloss.Style
}

// NewMainMenuScreen creates a new main menu screen
func NewMainMenuScreen() *MainMenuScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	return &MainMenuScreen{
		keyMap: keyMap,
		menuItems: []MenuItem{
			{
				Label:       "✨ Create Token",
				Description: "Mint a new SPL token and credit the initial supply to your wallet",
				Route:       ui.RouteCreateToken,
			},
			{
				Label:       "➜ Transfer",
				Description: "Send tokens to another wallet; its token account is created if missing",
				Route:       ui.RouteTransfer,
			},
			{
				Label:       "💰 Holdings",
				Description: "List token balances held by your wallet",
				Route:       ui.RouteHoldings,
			},
		},
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteMainMenu)),

		menuItemStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 2),

		selectedStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 2).
			Bold(true),

		descriptionStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 4).
			Italic(true),
	}
}

// Init initializes the main menu screen
func (m *MainMenuScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (m *MainMenuScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Up):
		m.selectedIndex = (m.selectedIndex - 1 + len(m.menuItems)) % len(m.menuItems)
	case key.Matches(keyMsg, m.keyMap.Down):
		m.selectedIndex = (m.selectedIndex + 1) % len(m.menuItems)
	case key.Matches(keyMsg, m.keyMap.Enter):
		return m, navigate(m.menuItems[m.selectedIndex].Route)

	// Direct shortcuts
	case key.Matches(keyMsg, m.keyMap.CreateToken):
		return m, navigate(ui.RouteCreateToken)
	case key.Matches(keyMsg, m.keyMap.Transfer):
		return m, navigate(ui.RouteTransfer)
	case key.Matches(keyMsg, m.keyMap.Holdings):
		return m, navigate(ui.RouteHoldings)
	}

	return m, nil
}

// View renders the main menu screen
func (m *MainMenuScreen) View() string {
	var items []string
	for i, item := range m.menuItems {
		if i == m.selectedIndex {
			items = append(items, m.selectedStyle.Render(item.Label))
			items = append(items, m.descriptionStyle.Render(item.Description))
		} else {
			items = append(items, m.menuItemStyle.Render(item.Label))
		}
	}

	menu := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.DefaultPalette().Primary).
		Padding(1, 4).
		Render(strings.Join(items, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, menu, m.helpBar.View())
}

// SetSize sets the screen dimensions
func (m *MainMenuScreen) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.helpBar.SetWidth(width)
}

// GetSelectedRoute returns the currently selected route
func (m *MainMenuScreen) GetSelectedRoute() ui.Route {
	return m.menuItems[m.selectedIndex].Route
}

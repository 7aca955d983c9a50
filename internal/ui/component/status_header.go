package component

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// StatusHeader provides a clean header with essential status information
type StatusHeader struct {
	wallet  string
	cluster string
	status  string
	failed  bool
	style   StatusHeaderStyle
	width   int
}

// StatusHeaderStyle contains all styling for the status header
type StatusHeaderStyle struct {
	container lipgloss.Style
	title     lipgloss.Style
	wallet    lipgloss.Style
	cluster   lipgloss.Style
	statusOK  lipgloss.Style
	statusBad lipgloss.Style
}

// NewStatusHeader creates a new status header component
func NewStatusHeader() *StatusHeader {
	palette := style.DefaultPalette()

	return &StatusHeader{
		wallet: "Unknown",
		status: "Idle",
		style: StatusHeaderStyle{
			container: lipgloss.NewStyle().
				Foreground(palette.Text).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Padding(0, 2).
				MarginBottom(1),

			title: lipgloss.NewStyle().
				Foreground(palette.Primary).
				Bold(true),

			wallet: lipgloss.NewStyle().
				Foreground(palette.TextSecondary),

			cluster: lipgloss.NewStyle().
				Foreground(palette.Secondary).
				Bold(true),

			statusOK: lipgloss.NewStyle().
				Foreground(palette.Success).
				Bold(true),

			statusBad: lipgloss.NewStyle().
				Foreground(palette.Error).
				Bold(true),
		},
	}
}

// SetWallet updates the wallet address display
func (sh *StatusHeader) SetWallet(wallet string) {
	if len(wallet) > 8 {
		sh.wallet = wallet[:4] + "..." + wallet[len(wallet)-4:]
	} else {
		sh.wallet = wallet
	}
}

// SetCluster задаёт название сети.
func (sh *StatusHeader) SetCluster(cluster string) {
	sh.cluster = cluster
}

// SetStatus показывает стадию текущей операции; failed красит её красным.
func (sh *StatusHeader) SetStatus(status string, failed bool) {
	sh.status = status
	sh.failed = failed
}

// Status returns the current status line.
func (sh *StatusHeader) Status() string {
	return sh.status
}

// SetWidth sets the component width for responsive layout
func (sh *StatusHeader) SetWidth(width int) {
	sh.width = width
	if width > 4 {
		sh.style.container = sh.style.container.Width(width - 4)
	}
}

// View renders the status header
func (sh *StatusHeader) View() string {
	title := sh.style.title.Render("Solana Launchpad")
	wallet := sh.style.wallet.Render(fmt.Sprintf("Wallet: %s", sh.wallet))
	cluster := sh.style.cluster.Render(sh.cluster)

	statusStyle := sh.style.statusOK
	if sh.failed {
		statusStyle = sh.style.statusBad
	}

	content := lipgloss.JoinHorizontal(
		lipgloss.Left,
		title,
		" | ",
		wallet,
		" | ",
		cluster,
		" | ",
		statusStyle.Render(sh.status),
	)

	return sh.style.container.Render(content)
}

// GetHeight returns the component height for layout calculations
func (sh *StatusHeader) GetHeight() int {
	return 3 // Border + content
}

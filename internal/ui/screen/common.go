// internal/ui/screen/common.go
package screen

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// PhaseLabel: подпись стадии для строки статуса.
func PhaseLabel(phase transaction.Phase) string {
	switch phase {
	case transaction.PhaseSending:
		return "Waiting for signature and broadcast..."
	case transaction.PhaseAwaitingConfirmation:
		return "Awaiting confirmation..."
	case transaction.PhaseDone:
		return "Done"
	default:
		return "Preparing..."
	}
}

// OutcomeLabel is the one-line status for a finished submission.
func OutcomeLabel(o domain.Outcome) string {
	if o.Success() {
		return "Confirmed"
	}
	return o.State.String() + ": " + o.Kind.String()
}

func navigate(route ui.Route) tea.Cmd {
	return func() tea.Msg {
		return ui.RouterMsg{To: route}
	}
}

// renderOutcome рисует итог отправки: ссылку при успехе, вид и причину при отказе.
func renderOutcome(o domain.Outcome, err error) string {
	var b strings.Builder
	switch {
	case err != nil:
		b.WriteString(style.ErrorText.Render("✗ " + domain.KindOf(err).String()))
		b.WriteString("\n")
		b.WriteString(err.Error())
	case o.Success():
		b.WriteString(style.SuccessText.Render("✓ Confirmed"))
		b.WriteString("\n")
		b.WriteString("Signature: " + o.Signature.String())
		b.WriteString("\n")
		b.WriteString("Explorer:  " + o.ExplorerURL)
	default:
		b.WriteString(style.ErrorText.Render("✗ " + OutcomeLabel(o)))
		b.WriteString("\n")
		b.WriteString(o.Reason)
		if !o.Signature.IsZero() {
			b.WriteString("\n")
			b.WriteString("Signature: " + o.Signature.String())
			if o.State == domain.StateTimedOut {
				b.WriteString("\n")
				b.WriteString(style.Muted.Render("The transaction may still land; check the explorer before retrying."))
			}
			if o.ExplorerURL != "" {
				b.WriteString("\n")
				b.WriteString("Explorer:  " + o.ExplorerURL)
			}
		}
	}
	return b.String()
}

// renderButton рисует кнопку отправки. Пока операция в полёте, кнопка неактивна.
func renderButton(label string, pending bool, phase string) string {
	palette := style.DefaultPalette()
	if pending {
		return lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 2).
			Render("⏳ " + phase)
	}
	return lipgloss.NewStyle().
		Foreground(palette.Background).
		Background(palette.Secondary).
		Bold(true).
		Padding(0, 2).
		Render(label + " [ctrl+s]")
}

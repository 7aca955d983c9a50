// internal/ui/screen/transfer.go
package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-launchpad/internal/address"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/component"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/router"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// TransferScreen represents the token transfer form
type TransferScreen struct {
	svc    *ui.Services
	keyMap ui.KeyMap
	width  int
	height int

	helpBar *component.HelpBar
	form    *component.Form

	pending bool
	phase   string
	done    bool
	outcome domain.Outcome
	err     error
}

// NewTransferScreen creates the transfer screen. mint pre-fills the mint field.
func NewTransferScreen(svc *ui.Services, mint string) *TransferScreen {
	keyMap := ui.DefaultKeyMap()

	form := component.NewForm().
		Address("mint", "Token Mint").
		Address("recipient", "Recipient Wallet").
		Amount("amount", "Amount", "1.5").
		Set("mint", mint)

	return &TransferScreen{
		svc:     svc,
		keyMap:  keyMap,
		form:    form,
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteTransfer)),
	}
}

// Init initializes the screen
func (s *TransferScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (s *TransferScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, s.keyMap.Submit) {
			return s, s.submit()
		}
		form, cmd := s.form.Update(msg)
		s.form = form
		return s, cmd

	case ui.PhaseMsg:
		if msg.Op == ui.OpTransfer && s.pending {
			s.phase = PhaseLabel(msg.Phase)
		}

	case ui.TransferDoneMsg:
		s.pending = false
		s.form.Unlock()
		s.done = true
		s.outcome = msg.Outcome
		s.err = msg.Err
	}

	return s, nil
}

// Pending reports whether a transfer is outstanding.
func (s *TransferScreen) Pending() bool {
	return s.pending
}

func (s *TransferScreen) submit() tea.Cmd {
	if s.pending || !s.form.Validate() {
		return nil
	}

	mint, err := address.Parse(s.form.Value("mint"))
	if err != nil {
		return nil
	}
	req := domain.TransferRequest{
		Mint:      mint,
		Recipient: s.form.Value("recipient"),
		AmountRaw: s.form.Value("amount"),
	}

	s.pending = true
	s.phase = PhaseLabel(0)
	s.done = false
	s.err = nil
	s.form.Lock()

	svc := s.svc
	return func() tea.Msg {
		outcome, err := svc.Launchpad.TransferToken(svc.Context(), req, svc.Observer(ui.OpTransfer))
		return ui.TransferDoneMsg{Outcome: outcome, Err: err}
	}
}

// View renders the screen
func (s *TransferScreen) View() string {
	var content strings.Builder

	content.WriteString(style.Title.Render("➜ Transfer Tokens"))
	content.WriteString("\n")
	content.WriteString(s.form.View())
	content.WriteString("\n")
	content.WriteString(renderButton("Send", s.pending, s.phase))
	content.WriteString("\n")

	if s.done {
		content.WriteString(style.Container.Render(renderOutcome(s.outcome, s.err)))
		content.WriteString("\n")
	}

	content.WriteString(s.helpBar.View())
	return content.String()
}

// SetSize sets the screen dimensions
func (s *TransferScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.form.SetWidth(min(width-8, 60))
}

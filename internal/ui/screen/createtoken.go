// internal/ui/screen/createtoken.go
package screen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-launchpad/internal/amount"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/component"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/router"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// CreateTokenScreen: форма создания токена. Пока создание в полёте, форма и
// кнопка отключены: один клик даёт не больше одной транзакции.
type CreateTokenScreen struct {
	svc    *ui.Services
	keyMap ui.KeyMap
	width  int
	height int

	helpBar *component.HelpBar
	form    *component.Form

	pending bool
	phase   string
	result  *domain.CreateResult
	err     error
}

// NewCreateTokenScreen creates the token creation screen
func NewCreateTokenScreen(svc *ui.Services) *CreateTokenScreen {
	keyMap := ui.DefaultKeyMap()

	form := component.NewForm().
		Text("name", "Token Name", "My Token").
		Text("symbol", "Symbol", "MTK").
		Text("decimals", "Decimals", "9").
		Amount("supply", "Initial Supply", "1000000").
		Toggle("freeze", "Keep freeze authority").
		Check("decimals", validateDecimals).
		Set("decimals", "9")

	return &CreateTokenScreen{
		svc:     svc,
		keyMap:  keyMap,
		form:    form,
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteCreateToken)),
	}
}

func validateDecimals(v string) error {
	d, err := strconv.ParseUint(strings.TrimSpace(v), 10, 8)
	if err != nil {
		return fmt.Errorf("decimals must be a number from 0 to %d", domain.MaxDecimals)
	}
	return amount.ValidateDecimals(uint8(d))
}

// Init initializes the screen
func (s *CreateTokenScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (s *CreateTokenScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, s.keyMap.Submit) {
			return s, s.submit()
		}
		form, cmd := s.form.Update(msg)
		s.form = form
		return s, cmd

	case ui.PhaseMsg:
		if msg.Op == ui.OpCreate && s.pending {
			s.phase = PhaseLabel(msg.Phase)
		}

	case ui.CreateDoneMsg:
		s.pending = false
		s.form.Unlock()
		result := msg.Result
		s.result = &result
		s.err = msg.Err
	}

	return s, nil
}

// Pending reports whether a creation is outstanding.
func (s *CreateTokenScreen) Pending() bool {
	return s.pending
}

// submit returns nil while a creation is in flight or the form is invalid.
func (s *CreateTokenScreen) submit() tea.Cmd {
	if s.pending || !s.form.Validate() {
		return nil
	}

	decimals, _ := strconv.ParseUint(s.form.Value("decimals"), 10, 8)
	spec := domain.TokenMintSpec{
		Name:             s.form.Value("name"),
		Symbol:           s.form.Value("symbol"),
		Decimals:         uint8(decimals),
		InitialSupplyRaw: s.form.Value("supply"),
		FreezeAuthority:  s.form.On("freeze"),
	}

	s.pending = true
	s.phase = PhaseLabel(0)
	s.result = nil
	s.err = nil
	s.form.Lock()

	svc := s.svc
	return func() tea.Msg {
		res, err := svc.Launchpad.CreateToken(svc.Context(), spec, svc.Observer(ui.OpCreate))
		return ui.CreateDoneMsg{Result: res, Err: err}
	}
}

// View renders the screen
func (s *CreateTokenScreen) View() string {
	var content strings.Builder

	content.WriteString(style.Title.Render("✨ Create Token"))
	content.WriteString("\n")
	content.WriteString(s.form.View())
	content.WriteString("\n")
	content.WriteString(renderButton("Create token", s.pending, s.phase))
	content.WriteString("\n")

	if s.result != nil || s.err != nil {
		content.WriteString(style.Container.Render(s.renderResult()))
		content.WriteString("\n")
	}

	content.WriteString(s.helpBar.View())
	return content.String()
}

func (s *CreateTokenScreen) renderResult() string {
	var res domain.CreateResult
	if s.result != nil {
		res = *s.result
	}
	out := renderOutcome(res.Outcome, s.err)
	if s.err == nil && res.Success() {
		out += fmt.Sprintf("\n\n%s (%s), %d decimals\nMint:      %s\nMint page: %s\nSupply:    %s",
			res.Name, res.Symbol, res.Decimals, res.Mint,
			res.MintExplorerURL, amount.FormatBaseUnits(res.Supply, res.Decimals))
	} else if !res.Mint.IsZero() {
		out += "\n\nMint:      " + res.Mint.String()
	}
	return out
}

// SetSize sets the screen dimensions
func (s *CreateTokenScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.form.SetWidth(min(width-8, 60))
}

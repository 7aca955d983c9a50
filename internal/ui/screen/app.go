// internal/ui/screen/app.go
package screen

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/component"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/router"
)

const logPanelHeight = 8

type logTickMsg time.Time

// AppModel represents the main TUI application model
type AppModel struct {
	svc    *ui.Services
	router *router.Router
	header *component.StatusHeader
	logs   *component.LogPanel
	keyMap ui.KeyMap
	width  int
	height int

	// Экраны с формами живут всё время работы: закрытие экрана не должно
	// сбрасывать флаг отправки и позволять повторный клик.
	create   *CreateTokenScreen
	transfer *TransferScreen
}

// NewAppModel creates a new application model
func NewAppModel(svc *ui.Services) *AppModel {
	header := component.NewStatusHeader()
	header.SetWallet(svc.Launchpad.Owner().String())
	header.SetCluster(string(svc.Launchpad.Cluster()))

	return &AppModel{
		svc:      svc,
		router:   router.New(ui.RouteMainMenu, NewMainMenuScreen()),
		header:   header,
		logs:     component.NewLogPanel(svc.Logs),
		keyMap:   ui.DefaultKeyMap(),
		create:   NewCreateTokenScreen(svc),
		transfer: NewTransferScreen(svc, ""),
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Init(), logTick(), m.listen())
}

// listen ждёт следующее сообщение шины. Слушатель всегда один: новый
// запускается только после получения сообщения от предыдущего.
func (m *AppModel) listen() tea.Cmd {
	if m.svc.Bus == nil {
		return nil
	}
	return m.svc.Bus.Listen()
}

func logTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

// Update handles application-level updates
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.ToggleLogs):
			m.logs.Toggle()
			m.layout()
			return m, nil
		}

	case ui.RouterMsg:
		return m, m.handleNavigation(msg.To)

	case ui.PhaseMsg:
		m.header.SetStatus(PhaseLabel(msg.Phase), false)
		switch msg.Op {
		case ui.OpCreate:
			m.create.Update(msg)
		case ui.OpTransfer:
			m.transfer.Update(msg)
		}
		return m, m.listen()

	case ui.CreateDoneMsg:
		m.header.SetStatus(doneLabel(msg.Result.Outcome, msg.Err))
		m.create.Update(msg)
		if m.router.Route() == ui.RouteCreateToken {
			return m, nil
		}
		return m, m.forward(msg)

	case ui.TransferDoneMsg:
		m.header.SetStatus(doneLabel(msg.Outcome, msg.Err))
		m.transfer.Update(msg)
		if m.router.Route() == ui.RouteTransfer {
			return m, nil
		}
		return m, m.forward(msg)

	case logTickMsg:
		return m, logTick()
	}

	return m, m.forward(msg)
}

func doneLabel(o domain.Outcome, err error) (string, bool) {
	if err != nil {
		return "Failed: " + err.Error(), true
	}
	return OutcomeLabel(o), !o.Success()
}

func (m *AppModel) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.router, cmd = m.router.Update(msg)
	return cmd
}

// handleNavigation handles navigation to different screens
func (m *AppModel) handleNavigation(route ui.Route) tea.Cmd {
	switch route {
	case ui.RouteMainMenu:
		m.router.Home()
		return nil
	case ui.RouteCreateToken:
		return m.router.Open(route, func() router.Screen { return m.create })
	case ui.RouteTransfer:
		return m.router.Open(route, func() router.Screen { return m.transfer })
	case ui.RouteHoldings:
		return m.router.Open(route, func() router.Screen { return NewHoldingsScreen(m.svc) })
	default:
		// Unknown route, stay on current screen
		return nil
	}
}

func (m *AppModel) layout() {
	m.header.SetWidth(m.width)
	m.logs.SetSize(m.width, logPanelHeight)

	contentHeight := m.height - m.header.GetHeight() - m.logs.GetHeight()
	m.router.SetSize(m.width, max(contentHeight, 5))
}

// View renders the application
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	parts := []string{m.header.View(), m.router.View()}
	if m.logs.IsVisible() {
		parts = append(parts, m.logs.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run запускает TUI и блокируется до выхода пользователя или отмены ctx.
func Run(ctx context.Context, svc *ui.Services) error {
	if svc.Ctx == nil {
		svc.Ctx = ctx
	}
	program := tea.NewProgram(
		NewAppModel(svc),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

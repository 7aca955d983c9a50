// internal/ui/screen/holdings.go
package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-launchpad/internal/export"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/component"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/router"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// HoldingsScreen показывает балансы кошелька. Ответы на устаревшие запросы
// (seq меньше последнего) отбрасываются.
type HoldingsScreen struct {
	svc    *ui.Services
	keyMap ui.KeyMap
	width  int
	height int

	helpBar *component.HelpBar
	table   table.Model

	seq       uint64
	loading   bool
	rows      []export.Row
	updatedAt time.Time
	status    string
	err       error
}

// NewHoldingsScreen creates the holdings screen
func NewHoldingsScreen(svc *ui.Services) *HoldingsScreen {
	keyMap := ui.DefaultKeyMap()

	t := table.New(
		table.WithColumns(holdingsColumns(100)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(style.Base01).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(style.Base03).
		Background(style.Cyan)
	t.SetStyles(styles)

	return &HoldingsScreen{
		svc:     svc,
		keyMap:  keyMap,
		table:   t,
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(ui.RouteHoldings)),
	}
}

func holdingsColumns(width int) []table.Column {
	addr := max((width-24)/2, 12)
	return []table.Column{
		{Title: "Mint", Width: addr},
		{Title: "Account", Width: addr},
		{Title: "Amount", Width: 20},
	}
}

// Init starts the first refresh
func (s *HoldingsScreen) Init() tea.Cmd {
	return s.refresh()
}

// refresh returns nil while a refresh is already running.
func (s *HoldingsScreen) refresh() tea.Cmd {
	if s.loading {
		return nil
	}
	s.seq++
	s.loading = true
	s.err = nil

	seq := s.seq
	svc := s.svc
	return func() tea.Msg {
		ctx := svc.Context()
		records, err := svc.Launchpad.RefreshHoldings(ctx, svc.Launchpad.Owner())
		if err != nil {
			return ui.HoldingsMsg{Seq: seq, Err: err}
		}
		_, updatedAt := svc.Launchpad.Holdings()
		rows, err := svc.Exporter.Rows(ctx, records)
		return ui.HoldingsMsg{Seq: seq, Rows: rows, UpdatedAt: updatedAt, Err: err}
	}
}

// Update handles screen updates
func (s *HoldingsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Refresh):
			return s, s.refresh()
		case key.Matches(msg, s.keyMap.Export):
			return s, s.exportCSV()
		}
		var cmd tea.Cmd
		s.table, cmd = s.table.Update(msg)
		return s, cmd

	case ui.HoldingsMsg:
		if msg.Seq != s.seq {
			return s, nil
		}
		s.loading = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		s.rows = msg.Rows
		s.updatedAt = msg.UpdatedAt
		s.table.SetRows(toTableRows(msg.Rows))

	case ui.ExportDoneMsg:
		if msg.Err != nil {
			s.status = "Export failed: " + msg.Err.Error()
		} else {
			s.status = "Exported to " + msg.Path
		}

	case ui.TransferDoneMsg:
		// Балансы после перевода уже обновлены сервисом, перечитываем их для показа
		if msg.Err == nil && msg.Outcome.Success() {
			return s, s.refresh()
		}
	}

	return s, nil
}

func (s *HoldingsScreen) exportCSV() tea.Cmd {
	if s.loading || len(s.rows) == 0 {
		return nil
	}
	rows := s.rows
	svc := s.svc
	return func() tea.Msg {
		path, err := svc.Exporter.ExportToFile(rows, export.FormatCSV, svc.Launchpad.Owner(), svc.ExportDir)
		return ui.ExportDoneMsg{Path: path, Err: err}
	}
}

func toTableRows(rows []export.Row) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row{r.Mint, r.Account, r.Amount})
	}
	return out
}

// Rows returns the rows currently displayed.
func (s *HoldingsScreen) Rows() []export.Row {
	return s.rows
}

// Loading reports whether a refresh is outstanding.
func (s *HoldingsScreen) Loading() bool {
	return s.loading
}

// View renders the screen
func (s *HoldingsScreen) View() string {
	var content strings.Builder

	content.WriteString(style.Title.Render("💰 Holdings"))
	content.WriteString("\n")

	switch {
	case s.err != nil:
		content.WriteString(style.ErrorText.Render("✗ " + s.err.Error()))
	case s.loading && s.rows == nil:
		content.WriteString("Loading holdings...")
	case len(s.rows) == 0:
		content.WriteString("No token holdings.")
	default:
		content.WriteString(s.table.View())
	}
	content.WriteString("\n")

	meta := fmt.Sprintf("%d accounts", len(s.rows))
	if !s.updatedAt.IsZero() {
		meta += " • updated " + s.updatedAt.Format("15:04:05")
	}
	if s.loading {
		meta += " • refreshing..."
	}
	content.WriteString(style.Muted.Render(meta))

	if s.status != "" {
		content.WriteString("\n")
		content.WriteString(s.status)
	}

	content.WriteString(s.helpBar.View())
	return content.String()
}

// SetSize sets the screen dimensions
func (s *HoldingsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
	s.table.SetColumns(holdingsColumns(width))
	s.table.SetHeight(max(height-8, 3))
}

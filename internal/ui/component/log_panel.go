// internal/ui/component/log_panel.go
package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"

	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// logPanelTail: сколько последних записей буфера читает панель.
const logPanelTail = 50

// LogPanel показывает хвост LogBuffer под текущим экраном. Записи ниже
// порога уровня скрыты. Если у записи есть подпись или минт, к строке
// добавляется их короткая форма, чтобы ход транзакции читался без explorer.
type LogPanel struct {
	buffer  *logger.LogBuffer
	min     zapcore.Level
	view    viewport.Model
	height  int
	visible bool

	frame  lipgloss.Style
	title  lipgloss.Style
	muted  lipgloss.Style
	tag    lipgloss.Style
	levels map[zapcore.Level]lipgloss.Style
}

func NewLogPanel(buffer *logger.LogBuffer) *LogPanel {
	palette := style.DefaultPalette()
	return &LogPanel{
		buffer:  buffer,
		min:     zapcore.InfoLevel,
		view:    viewport.New(50, 4),
		visible: true,
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Info).
			Padding(0, 1),
		title: lipgloss.NewStyle().Foreground(palette.Info).Bold(true),
		muted: lipgloss.NewStyle().Foreground(palette.TextMuted),
		tag:   lipgloss.NewStyle().Foreground(palette.Primary),
		levels: map[zapcore.Level]lipgloss.Style{
			zapcore.DebugLevel: lipgloss.NewStyle().Foreground(palette.TextMuted),
			zapcore.InfoLevel:  lipgloss.NewStyle().Foreground(palette.Text),
			zapcore.WarnLevel:  lipgloss.NewStyle().Foreground(palette.Warning).Bold(true),
			zapcore.ErrorLevel: lipgloss.NewStyle().Foreground(palette.Error).Bold(true),
		},
	}
}

// SetMinLevel задаёт порог: записи ниже него не показываются.
func (p *LogPanel) SetMinLevel(level zapcore.Level) { p.min = level }

func (p *LogPanel) SetSize(width, height int) {
	p.height = height
	if width > 4 {
		p.frame = p.frame.Width(width - 4)
	}
	// рамка, отступы и заголовок
	p.view.Width = max(width-8, 10)
	p.view.Height = max(height-3, 2)
}

func (p *LogPanel) Toggle()         { p.visible = !p.visible }
func (p *LogPanel) IsVisible() bool { return p.visible }

// GetHeight: высота для раскладки экрана, 0 когда панель скрыта.
func (p *LogPanel) GetHeight() int {
	if !p.visible {
		return 0
	}
	return p.height
}

func (p *LogPanel) View() string {
	if !p.visible {
		return ""
	}

	rows := p.rows(true)
	switch {
	case p.buffer == nil:
		p.view.SetContent(p.muted.Render("log buffer is not attached"))
	case len(rows) == 0:
		p.view.SetContent(p.muted.Render("nothing at " + p.min.CapitalString() + " or above"))
	default:
		p.view.SetContent(strings.Join(rows, "\n"))
		p.view.GotoBottom()
	}

	return p.frame.Render(lipgloss.JoinVertical(lipgloss.Left,
		p.title.Render("Logs ≥ "+p.min.CapitalString()+" [ctrl+l]"),
		p.view.View(),
	))
}

// Lines возвращает видимые строки без стилей, от старых к новым.
func (p *LogPanel) Lines() []string { return p.rows(false) }

func (p *LogPanel) rows(styled bool) []string {
	if p.buffer == nil {
		return nil
	}
	var out []string
	for _, e := range p.buffer.GetRecentLogs(logPanelTail) {
		level := entryLevel(e.Level)
		if level < p.min {
			continue
		}

		ts, msg, tags := e.Timestamp.Format("15:04:05"), e.Message, entryTags(e.Fields)
		if styled {
			ts = p.muted.Render(ts)
			msg = p.levelStyle(level).Render(msg)
			if tags != "" {
				tags = p.tag.Render(tags)
			}
		}
		line := ts + " " + msg
		if tags != "" {
			line += " " + tags
		}
		out = append(out, line)
	}
	return out
}

func (p *LogPanel) levelStyle(level zapcore.Level) lipgloss.Style {
	if level > zapcore.ErrorLevel {
		level = zapcore.ErrorLevel
	}
	return p.levels[level]
}

// entryLevel разбирает уровень из JSON-строки zap. Неизвестное считается info.
func entryLevel(s string) zapcore.Level {
	s = strings.ToLower(s)
	if s == "warning" {
		return zapcore.WarnLevel
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func entryTags(fields map[string]interface{}) string {
	var tags []string
	for _, f := range [...]struct{ key, label string }{{"mint", "mint"}, {"signature", "sig"}} {
		if v, ok := fields[f.key].(string); ok && v != "" {
			tags = append(tags, f.label+"="+shorten(v))
		}
	}
	return strings.Join(tags, " ")
}

// shorten оставляет начало и конец base58-строки: 5xYz…Q9aB.
func shorten(s string) string {
	if len(s) <= 12 {
		return s
	}
	return s[:4] + "…" + s[len(s)-4:]
}

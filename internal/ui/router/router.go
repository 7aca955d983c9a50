// internal/ui/router/router.go
package router

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
)

// Screen: экран, который роутер держит в стеке.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

type entry struct {
	route  ui.Route
	screen Screen
}

// Router хранит стек открытых экранов, каждый помечен своим маршрутом.
// Один маршрут встречается в стеке не больше одного раза: повторное открытие
// сворачивает стек до уже открытого экрана, и тот сохраняет состояние.
// Переходы по RouterMsg выполняет корневая модель.
type Router struct {
	entries []entry
	width   int
	height  int
}

func New(route ui.Route, root Screen) *Router {
	return &Router{entries: []entry{{route: route, screen: root}}}
}

func (r *Router) Init() tea.Cmd {
	return r.top().screen.Init()
}

// Update обрабатывает размер окна и Esc, остальное уходит верхнему экрану.
func (r *Router) Update(msg tea.Msg) (*Router, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return r, nil
	case tea.KeyMsg:
		if msg.String() == "esc" && r.Back() {
			return r, nil
		}
	}

	top := r.top()
	updated, cmd := top.screen.Update(msg)
	top.screen = updated
	return r, cmd
}

func (r *Router) View() string {
	return r.top().screen.View()
}

// SetSize запоминает размер и передаёт его верхнему экрану. Нижние экраны
// получат размер, когда снова окажутся наверху.
func (r *Router) SetSize(width, height int) {
	r.width, r.height = width, height
	r.top().screen.SetSize(width, height)
}

// Open показывает экран маршрута. Если маршрут уже открыт, стек сворачивается
// до него без повторного Init. Иначе build создаёт экран, и он кладётся наверх.
func (r *Router) Open(route ui.Route, build func() Screen) tea.Cmd {
	for i := range r.entries {
		if r.entries[i].route == route {
			r.unwind(i + 1)
			return nil
		}
	}

	screen := build()
	screen.SetSize(r.width, r.height)
	r.entries = append(r.entries, entry{route: route, screen: screen})
	return screen.Init()
}

// Back закрывает верхний экран. Корневой экран не закрывается: false.
func (r *Router) Back() bool {
	if !r.CanGoBack() {
		return false
	}
	r.unwind(len(r.entries) - 1)
	return true
}

// Home оставляет в стеке только корневой экран.
func (r *Router) Home() {
	r.unwind(1)
}

func (r *Router) unwind(depth int) {
	if depth >= len(r.entries) {
		return
	}
	r.entries = r.entries[:depth]
	r.top().screen.SetSize(r.width, r.height)
}

func (r *Router) top() *entry {
	return &r.entries[len(r.entries)-1]
}

func (r *Router) Current() Screen { return r.top().screen }

// Route возвращает маршрут верхнего экрана.
func (r *Router) Route() ui.Route { return r.top().route }

func (r *Router) Depth() int { return len(r.entries) }

func (r *Router) CanGoBack() bool { return len(r.entries) > 1 }

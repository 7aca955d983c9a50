// internal/ui/component/form.go
package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/solana-launchpad/internal/address"
	"github.com/rovshanmuradov/solana-launchpad/internal/amount"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/style"
)

// FieldKind определяет ввод и встроенную проверку поля.
type FieldKind int

const (
	FieldText    FieldKind = iota
	FieldAddress           // base58-адрес, проверяется address.Parse
	FieldAmount            // неотрицательное десятичное число
	FieldToggle            // флажок, переключается пробелом
)

type field struct {
	key   string
	label string
	kind  FieldKind
	check func(string) error
	input textinput.Model
	on    bool
	err   string
}

func (f *field) typed() bool { return f.kind != FieldToggle }

func (f *field) value() string {
	if !f.typed() {
		if f.on {
			return "true"
		}
		return "false"
	}
	return strings.TrimSpace(f.input.Value())
}

// validate: пустое значение, затем проверка вида поля и дополнительная проверка.
func (f *field) validate() string {
	if !f.typed() {
		return ""
	}
	v := f.value()
	if v == "" {
		return f.label + " is required"
	}
	switch f.kind {
	case FieldAddress:
		if _, err := address.Parse(v); err != nil {
			return "not a valid Solana address"
		}
	case FieldAmount:
		if _, err := amount.ParseBaseUnits(v, 0); err != nil {
			return "enter a non-negative number, e.g. 1000 or 2.5"
		}
	}
	if f.check != nil {
		if err := f.check(v); err != nil {
			return err.Error()
		}
	}
	return ""
}

// Form: поля ввода экранов создания токена и перевода. Пока операция в полёте,
// форма заблокирована и ввод игнорируется.
type Form struct {
	fields []*field
	focus  int
	locked bool

	label   lipgloss.Style
	box     lipgloss.Style
	focused lipgloss.Style
	errText lipgloss.Style
}

func NewForm() *Form {
	palette := style.DefaultPalette()
	box := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(palette.TextMuted)

	return &Form{
		label:   lipgloss.NewStyle().Foreground(palette.Text).Bold(true),
		box:     box,
		focused: box.BorderForeground(palette.Primary),
		errText: lipgloss.NewStyle().Foreground(palette.Error),
	}
}

func (f *Form) add(key, label string, kind FieldKind, hint string) *Form {
	fl := &field{key: key, label: label, kind: kind}
	if fl.typed() {
		fl.input = textinput.New()
		fl.input.Placeholder = hint
		fl.input.Width = 44
	}
	f.fields = append(f.fields, fl)
	if len(f.fields) == 1 {
		f.focusField(0)
	}
	return f
}

// Text добавляет обязательное текстовое поле.
func (f *Form) Text(key, label, hint string) *Form { return f.add(key, label, FieldText, hint) }

// Address добавляет поле адреса (минт или кошелёк).
func (f *Form) Address(key, label string) *Form {
	return f.add(key, label, FieldAddress, "base58 address")
}

// Amount добавляет поле количества в целых токенах.
func (f *Form) Amount(key, label, hint string) *Form { return f.add(key, label, FieldAmount, hint) }

// Toggle добавляет флажок, по умолчанию выключенный.
func (f *Form) Toggle(key, label string) *Form { return f.add(key, label, FieldToggle, "") }

// Check добавляет полю проверку поверх встроенной.
func (f *Form) Check(key string, fn func(string) error) *Form {
	if fl := f.find(key); fl != nil {
		fl.check = fn
	}
	return f
}

// Set задаёт значение поля; для флажка "true" включает его.
func (f *Form) Set(key, value string) *Form {
	fl := f.find(key)
	if fl == nil {
		return f
	}
	if fl.typed() {
		fl.input.SetValue(value)
	} else {
		fl.on = value == "true"
	}
	fl.err = ""
	return f
}

// Value возвращает значение поля без пробелов по краям.
func (f *Form) Value(key string) string {
	if fl := f.find(key); fl != nil {
		return fl.value()
	}
	return ""
}

// On сообщает, включён ли флажок.
func (f *Form) On(key string) bool {
	fl := f.find(key)
	return fl != nil && fl.on
}

func (f *Form) find(key string) *field {
	for _, fl := range f.fields {
		if fl.key == key {
			return fl
		}
	}
	return nil
}

// Lock блокирует ввод на время отправки.
func (f *Form) Lock() {
	f.locked = true
	if len(f.fields) > 0 {
		f.fields[f.focus].input.Blur()
	}
}

// Unlock возвращает форме фокус после завершения операции.
func (f *Form) Unlock() {
	f.locked = false
	if len(f.fields) > 0 {
		f.focusField(f.focus)
	}
}

func (f *Form) Locked() bool { return f.locked }

// SetWidth подгоняет ширину полей ввода под экран.
func (f *Form) SetWidth(width int) {
	w := width - 4
	if w <= 10 {
		return
	}
	for _, fl := range f.fields {
		if fl.typed() {
			fl.input.Width = w
		}
	}
}

func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if f.locked || len(f.fields) == 0 {
		return f, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return f, nil
	}

	current := f.fields[f.focus]
	switch keyMsg.String() {
	case "tab", "down", "enter":
		f.focusField((f.focus + 1) % len(f.fields))
		return f, nil
	case "shift+tab", "up":
		f.focusField((f.focus - 1 + len(f.fields)) % len(f.fields))
		return f, nil
	case " ", "space":
		if !current.typed() {
			current.on = !current.on
			return f, nil
		}
	}
	if !current.typed() {
		return f, nil
	}

	var cmd tea.Cmd
	current.input, cmd = current.input.Update(keyMsg)
	current.err = ""
	return f, cmd
}

func (f *Form) focusField(i int) {
	if f.focus < len(f.fields) {
		f.fields[f.focus].input.Blur()
	}
	f.focus = i
	if fl := f.fields[i]; fl.typed() && !f.locked {
		fl.input.Focus()
	}
}

// Validate проверяет все поля и запоминает ошибки для отображения.
func (f *Form) Validate() bool {
	ok := true
	for _, fl := range f.fields {
		fl.err = fl.validate()
		if fl.err != "" {
			ok = false
		}
	}
	return ok
}

func (f *Form) View() string {
	var b strings.Builder
	for i, fl := range f.fields {
		box := f.box
		if i == f.focus && !f.locked {
			box = f.focused
		}

		if fl.typed() {
			b.WriteString(f.label.Render(fl.label))
			b.WriteString("\n")
			b.WriteString(box.Render(fl.input.View()))
		} else {
			mark := "[ ]"
			if fl.on {
				mark = "[x]"
			}
			b.WriteString(box.Render(mark + " " + fl.label))
		}
		b.WriteString("\n")

		if fl.err != "" {
			b.WriteString(f.errText.Render("⚠ " + fl.err))
			b.WriteString("\n")
		}
	}
	return b.String()
}

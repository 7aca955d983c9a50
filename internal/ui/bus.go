// internal/ui/bus.go
package ui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Bus доставляет сообщения из фоновых операций в цикл bubbletea.
// Send никогда не блокирует: при полном канале сообщение отбрасывается,
// чтобы наблюдатель стадий не задерживал отправку транзакции.
type Bus struct {
	ch      chan tea.Msg
	sent    atomic.Uint64
	dropped atomic.Uint64
	logger  *zap.Logger
}

// NewBus creates a new non-blocking bus
func NewBus(size int, logger *zap.Logger) *Bus {
	if size <= 0 {
		size = 64
	}
	return &Bus{
		ch:     make(chan tea.Msg, size),
		logger: logger.Named("ui-bus"),
	}
}

// Send sends a message to UI without blocking
func (b *Bus) Send(msg tea.Msg) {
	select {
	case b.ch <- msg:
		b.sent.Add(1)
	default:
		if b.dropped.Add(1) == 1 {
			b.logger.Warn("UI bus is full, dropping updates")
		}
	}
}

// Listen returns a tea.Cmd that waits for the next bus message
func (b *Bus) Listen() tea.Cmd {
	return func() tea.Msg {
		return <-b.ch
	}
}

// GetStats returns current statistics
func (b *Bus) GetStats() (sent, dropped uint64) {
	return b.sent.Load(), b.dropped.Load()
}

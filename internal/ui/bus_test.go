package ui

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestBusSendNonBlocking(t *testing.T) {
	bus := NewBus(10, zap.NewNop())

	// Fill the channel
	for i := 0; i < 10; i++ {
		bus.Send(PhaseMsg{Op: OpCreate})
	}

	// These should be dropped without blocking
	start := time.Now()
	for i := 0; i < 100; i++ {
		bus.Send(PhaseMsg{Op: OpTransfer})
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Send blocked for %v, expected non-blocking", elapsed)
	}

	sent, dropped := bus.GetStats()
	if sent != 10 || dropped != 100 {
		t.Errorf("expected 10 sent and 100 dropped, got %d and %d", sent, dropped)
	}
}

func TestBusConcurrent(t *testing.T) {
	bus := NewBus(100, zap.NewNop())

	var wg sync.WaitGroup
	numGoroutines := 10
	messagesPerGoroutine := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < messagesPerGoroutine; j++ {
				bus.Send(PhaseMsg{Op: OpTransfer})
			}
		}()
	}
	wg.Wait()

	sent, dropped := bus.GetStats()
	if total := sent + dropped; total != uint64(numGoroutines*messagesPerGoroutine) {
		t.Errorf("expected %d total messages, got %d (sent: %d, dropped: %d)",
			numGoroutines*messagesPerGoroutine, total, sent, dropped)
	}
}

func TestBusListen(t *testing.T) {
	bus := NewBus(4, zap.NewNop())
	bus.Send(PhaseMsg{Op: OpCreate})

	msg := bus.Listen()()
	phase, ok := msg.(PhaseMsg)
	if !ok {
		t.Fatalf("expected PhaseMsg, got %T", msg)
	}
	if phase.Op != OpCreate {
		t.Errorf("expected op %q, got %q", OpCreate, phase.Op)
	}
}

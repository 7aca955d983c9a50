// internal/ui/msg.go
package ui

import (
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
	"github.com/rovshanmuradov/solana-launchpad/internal/export"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
}

// Operation names used in PhaseMsg.
const (
	OpCreate   = "create"
	OpTransfer = "transfer"
)

// PhaseMsg сообщает о смене стадии отправки. Приходит через Bus из горутины,
// в которой выполняется операция.
type PhaseMsg struct {
	Op        string
	Phase     transaction.Phase
	Signature solana.Signature
}

// CreateDoneMsg: итог создания токена.
type CreateDoneMsg struct {
	Result domain.CreateResult
	Err    error
}

// TransferDoneMsg: итог перевода.
type TransferDoneMsg struct {
	Outcome domain.Outcome
	Err     error
}

// HoldingsMsg carries a holdings refresh. Seq identifies the request so a
// screen can drop answers to requests it no longer waits for.
type HoldingsMsg struct {
	Seq       uint64
	Rows      []export.Row
	UpdatedAt time.Time
	Err       error
}

// ExportDoneMsg: результат выгрузки балансов в файл.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// Route represents different screens in the application
type Route int

const (
	RouteMainMenu Route = iota
	RouteCreateToken
	RouteTransfer
	RouteHoldings
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteMainMenu:
		return "main_menu"
	case RouteCreateToken:
		return "create_token"
	case RouteTransfer:
		return "transfer"
	case RouteHoldings:
		return "holdings"
	default:
		return "unknown"
	}
}

// internal/ui/services.go
package ui

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
	"github.com/rovshanmuradov/solana-launchpad/internal/export"
	"github.com/rovshanmuradov/solana-launchpad/internal/launchpad"
	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
)

// Launchpad: операции ядра, которые вызывают экраны.
type Launchpad interface {
	CreateToken(ctx context.Context, spec domain.TokenMintSpec, opts ...launchpad.Option) (domain.CreateResult, error)
	TransferToken(ctx context.Context, req domain.TransferRequest, opts ...launchpad.Option) (domain.Outcome, error)
	RefreshHoldings(ctx context.Context, owner solana.PublicKey) ([]domain.HoldingRecord, error)
	Holdings() ([]domain.HoldingRecord, time.Time)
	Owner() solana.PublicKey
	Cluster() blockchain.Cluster
}

// HoldingsExporter форматирует балансы для показа и выгрузки.
type HoldingsExporter interface {
	Rows(ctx context.Context, records []domain.HoldingRecord) ([]export.Row, error)
	ExportToFile(rows []export.Row, format export.ExportFormat, owner solana.PublicKey, outputDir string) (string, error)
}

// Services provides access to the launchpad services for UI screens
type Services struct {
	Ctx       context.Context
	Launchpad Launchpad
	Exporter  HoldingsExporter
	Logs      *logger.LogBuffer
	Bus       *Bus
	Logger    *zap.Logger
	ExportDir string
}

// Context returns the root context, never nil.
func (s *Services) Context() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}

// Observer returns a launchpad option that forwards submission phases to the bus.
func (s *Services) Observer(op string) launchpad.Option {
	return launchpad.WithPhaseObserver(func(phase transaction.Phase, sig solana.Signature) {
		if s.Bus != nil {
			s.Bus.Send(PhaseMsg{Op: op, Phase: phase, Signature: sig})
		}
	})
}

// internal/blockchain/solbc/transaction/coordinator.go
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

// Coordinator проводит собранный юнит через подпись, отправку и ожидание
// подтверждения. Одна попытка, без автоматических повторов: повтор означает
// новую сборку со свежим blockhash на стороне вызывающего.
//
//	Sending -> AwaitingConfirmation -> Confirmed | Rejected | TimedOut
//
// Ошибки до отправки дают StateNotSubmitted.
type Coordinator struct {
	signer    Signer
	ledger    LedgerReader
	logger    *zap.Logger
	config    Config
	validator *Validator
	monitor   *Monitor
	metrics   *Metrics
	now       func() time.Time
}

func NewCoordinator(signer Signer, ledger LedgerReader, config Config, metrics *Metrics, logger *zap.Logger) *Coordinator {
	config = config.WithDefaults()
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Coordinator{
		signer:    signer,
		ledger:    ledger,
		logger:    logger.Named("tx-coordinator"),
		config:    config,
		validator: NewValidator(logger),
		monitor:   NewMonitor(ledger, logger, config, metrics),
		metrics:   metrics,
		now:       time.Now,
	}
}

// Submit отправляет юнит и возвращает ровно один исход. coSigners содержит дополнительные
// ключи (например, ключ нового минта); они используются только для этой подписи.
func (c *Coordinator) Submit(ctx context.Context, unit *Unit, coSigners []solana.PrivateKey) domain.Outcome {
	return c.SubmitObserved(ctx, unit, coSigners, nil)
}

// SubmitObserved: Submit с уведомлениями о смене стадии.
func (c *Coordinator) SubmitObserved(ctx context.Context, unit *Unit, coSigners []solana.PrivateKey, observe PhaseObserver) (outcome domain.Outcome) {
	start := c.now()
	defer func() {
		c.metrics.TrackOutcome(start, outcome)
		if observe != nil {
			observe(PhaseDone, outcome.Signature)
		}
	}()

	if unit == nil {
		return domain.Failed(domain.StateNotSubmitted, fmt.Errorf("%w: nothing to submit", domain.ErrInvalidInput))
	}
	if !unit.claim() {
		c.logger.Warn("Refusing to submit a unit twice")
		return domain.Failed(domain.StateNotSubmitted, fmt.Errorf("%w: unit was already submitted", domain.ErrStaleAssembly))
	}

	if err := c.validator.ValidateUnit(unit, c.signer.PublicKey()); err != nil {
		c.logger.Error("Transaction validation failed", zap.Error(err))
		return domain.Failed(domain.StateNotSubmitted, err)
	}

	if err := unit.checkAge(ctx, c.ledger, c.config.BlockhashMaxAge, c.now()); err != nil {
		c.logger.Warn("Unit is not fresh", zap.Error(err))
		return domain.Failed(domain.StateNotSubmitted, notSubmittedError(err))
	}

	if observe != nil {
		observe(PhaseSending, solana.Signature{})
	}
	sig, err := c.signer.AuthorizeAndSend(ctx, unit.Transaction(), coSigners)
	if err != nil {
		return c.sendFailure(err)
	}

	c.logger.Info("Transaction sent, awaiting confirmation",
		zap.String("signature", sig.String()),
		zap.String("commitment", string(c.config.Commitment)))
	if observe != nil {
		observe(PhaseAwaitingConfirmation, sig)
	}

	conf, err := c.monitor.AwaitConfirmation(ctx, sig)
	if err != nil {
		if errors.Is(err, ErrAbandoned) {
			c.logger.Warn("Confirmation abandoned; the transaction may still land",
				zap.String("signature", sig.String()))
		} else {
			c.logger.Warn("Confirmation timeout; the transaction may still land",
				zap.String("signature", sig.String()), zap.Error(err))
		}
		outcome = domain.Failure(domain.StateTimedOut, sig, err)
		outcome.ExplorerURL = c.config.Cluster.ExplorerTxURL(sig)
		return outcome
	}

	if conf.Failed() {
		execErr := fmt.Errorf("%w: %v", domain.ErrExecutionRejected, conf.Err)
		c.logger.Error("Transaction failed on chain",
			zap.String("signature", sig.String()),
			zap.Any("err", conf.Err))
		outcome = domain.Failure(domain.StateRejected, sig, execErr)
		outcome.ExplorerURL = c.config.Cluster.ExplorerTxURL(sig)
		return outcome
	}

	c.logger.Info("Transaction confirmed",
		zap.String("signature", sig.String()),
		zap.Uint64("slot", conf.Slot),
		zap.String("status", string(conf.Status)))
	return domain.Succeeded(sig, c.config.Cluster.ExplorerTxURL(sig))
}

// sendFailure классифицирует ошибку подписи/отправки. Подпись неизвестна, поэтому
// ожидание подтверждения не запускается.
func (c *Coordinator) sendFailure(err error) domain.Outcome {
	switch domain.KindOf(err) {
	case domain.KindSignerRejected:
		c.logger.Info("Signer declined the transaction", zap.Error(err))
		return domain.Failed(domain.StateRejected, err)
	case domain.KindExecutionRejected:
		c.logger.Error("Preflight simulation rejected the transaction", zap.Error(err))
		return domain.Failed(domain.StateRejected, err)
	case domain.KindStaleAssembly:
		c.logger.Warn("Blockhash expired before broadcast", zap.Error(err))
		return domain.Failed(domain.StateNotSubmitted, err)
	case domain.KindNetworkFailure:
		c.logger.Error("Failed to send transaction", zap.Error(err))
		return domain.Failed(domain.StateRejected, err)
	default:
		c.logger.Error("Failed to send transaction", zap.Error(err))
		return domain.Failed(domain.StateRejected, fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err))
	}
}

func notSubmittedError(err error) error {
	if domain.KindOf(err) == domain.KindUnknown {
		return fmt.Errorf("%w: %w", domain.ErrNetworkFailure, err)
	}
	return err
}

// internal/blockchain/solbc/transaction/monitor.go
package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

// ErrAbandoned: ожидание подтверждения прервано вызывающей стороной.
// Всегда оборачивается вместе с domain.ErrConfirmationTimeout.
var ErrAbandoned = errors.New("confirmation abandoned")

var errPending = errors.New("transaction not yet confirmed")

type Monitor struct {
	ledger  LedgerReader
	logger  *zap.Logger
	config  Config
	metrics *Metrics
}

func NewMonitor(ledger LedgerReader, logger *zap.Logger, config Config, metrics *Metrics) *Monitor {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Monitor{
		ledger:  ledger,
		logger:  logger.Named("tx-monitor"),
		config:  config.WithDefaults(),
		metrics: metrics,
	}
}

// AwaitConfirmation опрашивает статус подписи с постоянным интервалом, пока транзакция
// не достигнет нужного уровня подтверждения. Ограничения: MaxAttempts опросов и
// ConfirmTimeout общего времени. Ошибка опроса не прерывает ожидание.
//
// Возвращённая Confirmation может содержать Err: это ошибка исполнения, а не ожидания.
func (m *Monitor) AwaitConfirmation(ctx context.Context, signature solana.Signature) (blockchain.Confirmation, error) {
	polls := 0
	operation := func() (blockchain.Confirmation, error) {
		polls++
		m.metrics.TrackPoll()

		conf, err := m.ledger.Confirm(ctx, signature)
		if err != nil {
			return conf, err
		}
		if conf.Reached(m.config.Commitment) {
			return conf, nil
		}
		return conf, errPending
	}

	conf, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(m.config.ConfirmInterval)),
		backoff.WithMaxTries(m.config.MaxAttempts),
		backoff.WithMaxElapsedTime(m.config.ConfirmTimeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			if !errors.Is(err, errPending) {
				m.logger.Warn("Confirmation check failed",
					zap.String("signature", signature.String()),
					zap.Duration("next", next),
					zap.Error(err))
			}
		}),
	)
	if err == nil {
		return conf, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return conf, fmt.Errorf("%w: %w after %d polls: %w", domain.ErrConfirmationTimeout, ErrAbandoned, polls, ctxErr)
	}
	if errors.Is(err, errPending) {
		return conf, fmt.Errorf("%w: not %s after %d polls", domain.ErrConfirmationTimeout, m.config.Commitment, polls)
	}
	return conf, fmt.Errorf("%w: last poll failed after %d polls: %v", domain.ErrConfirmationTimeout, polls, err)
}

// internal/launchpad/service.go
package launchpad

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
	"github.com/rovshanmuradov/solana-launchpad/internal/holdings"
)

// Ledger: всё, что сервису нужно читать из сети. Реализуется solbc.Client.
type Ledger interface {
	transaction.LedgerReader
	GetFreshnessToken(ctx context.Context) (blockchain.FreshnessToken, error)
	GetMinimumRentExemptBalance(ctx context.Context, size uint64) (uint64, error)
	GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*blockchain.AccountRecord, error)
	GetHoldingAccounts(ctx context.Context, owner solana.PublicKey) ([]blockchain.AccountRecord, error)
}

// Service реализует ядро лаунчпада: создание токена, перевод, балансы.
// Состояния между вызовами не хранит, кроме отображаемого набора балансов.
type Service struct {
	ledger      Ledger
	signer      transaction.Signer
	assembler   *transaction.Assembler
	coordinator *transaction.Coordinator
	query       *holdings.Query
	store       *holdings.Store
	cluster     blockchain.Cluster
	logger      *zap.Logger

	newMintKey func() (solana.PrivateKey, error)
}

func NewService(ledger Ledger, signer transaction.Signer, config transaction.Config, metrics *transaction.Metrics, logger *zap.Logger) *Service {
	config = config.WithDefaults()
	return &Service{
		ledger:      ledger,
		signer:      signer,
		assembler:   transaction.NewAssembler(config, logger),
		coordinator: transaction.NewCoordinator(signer, ledger, config, metrics, logger),
		query:       holdings.NewQuery(ledger, logger),
		store:       holdings.NewStore(logger),
		cluster:     config.Cluster,
		logger:      logger.Named("launchpad"),
		newMintKey:  solana.NewRandomPrivateKey,
	}
}

// Option настраивает один вызов сервиса.
type Option func(*callOptions)

type callOptions struct {
	observe transaction.PhaseObserver
}

// WithPhaseObserver передаёт смену стадий отправки (для индикатора в UI).
func WithPhaseObserver(observe transaction.PhaseObserver) Option {
	return func(o *callOptions) { o.observe = observe }
}

func collect(opts []Option) callOptions {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Owner: кошелёк, от имени которого работает сервис.
func (s *Service) Owner() solana.PublicKey {
	return s.signer.PublicKey()
}

// Cluster: сеть, для которой строятся ссылки на эксплорер.
func (s *Service) Cluster() blockchain.Cluster {
	return s.cluster
}

// RefreshHoldings перечитывает балансы владельца и применяет их к отображаемому
// набору, если за это время не успел примениться более свежий ответ.
func (s *Service) RefreshHoldings(ctx context.Context, owner solana.PublicKey) ([]domain.HoldingRecord, error) {
	seq := s.store.Begin()

	records, err := s.query.FetchHoldings(ctx, owner)
	if err != nil {
		return nil, err
	}

	if s.store.Apply(seq, records) {
		s.logger.Info("Holdings refreshed",
			zap.String("owner", owner.String()),
			zap.Int("count", len(records)))
	}

	shown, reads, writes, discarded := s.store.GetStats()
	s.logger.Debug("Holdings store stats",
		zap.Uint64("seq", seq),
		zap.Uint64("shown", shown),
		zap.Uint64("reads", reads),
		zap.Uint64("writes", writes),
		zap.Uint64("discarded", discarded))
	return records, nil
}

// Holdings возвращает последний применённый набор балансов.
func (s *Service) Holdings() ([]domain.HoldingRecord, time.Time) {
	return s.store.Snapshot()
}

// prepFailure: ошибка подготовки до отправки. Транспортная ошибка дополнительно
// возвращается как error: это отдельный, фатальный для вызова вид.
func prepFailure(err error) (domain.Outcome, error) {
	outcome := domain.Failed(domain.StateNotSubmitted, err)
	if outcome.Kind == domain.KindNetworkFailure {
		return outcome, err
	}
	return outcome, nil
}

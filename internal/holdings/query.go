// internal/holdings/query.go
package holdings

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

// AccountLister: источник токен-аккаунтов владельца. Реализуется solbc.Client.
type AccountLister interface {
	GetHoldingAccounts(ctx context.Context, owner solana.PublicKey) ([]blockchain.AccountRecord, error)
}

// DefaultFetchTimeout ограничивает общий запрос, который больше не привязан
// к контексту первого вызывающего.
const DefaultFetchTimeout = 30 * time.Second

// Query читает балансы владельца. Одновременные запросы по одному владельцу
// схлопываются в один RPC-вызов, пока владелец не помечен через Invalidate.
type Query struct {
	ledger  AccountLister
	logger  *zap.Logger
	group   singleflight.Group
	timeout time.Duration

	mu          sync.Mutex
	generations map[solana.PublicKey]uint64
}

func NewQuery(ledger AccountLister, logger *zap.Logger) *Query {
	return &Query{
		ledger:      ledger,
		logger:      logger.Named("holdings"),
		timeout:     DefaultFetchTimeout,
		generations: make(map[solana.PublicKey]uint64),
	}
}

// Invalidate отмечает, что состояние владельца в сети изменилось (например,
// после отправленной транзакции). Запросы, начатые после этого, не
// присоединяются к уже летящему чтению и видят новое состояние.
func (q *Query) Invalidate(owner solana.PublicKey) {
	q.mu.Lock()
	q.generations[owner]++
	gen := q.generations[owner]
	q.mu.Unlock()

	q.logger.Debug("Holdings invalidated",
		zap.String("owner", owner.String()),
		zap.Uint64("generation", gen))
}

func (q *Query) flightKey(owner solana.PublicKey) string {
	q.mu.Lock()
	gen := q.generations[owner]
	q.mu.Unlock()
	return fmt.Sprintf("%s#%d", owner, gen)
}

// FetchHoldings возвращает балансы владельца, отсортированные по минту, затем по аккаунту.
// Пустой результат: пустой срез, не nil. Ошибка только при недоступности сети.
// Отмена ctx прерывает ожидание только этого вызывающего; общий запрос
// продолжается для остальных.
func (q *Query) FetchHoldings(ctx context.Context, owner solana.PublicKey) ([]domain.HoldingRecord, error) {
	ch := q.group.DoChan(q.flightKey(owner), func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), q.timeout)
		defer cancel()
		return q.fetch(fetchCtx, owner)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		q.logger.Debug("Holdings request coalesced", zap.String("owner", owner.String()))
	}

	// Каждый вызывающий получает свою копию.
	records := res.Val.([]domain.HoldingRecord)
	out := make([]domain.HoldingRecord, len(records))
	copy(out, records)
	return out, nil
}

func (q *Query) fetch(ctx context.Context, owner solana.PublicKey) ([]domain.HoldingRecord, error) {
	raw, err := q.ledger.GetHoldingAccounts(ctx, owner)
	if err != nil {
		q.logger.Warn("Failed to list token accounts",
			zap.String("owner", owner.String()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrQueryUnavailable, err)
	}

	records := make([]domain.HoldingRecord, 0, len(raw))
	for _, rec := range raw {
		h, err := DecodeHolding(rec)
		if err != nil {
			q.logger.Warn("Skipping undecodable token account",
				zap.String("account", rec.Address.String()),
				zap.Error(err))
			continue
		}
		records = append(records, h)
	}

	SortRecords(records)

	q.logger.Debug("Holdings fetched",
		zap.String("owner", owner.String()),
		zap.Int("accounts", len(raw)),
		zap.Int("decoded", len(records)))
	return records, nil
}

// SortRecords упорядочивает записи по минту, затем по адресу аккаунта.
func SortRecords(records []domain.HoldingRecord) {
	sort.Slice(records, func(i, j int) bool {
		if c := bytes.Compare(records[i].Mint[:], records[j].Mint[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(records[i].Account[:], records[j].Account[:]) < 0
	})
}

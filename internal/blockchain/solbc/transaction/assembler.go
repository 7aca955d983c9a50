// internal/blockchain/solbc/transaction/assembler.go
package transaction

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

// Unit: собранная, но ещё не подписанная транзакция. Отправляется не более одного раза.
type Unit struct {
	tx          *solana.Transaction
	payer       solana.PublicKey
	freshness   blockchain.FreshnessToken
	assembledAt time.Time
	prefixLen   int
	consumed    atomic.Bool
}

// Transaction возвращает транзакцию юнита.
func (u *Unit) Transaction() *solana.Transaction { return u.tx }

// Payer возвращает плательщика комиссии.
func (u *Unit) Payer() solana.PublicKey { return u.payer }

// Freshness возвращает токен свежести, которым помечена транзакция.
func (u *Unit) Freshness() blockchain.FreshnessToken { return u.freshness }

// PrefixLen: число инструкций compute budget, добавленных перед инструкциями вызывающего.
func (u *Unit) PrefixLen() int { return u.prefixLen }

// Consumed сообщает, передавался ли юнит координатору.
func (u *Unit) Consumed() bool { return u.consumed.Load() }

// claim помечает юнит как использованный; false, если это уже было сделано.
func (u *Unit) claim() bool {
	return u.consumed.CompareAndSwap(false, true)
}

// CheckFresh проверяет, что юнит ещё можно отправить: его не отправляли,
// локальный возраст не превышает maxAge, а высота блока не ушла за LastValidBlockHeight.
func (u *Unit) CheckFresh(ctx context.Context, heights BlockHeightReader, maxAge time.Duration, now time.Time) error {
	if u.Consumed() {
		return fmt.Errorf("%w: unit was already submitted", domain.ErrStaleAssembly)
	}
	return u.checkAge(ctx, heights, maxAge, now)
}

func (u *Unit) checkAge(ctx context.Context, heights BlockHeightReader, maxAge time.Duration, now time.Time) error {
	if maxAge > 0 && now.Sub(u.assembledAt) > maxAge {
		return fmt.Errorf("%w: assembled %s ago, limit %s",
			domain.ErrStaleAssembly, now.Sub(u.assembledAt).Round(time.Millisecond), maxAge)
	}
	if heights == nil {
		return nil
	}
	height, err := heights.GetBlockHeight(ctx)
	if err != nil {
		return err
	}
	if u.freshness.Expired(height) {
		return fmt.Errorf("%w: block height %d past last valid %d",
			domain.ErrStaleAssembly, height, u.freshness.LastValidBlockHeight)
	}
	return nil
}

// Assembler собирает инструкции в транзакцию.
type Assembler struct {
	logger *zap.Logger
	config Config
	now    func() time.Time
}

func NewAssembler(config Config, logger *zap.Logger) *Assembler {
	return &Assembler{
		logger: logger.Named("tx-assembler"),
		config: config.WithDefaults(),
		now:    time.Now,
	}
}

// Assemble сохраняет порядок инструкций, ставит blockhash и назначает payer плательщиком.
// Единственное, что может быть добавлено, это префикс compute budget перед инструкциями.
func (a *Assembler) Assemble(instructions []solana.Instruction, payer solana.PublicKey, freshness blockchain.FreshnessToken) (*Unit, error) {
	if len(instructions) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, ErrInvalidInstruction)
	}
	if payer.IsZero() {
		return nil, fmt.Errorf("%w: %w", domain.ErrPreconditionUnmet, ErrInvalidFeePayer)
	}
	if freshness.Blockhash.IsZero() {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, ErrInvalidBlockhash)
	}

	prefix := a.computeBudgetPrefix()
	all := make([]solana.Instruction, 0, len(prefix)+len(instructions))
	all = append(all, prefix...)
	all = append(all, instructions...)

	tx, err := solana.NewTransaction(all, freshness.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to assemble transaction: %w", domain.ErrInvalidInput, err)
	}

	a.logger.Debug("Transaction assembled",
		zap.Int("instructions", len(all)),
		zap.Int("compute_budget_prefix", len(prefix)),
		zap.String("payer", payer.String()),
		zap.Uint64("last_valid_block_height", freshness.LastValidBlockHeight))

	return &Unit{
		tx:          tx,
		payer:       payer,
		freshness:   freshness,
		assembledAt: a.now(),
		prefixLen:   len(prefix),
	}, nil
}

func (a *Assembler) computeBudgetPrefix() []solana.Instruction {
	var prefix []solana.Instruction
	if a.config.ComputeUnitLimit > 0 {
		prefix = append(prefix, computebudget.NewSetComputeUnitLimitInstruction(a.config.ComputeUnitLimit).Build())
	}
	if a.config.PriorityFee > 0 {
		prefix = append(prefix, computebudget.NewSetComputeUnitPriceInstruction(a.config.PriorityFee).Build())
	}
	return prefix
}

// internal/wallet/signer.go
package wallet

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

// Broadcaster отправляет подписанную транзакцию в сеть. Реализуется solbc.Client.
type Broadcaster interface {
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Approver решает, подписывать ли транзакцию. false без ошибки означает отказ пользователя.
type Approver func(ctx context.Context, tx *solana.Transaction) (bool, error)

// AutoApprove одобряет всё (флаг --yes).
func AutoApprove(context.Context, *solana.Transaction) (bool, error) { return true, nil }

// LocalSigner подписывает ключом из локального файла и отправляет через Broadcaster.
type LocalSigner struct {
	wallet      *Wallet
	broadcaster Broadcaster
	approve     Approver
	logger      *zap.Logger
}

// NewLocalSigner создаёт подписанта. approve == nil означает AutoApprove.
func NewLocalSigner(w *Wallet, broadcaster Broadcaster, approve Approver, logger *zap.Logger) *LocalSigner {
	if approve == nil {
		approve = AutoApprove
	}
	return &LocalSigner{
		wallet:      w,
		broadcaster: broadcaster,
		approve:     approve,
		logger:      logger.Named("signer"),
	}
}

func (s *LocalSigner) PublicKey() solana.PublicKey {
	return s.wallet.PublicKey
}

// AuthorizeAndSend запрашивает одобрение, подписывает ключом кошелька и coSigners,
// проверяет подписи и отправляет. Отказ и нехватка ключа оборачивают domain.ErrSignerRejected.
func (s *LocalSigner) AuthorizeAndSend(ctx context.Context, tx *solana.Transaction, coSigners []solana.PrivateKey) (solana.Signature, error) {
	if tx == nil {
		return solana.Signature{}, fmt.Errorf("%w: nothing to sign", domain.ErrInvalidInput)
	}

	ok, err := s.approve(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: approval failed: %w", domain.ErrSignerRejected, err)
	}
	if !ok {
		s.logger.Info("User declined to sign")
		return solana.Signature{}, fmt.Errorf("%w: declined by user", domain.ErrSignerRejected)
	}

	if err := s.wallet.SignTransaction(tx, coSigners...); err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %w", domain.ErrSignerRejected, err)
	}
	if err := transaction.ValidateSignatures(tx); err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %w", domain.ErrSignerRejected, err)
	}

	s.logger.Debug("Transaction signed",
		zap.String("fee_payer", s.wallet.PublicKey.String()),
		zap.Int("signatures", len(tx.Signatures)))

	return s.broadcaster.SendTransaction(ctx, tx)
}

// internal/launchpad/transfer.go
package launchpad

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/solana-launchpad/internal/address"
	"github.com/rovshanmuradov/solana-launchpad/internal/amount"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
	"github.com/rovshanmuradov/solana-launchpad/internal/holdings"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

// transferAccounts: состояние сети, нужное для проверки перевода.
type transferAccounts struct {
	mint      *blockchain.AccountRecord
	source    *blockchain.AccountRecord
	recipient *blockchain.AccountRecord
}

// TransferToken переводит токены с ATA подписанта на ATA получателя,
// создавая последний при необходимости. После подтверждения балансы подписанта
// перечитываются.
func (s *Service) TransferToken(ctx context.Context, req domain.TransferRequest, opts ...Option) (domain.Outcome, error) {
	o := collect(opts)

	payer := s.signer.PublicKey()
	validated, recipientExists, err := s.validateTransfer(ctx, req, payer)
	if err != nil {
		s.logger.Info("Transfer rejected before submission", zap.Error(err))
		return prepFailure(err)
	}

	log := s.logger.With(
		zap.String("mint", validated.Mint.String()),
		zap.String("recipient", validated.Recipient.String()))
	log.Info("Transferring tokens",
		zap.Uint64("amount", validated.Amount),
		zap.Bool("create_recipient_account", !recipientExists))

	instructions, err := token.BuildTransfer(validated, payer, recipientExists)
	if err != nil {
		return prepFailure(err)
	}

	freshness, err := s.ledger.GetFreshnessToken(ctx)
	if err != nil {
		return prepFailure(err)
	}

	unit, err := s.assembler.Assemble(instructions, payer, freshness)
	if err != nil {
		return prepFailure(err)
	}

	outcome := s.coordinator.SubmitObserved(ctx, unit, nil, o.observe)
	if !outcome.Signature.IsZero() {
		s.query.Invalidate(payer)
	}
	if !outcome.Success() {
		log.Warn("Transfer failed",
			zap.String("state", outcome.State.String()),
			zap.String("kind", outcome.Kind.String()))
		return outcome, nil
	}

	log.Info("Transfer completed", zap.String("signature", outcome.Signature.String()))

	if _, err := s.RefreshHoldings(ctx, payer); err != nil {
		log.Warn("Holdings refresh after transfer failed", zap.Error(err))
	}
	return outcome, nil
}

// validateTransfer превращает сырой запрос в ValidatedTransfer. Минт должен
// существовать и принадлежать SPL Token, у отправителя должен быть ATA с
// достаточным балансом.
func (s *Service) validateTransfer(ctx context.Context, req domain.TransferRequest, payer solana.PublicKey) (domain.ValidatedTransfer, bool, error) {
	var none domain.ValidatedTransfer

	if payer.IsZero() {
		return none, false, fmt.Errorf("%w: no signer identity", domain.ErrPreconditionUnmet)
	}
	if req.Mint.IsZero() {
		return none, false, fmt.Errorf("%w: mint is required", domain.ErrInvalidInput)
	}
	recipient, err := address.ParseOwner(req.Recipient)
	if err != nil {
		return none, false, err
	}

	accounts, err := s.readTransferAccounts(ctx, req.Mint, payer, recipient)
	if err != nil {
		return none, false, err
	}

	if accounts.mint == nil {
		return none, false, fmt.Errorf("%w: mint %s does not exist", domain.ErrPreconditionUnmet, req.Mint)
	}
	mintInfo, err := holdings.DecodeMint(*accounts.mint)
	if err != nil {
		return none, false, fmt.Errorf("%w: %s is not a token mint: %w", domain.ErrPreconditionUnmet, req.Mint, err)
	}

	units, err := transferUnits(req, mintInfo.Decimals)
	if err != nil {
		return none, false, err
	}

	if accounts.source == nil {
		return none, false, fmt.Errorf("%w: sender holds no account for mint %s", domain.ErrPreconditionUnmet, req.Mint)
	}
	source, err := holdings.DecodeHolding(*accounts.source)
	if err != nil {
		return none, false, fmt.Errorf("%w: sender account: %w", domain.ErrPreconditionUnmet, err)
	}
	if source.Balance < units {
		return none, false, fmt.Errorf("%w: insufficient balance: have %s, need %s", domain.ErrInvalidInput,
			amount.FormatBaseUnits(source.Balance, mintInfo.Decimals),
			amount.FormatBaseUnits(units, mintInfo.Decimals))
	}

	return domain.ValidatedTransfer{
		Mint:      req.Mint,
		Recipient: recipient,
		Amount:    units,
		Decimals:  mintInfo.Decimals,
	}, accounts.recipient != nil, nil
}

func transferUnits(req domain.TransferRequest, decimals uint8) (uint64, error) {
	var (
		units uint64
		err   error
	)
	if req.AmountRaw != "" {
		units, err = amount.ParseBaseUnits(req.AmountRaw, decimals)
	} else {
		units, err = amount.ToBaseUnits(req.Amount, decimals)
	}
	if err != nil {
		return 0, err
	}
	if units == 0 {
		return 0, fmt.Errorf("%w: transfer amount must be positive", amount.ErrInvalidAmount)
	}
	return units, nil
}

// readTransferAccounts читает минт и оба ATA параллельно.
func (s *Service) readTransferAccounts(ctx context.Context, mint, payer, recipient solana.PublicKey) (transferAccounts, error) {
	sourceATA, err := token.AssociatedAccount(payer, mint)
	if err != nil {
		return transferAccounts{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	recipientATA, err := token.AssociatedAccount(recipient, mint)
	if err != nil {
		return transferAccounts{}, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	var accounts transferAccounts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		accounts.mint, err = s.ledger.GetAccountInfo(gctx, mint)
		return err
	})
	g.Go(func() (err error) {
		accounts.source, err = s.ledger.GetAccountInfo(gctx, sourceATA)
		return err
	})
	g.Go(func() (err error) {
		accounts.recipient, err = s.ledger.GetAccountInfo(gctx, recipientATA)
		return err
	})
	if err := g.Wait(); err != nil {
		return transferAccounts{}, err
	}
	return accounts, nil
}

// internal/launchpad/create.go
package launchpad

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

// CreateToken создаёт новый минт и выпускает начальную эмиссию на ATA плательщика
// одной транзакцией. Ожидаемые отказы возвращаются в Outcome с nil-ошибкой;
// error не nil только при транспортной ошибке на этапе подготовки.
//
// Ключ минта живёт только внутри вызова: он генерируется здесь, подписывает
// транзакцию и затирается при выходе. В логи и результат попадает лишь адрес.
func (s *Service) CreateToken(ctx context.Context, spec domain.TokenMintSpec, opts ...Option) (domain.CreateResult, error) {
	o := collect(opts)
	result := domain.CreateResult{
		Name:            spec.Name,
		Symbol:          spec.Symbol,
		Decimals:        spec.Decimals,
		FreezeAuthority: spec.FreezeAuthority,
	}

	supply, err := token.ValidateMintSpec(spec)
	if err != nil {
		s.logger.Info("Token spec rejected", zap.Error(err))
		result.Outcome, err = prepFailure(err)
		return result, err
	}
	result.Supply = supply

	payer := s.signer.PublicKey()
	if payer.IsZero() {
		result.Outcome, err = prepFailure(fmt.Errorf("%w: no signer identity", domain.ErrPreconditionUnmet))
		return result, err
	}

	mintKey, err := s.newMintKey()
	if err != nil {
		result.Outcome, err = prepFailure(fmt.Errorf("%w: failed to generate mint key: %w", domain.ErrPreconditionUnmet, err))
		return result, err
	}
	defer wipe(mintKey)
	mint := mintKey.PublicKey()
	result.Mint = mint

	log := s.logger.With(
		zap.String("mint", mint.String()),
		zap.String("symbol", spec.Symbol))
	log.Info("Creating token",
		zap.Uint8("decimals", spec.Decimals),
		zap.Uint64("supply", supply),
		zap.Bool("freeze_authority", spec.FreezeAuthority))

	rent, err := s.ledger.GetMinimumRentExemptBalance(ctx, token.MintAccountSize)
	if err != nil {
		result.Outcome, err = prepFailure(err)
		return result, err
	}

	instructions, err := token.BuildMintCreation(spec, payer, mint, rent)
	if err != nil {
		result.Outcome, err = prepFailure(err)
		return result, err
	}

	freshness, err := s.ledger.GetFreshnessToken(ctx)
	if err != nil {
		result.Outcome, err = prepFailure(err)
		return result, err
	}

	unit, err := s.assembler.Assemble(instructions, payer, freshness)
	if err != nil {
		result.Outcome, err = prepFailure(err)
		return result, err
	}

	result.Outcome = s.coordinator.SubmitObserved(ctx, unit, []solana.PrivateKey{mintKey}, o.observe)
	if !result.Signature.IsZero() {
		s.query.Invalidate(payer)
	}
	if !result.Success() {
		log.Warn("Token creation failed",
			zap.String("state", result.State.String()),
			zap.String("kind", result.Kind.String()))
		return result, nil
	}

	result.MintExplorerURL = s.cluster.ExplorerAddressURL(mint)
	log.Info("Token created",
		zap.String("signature", result.Signature.String()))
	return result, nil
}

func wipe(key solana.PrivateKey) {
	for i := range key {
		key[i] = 0
	}
}

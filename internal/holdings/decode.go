// internal/holdings/decode.go
package holdings

import (
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	splToken "github.com/gagliardetto/solana-go/programs/token"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
	"github.com/rovshanmuradov/solana-launchpad/internal/token"
)

var (
	ErrNotTokenAccount = errors.New("not an SPL token account")
	ErrNotMintAccount  = errors.New("not an SPL mint account")
)

// DecodeHolding разбирает сырые байты токен-аккаунта. Баланс всегда uint64,
// без промежуточных float.
func DecodeHolding(rec blockchain.AccountRecord) (domain.HoldingRecord, error) {
	if !rec.Owner.Equals(solana.TokenProgramID) {
		return domain.HoldingRecord{}, fmt.Errorf("%w: owned by %s", ErrNotTokenAccount, rec.Owner)
	}
	if uint64(len(rec.Data)) != token.TokenAccountSize {
		return domain.HoldingRecord{}, fmt.Errorf("%w: %d bytes", ErrNotTokenAccount, len(rec.Data))
	}

	var acc splToken.Account
	if err := bin.NewBinDecoder(rec.Data).Decode(&acc); err != nil {
		return domain.HoldingRecord{}, fmt.Errorf("%w: %w", ErrNotTokenAccount, err)
	}

	return domain.HoldingRecord{
		Mint:    acc.Mint,
		Account: rec.Address,
		Balance: acc.Amount,
	}, nil
}

// MintInfo: то, что нам нужно знать о минте.
type MintInfo struct {
	Address         solana.PublicKey
	Decimals        uint8
	Supply          uint64
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
}

// DecodeMint разбирает сырые байты минта.
func DecodeMint(rec blockchain.AccountRecord) (MintInfo, error) {
	if !rec.Owner.Equals(solana.TokenProgramID) {
		return MintInfo{}, fmt.Errorf("%w: owned by %s", ErrNotMintAccount, rec.Owner)
	}
	if uint64(len(rec.Data)) != token.MintAccountSize {
		return MintInfo{}, fmt.Errorf("%w: %d bytes", ErrNotMintAccount, len(rec.Data))
	}

	var mint splToken.Mint
	if err := bin.NewBinDecoder(rec.Data).Decode(&mint); err != nil {
		return MintInfo{}, fmt.Errorf("%w: %w", ErrNotMintAccount, err)
	}
	if !mint.IsInitialized {
		return MintInfo{}, fmt.Errorf("%w: uninitialized", ErrNotMintAccount)
	}

	return MintInfo{
		Address:         rec.Address,
		Decimals:        mint.Decimals,
		Supply:          mint.Supply,
		IsInitialized:   mint.IsInitialized,
		FreezeAuthority: mint.FreezeAuthority,
	}, nil
}

// internal/token/instructions.go
package token

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	splToken "github.com/gagliardetto/solana-go/programs/token"

	"github.com/rovshanmuradov/solana-launchpad/internal/amount"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

// Размеры аккаунтов программы SPL Token.
const (
	MintAccountSize  uint64 = 82
	TokenAccountSize uint64 = 165
)

// Ограничения на отображаемые поля токена.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
)

// ErrInvalidMintSpec оборачивает domain.ErrInvalidInput.
var ErrInvalidMintSpec = fmt.Errorf("%w: invalid token spec", domain.ErrInvalidInput)

// ValidateMintSpec проверяет пользовательские параметры токена и возвращает
// начальную эмиссию в базовых единицах.
func ValidateMintSpec(spec domain.TokenMintSpec) (uint64, error) {
	name := strings.TrimSpace(spec.Name)
	symbol := strings.TrimSpace(spec.Symbol)

	switch {
	case name == "":
		return 0, fmt.Errorf("%w: name is required", ErrInvalidMintSpec)
	case len(name) > MaxNameLength:
		return 0, fmt.Errorf("%w: name longer than %d bytes", ErrInvalidMintSpec, MaxNameLength)
	case symbol == "":
		return 0, fmt.Errorf("%w: symbol is required", ErrInvalidMintSpec)
	case len(symbol) > MaxSymbolLength:
		return 0, fmt.Errorf("%w: symbol longer than %d bytes", ErrInvalidMintSpec, MaxSymbolLength)
	}

	if spec.InitialSupplyRaw != "" {
		return amount.ParseBaseUnits(spec.InitialSupplyRaw, spec.Decimals)
	}
	return amount.ToBaseUnits(spec.InitialSupply, spec.Decimals)
}

// AssociatedAccount возвращает адрес ассоциированного токен-аккаунта владельца.
func AssociatedAccount(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated token account: %w", err)
	}
	return ata, nil
}

// BuildMintCreation возвращает ровно четыре инструкции в фиксированном порядке:
//
//  1. CreateAccount: аккаунт минта размером MintAccountSize, владелец SPL Token;
//  2. InitializeMint: decimals, mint authority = payer, freeze authority = payer или нет;
//  3. создание ассоциированного аккаунта payer для этого минта;
//  4. MintTo всей начальной эмиссии в этот аккаунт, подписант payer.
//
// Порядок менять нельзя: сеть отвергнет транзакцию целиком.
func BuildMintCreation(spec domain.TokenMintSpec, payer, mint solana.PublicKey, rentExempt uint64) ([]solana.Instruction, error) {
	supply, err := ValidateMintSpec(spec)
	if err != nil {
		return nil, err
	}
	if err := checkParties(payer, mint); err != nil {
		return nil, err
	}

	payerATA, err := AssociatedAccount(payer, mint)
	if err != nil {
		return nil, err
	}

	createAccount := system.NewCreateAccountInstruction(
		rentExempt,
		MintAccountSize,
		solana.TokenProgramID,
		payer,
		mint,
	).Build()

	initBuilder := splToken.NewInitializeMintInstructionBuilder().
		SetDecimals(spec.Decimals).
		SetMintAuthority(payer).
		SetMintAccount(mint).
		SetSysVarRentPubkeyAccount(solana.SysVarRentPubkey)
	if spec.FreezeAuthority {
		initBuilder.SetFreezeAuthority(payer)
	}

	createATA := associatedtokenaccount.NewCreateInstruction(payer, payer, mint).Build()

	mintTo := splToken.NewMintToInstruction(supply, mint, payerATA, payer, nil).Build()

	return []solana.Instruction{
		createAccount,
		initBuilder.Build(),
		createATA,
		mintTo,
	}, nil
}

// BuildTransfer строит перевод: при отсутствии аккаунта получателя сначала
// его создание (оплачивает payer), затем ровно один TransferChecked.
func BuildTransfer(t domain.ValidatedTransfer, payer solana.PublicKey, recipientExists bool) ([]solana.Instruction, error) {
	if t.Amount == 0 {
		return nil, fmt.Errorf("%w: transfer amount must be positive", amount.ErrInvalidAmount)
	}
	if err := amount.ValidateDecimals(t.Decimals); err != nil {
		return nil, err
	}
	if t.Mint.IsZero() || t.Recipient.IsZero() || payer.IsZero() {
		return nil, fmt.Errorf("%w: transfer parties must be set", domain.ErrInvalidInput)
	}

	source, err := AssociatedAccount(payer, t.Mint)
	if err != nil {
		return nil, err
	}
	destination, err := AssociatedAccount(t.Recipient, t.Mint)
	if err != nil {
		return nil, err
	}

	instructions := make([]solana.Instruction, 0, 2)
	if !recipientExists {
		instructions = append(instructions,
			associatedtokenaccount.NewCreateInstruction(payer, t.Recipient, t.Mint).Build())
	}
	instructions = append(instructions, splToken.NewTransferCheckedInstruction(
		t.Amount,
		t.Decimals,
		source,
		t.Mint,
		destination,
		payer,
		nil,
	).Build())

	return instructions, nil
}

func checkParties(payer, mint solana.PublicKey) error {
	switch {
	case payer.IsZero():
		return fmt.Errorf("%w: payer is not set", domain.ErrPreconditionUnmet)
	case mint.IsZero():
		return fmt.Errorf("%w: mint identity is not set", domain.ErrInvalidInput)
	case payer.Equals(mint):
		return fmt.Errorf("%w: mint identity must differ from payer", domain.ErrInvalidInput)
	}
	return nil
}

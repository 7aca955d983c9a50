// internal/blockchain/solbc/transaction/validator.go
package transaction

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

type Validator struct {
	logger *zap.Logger
}

func NewValidator(logger *zap.Logger) *Validator {
	return &Validator{
		logger: logger.Named("tx-validator"),
	}
}

// ValidateUnit проверяет собранный юнит перед передачей подписанту.
func (v *Validator) ValidateUnit(unit *Unit, signer solana.PublicKey) error {
	tx := unit.Transaction()
	if err := v.ValidateBlockhash(tx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := v.ValidateInstructions(tx.Message.Instructions); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if err := v.ValidateFeePayer(tx, signer); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrPreconditionUnmet, err)
	}
	return nil
}

// ValidateSignatures проверяет, что транзакция подписана всеми обязательными подписантами.
func ValidateSignatures(tx *solana.Transaction) error {
	required := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) == 0 || len(tx.Signatures) != required {
		return fmt.Errorf("%w: have %d signatures, need %d", ErrInvalidSignature, len(tx.Signatures), required)
	}
	for i, sig := range tx.Signatures {
		if sig.IsZero() {
			return fmt.Errorf("%w: signature %d is empty", ErrInvalidSignature, i)
		}
	}
	return nil
}

func (v *Validator) ValidateBlockhash(tx *solana.Transaction) error {
	if tx.Message.RecentBlockhash.IsZero() {
		return ErrInvalidBlockhash
	}
	return nil
}

func (v *Validator) ValidateInstructions(instructions []solana.CompiledInstruction) error {
	if len(instructions) == 0 {
		return ErrInvalidInstruction
	}
	return nil
}

// ValidateFeePayer проверяет, что плательщиком комиссии указан подключённый кошелёк.
func (v *Validator) ValidateFeePayer(tx *solana.Transaction, signer solana.PublicKey) error {
	if signer.IsZero() {
		return fmt.Errorf("%w: no wallet connected", ErrInvalidFeePayer)
	}
	if len(tx.Message.AccountKeys) == 0 || !tx.Message.AccountKeys[0].Equals(signer) {
		v.logger.Warn("Fee payer mismatch", zap.String("signer", signer.String()))
		return fmt.Errorf("%w: fee payer is not the connected wallet", ErrInvalidFeePayer)
	}
	return nil
}

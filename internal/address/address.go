// internal/address/address.go
package address

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

// ErrInvalidAddress оборачивает domain.ErrInvalidInput.
var ErrInvalidAddress = fmt.Errorf("%w: invalid address", domain.ErrInvalidInput)

// Parse синтаксически проверяет base58-адрес аккаунта Solana. Сеть не трогает.
func Parse(raw string) (solana.PublicKey, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: address is empty", ErrInvalidAddress)
	}

	decoded, err := base58.Decode(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %q is not base58: %v", ErrInvalidAddress, shorten(s), err)
	}
	if len(decoded) != solana.PublicKeyLength {
		return solana.PublicKey{}, fmt.Errorf("%w: expected %d bytes, got %d",
			ErrInvalidAddress, solana.PublicKeyLength, len(decoded))
	}

	return solana.PublicKeyFromBytes(decoded), nil
}

// ParseOwner разбирает адрес кошелька-владельца: ключ должен лежать на кривой ed25519.
// Адреса PDA (вне кривой) не могут подписывать и не принимаются как получатели.
func ParseOwner(raw string) (solana.PublicKey, error) {
	pk, err := Parse(raw)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if !pk.IsOnCurve() {
		return solana.PublicKey{}, fmt.Errorf("%w: %s is not a wallet address", ErrInvalidAddress, pk)
	}
	return pk, nil
}

func shorten(s string) string {
	if len(s) > 16 {
		return s[:6] + "..." + s[len(s)-6:]
	}
	return s
}

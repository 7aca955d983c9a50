// internal/domain/token.go
package domain

import (
	"github.com/gagliardetto/solana-go"
)

// MaxDecimals: максимальная точность токена, которую мы разрешаем при создании.
const MaxDecimals = 9

// TokenMintSpec описывает новый токен. Создаётся из пользовательского ввода
// и используется ровно одной попыткой создания.
type TokenMintSpec struct {
	Name     string
	Symbol   string
	Decimals uint8

	// InitialSupply: начальная эмиссия в целых токенах.
	InitialSupply float64
	// InitialSupplyRaw: та же эмиссия десятичной строкой; если задана, имеет приоритет.
	InitialSupplyRaw string

	FreezeAuthority bool
}

// HoldingRecord: баланс одного токен-аккаунта владельца.
type HoldingRecord struct {
	Mint    solana.PublicKey `json:"mint"`
	Account solana.PublicKey `json:"account"`
	Balance uint64           `json:"balance"`
}

// TransferRequest: сырой запрос на перевод, до валидации.
type TransferRequest struct {
	Mint      solana.PublicKey
	Recipient string

	// Amount: количество в целых токенах; AmountRaw задаёт то же строкой и имеет приоритет.
	Amount    float64
	AmountRaw string
}

// ValidatedTransfer: перевод после валидации. Инструкции строятся только из него.
type ValidatedTransfer struct {
	Mint      solana.PublicKey
	Recipient solana.PublicKey
	Amount    uint64
	Decimals  uint8
}

// CreateResult: итог создания токена в том виде, в каком его видит пользователь.
type CreateResult struct {
	Outcome

	Mint            solana.PublicKey
	MintExplorerURL string
	Name            string
	Symbol          string
	Decimals        uint8
	Supply          uint64
	FreezeAuthority bool
}

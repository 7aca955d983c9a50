// internal/blockchain/types.go
package blockchain

import (
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// TransactionOptions определяет опции для отправки транзакций.
type TransactionOptions struct {
	SkipPreflight       bool
	PreflightCommitment rpc.CommitmentType
}

// FreshnessToken: недавний blockhash и высота блока, после которой он перестаёт приниматься сетью.
type FreshnessToken struct {
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
	FetchedAt            time.Time
}

// Expired сообщает, истёк ли токен при текущей высоте блока.
func (f FreshnessToken) Expired(blockHeight uint64) bool {
	return blockHeight > f.LastValidBlockHeight
}

// AccountRecord: сырой аккаунт сети.
type AccountRecord struct {
	Address    solana.PublicKey
	Owner      solana.PublicKey
	Lamports   uint64
	Data       []byte
	Executable bool
}

// Confirmation: результат одного опроса статуса подписи.
type Confirmation struct {
	Signature solana.Signature
	// Found == false: узел пока не видел транзакцию.
	Found  bool
	Slot   uint64
	Status rpc.ConfirmationStatusType
	// Err: ошибка исполнения инструкций, nil если транзакция прошла.
	Err interface{}
}

var confirmationRank = map[rpc.ConfirmationStatusType]int{
	rpc.ConfirmationStatusProcessed: 1,
	rpc.ConfirmationStatusConfirmed: 2,
	rpc.ConfirmationStatusFinalized: 3,
}

var commitmentRank = map[rpc.CommitmentType]int{
	rpc.CommitmentProcessed: 1,
	rpc.CommitmentConfirmed: 2,
	rpc.CommitmentFinalized: 3,
}

// Reached проверяет, достигла ли транзакция нужного уровня подтверждения.
// Неизвестный уровень считается "confirmed".
func (c Confirmation) Reached(level rpc.CommitmentType) bool {
	if !c.Found {
		return false
	}
	want, ok := commitmentRank[level]
	if !ok {
		want = commitmentRank[rpc.CommitmentConfirmed]
	}
	return confirmationRank[c.Status] >= want
}

// Failed: транзакция исполнена с ошибкой.
func (c Confirmation) Failed() bool {
	return c.Found && c.Err != nil
}

// internal/blockchain/solbc/transaction/types.go
package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
)

var (
	ErrInvalidSignature   = errors.New("invalid transaction signature")
	ErrInvalidBlockhash   = errors.New("invalid blockhash")
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrInvalidFeePayer    = errors.New("invalid fee payer")
)

// Значения по умолчанию для опроса подтверждения.
const (
	DefaultConfirmInterval = 500 * time.Millisecond
	DefaultConfirmTimeout  = 30 * time.Second
	DefaultMaxAttempts     = 60
	DefaultBlockhashMaxAge = 60 * time.Second
)

type Config struct {
	ConfirmInterval time.Duration
	ConfirmTimeout  time.Duration
	MaxAttempts     uint
	BlockhashMaxAge time.Duration
	Commitment      rpc.CommitmentType
	Cluster         blockchain.Cluster

	// Необязательный префикс compute budget; 0 означает, что он не добавляется.
	ComputeUnitLimit uint32
	PriorityFee      uint64
}

// WithDefaults заполняет незаданные поля значениями по умолчанию.
func (c Config) WithDefaults() Config {
	if c.ConfirmInterval <= 0 {
		c.ConfirmInterval = DefaultConfirmInterval
	}
	if c.ConfirmTimeout <= 0 {
		c.ConfirmTimeout = DefaultConfirmTimeout
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BlockhashMaxAge <= 0 {
		c.BlockhashMaxAge = DefaultBlockhashMaxAge
	}
	if c.Commitment == "" {
		c.Commitment = rpc.CommitmentConfirmed
	}
	if c.Cluster == "" {
		c.Cluster = blockchain.ClusterDevnet
	}
	return c
}

// Phase: стадия отправки, о которой сообщается наблюдателю.
type Phase uint8

const (
	PhaseSending Phase = iota + 1
	PhaseAwaitingConfirmation
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseSending:
		return "sending"
	case PhaseAwaitingConfirmation:
		return "awaiting_confirmation"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// PhaseObserver получает переходы между стадиями. Вызывается синхронно.
type PhaseObserver func(phase Phase, sig solana.Signature)

// Signer: подключённый кошелёк. Подписывает и отправляет транзакцию одним шагом.
// Отказ пользователя или кошелька оборачивает domain.ErrSignerRejected.
type Signer interface {
	PublicKey() solana.PublicKey
	AuthorizeAndSend(ctx context.Context, tx *solana.Transaction, coSigners []solana.PrivateKey) (solana.Signature, error)
}

// BlockHeightReader: источник текущей высоты блока.
type BlockHeightReader interface {
	GetBlockHeight(ctx context.Context) (uint64, error)
}

// LedgerReader: чтение сети, нужное координатору.
type LedgerReader interface {
	BlockHeightReader
	Confirm(ctx context.Context, signature solana.Signature) (blockchain.Confirmation, error)
}

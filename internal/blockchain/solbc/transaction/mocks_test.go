// internal/blockchain/solbc/transaction/mocks_test.go
package transaction

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
)

// MockSigner реализует интерфейс Signer
type MockSigner struct {
	mock.Mock
	key solana.PublicKey
}

func (m *MockSigner) PublicKey() solana.PublicKey {
	return m.key
}

func (m *MockSigner) AuthorizeAndSend(ctx context.Context, tx *solana.Transaction, coSigners []solana.PrivateKey) (solana.Signature, error) {
	args := m.Called(ctx, tx, coSigners)
	return args.Get(0).(solana.Signature), args.Error(1)
}

// MockLedger реализует интерфейс LedgerReader
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) GetBlockHeight(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockLedger) Confirm(ctx context.Context, signature solana.Signature) (blockchain.Confirmation, error) {
	args := m.Called(ctx, signature)
	return args.Get(0).(blockchain.Confirmation), args.Error(1)
}

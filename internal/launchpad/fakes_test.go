package launchpad

import (
	"bytes"
	"context"
	"sync"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	splToken "github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
)

// fakeLedger: сеть в памяти.
type fakeLedger struct {
	mu sync.Mutex

	accounts   map[solana.PublicKey]*blockchain.AccountRecord
	holdings   []blockchain.AccountRecord
	accountErr error
	rentErr    error
	freshErr   error

	// holdingsGate задерживает ответ ближайшего чтения балансов.
	holdingsGate chan struct{}

	accountReads  int
	holdingReads  int
	confirmCalls  int
	freshnessHash solana.Hash
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts:      map[solana.PublicKey]*blockchain.AccountRecord{},
		freshnessHash: solana.Hash{1, 2, 3},
	}
}

func (l *fakeLedger) GetFreshnessToken(ctx context.Context) (blockchain.FreshnessToken, error) {
	if l.freshErr != nil {
		return blockchain.FreshnessToken{}, l.freshErr
	}
	return blockchain.FreshnessToken{Blockhash: l.freshnessHash, LastValidBlockHeight: 1000}, nil
}

func (l *fakeLedger) GetBlockHeight(ctx context.Context) (uint64, error) {
	return 10, nil
}

func (l *fakeLedger) GetMinimumRentExemptBalance(ctx context.Context, size uint64) (uint64, error) {
	if l.rentErr != nil {
		return 0, l.rentErr
	}
	return 1_461_600, nil
}

func (l *fakeLedger) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*blockchain.AccountRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accountReads++
	if l.accountErr != nil {
		return nil, l.accountErr
	}
	return l.accounts[pubkey], nil
}

func (l *fakeLedger) GetHoldingAccounts(ctx context.Context, owner solana.PublicKey) ([]blockchain.AccountRecord, error) {
	l.mu.Lock()
	l.holdingReads++
	records := append([]blockchain.AccountRecord(nil), l.holdings...)
	gate := l.holdingsGate
	l.holdingsGate = nil
	l.mu.Unlock()

	// Ответ уже прочитан, но придёт только после открытия gate.
	if gate != nil {
		<-gate
	}
	return records, nil
}

func (l *fakeLedger) reads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holdingReads
}

func (l *fakeLedger) Confirm(ctx context.Context, signature solana.Signature) (blockchain.Confirmation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.confirmCalls++
	return blockchain.Confirmation{
		Signature: signature,
		Found:     true,
		Slot:      42,
		Status:    rpc.ConfirmationStatusConfirmed,
	}, nil
}

// MockSigner реализует transaction.Signer
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

func encode(t *testing.T, v interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bin.NewBinEncoder(&buf).Encode(v))
	return buf.Bytes()
}

func (l *fakeLedger) putMint(t *testing.T, mint solana.PublicKey, decimals uint8) {
	l.accounts[mint] = &blockchain.AccountRecord{
		Address: mint,
		Owner:   solana.TokenProgramID,
		Data:    encode(t, splToken.Mint{Decimals: decimals, Supply: 1, IsInitialized: true}),
	}
}

func (l *fakeLedger) putHolding(t *testing.T, owner, mint solana.PublicKey, balance uint64) solana.PublicKey {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	rec := blockchain.AccountRecord{
		Address: ata,
		Owner:   solana.TokenProgramID,
		Data:    encode(t, splToken.Account{Mint: mint, Owner: owner, Amount: balance, State: splToken.Initialized}),
	}
	l.accounts[ata] = &rec
	l.holdings = append(l.holdings, rec)
	return ata
}

// setBalance меняет баланс существующего ATA, как это сделал бы перевод.
func (l *fakeLedger) setBalance(t *testing.T, owner, mint solana.PublicKey, balance uint64) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	rec := blockchain.AccountRecord{
		Address: ata,
		Owner:   solana.TokenProgramID,
		Data:    encode(t, splToken.Account{Mint: mint, Owner: owner, Amount: balance, State: splToken.Initialized}),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[ata] = &rec
	for i := range l.holdings {
		if l.holdings[i].Address.Equals(ata) {
			l.holdings[i] = rec
		}
	}
}

// programOf возвращает программу скомпилированной инструкции.
func programOf(tx *solana.Transaction, i int) solana.PublicKey {
	return tx.Message.AccountKeys[tx.Message.Instructions[i].ProgramIDIndex]
}

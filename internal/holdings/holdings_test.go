package holdings

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	splToken "github.com/gagliardetto/solana-go/programs/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

func encode(t *testing.T, v interface{}) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bin.NewBinEncoder(&buf).Encode(v))
	return buf.Bytes()
}

func holdingAccount(t *testing.T, address, mint, owner solana.PublicKey, balance uint64) blockchain.AccountRecord {
	t.Helper()
	return blockchain.AccountRecord{
		Address: address,
		Owner:   solana.TokenProgramID,
		Data: encode(t, splToken.Account{
			Mint:   mint,
			Owner:  owner,
			Amount: balance,
			State:  splToken.Initialized,
		}),
	}
}

func TestDecodeHolding(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	addr := solana.NewWallet().PublicKey()

	rec := holdingAccount(t, addr, mint, owner, 18_446_744_073_709_551_615)
	require.Len(t, rec.Data, 165)

	h, err := DecodeHolding(rec)
	require.NoError(t, err)
	assert.Equal(t, mint, h.Mint)
	assert.Equal(t, addr, h.Account)
	assert.Equal(t, uint64(18_446_744_073_709_551_615), h.Balance)
}

func TestDecodeHoldingRejects(t *testing.T) {
	good := holdingAccount(t, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), 1)

	wrongOwner := good
	wrongOwner.Owner = solana.SystemProgramID
	_, err := DecodeHolding(wrongOwner)
	assert.ErrorIs(t, err, ErrNotTokenAccount)

	short := good
	short.Data = good.Data[:100]
	_, err = DecodeHolding(short)
	assert.ErrorIs(t, err, ErrNotTokenAccount)
}

func TestDecodeMint(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	rec := blockchain.AccountRecord{
		Address: solana.NewWallet().PublicKey(),
		Owner:   solana.TokenProgramID,
		Data: encode(t, splToken.Mint{
			MintAuthority: payer.ToPointer(),
			Supply:        1_000_000_000,
			Decimals:      6,
			IsInitialized: true,
		}),
	}
	require.Len(t, rec.Data, 82)

	info, err := DecodeMint(rec)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), info.Decimals)
	assert.Equal(t, uint64(1_000_000_000), info.Supply)
	assert.Nil(t, info.FreezeAuthority)

	uninit := rec
	uninit.Data = encode(t, splToken.Mint{Decimals: 6})
	_, err = DecodeMint(uninit)
	assert.ErrorIs(t, err, ErrNotMintAccount)

	// Токен-аккаунт не является минтом.
	_, err = DecodeMint(holdingAccount(t, rec.Address, rec.Address, payer, 1))
	assert.ErrorIs(t, err, ErrNotMintAccount)
}

type stubLister struct {
	mu      sync.Mutex
	calls   int32
	records []blockchain.AccountRecord
	err     error
	gate    chan struct{}
}

func (s *stubLister) GetHoldingAccounts(ctx context.Context, owner solana.PublicKey) ([]blockchain.AccountRecord, error) {
	s.mu.Lock()
	records, err := s.records, s.err
	s.mu.Unlock()
	atomic.AddInt32(&s.calls, 1)

	if s.gate != nil {
		<-s.gate
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return records, err
}

func (s *stubLister) setRecords(records []blockchain.AccountRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
}

func TestFetchHoldingsEmptyOwner(t *testing.T) {
	q := NewQuery(&stubLister{}, zap.NewNop())

	records, err := q.FetchHoldings(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFetchHoldingsSortsAndSkipsGarbage(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mintA := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	mintB := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	acc1 := solana.NewWallet().PublicKey()
	acc2 := solana.NewWallet().PublicKey()
	acc3 := solana.NewWallet().PublicKey()

	lister := &stubLister{records: []blockchain.AccountRecord{
		holdingAccount(t, acc1, mintB, owner, 5),
		{Address: solana.NewWallet().PublicKey(), Owner: solana.TokenProgramID, Data: []byte{1, 2, 3}},
		holdingAccount(t, acc2, mintA, owner, 7),
		holdingAccount(t, acc3, mintA, owner, 0),
	}}
	q := NewQuery(lister, zap.NewNop())

	records, err := q.FetchHoldings(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, records, 3)

	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		c := bytes.Compare(prev.Mint[:], cur.Mint[:])
		assert.True(t, c < 0 || (c == 0 && bytes.Compare(prev.Account[:], cur.Account[:]) < 0),
			"records must be sorted by mint then account")
	}

	byAccount := map[solana.PublicKey]uint64{}
	for _, r := range records {
		byAccount[r.Account] = r.Balance
	}
	assert.Equal(t, uint64(5), byAccount[acc1])
	assert.Equal(t, uint64(7), byAccount[acc2])
	assert.Equal(t, uint64(0), byAccount[acc3])
}

func TestFetchHoldingsTransportFailure(t *testing.T) {
	lister := &stubLister{err: errors.New("connection refused")}
	q := NewQuery(lister, zap.NewNop())

	records, err := q.FetchHoldings(context.Background(), solana.NewWallet().PublicKey())
	assert.Nil(t, records)
	assert.ErrorIs(t, err, domain.ErrQueryUnavailable)
	assert.Equal(t, domain.KindQueryUnavailable, domain.KindOf(err))
}

func TestFetchHoldingsIdempotent(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	lister := &stubLister{records: []blockchain.AccountRecord{
		holdingAccount(t, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), owner, 42),
		holdingAccount(t, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), owner, 1),
	}}
	q := NewQuery(lister, zap.NewNop())

	first, err := q.FetchHoldings(context.Background(), owner)
	require.NoError(t, err)
	second, err := q.FetchHoldings(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Результаты не делят память между вызывающими.
	first[0].Balance = 999
	assert.NotEqual(t, first[0].Balance, second[0].Balance)
}

func TestFetchHoldingsCoalescesConcurrentRequests(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	lister := &stubLister{
		records: []blockchain.AccountRecord{
			holdingAccount(t, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), owner, 3),
		},
		gate: make(chan struct{}),
	}
	q := NewQuery(lister, zap.NewNop())

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]domain.HoldingRecord, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = q.FetchHoldings(context.Background(), owner)
		}(i)
	}

	// Ждём, пока первый запрос дойдёт до узла, затем отпускаем его.
	require.Eventually(t, func() bool { return atomic.LoadInt32(&lister.calls) >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(lister.gate)
	wg.Wait()

	assert.Less(t, atomic.LoadInt32(&lister.calls), int32(callers), "concurrent requests should share a call")
	for _, r := range results {
		require.Len(t, r, 1)
		assert.Equal(t, uint64(3), r[0].Balance)
	}
}

func TestFetchHoldingsAfterInvalidateReadsAgain(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	account := solana.NewWallet().PublicKey()
	lister := &stubLister{
		records: []blockchain.AccountRecord{holdingAccount(t, account, mint, owner, 100)},
		gate:    make(chan struct{}),
	}
	q := NewQuery(lister, zap.NewNop())
	store := NewStore(zap.NewNop())

	type answer struct {
		seq     uint64
		records []domain.HoldingRecord
		err     error
	}
	fetch := func(out chan<- answer) {
		seq := store.Begin()
		records, err := q.FetchHoldings(context.Background(), owner)
		out <- answer{seq, records, err}
	}

	earlier := make(chan answer, 1)
	go fetch(earlier)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&lister.calls) == 1 }, time.Second, time.Millisecond)

	// Состояние в сети изменилось, пока первое чтение ещё в полёте.
	lister.setRecords([]blockchain.AccountRecord{holdingAccount(t, account, mint, owner, 40)})
	q.Invalidate(owner)

	later := make(chan answer, 1)
	go fetch(later)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&lister.calls) == 2 }, time.Second, time.Millisecond)
	close(lister.gate)

	newer := <-later
	older := <-earlier
	require.NoError(t, newer.err)
	require.NoError(t, older.err)
	assert.Equal(t, uint64(40), newer.records[0].Balance)
	assert.Equal(t, uint64(100), older.records[0].Balance)

	assert.True(t, store.Apply(newer.seq, newer.records))
	assert.False(t, store.Apply(older.seq, older.records))
	shown, _ := store.Snapshot()
	require.Len(t, shown, 1)
	assert.Equal(t, uint64(40), shown[0].Balance)
}

func TestFetchHoldingsCallerCancelDoesNotFailOthers(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	lister := &stubLister{
		records: []blockchain.AccountRecord{
			holdingAccount(t, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), owner, 3),
		},
		gate: make(chan struct{}),
	}
	q := NewQuery(lister, zap.NewNop())

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := q.FetchHoldings(leaderCtx, owner)
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return atomic.LoadInt32(&lister.calls) == 1 }, time.Second, time.Millisecond)

	type answer struct {
		records []domain.HoldingRecord
		err     error
	}
	follower := make(chan answer, 1)
	go func() {
		records, err := q.FetchHoldings(context.Background(), owner)
		follower <- answer{records, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(lister.gate)
	got := <-follower
	require.NoError(t, got.err)
	require.Len(t, got.records, 1)
	assert.Equal(t, uint64(3), got.records[0].Balance)
}

func TestStoreDiscardsStaleResults(t *testing.T) {
	s := NewStore(zap.NewNop())
	mint := solana.NewWallet().PublicKey()

	older := s.Begin()
	newer := s.Begin()
	require.Greater(t, newer, older)

	newSet := []domain.HoldingRecord{{Mint: mint, Account: solana.NewWallet().PublicKey(), Balance: 2}}
	oldSet := []domain.HoldingRecord{{Mint: mint, Account: solana.NewWallet().PublicKey(), Balance: 1}}

	assert.True(t, s.Apply(newer, newSet))
	assert.False(t, s.Apply(older, oldSet), "older result arriving late must be discarded")

	snap, updated := s.Snapshot()
	assert.Equal(t, newSet, snap)
	assert.False(t, updated.IsZero())
	assert.Equal(t, newer, s.Applied())

	records, reads, writes, discarded := s.GetStats()
	assert.Equal(t, uint64(1), records)
	assert.Equal(t, uint64(1), reads)
	assert.Equal(t, uint64(1), writes)
	assert.Equal(t, uint64(1), discarded)
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := NewStore(zap.NewNop())
	snap, _ := s.Snapshot()
	assert.NotNil(t, snap)
	assert.Empty(t, snap)

	in := []domain.HoldingRecord{{Balance: 1}}
	s.Apply(s.Begin(), in)
	in[0].Balance = 100

	snap, _ = s.Snapshot()
	assert.Equal(t, uint64(1), snap[0].Balance)
	snap[0].Balance = 50
	again, _ := s.Snapshot()
	assert.Equal(t, uint64(1), again[0].Balance)
}

func TestStoreRefreshIdempotent(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	lister := &stubLister{records: []blockchain.AccountRecord{
		holdingAccount(t, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), owner, 10),
	}}
	q := NewQuery(lister, zap.NewNop())
	s := NewStore(zap.NewNop())

	for i := 0; i < 2; i++ {
		seq := s.Begin()
		records, err := q.FetchHoldings(context.Background(), owner)
		require.NoError(t, err)
		require.True(t, s.Apply(seq, records))
	}
	snap, _ := s.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, uint64(10), snap[0].Balance)
}

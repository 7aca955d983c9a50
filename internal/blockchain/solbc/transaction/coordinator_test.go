package transaction

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

func fastConfig() Config {
	return Config{
		ConfirmInterval: time.Millisecond,
		ConfirmTimeout:  time.Second,
		MaxAttempts:     5,
		BlockhashMaxAge: time.Minute,
		Commitment:      rpc.CommitmentConfirmed,
		Cluster:         blockchain.ClusterDevnet,
	}
}

type coordinatorFixture struct {
	signer  *MockSigner
	ledger  *MockLedger
	metrics *Metrics
	coord   *Coordinator
	unit    *Unit
	sig     solana.Signature
}

func newFixture(t *testing.T) *coordinatorFixture {
	t.Helper()
	payer := solana.NewWallet().PublicKey()

	unit, err := NewAssembler(fastConfig(), zap.NewNop()).Assemble(transferInstructions(payer, 1), payer, testFreshness())
	require.NoError(t, err)

	f := &coordinatorFixture{
		signer:  &MockSigner{key: payer},
		ledger:  new(MockLedger),
		metrics: NewMetrics(prometheus.NewRegistry()),
		unit:    unit,
		sig:     solana.Signature{1, 2, 3},
	}
	f.coord = NewCoordinator(f.signer, f.ledger, fastConfig(), f.metrics, zap.NewNop())
	f.ledger.On("GetBlockHeight", mock.Anything).Return(uint64(10), nil).Maybe()
	return f
}

func confirmed(sig solana.Signature) blockchain.Confirmation {
	return blockchain.Confirmation{Signature: sig, Found: true, Slot: 42, Status: rpc.ConfirmationStatusConfirmed}
}

func TestSubmitConfirmed(t *testing.T) {
	f := newFixture(t)
	coSigner := solana.NewWallet().PrivateKey
	f.signer.On("AuthorizeAndSend", mock.Anything, f.unit.Transaction(), []solana.PrivateKey{coSigner}).Return(f.sig, nil).Once()
	f.ledger.On("Confirm", mock.Anything, f.sig).Return(blockchain.Confirmation{Signature: f.sig}, nil).Once()
	f.ledger.On("Confirm", mock.Anything, f.sig).Return(confirmed(f.sig), nil).Once()

	var phases []Phase
	outcome := f.coord.SubmitObserved(context.Background(), f.unit, []solana.PrivateKey{coSigner}, func(p Phase, _ solana.Signature) {
		phases = append(phases, p)
	})

	require.True(t, outcome.Success(), outcome.String())
	assert.Equal(t, f.sig, outcome.Signature)
	assert.Equal(t, "https://explorer.solana.com/tx/"+f.sig.String()+"?cluster=devnet", outcome.ExplorerURL)
	assert.Equal(t, domain.KindNone, outcome.Kind)
	assert.Equal(t, []Phase{PhaseSending, PhaseAwaitingConfirmation, PhaseDone}, phases)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.outcomes.WithLabelValues("confirmed", "None")))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.confirmPolls))
	f.signer.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
}

func TestSubmitSignerDeclines(t *testing.T) {
	f := newFixture(t)
	declined := fmt.Errorf("%w: user declined", domain.ErrSignerRejected)
	f.signer.On("AuthorizeAndSend", mock.Anything, mock.Anything, mock.Anything).Return(solana.Signature{}, declined).Once()

	outcome := f.coord.Submit(context.Background(), f.unit, nil)

	assert.False(t, outcome.Success())
	assert.Equal(t, domain.StateRejected, outcome.State)
	assert.Equal(t, domain.KindSignerRejected, outcome.Kind)
	assert.True(t, outcome.Signature.IsZero())
	f.ledger.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
}

func TestSubmitTimesOut(t *testing.T) {
	f := newFixture(t)
	f.signer.On("AuthorizeAndSend", mock.Anything, mock.Anything, mock.Anything).Return(f.sig, nil).Once()
	f.ledger.On("Confirm", mock.Anything, f.sig).Return(blockchain.Confirmation{Signature: f.sig}, nil)

	outcome := f.coord.Submit(context.Background(), f.unit, nil)

	assert.Equal(t, domain.StateTimedOut, outcome.State)
	assert.Equal(t, domain.KindConfirmationTimeout, outcome.Kind)
	assert.Equal(t, f.sig, outcome.Signature)
	assert.Contains(t, outcome.Reason, "confirmation timeout")
	f.ledger.AssertNumberOfCalls(t, "Confirm", 5)
}

func TestSubmitProcessedIsNotEnough(t *testing.T) {
	f := newFixture(t)
	f.signer.On("AuthorizeAndSend", mock.Anything, mock.Anything, mock.Anything).Return(f.sig, nil).Once()
	processed := blockchain.Confirmation{Signature: f.sig, Found: true, Status: rpc.ConfirmationStatusProcessed}
	f.ledger.On("Confirm", mock.Anything, f.sig).Return(processed, nil)

	outcome := f.coord.Submit(context.Background(), f.unit, nil)
	assert.Equal(t, domain.StateTimedOut, outcome.State)
}

func TestSubmitExecutionRejected(t *testing.T) {
	f := newFixture(t)
	f.signer.On("AuthorizeAndSend", mock.Anything, mock.Anything, mock.Anything).Return(f.sig, nil).Once()
	failed := confirmed(f.sig)
	failed.Err = map[string]interface{}{"InstructionError": []interface{}{1, map[string]interface{}{"Custom": 1}}}
	f.ledger.On("Confirm", mock.Anything, f.sig).Return(failed, nil).Once()

	outcome := f.coord.Submit(context.Background(), f.unit, nil)

	assert.Equal(t, domain.StateRejected, outcome.State)
	assert.Equal(t, domain.KindExecutionRejected, outcome.Kind)
	assert.Equal(t, f.sig, outcome.Signature)
	assert.Contains(t, outcome.Reason, "execution rejected:")
}

func TestSubmitPreflightAndTransportFailures(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		state domain.State
		kind  domain.Kind
	}{
		{"simulation failed", fmt.Errorf("send: %w", domain.ErrExecutionRejected), domain.StateRejected, domain.KindExecutionRejected},
		{"network", fmt.Errorf("send: %w", domain.ErrNetworkFailure), domain.StateRejected, domain.KindNetworkFailure},
		{"unclassified", errors.New("socket closed"), domain.StateRejected, domain.KindNetworkFailure},
		{"blockhash expired at preflight", fmt.Errorf("send: %w", domain.ErrStaleAssembly), domain.StateNotSubmitted, domain.KindStaleAssembly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.signer.On("AuthorizeAndSend", mock.Anything, mock.Anything, mock.Anything).Return(solana.Signature{}, tt.err).Once()

			outcome := f.coord.Submit(context.Background(), f.unit, nil)

			assert.Equal(t, tt.state, outcome.State)
			assert.Equal(t, tt.kind, outcome.Kind)
			f.ledger.AssertNotCalled(t, "Confirm", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitRefusesReuse(t *testing.T) {
	f := newFixture(t)
	f.signer.On("AuthorizeAndSend", mock.Anything, mock.Anything, mock.Anything).Return(f.sig, nil).Once()
	f.ledger.On("Confirm", mock.Anything, f.sig).Return(confirmed(f.sig), nil).Once()

	first := f.coord.Submit(context.Background(), f.unit, nil)
	require.True(t, first.Success())

	second := f.coord.Submit(context.Background(), f.unit, nil)
	assert.Equal(t, domain.StateNotSubmitted, second.State)
	assert.Equal(t, domain.KindStaleAssembly, second.Kind)
	f.signer.AssertNumberOfCalls(t, "AuthorizeAndSend", 1)
}

func TestSubmitExpiredBlockhashNeverSigns(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	unit, err := NewAssembler(fastConfig(), zap.NewNop()).Assemble(transferInstructions(payer, 1), payer, testFreshness())
	require.NoError(t, err)

	signer := &MockSigner{key: payer}
	ledger := new(MockLedger)
	ledger.On("GetBlockHeight", mock.Anything).Return(uint64(5_000), nil).Once()

	outcome := NewCoordinator(signer, ledger, fastConfig(), nil, zap.NewNop()).Submit(context.Background(), unit, nil)

	assert.Equal(t, domain.StateNotSubmitted, outcome.State)
	assert.Equal(t, domain.KindStaleAssembly, outcome.Kind)
	assert.True(t, outcome.Kind.Retryable())
	signer.AssertNotCalled(t, "AuthorizeAndSend", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitHeightUnavailable(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	unit, err := NewAssembler(fastConfig(), zap.NewNop()).Assemble(transferInstructions(payer, 1), payer, testFreshness())
	require.NoError(t, err)

	ledger := new(MockLedger)
	ledger.On("GetBlockHeight", mock.Anything).Return(uint64(0), fmt.Errorf("height: %w", domain.ErrNetworkFailure)).Once()

	outcome := NewCoordinator(&MockSigner{key: payer}, ledger, fastConfig(), nil, zap.NewNop()).Submit(context.Background(), unit, nil)
	assert.Equal(t, domain.StateNotSubmitted, outcome.State)
	assert.Equal(t, domain.KindNetworkFailure, outcome.Kind)
}

func TestSubmitWrongFeePayer(t *testing.T) {
	f := newFixture(t)
	f.signer.key = solana.NewWallet().PublicKey()

	outcome := f.coord.Submit(context.Background(), f.unit, nil)
	assert.Equal(t, domain.StateNotSubmitted, outcome.State)
	assert.Equal(t, domain.KindPreconditionUnmet, outcome.Kind)
}

func TestSubmitCancelledWhilePolling(t *testing.T) {
	f := newFixture(t)
	cfg := fastConfig()
	cfg.ConfirmInterval = 10 * time.Millisecond
	cfg.MaxAttempts = 1_000
	cfg.ConfirmTimeout = time.Minute
	f.coord = NewCoordinator(f.signer, f.ledger, cfg, f.metrics, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f.signer.On("AuthorizeAndSend", mock.Anything, mock.Anything, mock.Anything).Return(f.sig, nil).Once()
	f.ledger.On("Confirm", mock.Anything, f.sig).
		Run(func(mock.Arguments) { cancel() }).
		Return(blockchain.Confirmation{Signature: f.sig}, nil)

	outcome := f.coord.Submit(ctx, f.unit, nil)

	assert.Equal(t, domain.StateTimedOut, outcome.State)
	assert.Equal(t, domain.KindConfirmationTimeout, outcome.Kind)
	assert.Contains(t, outcome.Reason, "abandoned")
	assert.ErrorIs(t, outcome.Err, ErrAbandoned)
	assert.ErrorIs(t, outcome.Err, context.Canceled)
}

func TestSubmitSurvivesTransientPollErrors(t *testing.T) {
	f := newFixture(t)
	f.signer.On("AuthorizeAndSend", mock.Anything, mock.Anything, mock.Anything).Return(f.sig, nil).Once()
	f.ledger.On("Confirm", mock.Anything, f.sig).Return(blockchain.Confirmation{}, fmt.Errorf("poll: %w", domain.ErrNetworkFailure)).Twice()
	f.ledger.On("Confirm", mock.Anything, f.sig).Return(confirmed(f.sig), nil).Once()

	outcome := f.coord.Submit(context.Background(), f.unit, nil)
	assert.True(t, outcome.Success(), outcome.String())
}

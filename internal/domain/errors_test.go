package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"invalid input", fmt.Errorf("parse amount: %w", ErrInvalidInput), KindInvalidInput},
		{"precondition", fmt.Errorf("%w: mint does not exist", ErrPreconditionUnmet), KindPreconditionUnmet},
		{"signer", fmt.Errorf("sign: %w", ErrSignerRejected), KindSignerRejected},
		{"network", fmt.Errorf("get block height: %w: %w", ErrNetworkFailure, errors.New("dial tcp")), KindNetworkFailure},
		{"deadline is network", context.DeadlineExceeded, KindNetworkFailure},
		{"execution", fmt.Errorf("%w: custom program error", ErrExecutionRejected), KindExecutionRejected},
		{"timeout", ErrConfirmationTimeout, KindConfirmationTimeout},
		{"stale", fmt.Errorf("%w: block height past last valid", ErrStaleAssembly), KindStaleAssembly},
		{"query wraps network", fmt.Errorf("%w: %w", ErrQueryUnavailable, fmt.Errorf("list: %w", ErrNetworkFailure)), KindQueryUnavailable},
		{"canceled", context.Canceled, KindUnknown},
		{"unknown", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindPredicates(t *testing.T) {
	tests := []struct {
		kind      Kind
		retryable bool
		local     bool
	}{
		{KindNone, false, false},
		{KindInvalidInput, false, true},
		{KindPreconditionUnmet, false, true},
		{KindSignerRejected, false, false},
		{KindNetworkFailure, true, false},
		{KindExecutionRejected, false, false},
		{KindConfirmationTimeout, false, false},
		{KindStaleAssembly, true, false},
		{KindQueryUnavailable, true, false},
		{KindUnknown, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.retryable, tt.kind.Retryable(), "Retryable")
			assert.Equal(t, tt.local, tt.kind.Local(), "Local")
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "ConfirmationTimeout", KindConfirmationTimeout.String())
	assert.Equal(t, "Unknown", Kind(200).String())
}

func TestFailedOutcome(t *testing.T) {
	err := fmt.Errorf("send: %w", ErrSignerRejected)
	o := Failure(StateRejected, solana.Signature{1}, err)

	assert.False(t, o.Success())
	assert.Equal(t, KindSignerRejected, o.Kind)
	assert.Equal(t, err.Error(), o.Reason)
	assert.ErrorIs(t, o.Err, ErrSignerRejected)
	assert.Equal(t, "rejected (SignerRejected): "+err.Error(), o.String())

	ok := Succeeded(solana.Signature{2}, "https://explorer.solana.com/tx/x")
	assert.True(t, ok.Success())
	assert.Equal(t, KindNone, ok.Kind)
}

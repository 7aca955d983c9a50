package address

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

func TestParseKnownAddresses(t *testing.T) {
	tests := []struct {
		raw  string
		want solana.PublicKey
	}{
		{"So11111111111111111111111111111111111111112", solana.SolMint},
		{"11111111111111111111111111111111", solana.SystemProgramID},
		{"  TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA\n", solana.TokenProgramID},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	valid := "So11111111111111111111111111111111111111112"

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"zero is not base58", "0o11111111111111111111111111111111111111112"},
		{"capital O is not base58", "SO1111111111111111111111111111111111111111O"},
		{"capital I is not base58", "I" + valid[1:]},
		{"lower l is not base58", "l" + valid[1:]},
		{"too short", valid[:20]},
		{"too long", valid + "11111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidAddress)
			assert.Equal(t, domain.KindInvalidInput, domain.KindOf(err))
		})
	}
}

func TestParseOwner(t *testing.T) {
	wallet := solana.NewWallet().PublicKey()

	got, err := ParseOwner(wallet.String())
	require.NoError(t, err)
	assert.Equal(t, wallet, got)

	ata, _, err := solana.FindAssociatedTokenAddress(wallet, solana.SolMint)
	require.NoError(t, err)

	_, err = ParseOwner(ata.String())
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseOwner("not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

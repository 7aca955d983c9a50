package blockchain

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
)

func TestExplorerURLs(t *testing.T) {
	mint := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	var sig solana.Signature

	assert.Equal(t,
		"https://explorer.solana.com/address/So11111111111111111111111111111111111111112?cluster=devnet",
		ClusterDevnet.ExplorerAddressURL(mint))
	assert.Equal(t,
		"https://explorer.solana.com/tx/"+sig.String()+"?cluster=testnet",
		ClusterTestnet.ExplorerTxURL(sig))
	assert.Equal(t,
		"https://explorer.solana.com/address/So11111111111111111111111111111111111111112",
		ClusterMainnetBeta.ExplorerAddressURL(mint))
	assert.Contains(t, ClusterLocalnet.ExplorerTxURL(sig), "cluster=custom")
}

func TestClusterValid(t *testing.T) {
	assert.True(t, ClusterDevnet.Valid())
	assert.True(t, ClusterMainnetBeta.Valid())
	assert.False(t, Cluster("mainnet").Valid())
	assert.Equal(t, "https://api.devnet.solana.com", ClusterDevnet.DefaultRPCURL())
}

func TestConfirmationReached(t *testing.T) {
	missing := Confirmation{}
	assert.False(t, missing.Reached(rpc.CommitmentProcessed))

	processed := Confirmation{Found: true, Status: rpc.ConfirmationStatusProcessed}
	assert.True(t, processed.Reached(rpc.CommitmentProcessed))
	assert.False(t, processed.Reached(rpc.CommitmentConfirmed))

	confirmed := Confirmation{Found: true, Status: rpc.ConfirmationStatusConfirmed}
	assert.True(t, confirmed.Reached(rpc.CommitmentConfirmed))
	assert.True(t, confirmed.Reached(""))
	assert.False(t, confirmed.Reached(rpc.CommitmentFinalized))

	failed := Confirmation{Found: true, Status: rpc.ConfirmationStatusConfirmed, Err: map[string]interface{}{"InstructionError": []interface{}{3, "Custom"}}}
	assert.True(t, failed.Failed())
	assert.False(t, confirmed.Failed())
}

func TestFreshnessExpired(t *testing.T) {
	f := FreshnessToken{LastValidBlockHeight: 100}
	assert.False(t, f.Expired(100))
	assert.True(t, f.Expired(101))
}

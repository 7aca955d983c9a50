package solbc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

// fakeNode отвечает на JSON-RPC запросы заранее заданными ответами.
type fakeNode struct {
	mu        sync.Mutex
	results   map[string]string
	errors    map[string]string
	lastCalls map[string]json.RawMessage
}

func newFakeNode() *fakeNode {
	return &fakeNode{
		results:   map[string]string{},
		errors:    map[string]string{},
		lastCalls: map[string]json.RawMessage{},
	}
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     json.RawMessage `json:"id"`
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.lastCalls[req.Method] = req.Params
	result, hasResult := n.results[req.Method]
	rpcErr, hasErr := n.errors[req.Method]
	n.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case hasErr:
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"error":` + rpcErr + `}`))
	case hasResult:
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":` + result + `}`))
	default:
		http.Error(w, "unexpected method "+req.Method, http.StatusInternalServerError)
	}
}

func newTestClient(t *testing.T, node *fakeNode) *Client {
	t.Helper()
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, rpc.CommitmentConfirmed, blockchain.TransactionOptions{}, zap.NewNop())
}

func TestGetFreshnessToken(t *testing.T) {
	node := newFakeNode()
	hash := solana.HashFromBytes(make([]byte, 32))
	node.results["getLatestBlockhash"] = `{"context":{"slot":10},"value":{"blockhash":"` + hash.String() + `","lastValidBlockHeight":150}}`
	c := newTestClient(t, node)

	token, err := c.GetFreshnessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hash, token.Blockhash)
	assert.Equal(t, uint64(150), token.LastValidBlockHeight)
	assert.False(t, token.FetchedAt.IsZero())
}

func TestGetAccountInfoMissingIsNotAnError(t *testing.T) {
	node := newFakeNode()
	node.results["getAccountInfo"] = `{"context":{"slot":10},"value":null}`
	c := newTestClient(t, node)

	rec, err := c.GetAccountInfo(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGetAccountInfoDecodesData(t *testing.T) {
	node := newFakeNode()
	payload := base64.StdEncoding.EncodeToString([]byte{1, 2, 3})
	node.results["getAccountInfo"] = `{"context":{"slot":10},"value":{"lamports":5,"owner":"` +
		solana.TokenProgramID.String() + `","data":["` + payload + `","base64"],"executable":false,"rentEpoch":0}}`
	c := newTestClient(t, node)

	addr := solana.NewWallet().PublicKey()
	rec, err := c.GetAccountInfo(context.Background(), addr)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, addr, rec.Address)
	assert.Equal(t, solana.TokenProgramID, rec.Owner)
	assert.Equal(t, uint64(5), rec.Lamports)
	assert.Equal(t, []byte{1, 2, 3}, rec.Data)
}

func TestGetHoldingAccountsEmpty(t *testing.T) {
	node := newFakeNode()
	node.results["getTokenAccountsByOwner"] = `{"context":{"slot":10},"value":[]}`
	c := newTestClient(t, node)

	records, err := c.GetHoldingAccounts(context.Background(), solana.NewWallet().PublicKey())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	assert.Contains(t, string(node.lastCalls["getTokenAccountsByOwner"]), solana.TokenProgramID.String())
}

func TestConfirm(t *testing.T) {
	node := newFakeNode()
	c := newTestClient(t, node)
	var sig solana.Signature

	node.results["getSignatureStatuses"] = `{"context":{"slot":10},"value":[null]}`
	conf, err := c.Confirm(context.Background(), sig)
	require.NoError(t, err)
	assert.False(t, conf.Found)

	node.results["getSignatureStatuses"] = `{"context":{"slot":10},"value":[{"slot":9,"confirmations":1,"err":null,"confirmationStatus":"confirmed"}]}`
	conf, err = c.Confirm(context.Background(), sig)
	require.NoError(t, err)
	assert.True(t, conf.Found)
	assert.Equal(t, uint64(9), conf.Slot)
	assert.True(t, conf.Reached(rpc.CommitmentConfirmed))
	assert.False(t, conf.Failed())
}

func testTransaction(t *testing.T) *solana.Transaction {
	t.Helper()
	payer := solana.NewWallet()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1, payer.PublicKey(), solana.NewWallet().PublicKey()).Build()},
		solana.Hash{1},
		solana.TransactionPayer(payer.PublicKey()),
	)
	require.NoError(t, err)
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer.PublicKey()) {
			return &payer.PrivateKey
		}
		return nil
	})
	require.NoError(t, err)
	return tx
}

func TestSendTransactionClassifiesSimulationFailure(t *testing.T) {
	node := newFakeNode()
	node.errors["sendTransaction"] = `{"code":-32002,"message":"Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1",` +
		`"data":{"err":{"InstructionError":[0,{"Custom":1}]},"logs":["Program log: Instruction: TransferChecked","Program log: Error: insufficient funds"]}}`
	c := newTestClient(t, node)

	_, err := c.SendTransaction(context.Background(), testTransaction(t))
	require.Error(t, err)
	assert.Equal(t, domain.KindExecutionRejected, domain.KindOf(err))

	var simErr *SimulationError
	require.ErrorAs(t, err, &simErr)
	assert.Equal(t, "insufficient funds", simErr.ProgramError)
	assert.Len(t, simErr.Logs, 2)
}

func TestSendTransactionBlockhashNotFound(t *testing.T) {
	node := newFakeNode()
	node.errors["sendTransaction"] = `{"code":-32002,"message":"Transaction simulation failed: Blockhash not found","data":{"err":"BlockhashNotFound","logs":[]}}`
	c := newTestClient(t, node)

	_, err := c.SendTransaction(context.Background(), testTransaction(t))
	assert.Equal(t, domain.KindStaleAssembly, domain.KindOf(err))
}

func TestTransportFailureIsNetworkFailure(t *testing.T) {
	c := newTestClient(t, newFakeNode())

	_, err := c.SendTransaction(context.Background(), testTransaction(t))
	assert.Equal(t, domain.KindNetworkFailure, domain.KindOf(err))

	_, err = c.GetBlockHeight(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)

	_, err = c.GetHoldingAccounts(context.Background(), solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
}

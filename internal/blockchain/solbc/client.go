// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

// Client – тонкий адаптер для взаимодействия с блокчейном Solana через solana-go.
// Реализует чтение сети для ядра лаунчпада и отправку подписанных транзакций.
type Client struct {
	rpc        *rpc.Client
	logger     *zap.Logger
	commitment rpc.CommitmentType
	sendOpts   blockchain.TransactionOptions
	analyzer   *ErrorAnalyzer
	now        func() time.Time
}

// NewClient создаёт новый клиент, принимая RPC URL и логгер через dependency injection.
func NewClient(rpcURL string, commitment rpc.CommitmentType, sendOpts blockchain.TransactionOptions, logger *zap.Logger) *Client {
	return newClient(rpc.New(rpcURL), commitment, sendOpts, logger)
}

func newClient(rpcClient *rpc.Client, commitment rpc.CommitmentType, sendOpts blockchain.TransactionOptions, logger *zap.Logger) *Client {
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}
	if sendOpts.PreflightCommitment == "" {
		sendOpts.PreflightCommitment = commitment
	}
	return &Client{
		rpc:        rpcClient,
		logger:     logger.Named("solbc-client"),
		commitment: commitment,
		sendOpts:   sendOpts,
		analyzer:   NewErrorAnalyzer(logger),
		now:        time.Now,
	}
}

func networkError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrNetworkFailure, err)
}

// GetFreshnessToken получает последний blockhash вместе с предельной высотой блока.
func (c *Client) GetFreshnessToken(ctx context.Context) (blockchain.FreshnessToken, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		c.logger.Error("GetLatestBlockhash error", zap.Error(err))
		return blockchain.FreshnessToken{}, networkError("get latest blockhash", err)
	}
	if result == nil || result.Value == nil {
		return blockchain.FreshnessToken{}, networkError("get latest blockhash", errors.New("empty response"))
	}
	return blockchain.FreshnessToken{
		Blockhash:            result.Value.Blockhash,
		LastValidBlockHeight: result.Value.LastValidBlockHeight,
		FetchedAt:            c.now(),
	}, nil
}

// GetBlockHeight возвращает текущую высоту блока.
func (c *Client) GetBlockHeight(ctx context.Context) (uint64, error) {
	height, err := c.rpc.GetBlockHeight(ctx, c.commitment)
	if err != nil {
		c.logger.Debug("GetBlockHeight error", zap.Error(err))
		return 0, networkError("get block height", err)
	}
	return height, nil
}

// GetMinimumRentExemptBalance возвращает минимальный баланс, освобождающий аккаунт от ренты.
func (c *Client) GetMinimumRentExemptBalance(ctx context.Context, size uint64) (uint64, error) {
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, size, c.commitment)
	if err != nil {
		c.logger.Error("GetMinimumBalanceForRentExemption error",
			zap.Uint64("size", size),
			zap.Error(err))
		return 0, networkError("get rent-exempt balance", err)
	}
	return lamports, nil
}

// GetAccountInfo получает аккаунт. Отсутствующий аккаунт не считается ошибкой: (nil, nil).
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*blockchain.AccountRecord, error) {
	result, err := c.rpc.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		c.logger.Debug("GetAccountInfo error",
			zap.String("pubkey", pubkey.String()),
			zap.Error(err))
		return nil, networkError("get account info", err)
	}
	if result == nil || result.Value == nil {
		return nil, nil
	}
	return toRecord(pubkey, result.Value), nil
}

// GetAccounts получает несколько аккаунтов за один запрос. Отсутствующие остаются nil на своих местах.
func (c *Client) GetAccounts(ctx context.Context, pubkeys []solana.PublicKey) ([]*blockchain.AccountRecord, error) {
	if len(pubkeys) == 0 {
		return []*blockchain.AccountRecord{}, nil
	}

	res, err := c.rpc.GetMultipleAccountsWithOpts(ctx, pubkeys, &rpc.GetMultipleAccountsOpts{
		Commitment: c.commitment,
		Encoding:   solana.EncodingBase64,
	})
	if err != nil {
		c.logger.Debug("GetMultipleAccounts error", zap.Int("count", len(pubkeys)), zap.Error(err))
		return nil, networkError("get multiple accounts", err)
	}

	out := make([]*blockchain.AccountRecord, len(pubkeys))
	for i, acc := range res.Value {
		if i >= len(out) {
			break
		}
		if acc != nil {
			out[i] = toRecord(pubkeys[i], acc)
		}
	}
	return out, nil
}

// GetHoldingAccounts возвращает все токен-аккаунты SPL Token, принадлежащие владельцу.
func (c *Client) GetHoldingAccounts(ctx context.Context, owner solana.PublicKey) ([]blockchain.AccountRecord, error) {
	programID := solana.TokenProgramID
	res, err := c.rpc.GetTokenAccountsByOwner(ctx, owner,
		&rpc.GetTokenAccountsConfig{ProgramId: &programID},
		&rpc.GetTokenAccountsOpts{
			Commitment: c.commitment,
			Encoding:   solana.EncodingBase64,
		},
	)
	if err != nil {
		c.logger.Warn("GetTokenAccountsByOwner error",
			zap.String("owner", owner.String()),
			zap.Error(err))
		return nil, networkError("get token accounts by owner", err)
	}

	records := make([]blockchain.AccountRecord, 0, len(res.Value))
	for _, ta := range res.Value {
		if ta == nil {
			continue
		}
		records = append(records, *toRecord(ta.Pubkey, &ta.Account))
	}
	return records, nil
}

// Confirm делает один опрос статуса подписи.
func (c *Client) Confirm(ctx context.Context, signature solana.Signature) (blockchain.Confirmation, error) {
	result, err := c.rpc.GetSignatureStatuses(ctx, false, signature)
	if err != nil {
		c.logger.Debug("GetSignatureStatuses error", zap.Error(err))
		return blockchain.Confirmation{}, networkError("get signature statuses", err)
	}

	conf := blockchain.Confirmation{Signature: signature}
	if result == nil || len(result.Value) == 0 || result.Value[0] == nil {
		return conf, nil
	}

	status := result.Value[0]
	conf.Found = true
	conf.Slot = status.Slot
	conf.Status = status.ConfirmationStatus
	conf.Err = status.Err
	return conf, nil
}

// SendTransaction отправляет подписанную транзакцию. Отказ preflight-симуляции
// оборачивается в domain.ErrExecutionRejected, транспортные ошибки в domain.ErrNetworkFailure.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       c.sendOpts.SkipPreflight,
		PreflightCommitment: c.sendOpts.PreflightCommitment,
	})
	if err != nil {
		c.logger.Error("SendTransaction error", zap.Error(err))
		return solana.Signature{}, c.analyzer.Classify("send transaction", err)
	}
	return sig, nil
}

func toRecord(address solana.PublicKey, acc *rpc.Account) *blockchain.AccountRecord {
	rec := &blockchain.AccountRecord{
		Address:    address,
		Owner:      acc.Owner,
		Lamports:   acc.Lamports,
		Executable: acc.Executable,
	}
	if acc.Data != nil {
		rec.Data = acc.Data.GetBinary()
	}
	return rec
}

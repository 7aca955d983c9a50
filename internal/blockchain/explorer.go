// internal/blockchain/explorer.go
package blockchain

import (
	"fmt"
	"strings"
)

// Cluster: имя сети Solana.
type Cluster string

const (
	ClusterDevnet      Cluster = "devnet"
	ClusterTestnet     Cluster = "testnet"
	ClusterMainnetBeta Cluster = "mainnet-beta"
	ClusterLocalnet    Cluster = "localnet"
)

const explorerBaseURL = "https://explorer.solana.com"

// Valid проверяет имя сети.
func (c Cluster) Valid() bool {
	switch c {
	case ClusterDevnet, ClusterTestnet, ClusterMainnetBeta, ClusterLocalnet:
		return true
	}
	return false
}

// DefaultRPCURL возвращает публичный RPC-эндпоинт сети.
func (c Cluster) DefaultRPCURL() string {
	switch c {
	case ClusterMainnetBeta:
		return "https://api.mainnet-beta.solana.com"
	case ClusterTestnet:
		return "https://api.testnet.solana.com"
	case ClusterLocalnet:
		return "http://127.0.0.1:8899"
	default:
		return "https://api.devnet.solana.com"
	}
}

// ExplorerTxURL: ссылка на транзакцию в Solana Explorer.
func (c Cluster) ExplorerTxURL(signature fmt.Stringer) string {
	return c.explorerURL("tx", signature.String())
}

// ExplorerAddressURL: ссылка на аккаунт (например, минт) в Solana Explorer.
func (c Cluster) ExplorerAddressURL(address fmt.Stringer) string {
	return c.explorerURL("address", address.String())
}

func (c Cluster) explorerURL(kind, id string) string {
	var b strings.Builder
	b.WriteString(explorerBaseURL)
	b.WriteString("/")
	b.WriteString(kind)
	b.WriteString("/")
	b.WriteString(id)

	switch c {
	case ClusterMainnetBeta, "":
	case ClusterLocalnet:
		b.WriteString("?cluster=custom&customUrl=")
		b.WriteString("http%3A%2F%2F127.0.0.1%3A8899")
	default:
		b.WriteString("?cluster=")
		b.WriteString(string(c))
	}
	return b.String()
}

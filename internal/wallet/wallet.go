// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"
)

// ErrWalletNotFound: в файле нет кошелька с таким именем.
var ErrWalletNotFound = errors.New("wallet not found")

// Wallet представляет кошелёк Solana.
type Wallet struct {
	Name       string
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
}

// NewWallet создаёт новый кошелёк из base58-encoded приватного ключа.
func NewWallet(privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(strings.TrimSpace(privateKeyBase58))
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	return fromBytes(privateKeyBytes)
}

// NewWalletFromKeygen создаёт кошелёк из JSON-массива байт (формат solana-keygen).
func NewWalletFromKeygen(data []byte) (*Wallet, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("failed to parse keypair JSON: %w", err)
	}
	raw := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("invalid keypair byte at %d: %d", i, v)
		}
		raw[i] = byte(v)
	}
	return fromBytes(raw)
}

func fromBytes(privateKeyBytes []byte) (*Wallet, error) {
	if len(privateKeyBytes) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(privateKeyBytes))
	}
	privateKey := solana.PrivateKey(privateKeyBytes)
	publicKey := privateKey.PublicKey()

	// Вторая половина ключа должна совпадать с публичным ключом.
	if !solana.PublicKeyFromBytes(privateKeyBytes[32:]).Equals(publicKey) {
		return nil, fmt.Errorf("private key does not match its public half")
	}

	return &Wallet{
		PrivateKey: privateKey,
		PublicKey:  publicKey,
	}, nil
}

// WalletConfig represents the structure of wallets YAML file
type WalletConfig struct {
	Wallets []struct {
		Name       string `yaml:"name"`
		PrivateKey string `yaml:"private_key"`
	} `yaml:"wallets"`
}

// LoadWallets загружает кошельки из файла. Формат определяется расширением:
// .yaml/.yml содержит список name/private_key, .csv содержит колонки [Name, PrivateKeyBase58],
// .json хранит keypair от solana-keygen (имя кошелька берётся из имени файла).
func LoadWallets(path string) (map[string]*Wallet, error) {
	cleanPath := filepath.Clean(path)

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var wallets map[string]*Wallet
	switch strings.ToLower(filepath.Ext(cleanPath)) {
	case ".yaml", ".yml":
		wallets, err = parseYAML(data)
	case ".csv":
		wallets, err = parseCSV(data)
	case ".json":
		var w *Wallet
		w, err = NewWalletFromKeygen(data)
		if err == nil {
			name := strings.TrimSuffix(filepath.Base(cleanPath), filepath.Ext(cleanPath))
			wallets = map[string]*Wallet{name: w}
		}
	default:
		return nil, fmt.Errorf("unsupported wallet file format: %s", filepath.Ext(cleanPath))
	}
	if err != nil {
		return nil, err
	}

	if len(wallets) == 0 {
		return nil, fmt.Errorf("no valid wallets loaded")
	}
	for name, w := range wallets {
		w.Name = name
	}
	return wallets, nil
}

// LoadWallet загружает один кошелёк по имени. Пустое имя допустимо,
// если в файле ровно один кошелёк.
func LoadWallet(path, name string) (*Wallet, error) {
	wallets, err := LoadWallets(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		if len(wallets) != 1 {
			return nil, fmt.Errorf("%d wallets in %s, wallet name is required", len(wallets), path)
		}
		for _, w := range wallets {
			return w, nil
		}
	}
	w, ok := wallets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return w, nil
}

func parseYAML(data []byte) (map[string]*Wallet, error) {
	var config WalletConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(config.Wallets) == 0 {
		return nil, fmt.Errorf("no wallets found in configuration")
	}

	wallets := make(map[string]*Wallet)
	for _, walletData := range config.Wallets {
		if walletData.Name == "" || walletData.PrivateKey == "" {
			continue
		}
		w, err := NewWallet(walletData.PrivateKey)
		if err != nil {
			continue
		}
		wallets[walletData.Name] = w
	}
	return wallets, nil
}

func parseCSV(data []byte) (map[string]*Wallet, error) {
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV file is empty or missing data")
	}

	wallets := make(map[string]*Wallet)
	for _, record := range records[1:] {
		if len(record) != 2 {
			continue
		}
		w, err := NewWallet(record[1])
		if err != nil {
			continue
		}
		wallets[record[0]] = w
	}
	return wallets, nil
}

// SignTransaction подписывает транзакцию ключом кошелька и дополнительными ключами.
// Если для какого-либо обязательного подписанта ключа нет, возвращается ошибка.
func (w *Wallet) SignTransaction(tx *solana.Transaction, extra ...solana.PrivateKey) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.PublicKey) {
			return &w.PrivateKey
		}
		for i := range extra {
			if extra[i].PublicKey().Equals(key) {
				return &extra[i]
			}
		}
		return nil
	})
	return err
}

// String возвращает строковое представление кошелька (его публичный ключ).
func (w *Wallet) String() string {
	return w.PublicKey.String()
}

// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/spf13/viper"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
)

// EnvPrefix: префикс переменных окружения: LAUNCHPAD_RPC_URL и т.д.
const EnvPrefix = "LAUNCHPAD"

type Config struct {
	RPCURL        string `mapstructure:"rpc_url"`
	Cluster       string `mapstructure:"cluster"`
	Commitment    string `mapstructure:"commitment"`
	WalletPath    string `mapstructure:"wallet_path"`
	WalletName    string `mapstructure:"wallet_name"`
	SkipPreflight bool   `mapstructure:"skip_preflight"`

	ConfirmInterval    time.Duration `mapstructure:"-"`
	ConfirmIntervalMS  int           `mapstructure:"confirm_interval_ms"`
	ConfirmTimeout     time.Duration `mapstructure:"-"`
	ConfirmTimeoutMS   int           `mapstructure:"confirm_timeout_ms"`
	ConfirmMaxAttempts int           `mapstructure:"confirm_max_attempts"`
	BlockhashMaxAge    time.Duration `mapstructure:"-"`
	BlockhashMaxAgeMS  int           `mapstructure:"blockhash_max_age_ms"`

	ComputeUnitLimit uint32 `mapstructure:"compute_unit_limit"`
	PriorityFee      uint64 `mapstructure:"priority_fee_micro_lamports"`

	DebugLogging bool   `mapstructure:"debug_logging"`
	LogFile      string `mapstructure:"log_file"`
	MetricsAddr  string `mapstructure:"metrics_addr"`

	// ExportDir: каталог для выгрузки балансов (csv/json).
	ExportDir string `mapstructure:"export_dir"`
}

const (
	DefaultCluster            = string(blockchain.ClusterDevnet)
	DefaultCommitment         = string(rpc.CommitmentConfirmed)
	DefaultConfirmIntervalMS  = 500
	DefaultConfirmTimeoutMS   = 30_000
	DefaultConfirmMaxAttempts = 60
	DefaultBlockhashMaxAgeMS  = 60_000
	DefaultLogFile            = "logs/launchpad.log"
	DefaultExportDir          = "exports"
)

// Load читает конфигурацию из файла (JSON или YAML) и переменных окружения.
// Пустой path: только значения по умолчанию и окружение.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"rpc_url":                     "",
		"cluster":                     DefaultCluster,
		"commitment":                  DefaultCommitment,
		"wallet_path":                 "",
		"wallet_name":                 "",
		"skip_preflight":              false,
		"confirm_interval_ms":         DefaultConfirmIntervalMS,
		"confirm_timeout_ms":          DefaultConfirmTimeoutMS,
		"confirm_max_attempts":        DefaultConfirmMaxAttempts,
		"blockhash_max_age_ms":        DefaultBlockhashMaxAgeMS,
		"compute_unit_limit":          0,
		"priority_fee_micro_lamports": 0,
		"debug_logging":               false,
		"log_file":                    DefaultLogFile,
		"metrics_addr":                "",
		"export_dir":                  DefaultExportDir,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	// Convert ms to Duration
	cfg.ConfirmInterval = time.Duration(cfg.ConfirmIntervalMS) * time.Millisecond
	cfg.ConfirmTimeout = time.Duration(cfg.ConfirmTimeoutMS) * time.Millisecond
	cfg.BlockhashMaxAge = time.Duration(cfg.BlockhashMaxAgeMS) * time.Millisecond

	cfg.Cluster = strings.TrimSpace(cfg.Cluster)
	if cfg.RPCURL == "" {
		cfg.RPCURL = blockchain.Cluster(cfg.Cluster).DefaultRPCURL()
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if !blockchain.Cluster(cfg.Cluster).Valid() {
		return fmt.Errorf("invalid cluster %q", cfg.Cluster)
	}
	if err := validateURLWithCache(cfg.RPCURL, "http"); err != nil {
		return fmt.Errorf("invalid rpc_url: %w", err)
	}
	switch rpc.CommitmentType(cfg.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		return fmt.Errorf("invalid commitment %q", cfg.Commitment)
	}
	if cfg.WalletPath == "" {
		return errors.New("wallet_path is required")
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.ConfirmIntervalMS <= 0 {
		return errors.New("invalid confirm_interval_ms")
	}
	if cfg.ConfirmTimeoutMS < cfg.ConfirmIntervalMS {
		return errors.New("confirm_timeout_ms must not be shorter than confirm_interval_ms")
	}
	if cfg.ConfirmMaxAttempts <= 0 {
		return errors.New("invalid confirm_max_attempts")
	}
	if cfg.BlockhashMaxAgeMS < 0 {
		return errors.New("invalid blockhash_max_age_ms")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) || parsed.Host == "" {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

// TransactionConfig переносит настройки отправки в конфиг координатора.
func (c *Config) TransactionConfig() transaction.Config {
	return transaction.Config{
		ConfirmInterval:  c.ConfirmInterval,
		ConfirmTimeout:   c.ConfirmTimeout,
		MaxAttempts:      uint(c.ConfirmMaxAttempts),
		BlockhashMaxAge:  c.BlockhashMaxAge,
		Commitment:       rpc.CommitmentType(c.Commitment),
		Cluster:          blockchain.Cluster(c.Cluster),
		ComputeUnitLimit: c.ComputeUnitLimit,
		PriorityFee:      c.PriorityFee,
	}
}

// SendOptions: параметры отправки для RPC-клиента.
func (c *Config) SendOptions() blockchain.TransactionOptions {
	return blockchain.TransactionOptions{
		SkipPreflight:       c.SkipPreflight,
		PreflightCommitment: rpc.CommitmentType(c.Commitment),
	}
}

// MaskRPCForLogging скрывает query-параметры RPC URL (там обычно лежат API-ключи).
func (c *Config) MaskRPCForLogging() string {
	parsed, err := url.Parse(c.RPCURL)
	if err != nil || parsed.RawQuery == "" {
		return c.RPCURL
	}
	parsed.RawQuery = "***"
	return parsed.String()
}

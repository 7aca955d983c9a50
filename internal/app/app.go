// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc"
	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain/solbc/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/config"
	"github.com/rovshanmuradov/solana-launchpad/internal/export"
	"github.com/rovshanmuradov/solana-launchpad/internal/launchpad"
	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui"
	"github.com/rovshanmuradov/solana-launchpad/internal/wallet"
)

// Options управляют сборкой приложения.
type Options struct {
	ConfigPath string

	// TUI отключает вывод логов в консоль: терминал принадлежит bubbletea.
	TUI       bool
	LogBuffer *logger.LogBuffer

	// Approver спрашивает пользователя перед подписью; при nil подпись идёт без вопросов.
	Approver wallet.Approver
}

// App связывает конфиг, логгер, кошелёк, RPC-клиент и сервис.
type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Client   *solbc.Client
	Wallet   *wallet.Wallet
	Service  *launchpad.Service
	Exporter *export.HoldingsExporter
	Registry *prometheus.Registry

	metricsSrv *http.Server
}

// New собирает приложение: config -> logger -> wallet -> RPC client -> service.
// Сетевых вызовов не делает.
func New(opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		LogFile:    cfg.LogFile,
		MaxSize:    100,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
		Debug:      cfg.DebugLogging,
		Console:    !opts.TUI,
		Buffer:     opts.LogBuffer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	w, err := wallet.LoadWallet(cfg.WalletPath, cfg.WalletName)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}

	client := solbc.NewClient(cfg.RPCURL, rpc.CommitmentType(cfg.Commitment), cfg.SendOptions(), log.Logger)
	signer := wallet.NewLocalSigner(w, client, opts.Approver, log.Logger)

	registry := prometheus.NewRegistry()
	metrics := transaction.NewMetrics(registry)

	a := &App{
		Config:   cfg,
		Logger:   log,
		Client:   client,
		Wallet:   w,
		Service:  launchpad.NewService(client, signer, cfg.TransactionConfig(), metrics, log.Logger),
		Exporter: export.NewHoldingsExporter(client, log.Logger),
		Registry: registry,
	}

	log.Debug("Application initialized",
		zap.String("cluster", cfg.Cluster),
		zap.String("rpc", cfg.MaskRPCForLogging()),
		zap.String("wallet", w.PublicKey.String()))
	return a, nil
}

// ServeMetrics поднимает /metrics, если задан metrics_addr. Возвращает адрес,
// на котором сервер слушает, или пустую строку.
func (a *App) ServeMetrics() (string, error) {
	if a.Config.MetricsAddr == "" {
		return "", nil
	}

	ln, err := net.Listen("tcp", a.Config.MetricsAddr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", a.Config.MetricsAddr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{MaxRequestsInFlight: 1}))
	a.metricsSrv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := a.metricsSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Metrics server stopped", zap.Error(err))
		}
	}()

	a.Logger.Info("Metrics endpoint started", zap.String("addr", ln.Addr().String()))
	return ln.Addr().String(), nil
}

// Close останавливает сервер метрик и сбрасывает логи.
func (a *App) Close() error {
	var errs []error
	if a.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		errs = append(errs, a.metricsSrv.Shutdown(ctx))
	}
	errs = append(errs, a.Logger.Sync())
	return errors.Join(errs...)
}

// SignalContext отменяется по SIGINT/SIGTERM. Отмена прекращает ожидание
// подтверждения, но не отзывает уже отправленную транзакцию.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// UIServices собирает зависимости экранов TUI.
func (a *App) UIServices(ctx context.Context, logs *logger.LogBuffer) *ui.Services {
	return &ui.Services{
		Ctx:       ctx,
		Launchpad: a.Service,
		Exporter:  a.Exporter,
		Logs:      logs,
		Bus:       ui.NewBus(64, a.Logger.Logger),
		Logger:    a.Logger.Named("tui"),
		ExportDir: a.Config.ExportDir,
	}
}

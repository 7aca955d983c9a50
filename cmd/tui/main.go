package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/app"
	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/screen"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "configs/config.yaml", "Path to config file")
	flag.Parse()

	// Create context with signal handling
	rootCtx, stop := app.SignalContext(context.Background())
	defer stop()

	// Logs go to the file and to the in-memory buffer shown by the UI
	logs := logger.NewLogBuffer(500)
	a, err := app.New(app.Options{ConfigPath: *configPath, TUI: true, LogBuffer: logs})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() {
		_ = a.Close()
	}()

	if _, err := a.ServeMetrics(); err != nil {
		a.Logger.Warn("Metrics endpoint disabled", zap.Error(err))
	}

	a.Logger.Info("🚀 Starting Solana Launchpad TUI",
		zap.String("wallet", a.Wallet.PublicKey.String()),
		zap.String("cluster", a.Config.Cluster))

	if err := screen.Run(rootCtx, a.UIServices(rootCtx, logs)); err != nil {
		a.Logger.Error("💥 TUI application failed", zap.Error(err))
		return
	}

	a.Logger.Info("🛑 Shutting down TUI application")
}

package main

import (
	"context"
	"os"

	"github.com/rovshanmuradov/solana-launchpad/internal/app"
)

func main() {
	ctx, stop := app.SignalContext(context.Background())
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

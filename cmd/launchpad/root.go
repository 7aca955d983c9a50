package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-launchpad/internal/app"
	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/wallet"
)

const (
	flagConfig = "config"
	flagYes    = "yes"
)

type rootFlags struct {
	configPath string
	yes        bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "launchpad",
		Short:         "create, transfer and inspect SPL tokens on Solana",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, flagConfig, "c", "configs/config.yaml", "path to the config file (yaml or json); environment uses the LAUNCHPAD_ prefix")
	cmd.PersistentFlags().BoolVarP(&flags.yes, flagYes, "y", false, "sign transactions without asking for confirmation")

	cmd.AddCommand(createCmd(flags))
	cmd.AddCommand(transferCmd(flags))
	cmd.AddCommand(holdingsCmd(flags))
	cmd.AddCommand(tuiCmd(flags))
	return cmd
}

// setup собирает приложение для CLI-команды и поднимает /metrics, если он настроен.
func setup(cmd *cobra.Command, flags *rootFlags) (*app.App, error) {
	var approver wallet.Approver
	if !flags.yes {
		approver = promptApprover(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	a, err := app.New(app.Options{ConfigPath: flags.configPath, Approver: approver})
	if err != nil {
		return nil, err
	}
	if _, err := a.ServeMetrics(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func setupTUI(flags *rootFlags, logs *logger.LogBuffer) (*app.App, error) {
	a, err := app.New(app.Options{ConfigPath: flags.configPath, TUI: true, LogBuffer: logs})
	if err != nil {
		return nil, err
	}
	if _, err := a.ServeMetrics(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/ui/screen"
)

func tuiCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "start the interactive terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			logs := logger.NewLogBuffer(500)
			a, err := setupTUI(flags, logs)
			if err != nil {
				return err
			}
			defer closeApp(a)

			return screen.Run(cmd.Context(), a.UIServices(cmd.Context(), logs))
		},
	}
}

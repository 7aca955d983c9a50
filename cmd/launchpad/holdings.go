package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-launchpad/internal/address"
	"github.com/rovshanmuradov/solana-launchpad/internal/export"
)

func holdingsCmd(flags *rootFlags) *cobra.Command {
	var owner, format, outputDir string
	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "list token balances of a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			a, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer closeApp(a)

			ownerKey := a.Service.Owner()
			if owner != "" {
				if ownerKey, err = address.Parse(owner); err != nil {
					return fmt.Errorf("--owner: %w", err)
				}
			}

			records, err := a.Service.RefreshHoldings(cmd.Context(), ownerKey)
			if err != nil {
				return err
			}
			rows, err := a.Exporter.Rows(cmd.Context(), records)
			if err != nil {
				return err
			}

			if outputDir != "" {
				return exportRows(cmd, a.Exporter, rows, exportFormat, ownerKey, outputDir)
			}
			return a.Exporter.Write(cmd.OutOrStdout(), rows, exportFormat)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "wallet to inspect (defaults to the configured wallet)")
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatTable), "output format: table, csv or json")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "write a csv/json file into this directory instead of stdout")
	return cmd
}

func exportRows(cmd *cobra.Command, e *export.HoldingsExporter, rows []export.Row, format export.ExportFormat, owner solana.PublicKey, dir string) error {
	path, err := e.ExportToFile(rows, format, owner, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d holdings to %s\n", len(rows), path)
	return nil
}

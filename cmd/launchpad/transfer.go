package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-launchpad/internal/address"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

func transferCmd(flags *rootFlags) *cobra.Command {
	var mint, recipient, amountText string
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "send tokens to a wallet, creating its token account when missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			mintKey, err := address.Parse(mint)
			if err != nil {
				return fmt.Errorf("--mint: %w", err)
			}

			a, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer closeApp(a)

			outcome, err := a.Service.TransferToken(cmd.Context(), domain.TransferRequest{
				Mint:      mintKey,
				Recipient: recipient,
				AmountRaw: amountText,
			})
			if err != nil {
				return err
			}
			return printTransferOutcome(cmd.OutOrStdout(), outcome)
		},
	}
	cmd.Flags().StringVar(&mint, "mint", "", "token mint address")
	cmd.Flags().StringVar(&recipient, "to", "", "recipient wallet address")
	cmd.Flags().StringVar(&amountText, "amount", "", "amount in whole tokens, e.g. 2.5")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func printTransferOutcome(w io.Writer, o domain.Outcome) error {
	if !o.Success() {
		return outcomeError(w, o)
	}
	fmt.Fprintf(w, "Transfer confirmed\n")
	fmt.Fprintf(w, "Signature: %s\n", o.Signature)
	fmt.Fprintf(w, "Explorer:  %s\n", o.ExplorerURL)
	return nil
}

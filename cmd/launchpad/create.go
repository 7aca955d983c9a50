package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/solana-launchpad/internal/amount"
	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

func createCmd(flags *rootFlags) *cobra.Command {
	spec := domain.TokenMintSpec{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "create a new SPL token and mint the initial supply to the wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			defer closeApp(a)

			res, err := a.Service.CreateToken(cmd.Context(), spec)
			if err != nil {
				return err
			}
			return printCreateResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&spec.Name, "name", "", "token name")
	cmd.Flags().StringVar(&spec.Symbol, "symbol", "", "token symbol")
	cmd.Flags().Uint8Var(&spec.Decimals, "decimals", 9, fmt.Sprintf("decimal places, 0..%d", domain.MaxDecimals))
	cmd.Flags().StringVar(&spec.InitialSupplyRaw, "supply", "", "initial supply in whole tokens, e.g. 1000000 or 0.5")
	cmd.Flags().BoolVar(&spec.FreezeAuthority, "freeze", false, "keep the wallet as freeze authority")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("symbol")
	_ = cmd.MarkFlagRequired("supply")
	return cmd
}

func printCreateResult(w io.Writer, res domain.CreateResult) error {
	if !res.Success() {
		// По адресу минта можно проверить, попала ли транзакция в сеть.
		if !res.Mint.IsZero() {
			fmt.Fprintf(w, "Mint:      %s\n", res.Mint)
		}
		return outcomeError(w, res.Outcome)
	}
	fmt.Fprintf(w, "Token %s (%s) created\n", res.Name, res.Symbol)
	fmt.Fprintf(w, "Mint:      %s\n", res.Mint)
	fmt.Fprintf(w, "Supply:    %s\n", amount.FormatBaseUnits(res.Supply, res.Decimals))
	fmt.Fprintf(w, "Signature: %s\n", res.Signature)
	fmt.Fprintf(w, "Explorer:  %s\n", res.ExplorerURL)
	fmt.Fprintf(w, "Mint page: %s\n", res.MintExplorerURL)
	return nil
}

// outcomeError печатает отказ и возвращает ошибку для ненулевого кода выхода.
func outcomeError(w io.Writer, o domain.Outcome) error {
	if !o.Signature.IsZero() {
		fmt.Fprintf(w, "Signature: %s\n", o.Signature)
		if o.ExplorerURL != "" {
			fmt.Fprintf(w, "Explorer:  %s\n", o.ExplorerURL)
		}
		if o.State == domain.StateTimedOut {
			fmt.Fprintln(w, "The transaction may still land; check the explorer before retrying.")
		}
	}
	if o.Kind.Local() {
		fmt.Fprintln(w, "Nothing was sent; fix the input and try again.")
	}
	return fmt.Errorf("%s (%s): %s", o.State, o.Kind, o.Reason)
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-launchpad/internal/token"
	"github.com/rovshanmuradov/solana-launchpad/internal/wallet"
)

// promptApprover показывает состав транзакции и ждёт "y" на входе.
// Отмена ctx считается отказом.
func promptApprover(in io.Reader, out io.Writer) wallet.Approver {
	reader := bufio.NewReader(in)
	return func(ctx context.Context, tx *solana.Transaction) (bool, error) {
		fmt.Fprintln(out, describeTransaction(tx))
		fmt.Fprint(out, "Sign and send? [y/N]: ")

		answer := make(chan string, 1)
		go func() {
			line, _ := reader.ReadString('\n')
			answer <- line
		}()

		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case line := <-answer:
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "y", "yes":
				return true, nil
			default:
				return false, nil
			}
		}
	}
}

func describeTransaction(tx *solana.Transaction) string {
	var b strings.Builder
	payer := solana.PublicKey{}
	if len(tx.Message.AccountKeys) > 0 {
		payer = tx.Message.AccountKeys[0]
	}
	fmt.Fprintf(&b, "Transaction paid by %s, %d instruction(s):", payer, len(tx.Message.Instructions))
	for i, ix := range tx.Message.Instructions {
		if int(ix.ProgramIDIndex) >= len(tx.Message.AccountKeys) {
			fmt.Fprintf(&b, "\n  %d. unknown program", i+1)
			continue
		}
		program := tx.Message.AccountKeys[ix.ProgramIDIndex]
		kind := token.KindOf(solana.NewInstruction(program, nil, []byte(ix.Data)))
		if kind == token.KindUnknown {
			fmt.Fprintf(&b, "\n  %d. %s", i+1, program)
			continue
		}
		fmt.Fprintf(&b, "\n  %d. %s", i+1, kind)
	}
	return b.String()
}

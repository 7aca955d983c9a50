// internal/token/kind.go
package token

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	splToken "github.com/gagliardetto/solana-go/programs/token"
)

// Kind: тип инструкции с точки зрения лаунчпада. Используется в логах и тестах.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindCreateAccount
	KindInitializeMint
	KindCreateHoldingAccount
	KindMintTo
	KindTransfer
	KindComputeBudget
)

func (k Kind) String() string {
	switch k {
	case KindCreateAccount:
		return "CreateAccount"
	case KindInitializeMint:
		return "InitializeMint"
	case KindCreateHoldingAccount:
		return "CreateHoldingAccount"
	case KindMintTo:
		return "MintTo"
	case KindTransfer:
		return "Transfer"
	case KindComputeBudget:
		return "ComputeBudget"
	default:
		return "Unknown"
	}
}

// system program кодирует тип инструкции как u32 LE.
const systemCreateAccount uint32 = 0

// KindOf классифицирует инструкцию по программе и первым байтам данных.
func KindOf(ix solana.Instruction) Kind {
	if ix == nil {
		return KindUnknown
	}
	data, err := ix.Data()
	if err != nil {
		return KindUnknown
	}

	switch ix.ProgramID() {
	case solana.SystemProgramID:
		if len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == systemCreateAccount {
			return KindCreateAccount
		}
	case solana.TokenProgramID:
		if len(data) == 0 {
			return KindUnknown
		}
		switch data[0] {
		case splToken.Instruction_InitializeMint, splToken.Instruction_InitializeMint2:
			return KindInitializeMint
		case splToken.Instruction_MintTo, splToken.Instruction_MintToChecked:
			return KindMintTo
		case splToken.Instruction_Transfer, splToken.Instruction_TransferChecked:
			return KindTransfer
		}
	case solana.SPLAssociatedTokenAccountProgramID:
		// Пустые данные или 0 означают Create, 1 означает CreateIdempotent.
		if len(data) == 0 || data[0] <= 1 {
			return KindCreateHoldingAccount
		}
	case solana.ComputeBudget:
		return KindComputeBudget
	}
	return KindUnknown
}

// Kinds возвращает типы инструкций списка в том же порядке.
func Kinds(instructions []solana.Instruction) []Kind {
	out := make([]Kind, len(instructions))
	for i, ix := range instructions {
		out[i] = KindOf(ix)
	}
	return out
}

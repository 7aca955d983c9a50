// internal/domain/outcome.go
package domain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// State: терминальное состояние одной попытки отправки.
type State uint8

const (
	// StateNotSubmitted: попытка завершилась до отправки (валидация, устаревшая сборка).
	StateNotSubmitted State = iota
	StateConfirmed
	StateRejected
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateNotSubmitted:
		return "not_submitted"
	case StateConfirmed:
		return "confirmed"
	case StateRejected:
		return "rejected"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Outcome: результат одной попытки отправки. Либо успех (подпись + ссылка),
// либо отказ (вид + причина); частично заполненным не бывает.
type Outcome struct {
	State       State
	Kind        Kind
	Signature   solana.Signature
	ExplorerURL string
	Reason      string
	Err         error
}

// Success возвращает true только для подтверждённой без ошибки транзакции.
func (o Outcome) Success() bool {
	return o.State == StateConfirmed
}

// Succeeded строит успешный исход.
func Succeeded(sig solana.Signature, explorerURL string) Outcome {
	return Outcome{
		State:       StateConfirmed,
		Kind:        KindNone,
		Signature:   sig,
		ExplorerURL: explorerURL,
	}
}

// Failed строит неуспешный исход. Вид ошибки определяется по err.
func Failed(state State, err error) Outcome {
	return Outcome{
		State:  state,
		Kind:   KindOf(err),
		Reason: err.Error(),
		Err:    err,
	}
}

// Failure: неуспешный исход для уже отправленной транзакции (подпись известна).
func Failure(state State, sig solana.Signature, err error) Outcome {
	o := Failed(state, err)
	o.Signature = sig
	return o
}

func (o Outcome) String() string {
	if o.Success() {
		return fmt.Sprintf("confirmed %s", o.Signature)
	}
	return fmt.Sprintf("%s (%s): %s", o.State, o.Kind, o.Reason)
}

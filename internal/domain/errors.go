// internal/domain/errors.go
package domain

import (
	"context"
	"errors"
)

// Базовые виды ошибок. Все ошибки ядра оборачивают один из них через %w.
var (
	// ErrInvalidInput: сумма/адрес/decimals вне допустимого диапазона. Обнаруживается локально.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPreconditionUnmet: нет подключённого кошелька, не выбран токен и т.п.
	ErrPreconditionUnmet = errors.New("precondition unmet")

	// ErrSignerRejected: пользователь или кошелёк отказался подписывать.
	ErrSignerRejected = errors.New("signer rejected")

	// ErrNetworkFailure: транспортная ошибка RPC.
	ErrNetworkFailure = errors.New("network failure")

	// ErrExecutionRejected: сеть приняла транзакцию, но инструкции упали атомарно.
	ErrExecutionRejected = errors.New("execution rejected")

	// ErrConfirmationTimeout: исход неизвестен, транзакция ещё может попасть в блок.
	ErrConfirmationTimeout = errors.New("confirmation timeout")

	// ErrStaleAssembly: собранная транзакция устарела или уже была отправлена.
	ErrStaleAssembly = errors.New("stale assembly")

	// ErrQueryUnavailable: не удалось прочитать холдинги из-за транспорта.
	ErrQueryUnavailable = errors.New("query unavailable")
)

// Kind классифицирует ошибку для вызывающей стороны.
type Kind uint8

const (
	KindNone Kind = iota
	KindInvalidInput
	KindPreconditionUnmet
	KindSignerRejected
	KindNetworkFailure
	KindExecutionRejected
	KindConfirmationTimeout
	KindStaleAssembly
	KindQueryUnavailable
	KindUnknown
)

var kindNames = map[Kind]string{
	KindNone:                "None",
	KindInvalidInput:        "InvalidInput",
	KindPreconditionUnmet:   "PreconditionUnmet",
	KindSignerRejected:      "SignerRejected",
	KindNetworkFailure:      "NetworkFailure",
	KindExecutionRejected:   "ExecutionRejected",
	KindConfirmationTimeout: "ConfirmationTimeout",
	KindStaleAssembly:       "StaleAssembly",
	KindQueryUnavailable:    "QueryUnavailable",
	KindUnknown:             "Unknown",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Retryable сообщает, безопасно ли повторить весь сценарий заново
// (новая сборка транзакции со свежим blockhash, а не повторная отправка старой).
func (k Kind) Retryable() bool {
	switch k {
	case KindNetworkFailure, KindStaleAssembly, KindQueryUnavailable:
		return true
	default:
		return false
	}
}

// Local: ошибка обнаружена до построения инструкций, пользователь может её исправить.
func (k Kind) Local() bool {
	return k == KindInvalidInput || k == KindPreconditionUnmet
}

// KindOf определяет вид ошибки по цепочке обёрток.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrPreconditionUnmet):
		return KindPreconditionUnmet
	case errors.Is(err, ErrSignerRejected):
		return KindSignerRejected
	case errors.Is(err, ErrExecutionRejected):
		return KindExecutionRejected
	case errors.Is(err, ErrConfirmationTimeout):
		return KindConfirmationTimeout
	case errors.Is(err, ErrStaleAssembly):
		return KindStaleAssembly
	case errors.Is(err, ErrQueryUnavailable):
		return KindQueryUnavailable
	case errors.Is(err, ErrNetworkFailure),
		errors.Is(err, context.DeadlineExceeded):
		return KindNetworkFailure
	default:
		return KindUnknown
	}
}

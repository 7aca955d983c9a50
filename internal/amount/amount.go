// internal/amount/amount.go
package amount

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/solana-launchpad/internal/domain"
)

// ErrInvalidAmount оборачивает domain.ErrInvalidInput.
var ErrInvalidAmount = fmt.Errorf("%w: invalid amount", domain.ErrInvalidInput)

var maxBaseUnits = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ValidateDecimals проверяет точность токена на диапазон [0, 9].
func ValidateDecimals(decimals uint8) error {
	if decimals > domain.MaxDecimals {
		return fmt.Errorf("%w: decimals %d out of range [0,%d]", ErrInvalidAmount, decimals, domain.MaxDecimals)
	}
	return nil
}

// ToBaseUnits переводит количество в целых токенах в базовые единицы:
// round(amount * 10^decimals).
//
// Float не умножается напрямую: значение сначала переводится в кратчайшее
// десятичное представление (2.5 -> "2.5", 0.29 -> "0.29"), затем сдвигается
// на decimals знаков и округляется половиной вверх (для неотрицательных
// значений это то же, что половина от нуля). Так 0.29 при decimals=2 даёт 29,
// а не 28, как при усечении 0.29*100 = 28.999999999999996.
func ToBaseUnits(amount float64, decimals uint8) (uint64, error) {
	if err := ValidateDecimals(decimals); err != nil {
		return 0, err
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: amount must be finite, got %v", ErrInvalidAmount, amount)
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: amount must not be negative, got %v", ErrInvalidAmount, amount)
	}
	return scale(decimal.NewFromFloat(amount), decimals)
}

// ParseBaseUnits: то же, что ToBaseUnits, но из десятичной строки без участия float.
func ParseBaseUnits(text string, decimals uint8) (uint64, error) {
	if err := ValidateDecimals(decimals); err != nil {
		return 0, err
	}
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, fmt.Errorf("%w: amount is empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, s)
	}
	if d.Sign() < 0 {
		return 0, fmt.Errorf("%w: amount must not be negative, got %s", ErrInvalidAmount, s)
	}
	return scale(d, decimals)
}

func scale(d decimal.Decimal, decimals uint8) (uint64, error) {
	units := d.Shift(int32(decimals)).Round(0)
	if units.GreaterThan(maxBaseUnits) {
		return 0, fmt.Errorf("%w: %s with %d decimals exceeds the base-unit range", ErrInvalidAmount, d.String(), decimals)
	}
	return units.BigInt().Uint64(), nil
}

// FromBaseUnits: обратное преобразование, только для отображения.
func FromBaseUnits(units uint64, decimals uint8) float64 {
	f, _ := exact(units, decimals).Float64()
	return f
}

// FormatBaseUnits возвращает точное строковое представление: 2500000, 6 -> "2.500000".
func FormatBaseUnits(units uint64, decimals uint8) string {
	return exact(units, decimals).StringFixed(int32(decimals))
}

func exact(units uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -int32(decimals))
}

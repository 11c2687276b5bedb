package mathutil

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places of a bitcoin amount.
const Precision = 8

var (
	// ErrInvalidAmount ...
	ErrInvalidAmount = fmt.Errorf("amount must be greater than 0")
	// ErrTooManyDecimals ...
	ErrTooManyDecimals = fmt.Errorf(
		"amount must have at most %d decimal places", Precision,
	)
)

// ToSatoshis converts the given BTC amount to satoshis, truncating any
// fraction of satoshi.
func ToSatoshis(btc decimal.Decimal) int64 {
	return btc.Shift(Precision).IntPart()
}

// ToBTC converts the given satoshis to a BTC amount.
func ToBTC(sats int64) decimal.Decimal {
	return decimal.New(sats, -Precision)
}

// FormatBTC returns the satoshis as a BTC amount with fixed 8 decimal places,
// as expected by the bitcoind JSON-RPC interface.
func FormatBTC(sats int64) string {
	return ToBTC(sats).StringFixed(Precision)
}

// ParseBTC parses a strictly positive BTC amount with at most 8 decimal
// places and returns it in satoshis.
func ParseBTC(btc string) (int64, error) {
	amount, err := decimal.NewFromString(btc)
	if err != nil {
		return 0, err
	}
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	sats := amount.Shift(Precision)
	if !sats.Equal(sats.Truncate(0)) {
		return 0, ErrTooManyDecimals
	}
	return sats.IntPart(), nil
}

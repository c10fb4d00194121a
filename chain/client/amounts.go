package client

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// EtherDecimals is the fixed-point scale of the ledger's base units
// (wei per ETH).
const EtherDecimals = 18

// ToBaseUnits converts a human-entered decimal amount in display units
// to base units (wei). The conversion is exact: values with more than
// 18 fractional digits, negative values, empty or non-numeric strings
// fail with ErrInvalidAmount.
func ToBaseUnits(display string) (*big.Int, error) {
	s := strings.TrimSpace(display)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a decimal number", ErrInvalidAmount, display)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, display)
	}
	// Exponent counts the fractional digits as written, so trailing
	// zeros past the 18th place are rejected too.
	if d.Exponent() < -EtherDecimals {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits",
			ErrInvalidAmount, display, EtherDecimals)
	}
	shifted := d.Shift(EtherDecimals)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits",
			ErrInvalidAmount, display, EtherDecimals)
	}
	return shifted.BigInt(), nil
}

// ToDisplayUnits converts base units (wei) back to a decimal string in
// display units. Trailing zeros are trimmed; the result round-trips
// through ToBaseUnits to the same integer.
func ToDisplayUnits(base *big.Int) string {
	if base == nil {
		return "0"
	}
	return decimal.NewFromBigInt(base, -EtherDecimals).String()
}

package api

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MaxClaimAmount bounds a damage item and a claim total, in reference-currency cents (1,000,000,000.00)
const MaxClaimAmount = Currency(100_000_000_000)

// ErrAmountOverflow means a converted amount does not fit in a Currency
var ErrAmountOverflow = errors.New("converted amount is out of range")

var (
	maxCurrency = decimal.NewFromInt(math.MaxInt64)
	minCurrency = decimal.NewFromInt(math.MinInt64)
)

// Currency is an amount in minor units (cents) of whichever currency the field documents
type Currency int

// String formats the amount in major units with two decimals, e.g. "-12.05"
func (c Currency) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Decimal returns the amount in major units
func (c Currency) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// CurrencyFromDecimal rounds an amount in major units to the nearest cent
func CurrencyFromDecimal(d decimal.Decimal) Currency {
	return Currency(d.Shift(2).Round(0).IntPart())
}

// ReferenceToSettlement converts reference-currency cents into settlement-currency cents using a
// reference->settlement rate
func ReferenceToSettlement(amount Currency, fxRate decimal.Decimal) (Currency, error) {
	return centsFromDecimal(decimal.NewFromInt(int64(amount)).Mul(fxRate))
}

// SettlementToReference converts settlement-currency cents into a reference-currency amount in major units,
// rounded to the cent. Only used at the edge of an external call.
func SettlementToReference(amount Currency, fxRate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(amount)).Div(fxRate).Shift(-2).Round(2)
}

// ReferenceDecimalToSettlement converts a reference-currency amount in major units, as reported by an external
// service, into settlement-currency cents
func ReferenceDecimalToSettlement(amount, fxRate decimal.Decimal) (Currency, error) {
	return centsFromDecimal(amount.Shift(2).Mul(fxRate))
}

func centsFromDecimal(cents decimal.Decimal) (Currency, error) {
	cents = cents.Round(0)
	if cents.GreaterThan(maxCurrency) || cents.LessThan(minCurrency) {
		return 0, fmt.Errorf("%w: %s cents", ErrAmountOverflow, cents.String())
	}
	return Currency(cents.IntPart()), nil
}

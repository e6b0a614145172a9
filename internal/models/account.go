package models

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (1/100 of a yuan).
type Money int64

const minorUnitExp = 2

var (
	errNotANumber   = errors.New("not a number")
	errTooPrecise   = errors.New("more than two decimal places")
	errOutOfRange   = errors.New("amount out of range")
	maxMoneyDecimal = decimal.NewFromInt(math.MaxInt64)
	minMoneyDecimal = decimal.NewFromInt(math.MinInt64)
)

// Units builds a Money from whole units.
func Units(n int64) Money {
	return Money(n * 100)
}

// ParseAmount parses user input such as "2000", "2000.5" or "1e3". The only
// error is for text that is not a number; range and precision are left to
// the caller.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, errNotANumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errNotANumber
	}
	return d, nil
}

// MoneyFromDecimal converts d to minor units, failing when it has sub-cent
// digits or does not fit.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	minor := d.Shift(minorUnitExp)
	if !minor.Equal(minor.Truncate(0)) {
		return 0, errTooPrecise
	}
	if minor.GreaterThan(maxMoneyDecimal) || minor.LessThan(minMoneyDecimal) {
		return 0, errOutOfRange
	}
	return Money(minor.IntPart()), nil
}

// ParseMoney parses a stored amount such as "10000.00" or "10000.000000".
func ParseMoney(s string) (Money, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return 0, err
	}
	return MoneyFromDecimal(d)
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorUnitExp)
}

// String renders the stored form, always with two decimal places.
func (m Money) String() string {
	return m.Decimal().StringFixed(minorUnitExp)
}

// Display drops a zero fractional part: 2000.00 -> "2000", 12.50 -> "12.50".
func (m Money) Display() string {
	if m%100 == 0 {
		return m.Decimal().StringFixed(0)
	}
	return m.String()
}

type Account struct {
	ID             string
	Name           string
	IDCard         string
	Balance        Money
	DailyWithdrawn Money
	Locked         bool
}

// AccountSummary is what the account panels of the ATM display.
type AccountSummary struct {
	Account
	SingleWithdrawalLimit Money
	DailyWithdrawalLimit  Money
	RemainingDaily        Money
}

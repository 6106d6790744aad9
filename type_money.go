package payments

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits carried by Money.
const moneyScale = 4

var (
	maxUnits = decimal.NewFromInt(math.MaxInt64)
	minUnits = decimal.NewFromInt(math.MinInt64)
)

// Money is a fixed point amount with exactly four fractional digits.
//
// It is stored as an integer count of ten-thousandths, so arithmetic is exact
// and bounded: Add and Sub report an Overflow error instead of wrapping.
// The zero value is 0.0000.
type Money struct {
	units int64
}

// Units returns the Money worth u ten-thousandths.
func Units(u int64) Money { return Money{units: u} }

// ParseMoney parses a decimal string such as "1.5", ".0001" or "-3".
//
// Amounts that carry more than four significant fractional digits are
// rejected rather than rounded. Trailing zeros beyond the fourth digit are
// accepted since they lose nothing ("1.50000" is 1.5000).
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q is not a decimal number", InvalidAmount, s)
	}
	m, err := fromDecimal(d)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q %v", InvalidAmount, s, err)
	}
	return m, nil
}

// maxExponent bounds the exponent of a value that may fit in Money:
// 10^19 ten-thousandths already exceed math.MaxInt64.
const maxExponent = 19 - moneyScale

// fromDecimal converts an exact decimal to Money.
//
// The exponent is checked against the coefficient size before any rescaling,
// so values such as 1e-5000000 fail without computing huge powers of ten.
func fromDecimal(d decimal.Decimal) (Money, error) {
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return Money{}, nil
	}
	exp := int(d.Exponent())
	digits := len(coef.Text(10))
	if coef.Sign() < 0 {
		digits--
	}
	if exp > maxExponent {
		return Money{}, errors.New("is out of range")
	}
	// A coefficient of n digits is divisible by at most 10^(n-1).
	if exp < -moneyScale-digits || !d.Equal(d.Truncate(moneyScale)) {
		return Money{}, fmt.Errorf("has more than %d fractional digits", moneyScale)
	}
	shifted := d.Shift(moneyScale)
	if shifted.GreaterThan(maxUnits) || shifted.LessThan(minUnits) {
		return Money{}, errors.New("is out of range")
	}
	return Money{units: shifted.IntPart()}, nil
}

// Units returns the amount as a count of ten-thousandths.
func (m Money) Units() int64 { return m.units }

// Decimal returns the exact decimal value of m.
func (m Money) Decimal() decimal.Decimal { return decimal.New(m.units, -moneyScale) }

// String renders m with exactly four fractional digits, e.g. "1.5000".
func (m Money) String() string { return m.Decimal().StringFixed(moneyScale) }

func (m Money) IsZero() bool             { return m.units == 0 }
func (m Money) IsNegative() bool         { return m.units < 0 }
func (m Money) Equal(n Money) bool       { return m.units == n.units }
func (m Money) LessThan(n Money) bool    { return m.units < n.units }
func (m Money) GreaterThan(n Money) bool { return m.units > n.units }

// Add returns m+n, or an Overflow error if the sum does not fit.
func (m Money) Add(n Money) (Money, error) {
	s := m.units + n.units
	if (n.units > 0 && s < m.units) || (n.units < 0 && s > m.units) {
		return Money{}, overflow(m, n)
	}
	return Money{units: s}, nil
}

// Sub returns m-n, or an Overflow error if the difference does not fit.
func (m Money) Sub(n Money) (Money, error) {
	d := m.units - n.units
	if (n.units > 0 && d > m.units) || (n.units < 0 && d < m.units) {
		return Money{}, overflow(m, n)
	}
	return Money{units: d}, nil
}

// MarshalJSON writes m as a bare JSON number with four fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(bytes.TrimSpace(data), `"`)
	v, err := ParseMoney(string(data))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Package money provides an exact, fixed-scale decimal amount for wallet
// balances and transaction values. Two fractional digits, base 10, never
// binary floating point: balance snapshots stored in the journal must
// reproduce bit-for-bit on replay.
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every Amount carries.
const Scale = 2

var ErrInvalidAmount = errors.New("invalid amount")

// Amount is an exact decimal value with two fractional digits.
// The zero value is usable and equals 0.00.
type Amount struct {
	d decimal.Decimal
}

// Zero is the 0.00 amount.
func Zero() Amount {
	return Amount{}
}

// Parse builds an Amount from a decimal literal such as "10", "10.5" or
// "0.01". Literals with more than Scale fractional digits, or anything that
// is not a plain decimal number, fail with ErrInvalidAmount.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if d.Exponent() < -Scale {
		return Amount{}, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidAmount, s, Scale)
	}

	return Amount{d: d}, nil
}

// MustParse is Parse for literals known to be valid, e.g. in tests and the
// round simulator's fixed amounts. It panics on malformed input.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return a
}

func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

func (a Amount) Sub(b Amount) Amount {
	return Amount{d: a.d.Sub(b.d)}
}

func (a Amount) LessThan(b Amount) bool {
	return a.d.LessThan(b.d)
}

func (a Amount) IsZero() bool {
	return a.d.IsZero()
}

func (a Amount) IsNegative() bool {
	return a.d.IsNegative()
}

func (a Amount) Equal(b Amount) bool {
	return a.d.Equal(b.d)
}

// String renders the amount with exactly Scale fractional digits.
func (a Amount) String() string {
	return a.d.StringFixed(Scale)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}

	*a = parsed

	return nil
}

// Scan reads a numeric column. Drivers hand numerics back as []byte or
// string; both are exact decimal literals.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Amount{}
		return nil
	case []byte:
		return a.scanString(string(v))
	case string:
		return a.scanString(v)
	case int64:
		*a = Amount{d: decimal.NewFromInt(v)}
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidAmount, src)
	}
}

func (a *Amount) scanString(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	*a = Amount{d: d}

	return nil
}

// Value writes the amount as a fixed-scale decimal literal.
func (a Amount) Value() (driver.Value, error) {
	return a.String(), nil
}

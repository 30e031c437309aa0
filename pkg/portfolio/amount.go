package portfolio

import (
	"database/sql/driver"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount wraps decimal.Decimal for monetary values and percentages.
// JSON marshaling outputs a number, while arithmetic stays exact.
type Amount struct {
	decimal.Decimal
}

// MarshalJSON outputs the exact decimal as a JSON number (not a string).
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.Decimal.UnmarshalJSON(data)
}

// Value implements driver.Valuer for database writes.
func (a Amount) Value() (driver.Value, error) {
	f, _ := a.Round(4).Float64()
	return f, nil
}

// NewAmount creates an Amount from a float64.
func NewAmount(f float64) Amount {
	return Amount{decimal.NewFromFloat(f)}
}

// NewAmountFromInt creates an Amount from an int64.
func NewAmountFromInt(i int64) Amount {
	return Amount{decimal.NewFromInt(i)}
}

// ParseAmount parses a decimal string. An empty string yields nil.
func ParseAmount(s string) (*Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &Amount{d}, nil
}

// AmountPtr returns a pointer to an Amount built from f.
func AmountPtr(f float64) *Amount {
	a := NewAmount(f)
	return &a
}

func amountPtr(v Amount) *Amount {
	return &v
}

func cloneAmount(a *Amount) *Amount {
	if a == nil {
		return nil
	}
	return amountPtr(*a)
}

// sqlAmount converts a nullable Amount to a value SQLite accepts.
func sqlAmount(a *Amount) any {
	if a == nil {
		return nil
	}
	v, _ := a.Value()
	return v
}

package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a value object representing a monetary amount in integer minor
// currency units (US cents). It is immutable - all operations return new
// Money instances. Amounts are never negative.
type Money struct {
	cents int64
}

// NewMoney creates Money from an amount in cents
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, fmt.Errorf("money amount cannot be negative: %d", cents)
	}
	return Money{cents: cents}, nil
}

// MustMoney creates Money from cents and panics on a negative amount.
// Intended for constants and tests.
func MustMoney(cents int64) Money {
	m, err := NewMoney(cents)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMoneyFromString creates Money from a decimal dollar string (e.g. "4.50")
func NewMoneyFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount string: %w", err)
	}
	return NewMoney(d.Shift(2).Round(0).IntPart())
}

// Zero returns a zero-value Money
func Zero() Money {
	return Money{}
}

// Cents returns the amount in cents
func (m Money) Cents() int64 {
	return m.cents
}

// Decimal returns the amount in dollars as a decimal
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.cents).Shift(-2)
}

// Add returns the sum of two amounts
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Equal reports whether two amounts are the same
func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.cents == 0
}

// String formats the amount as a dollar string with two fraction digits,
// e.g. "$4.50"
func (m Money) String() string {
	return "$" + m.Decimal().StringFixed(2)
}

// MarshalJSON serializes the amount as cents
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.cents)
}

// UnmarshalJSON deserializes the amount from cents
func (m *Money) UnmarshalJSON(data []byte) error {
	var cents int64
	if err := json.Unmarshal(data, &cents); err != nil {
		return err
	}
	parsed, err := NewMoney(cents)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (m Money) Value() (driver.Value, error) {
	return m.cents, nil
}

// Scan implements sql.Scanner for database retrieval
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		m.cents = 0
		return nil
	}
	switch v := value.(type) {
	case int64:
		m.cents = v
		return nil
	case int:
		m.cents = int64(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
}

// AngelaMos | 2026
// money.go

package core

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount that always serializes with two fraction digits,
// so 150 is written as "150.00".
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, ErrInvalidInput)
	}
	return NewMoney(d), nil
}

// Times returns m multiplied by qty, rounded half away from zero to cents.
func (m Money) Times(qty int) Money {
	return NewMoney(m.Mul(decimal.NewFromInt(int64(qty))))
}

func (m Money) String() string {
	return m.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.StringFixed(2))
}

// UnmarshalJSON accepts both JSON numbers and numeric strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("decode amount: %w", err)
	}
	*m = NewMoney(d)
	return nil
}

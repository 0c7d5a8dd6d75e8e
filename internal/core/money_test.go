// AngelaMos | 2026
// money_test.go

package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyTimes(t *testing.T) {
	tests := []struct {
		price string
		qty   int
		want  string
	}{
		{price: "50", qty: 3, want: "150.00"},
		{price: "19.99", qty: 3, want: "59.97"},
		{price: "0.10", qty: 3, want: "0.30"},
		{price: "0.005", qty: 1, want: "0.01"},
		{price: "12.345", qty: 2, want: "24.70"},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			m, err := ParseMoney(tt.price)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Times(tt.qty).String())
		})
	}
}

func TestParseMoneyRejectsGarbage(t *testing.T) {
	_, err := ParseMoney("ten dollars")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMoneyJSON(t *testing.T) {
	type item struct {
		Price Money `json:"price"`
	}

	out, err := json.Marshal(item{Price: NewMoney(decimal.NewFromInt(150))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"150.00"}`, string(out))

	var fromNumber item
	require.NoError(t, json.Unmarshal([]byte(`{"price": 29.5}`), &fromNumber))
	assert.Equal(t, "29.50", fromNumber.Price.String())

	var fromString item
	require.NoError(t, json.Unmarshal([]byte(`{"price": "29.999"}`), &fromString))
	assert.Equal(t, "30.00", fromString.Price.String())

	var bad item
	assert.Error(t, json.Unmarshal([]byte(`{"price": "abc"}`), &bad))
}

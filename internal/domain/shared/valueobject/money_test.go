package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(10.50), USD)

		require.NoError(t, err)
		assert.Equal(t, "10.50", m.StringFixed(2))
		assert.Equal(t, USD, m.Currency())
	})

	t.Run("fails with empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")

		assert.Error(t, err)
	})

	t.Run("creates from string", func(t *testing.T) {
		m, err := NewMoneyUSDFromString("99.99")

		require.NoError(t, err)
		assert.Equal(t, "99.99", m.Amount().String())
	})

	t.Run("fails with invalid string", func(t *testing.T) {
		_, err := NewMoneyUSDFromString("not-a-number")

		assert.Error(t, err)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("adds same currency", func(t *testing.T) {
		a := NewMoneyUSDFromFloat(10.25)
		b := NewMoneyUSDFromFloat(5.75)

		sum, err := a.Add(b)

		require.NoError(t, err)
		assert.Equal(t, "16.00", sum.StringFixed(2))
	})

	t.Run("fails to add different currencies", func(t *testing.T) {
		a := NewMoneyUSDFromFloat(10)
		b, _ := NewMoney(decimal.NewFromInt(5), EUR)

		_, err := a.Add(b)

		assert.Error(t, err)
	})

	t.Run("subtracts", func(t *testing.T) {
		a := NewMoneyUSDFromFloat(10)
		b := NewMoneyUSDFromFloat(3.5)

		diff, err := a.Subtract(b)

		require.NoError(t, err)
		assert.Equal(t, "6.50", diff.StringFixed(2))
	})

	t.Run("multiplies", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(9.99)

		result := m.Multiply(decimal.NewFromInt(3))

		assert.Equal(t, "29.97", result.StringFixed(2))
	})

	t.Run("calculates percentage", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(200)

		result := m.CalculatePercentage(decimal.NewFromInt(10))

		assert.Equal(t, "20.00", result.StringFixed(2))
	})

	t.Run("negates", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(5)

		assert.True(t, m.Negate().IsNegative())
	})
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyUSDFromFloat(10)
	b := NewMoneyUSDFromFloat(20)

	t.Run("less than", func(t *testing.T) {
		less, err := a.LessThan(b)

		require.NoError(t, err)
		assert.True(t, less)
	})

	t.Run("greater than", func(t *testing.T) {
		greater, err := b.GreaterThan(a)

		require.NoError(t, err)
		assert.True(t, greater)
	})

	t.Run("equals", func(t *testing.T) {
		assert.True(t, a.Equals(NewMoneyUSDFromFloat(10)))
		assert.False(t, a.Equals(b))
	})

	t.Run("zero checks", func(t *testing.T) {
		assert.True(t, ZeroUSD().IsZero())
		assert.True(t, a.IsPositive())
		assert.False(t, a.IsNegative())
	})
}

func TestMoney_JSON(t *testing.T) {
	t.Run("marshals to amount and currency", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(12.5)

		data, err := json.Marshal(m)

		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":"12.5","currency":"USD"}`, string(data))
	})

	t.Run("unmarshals", func(t *testing.T) {
		var m Money
		err := json.Unmarshal([]byte(`{"amount":"42.42","currency":"EUR"}`), &m)

		require.NoError(t, err)
		assert.Equal(t, "42.42", m.Amount().String())
		assert.Equal(t, EUR, m.Currency())
	})
}

func TestMoney_DatabaseRoundTrip(t *testing.T) {
	t.Run("value returns amount string", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(3.14)

		v, err := m.Value()

		require.NoError(t, err)
		assert.Equal(t, "3.14", v)
	})

	t.Run("scan parses string and defaults currency", func(t *testing.T) {
		var m Money
		err := m.Scan("7.77")

		require.NoError(t, err)
		assert.Equal(t, "7.77", m.Amount().String())
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scan nil yields zero", func(t *testing.T) {
		var m Money
		err := m.Scan(nil)

		require.NoError(t, err)
		assert.True(t, m.IsZero())
	})
}

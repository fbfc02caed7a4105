package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2Cents(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int64
	}{
		{"exact", "12.34", 1234},
		{"half rounds away from zero", "0.125", 13},
		{"below half rounds down", "0.124", 12},
		{"above half rounds up", "0.1251", 13},
		{"integer", "1380", 138000},
		{"fifteen percent of 401", "60.15", 6015},
		{"zero", "0", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := decimal.RequireFromString(tc.in)
			assert.Equal(t, tc.want, Round2Cents(d))
		})
	}
}

func TestRound2HalfAwayFromZero(t *testing.T) {
	// 0.005 must round to 0.01, not to 0.00 as banker's rounding would.
	got := Round2(decimal.RequireFromString("0.005"))
	assert.True(t, got.Equal(decimal.RequireFromString("0.01")), "got %s", got)
}

func TestFromCentsFormat(t *testing.T) {
	assert.Equal(t, "1380.00", Format(138000))
	assert.Equal(t, "0.05", Format(5))
	assert.True(t, FromCents(1234).Equal(decimal.RequireFromString("12.34")))
}

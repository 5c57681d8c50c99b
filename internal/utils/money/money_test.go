package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSplitEven(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		n     int
		want  int64
	}{
		{"exact division", 100, 4, 25},
		{"ceiling on remainder", 100, 3, 34},
		{"zero shares", 100, 0, 0},
		{"zero total", 0, 5, 0},
		{"single share", 4200, 1, 4200},
		{"remainder of one", 10001, 2, 5001},
		{"negative exact division", -100, 4, -25},
		{"negative rounds away from zero", -100, 3, -34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitEven(tt.total, tt.n))
		})
	}
}

// Share spread stays within one unit of the exact quotient, so repeated
// allocation can never lose money in either direction.
func TestSplitEvenCoversTotal(t *testing.T) {
	for _, total := range []int64{1, 99, 100, 12345, 99999, -1, -99, -12345} {
		for n := 1; n <= 12; n++ {
			share := SplitEven(total, n)
			covered := share * int64(n)
			if total >= 0 {
				assert.GreaterOrEqual(t, covered, total,
					"n shares of %d must cover total %d", share, total)
				assert.Less(t, covered-total, int64(n),
					"overshoot must stay below one unit per share")
			} else {
				assert.LessOrEqual(t, covered, total,
					"n shares of %d must cover total %d", share, total)
				assert.Less(t, total-covered, int64(n),
					"overshoot must stay below one unit per share")
			}
		}
	}
}

func TestTip(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   int64
	}{
		{"rounds up", 3334, 3340},
		{"multiple of ten unchanged", 3340, 3340},
		{"zero unchanged", 0, 0},
		{"negative rounds away from zero", -1537, -1540},
		{"negative multiple of ten unchanged", -1500, -1500},
		{"single unit", 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tip(tt.amount))
		})
	}
}

func TestRoundWon(t *testing.T) {
	assert.Equal(t, int64(9), RoundWon(decimal.NewFromFloat(9.4)))
	assert.Equal(t, int64(10), RoundWon(decimal.NewFromFloat(9.5)))
	assert.Equal(t, int64(-10), RoundWon(decimal.NewFromFloat(-9.5)))
	assert.Equal(t, int64(20000), RoundWon(decimal.NewFromInt(2000).Mul(decimal.NewFromInt(10))))
}

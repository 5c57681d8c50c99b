// Package money holds the integer arithmetic primitives shared by the
// split and trip engines. All amounts are whole KRW.
package money

import "github.com/shopspring/decimal"

// SplitEven divides total across n shares, pushing any remainder into
// every reported share by rounding the quotient away from zero, so n
// shares always cover the total regardless of sign. A zero share count
// yields zero rather than an error so that attendee-less payments
// degrade to a no-op instead of a divide-by-zero.
func SplitEven(total int64, n int) int64 {
	if n == 0 {
		return 0
	}
	nn := int64(n)
	q, r := total/nn, total%nn
	switch {
	case r > 0:
		return q + 1
	case r < 0:
		return q - 1
	}
	return q
}

// Tip rounds the magnitude of amount up to the next multiple of 10,
// preserving sign: Tip(1537) == 1540, Tip(-1537) == -1540. Amounts
// already on a 10-unit boundary pass through unchanged. This is a
// transfer-link convenience only, never the authoritative figure.
func Tip(amount int64) int64 {
	r := amount % 10
	if r == 0 {
		return amount
	}
	if amount > 0 {
		return amount + 10 - r
	}
	return amount - (10 + r)
}

// RoundWon rounds a decimal amount half away from zero to a whole
// currency unit. Used at the single point where a foreign original
// price is normalized into the settlement currency.
func RoundWon(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

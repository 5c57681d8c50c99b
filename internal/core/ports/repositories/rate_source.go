package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateSource fetches current exchange rates from an external provider.
// Rates are quoted provider-style, "1 KRW = X units of currency";
// callers that need the KRW price of one foreign unit invert them.
type RateSource interface {
	// FetchLatestRates retrieves today's rates for all currencies the
	// provider quotes against KRW, keyed by currency code.
	FetchLatestRates(ctx context.Context) (map[string]decimal.Decimal, error)
}

package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRateSvcFacade resolves conversion rates into the settlement
// currency, quoted as "1 unit of currency = rate KRW".
type ExchangeRateSvcFacade interface {
	// GetRate resolves the rate for a currency on a date. KRW is always
	// exactly 1 with no lookup. A missing snapshot for today triggers a
	// sync and retry; otherwise the most recent earlier snapshot is used,
	// and finally the identity rate 1. Only storage failures are errors.
	GetRate(ctx context.Context, currency string, date time.Time) (decimal.Decimal, error)

	// SyncDailyRates fetches today's rates from the external source and
	// upserts one snapshot per currency.
	SyncDailyRates(ctx context.Context) error
}

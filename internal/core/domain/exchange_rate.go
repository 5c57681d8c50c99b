package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSnapshot stores the conversion rate for one currency on one
// calendar date, meaning "1 unit of Currency = Rate KRW". Snapshots are
// an append-only daily cache, refreshed by upsert.
type RateSnapshot struct {
	SnapshotID string          `json:"snapshotID"` // Primary key (UUID)
	Date       string          `json:"date"`       // YYYY-MM-DD
	Currency   string          `json:"currency"`   // ISO 4217 code
	Rate       decimal.Decimal `json:"rate"`
	AuditFields
}

// DateKey formats t as the calendar-date key snapshots are stored
// under.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

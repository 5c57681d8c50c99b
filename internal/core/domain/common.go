package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID reference
}

// SettlementCurrency is the currency every payment is normalized into.
// All integer amounts in the domain are denominated in it.
const SettlementCurrency = "KRW"

// DateLayout is the calendar-date key format used for exchange rate
// snapshots and payment dates.
const DateLayout = "2006-01-02"

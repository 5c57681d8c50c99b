package domain

import (
	"github.com/WooHyucks/nbbang-backend/internal/utils/crypto"
	"github.com/WooHyucks/nbbang-backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

// MeetingMode selects the settlement algorithm for a meeting.
type MeetingMode string

const (
	// NWayMeeting splits each payment evenly across its attendees.
	NWayMeeting MeetingMode = "NWAY"
	// SimpleMeeting divides one fixed price by a fixed headcount.
	SimpleMeeting MeetingMode = "SIMPLE"
	// TripMeeting tracks a pooled foreign-currency fund.
	TripMeeting MeetingMode = "TRIP"
)

// Meeting owns members, payments and (for trips) fund contributions.
//
// For non-trip meetings TargetCurrency is implicitly KRW and
// BaseExchangeRate is exactly 1; the invariant is enforced at creation.
type Meeting struct {
	MeetingID int64       `json:"meetingID"`
	UserID    string      `json:"userID"` // owning user
	Name      string      `json:"name"`
	Date      string      `json:"date"` // YYYY-MM-DD
	ShareUUID string      `json:"shareUUID"`
	Mode      MeetingMode `json:"mode"`

	// Simple mode settings.
	SimplePrice       int64 `json:"simplePrice"`
	SimpleMemberCount int   `json:"simpleMemberCount"`

	// Trip mode settings. BaseExchangeRate is "1 foreign unit = ? KRW",
	// fixed at trip creation. InitialGonggeum is the initial pooled fund
	// in KRW.
	CountryCode      string          `json:"countryCode"`
	TargetCurrency   string          `json:"targetCurrency"`
	BaseExchangeRate decimal.Decimal `json:"baseExchangeRate"`
	InitialGonggeum  int64           `json:"initialGonggeum"`

	// Transfer destination for settlement links, sealed at rest.
	Bank           crypto.EncryptedField `json:"-"`
	AccountNumber  crypto.EncryptedField `json:"-"`
	KakaoDepositID string                `json:"-"`

	AuditFields
}

// IsTrip reports whether the meeting runs the shared-fund engine.
func (m *Meeting) IsTrip() bool {
	return m.Mode == TripMeeting
}

// OwnedBy reports whether userID owns this meeting.
func (m *Meeting) OwnedBy(userID string) bool {
	return m.UserID == userID
}

// SimpleMemberAmount is the per-head share of a simple meeting, using
// the same ceiling division as the N-way engine.
func (m *Meeting) SimpleMemberAmount() int64 {
	return money.SplitEven(m.SimplePrice, m.SimpleMemberCount)
}

// SimpleTippedMemberAmount is SimpleMemberAmount rounded up to the next
// 10 KRW.
func (m *Meeting) SimpleTippedMemberAmount() int64 {
	return money.Tip(m.SimpleMemberAmount())
}

// Contribution is the amount in KRW one member has put into a trip
// meeting's shared fund. One row per (member, meeting); top-ups add to
// Amount rather than replacing it.
type Contribution struct {
	ContributionID int64 `json:"contributionID"`
	MemberID       int64 `json:"memberID"`
	MeetingID      int64 `json:"meetingID"`
	Amount         int64 `json:"amount"`
	AuditFields
}

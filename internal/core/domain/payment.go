package domain

import (
	"github.com/WooHyucks/nbbang-backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

// PaymentType distinguishes expenses settled from the shared fund from
// expenses fronted by a single member.
type PaymentType string

const (
	PublicPayment     PaymentType = "PUBLIC"
	IndividualPayment PaymentType = "INDIVIDUAL"
)

// PaymentSource identifies where the money for a payment came from:
// the meeting's shared fund, or one member's pocket. The zero value is
// the shared fund, which replaces the nullable payer id the wire format
// uses (both null and 0 mean "fund" there).
type PaymentSource struct {
	payerID int64
}

// SharedFund returns the source for payments made from the pooled fund.
func SharedFund() PaymentSource {
	return PaymentSource{}
}

// IndividualPayer returns the source for a payment fronted by one member.
// A non-positive memberID collapses to the shared fund.
func IndividualPayer(memberID int64) PaymentSource {
	if memberID <= 0 {
		return PaymentSource{}
	}
	return PaymentSource{payerID: memberID}
}

// IsSharedFund reports whether the payment was made from the pooled fund.
func (s PaymentSource) IsSharedFund() bool {
	return s.payerID == 0
}

// PayerID returns the paying member's id and true when the source is an
// individual payer.
func (s PaymentSource) PayerID() (int64, bool) {
	if s.payerID == 0 {
		return 0, false
	}
	return s.payerID, true
}

// Payment is one expense within a meeting, normalized into the
// settlement currency at creation time.
//
// Price is the authoritative KRW amount. For foreign-currency payments
// OriginalPrice holds the amount in the payment's own currency and
// ExchangeRate the rate frozen when the payment was written; for KRW
// payments Price equals OriginalPrice and the rate is exactly 1.
type Payment struct {
	PaymentID       int64               `json:"paymentID"`
	MeetingID       int64               `json:"meetingID"`
	Name            string              `json:"name"`
	Place           string              `json:"place"`
	Price           int64               `json:"price"`
	OriginalPrice   decimal.Decimal     `json:"originalPrice"`
	Currency        string              `json:"currency"`
	ExchangeRate    decimal.Decimal     `json:"exchangeRate"`
	Source          PaymentSource       `json:"-"`
	PayMemberID     int64               `json:"payMemberID"` // 0 sentinel when Source is the shared fund
	AttendMemberIDs []int64             `json:"attendMemberIDs"`
	Type            PaymentType         `json:"type"`
	OrderNo         *int64              `json:"orderNo,omitempty"`
	AuditFields
}

// SplitPrice is this payment's even per-attendee share in KRW. Payments
// with no attendees split to zero.
func (p *Payment) SplitPrice() int64 {
	return money.SplitEven(p.Price, len(p.AttendMemberIDs))
}

// ForeignCost is the payment's cost in the meeting's foreign currency.
// Foreign payments report their original amount directly; KRW payments
// are converted with the supplied base rate.
func (p *Payment) ForeignCost(baseRate decimal.Decimal) decimal.Decimal {
	if p.Currency != SettlementCurrency && !p.OriginalPrice.IsZero() {
		return p.OriginalPrice
	}
	if baseRate.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(p.Price).Div(baseRate)
}

// References reports whether memberID participates in this payment,
// either as an attendee or as the individual payer. Members referenced
// by a payment cannot be deleted.
func (p *Payment) References(memberID int64) bool {
	if payer, ok := p.Source.PayerID(); ok && payer == memberID {
		return true
	}
	if p.PayMemberID == memberID {
		return true
	}
	for _, id := range p.AttendMemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// Attends reports whether memberID is one of the payment's attendees.
func (p *Payment) Attends(memberID int64) bool {
	for _, id := range p.AttendMemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}

// IsAdvance reports whether this is a KRW advance fronted by a member
// before or during the trip, settled later against the fund.
func (p *Payment) IsAdvance() bool {
	return p.Type == IndividualPayment && p.Currency == SettlementCurrency
}

// IsForeignCard reports whether this is an individual card payment in
// the trip's foreign currency.
func (p *Payment) IsForeignCard() bool {
	return p.Type == IndividualPayment && p.Currency != SettlementCurrency
}

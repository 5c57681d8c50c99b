package domain

import "github.com/shopspring/decimal"

// Direction tells a member which way their settlement transfer flows.
type Direction string

const (
	Receive Direction = "RECEIVE"
	Send    Direction = "SEND"
	None    Direction = "NONE"
)

// DirectionOf classifies a settlement amount: positive balances are
// owed money, negative balances owe money.
func DirectionOf(amount int64) Direction {
	switch {
	case amount > 0:
		return Receive
	case amount < 0:
		return Send
	default:
		return None
	}
}

// FundStatus grades how much of a fund (or a member's share of it)
// remains.
type FundStatus string

const (
	StatusSafe    FundStatus = "SAFE"
	StatusWarning FundStatus = "WARNING"
	StatusDanger  FundStatus = "DANGER"
)

// BurnRateStatus grades the aggregate fund by percentage spent:
// 80%+ spent is DANGER, 60%+ is WARNING.
func BurnRateStatus(burnRate decimal.Decimal) FundStatus {
	switch {
	case burnRate.GreaterThanOrEqual(decimal.NewFromInt(80)):
		return StatusDanger
	case burnRate.GreaterThanOrEqual(decimal.NewFromInt(60)):
		return StatusWarning
	default:
		return StatusSafe
	}
}

// WalletRatioStatus grades one member's remaining share by percentage
// left: below 20% is DANGER, below 50% is WARNING. Deliberately a
// different scale than BurnRateStatus.
func WalletRatioStatus(ratio decimal.Decimal) FundStatus {
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(50)):
		return StatusSafe
	case ratio.GreaterThanOrEqual(decimal.NewFromInt(20)):
		return StatusWarning
	default:
		return StatusDanger
	}
}

// FundOverview is the aggregate state of a trip's shared fund, kept in
// both KRW and foreign units.
type FundOverview struct {
	TotalCollected        int64           `json:"totalCollected"` // KRW
	TotalCollectedForeign decimal.Decimal `json:"totalCollectedForeign"`
	TotalSpent            int64           `json:"totalSpent"` // KRW at base rate
	TotalSpentForeign     decimal.Decimal `json:"totalSpentForeign"`
	Remaining             int64           `json:"remaining"` // KRW at base rate
	RemainingForeign      decimal.Decimal `json:"remainingForeign"`
	BurnRate              decimal.Decimal `json:"burnRate"` // percent, 1 decimal
	Status                FundStatus      `json:"status"`
}

// MemberWallet is one member's share of the shared fund.
type MemberWallet struct {
	MemberID     int64           `json:"memberID"`
	Name         string          `json:"name"`
	InitialShare decimal.Decimal `json:"initialShare"` // foreign units
	UsedAmount   decimal.Decimal `json:"usedAmount"`
	CurrentShare decimal.Decimal `json:"currentShare"`
	Ratio        decimal.Decimal `json:"ratio"` // percent remaining, 1 decimal
	Status       FundStatus      `json:"status"`
}

// MemberSettlement is one member's final netted position in a trip
// settlement.
type MemberSettlement struct {
	MemberID         int64     `json:"memberID"`
	Name             string    `json:"name"`
	PaidContribution int64     `json:"paidContribution"`
	PaidAdvance      int64     `json:"paidAdvance"`
	PaidForeignCard  int64     `json:"paidForeignCard"`
	TotalPaid        int64     `json:"totalPaid"`
	TotalOwed        int64     `json:"totalOwed"`
	SettlementAmount int64     `json:"settlementAmount"`
	TippedAmount     int64     `json:"tippedAmount"`
	Direction        Direction `json:"direction"`
}

// FundValuation is the revalued remaining fund at final-settlement
// time. AppliedRate is the live rate when the lookup succeeded, or the
// trip's frozen base rate as fallback.
type FundValuation struct {
	RemainingForeign decimal.Decimal `json:"remainingForeign"`
	RemainingKRW     int64           `json:"remainingKRW"`
	AppliedRate      decimal.Decimal `json:"appliedRate"`
	RateDate         string          `json:"rateDate"`
	Live             bool            `json:"live"`
}

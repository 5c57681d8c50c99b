package dto

import (
	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MemberBalanceResponse is one member's settled position in an N-way split.
type MemberBalanceResponse struct {
	MemberID     int64  `json:"memberID"`
	Name         string `json:"name"`
	Leader       bool   `json:"leader"`
	Amount       int64  `json:"amount"`
	TippedAmount int64  `json:"tippedAmount"`
}

// ToMemberBalanceResponse converts a domain.MemberBalance to MemberBalanceResponse DTO
func ToMemberBalanceResponse(b domain.MemberBalance) MemberBalanceResponse {
	return MemberBalanceResponse{
		MemberID:     b.MemberID,
		Name:         b.Name,
		Leader:       b.Leader,
		Amount:       b.Amount,
		TippedAmount: b.TippedAmount,
	}
}

// SplitResultResponse is the full N-way settlement of a meeting.
type SplitResultResponse struct {
	TotalPrice int64                   `json:"totalPrice"`
	Balances   []MemberBalanceResponse `json:"balances"`
}

// DepositLinksResponse carries the transfer deep links for one member's
// settlement amount. Fields are null when the amount is zero or the
// meeting has no destination configured.
type DepositLinksResponse struct {
	Toss     *string `json:"toss"`
	Kakao    *string `json:"kakao"`
	CopyText *string `json:"copyText"`
}

// ShareMemberResponse is one member's row on the public share page.
type ShareMemberResponse struct {
	MemberBalanceResponse
	Links       DepositLinksResponse `json:"links"`
	TippedLinks DepositLinksResponse `json:"tippedLinks"`
}

// SharePageResponse is the public (unauthenticated) settlement page,
// looked up by share UUID. The simple-mode fields are null for N-way
// meetings.
type SharePageResponse struct {
	MeetingName        string                `json:"meetingName"`
	Date               string                `json:"date"`
	Mode               domain.MeetingMode    `json:"mode"`
	TotalPrice         int64                 `json:"totalPrice"`
	Members            []ShareMemberResponse `json:"members"`
	Payments           []PaymentResponse     `json:"payments"`
	SimpleMemberAmount *int64                `json:"simpleMemberAmount,omitempty"`
	SimpleTippedAmount *int64                `json:"simpleTippedAmount,omitempty"`
	SimpleLinks        *DepositLinksResponse `json:"simpleLinks,omitempty"`
	SimpleTippedLinks  *DepositLinksResponse `json:"simpleTippedLinks,omitempty"`
}

// FundOverviewResponse is the aggregate shared-fund state of a trip.
type FundOverviewResponse struct {
	TotalCollected        int64             `json:"totalCollected"`
	TotalCollectedForeign decimal.Decimal   `json:"totalCollectedForeign"`
	TotalSpent            int64             `json:"totalSpent"`
	TotalSpentForeign     decimal.Decimal   `json:"totalSpentForeign"`
	Remaining             int64             `json:"remaining"`
	RemainingForeign      decimal.Decimal   `json:"remainingForeign"`
	BurnRate              decimal.Decimal   `json:"burnRate"`
	Status                domain.FundStatus `json:"status"`
	TargetCurrency        string            `json:"targetCurrency"`
	BaseExchangeRate      decimal.Decimal   `json:"baseExchangeRate"`
}

// ToFundOverviewResponse converts a domain.FundOverview to FundOverviewResponse DTO.
// Foreign amounts are presented with 2 decimal places and the burn rate with 1.
func ToFundOverviewResponse(f domain.FundOverview, currency string, baseRate decimal.Decimal) FundOverviewResponse {
	return FundOverviewResponse{
		TotalCollected:        f.TotalCollected,
		TotalCollectedForeign: f.TotalCollectedForeign.Round(2),
		TotalSpent:            f.TotalSpent,
		TotalSpentForeign:     f.TotalSpentForeign.Round(2),
		Remaining:             f.Remaining,
		RemainingForeign:      f.RemainingForeign.Round(2),
		BurnRate:              f.BurnRate.Round(1),
		Status:                f.Status,
		TargetCurrency:        currency,
		BaseExchangeRate:      baseRate,
	}
}

// MemberWalletResponse is one member's share of the trip fund on the dashboard.
type MemberWalletResponse struct {
	MemberID     int64             `json:"memberID"`
	Name         string            `json:"name"`
	InitialShare decimal.Decimal   `json:"initialShare"`
	UsedAmount   decimal.Decimal   `json:"usedAmount"`
	CurrentShare decimal.Decimal   `json:"currentShare"`
	Ratio        decimal.Decimal   `json:"ratio"`
	Status       domain.FundStatus `json:"status"`
}

// ToMemberWalletResponse converts a domain.MemberWallet to MemberWalletResponse DTO
func ToMemberWalletResponse(w domain.MemberWallet) MemberWalletResponse {
	return MemberWalletResponse{
		MemberID:     w.MemberID,
		Name:         w.Name,
		InitialShare: w.InitialShare.Round(2),
		UsedAmount:   w.UsedAmount.Round(2),
		CurrentShare: w.CurrentShare.Round(2),
		Ratio:        w.Ratio.Round(1),
		Status:       w.Status,
	}
}

// TripDashboardResponse is the live fund dashboard of a trip meeting.
type TripDashboardResponse struct {
	MeetingName string                 `json:"meetingName"`
	Date        string                 `json:"date"`
	Fund        FundOverviewResponse   `json:"fund"`
	Wallets     []MemberWalletResponse `json:"wallets"`
	Payments    []PaymentResponse      `json:"payments"`
}

// ManagerInfoResponse identifies the leader the settlement transfers
// flow through, with the revealed transfer destination.
type ManagerInfoResponse struct {
	MemberID       int64   `json:"memberID"`
	Name           string  `json:"name"`
	Bank           string  `json:"bank,omitempty"`
	AccountNumber  string  `json:"accountNumber,omitempty"`
	KakaoDepositID string  `json:"kakaoDepositID,omitempty"`
	KakaoPayLink   *string `json:"kakaoPayLink"`
}

// FundValuationResponse is the remaining fund revalued at result time.
type FundValuationResponse struct {
	RemainingForeign decimal.Decimal `json:"remainingForeign"`
	RemainingKRW     int64           `json:"remainingKRW"`
	AppliedRate      decimal.Decimal `json:"appliedRate"`
	RateDate         string          `json:"rateDate"`
	Live             bool            `json:"live"`
}

// ToFundValuationResponse converts a domain.FundValuation to FundValuationResponse DTO
func ToFundValuationResponse(v domain.FundValuation) FundValuationResponse {
	return FundValuationResponse{
		RemainingForeign: v.RemainingForeign.Round(2),
		RemainingKRW:     v.RemainingKRW,
		AppliedRate:      v.AppliedRate,
		RateDate:         v.RateDate,
		Live:             v.Live,
	}
}

// MemberSettlementResponse is one member's final netted position in the
// trip result, with transfer links toward the leader.
type MemberSettlementResponse struct {
	MemberID         int64                `json:"memberID"`
	Name             string               `json:"name"`
	PaidContribution int64                `json:"paidContribution"`
	PaidAdvance      int64                `json:"paidAdvance"`
	PaidForeignCard  int64                `json:"paidForeignCard"`
	TotalPaid        int64                `json:"totalPaid"`
	TotalOwed        int64                `json:"totalOwed"`
	SettlementAmount int64                `json:"settlementAmount"`
	TippedAmount     int64                `json:"tippedAmount"`
	Direction        domain.Direction     `json:"direction"`
	Links            DepositLinksResponse `json:"links"`
	TippedLinks      DepositLinksResponse `json:"tippedLinks"`
}

// TripResultResponse is the final settlement of a trip meeting.
type TripResultResponse struct {
	MeetingName string                     `json:"meetingName"`
	Date        string                     `json:"date"`
	Fund        FundOverviewResponse       `json:"fund"`
	Valuation   FundValuationResponse      `json:"valuation"`
	Manager     ManagerInfoResponse        `json:"manager"`
	Settlements []MemberSettlementResponse `json:"settlements"`
}

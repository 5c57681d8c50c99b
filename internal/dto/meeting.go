package dto

import (
	"time"

	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateMeetingRequest defines the data needed to create a plain N-way meeting.
type CreateMeetingRequest struct {
	Name string `json:"name" binding:"required"`
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
}

// UpdateMeetingRequest defines the data allowed for updating meeting info.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateMeetingRequest struct {
	Name *string `json:"name"`
	Date *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// CreateSimpleMeetingRequest defines the data needed to create a simple meeting.
type CreateSimpleMeetingRequest struct {
	Name string `json:"name" binding:"required"`
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
}

// UpdateSimpleMeetingRequest updates the fixed price and headcount of a
// simple meeting. All fields optional.
type UpdateSimpleMeetingRequest struct {
	Name              *string `json:"name"`
	Date              *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	SimplePrice       *int64  `json:"simplePrice" binding:"omitempty,min=0"`
	SimpleMemberCount *int    `json:"simpleMemberCount" binding:"omitempty,min=1"`
}

// TripContribution is one member's initial payment into the shared fund,
// given by member name because members are created in the same request.
type TripContribution struct {
	MemberName string `json:"memberName" binding:"required"`
	AmountKRW  int64  `json:"amountKRW" binding:"min=0"`
}

// TripAdvancePayment is a KRW expense fronted by one member before the
// trip, recorded at creation time. PayMemberName must match one of the
// contribution member names.
type TripAdvancePayment struct {
	Name          string `json:"name" binding:"required"`
	Price         int64  `json:"price" binding:"required,gt=0"`
	PayMemberName string `json:"payMemberName" binding:"required"`
}

// CreateTripMeetingRequest defines the data needed to create a trip meeting.
// BaseExchangeRate is derived server-side: totalKRW/totalForeign when
// TotalForeign is given, otherwise today's rate for the country's currency.
type CreateTripMeetingRequest struct {
	Name            string               `json:"name" binding:"required"`
	Date            string               `json:"date" binding:"required,datetime=2006-01-02"`
	CountryCode     string               `json:"countryCode" binding:"required,uppercase,len=2"`
	TotalForeign    decimal.Decimal      `json:"totalForeign"`
	Contributions   []TripContribution   `json:"contributions" binding:"required,min=1,dive"`
	AdvancePayments []TripAdvancePayment `json:"advancePayments" binding:"omitempty,dive"`
}

// AddBudgetEntry is one member's KRW top-up of the shared fund.
type AddBudgetEntry struct {
	MemberID  int64 `json:"memberID" binding:"required,gt=0"`
	AddAmount int64 `json:"addAmount" binding:"required,gt=0"`
}

// AddBudgetRequest tops up the shared fund in KRW, per member.
type AddBudgetRequest struct {
	Additions []AddBudgetEntry `json:"additions" binding:"required,min=1,dive"`
}

// AddBudgetForeignRequest tops up the shared fund with a foreign amount
// split evenly across the given members; it is converted into KRW with
// the trip's frozen base rate.
type AddBudgetForeignRequest struct {
	ForeignAmount decimal.Decimal `json:"foreignAmount" binding:"required"`
	MemberIDs     []int64         `json:"memberIDs" binding:"required,min=1"`
}

// UpdateBankAccountRequest sets the transfer destination used in deposit links.
type UpdateBankAccountRequest struct {
	Bank          string `json:"bank" binding:"required"`
	AccountNumber string `json:"accountNumber" binding:"required"`
}

// UpdateKakaoDepositRequest sets the kakaopay QR identifier. An empty
// value clears it.
type UpdateKakaoDepositRequest struct {
	KakaoDepositID string `json:"kakaoDepositID"`
}

// MeetingResponse defines the data returned for a meeting.
type MeetingResponse struct {
	MeetingID         int64              `json:"meetingID"`
	Name              string             `json:"name"`
	Date              string             `json:"date"`
	ShareUUID         string             `json:"shareUUID"`
	Mode              domain.MeetingMode `json:"mode"`
	SimplePrice       int64              `json:"simplePrice,omitempty"`
	SimpleMemberCount int                `json:"simpleMemberCount,omitempty"`
	CountryCode       string             `json:"countryCode,omitempty"`
	TargetCurrency    string             `json:"targetCurrency,omitempty"`
	BaseExchangeRate  decimal.Decimal    `json:"baseExchangeRate,omitempty"`
	InitialGonggeum   int64              `json:"initialGonggeum,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	LastUpdatedAt     time.Time          `json:"lastUpdatedAt"`
}

// SimpleMeetingResponse is a MeetingResponse plus the computed per-head shares.
type SimpleMeetingResponse struct {
	MeetingResponse
	MemberAmount       int64 `json:"memberAmount"`
	TippedMemberAmount int64 `json:"tippedMemberAmount"`
}

// ToMeetingResponse converts a domain.Meeting to MeetingResponse DTO
func ToMeetingResponse(m *domain.Meeting) MeetingResponse {
	return MeetingResponse{
		MeetingID:         m.MeetingID,
		Name:              m.Name,
		Date:              m.Date,
		ShareUUID:         m.ShareUUID,
		Mode:              m.Mode,
		SimplePrice:       m.SimplePrice,
		SimpleMemberCount: m.SimpleMemberCount,
		CountryCode:       m.CountryCode,
		TargetCurrency:    m.TargetCurrency,
		BaseExchangeRate:  m.BaseExchangeRate,
		InitialGonggeum:   m.InitialGonggeum,
		CreatedAt:         m.CreatedAt,
		LastUpdatedAt:     m.LastUpdatedAt,
	}
}

// ToSimpleMeetingResponse converts a domain.Meeting to SimpleMeetingResponse DTO
func ToSimpleMeetingResponse(m *domain.Meeting) SimpleMeetingResponse {
	return SimpleMeetingResponse{
		MeetingResponse:    ToMeetingResponse(m),
		MemberAmount:       m.SimpleMemberAmount(),
		TippedMemberAmount: m.SimpleTippedMemberAmount(),
	}
}

// ToListMeetingResponse converts a slice of domain.Meeting to a slice of MeetingResponse DTOs
func ToListMeetingResponse(meetings []domain.Meeting) []MeetingResponse {
	res := make([]MeetingResponse, len(meetings))
	for i, m := range meetings {
		res[i] = ToMeetingResponse(&m)
	}
	return res
}

package dto

import (
	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePaymentRequest defines the data needed to record a payment.
//
// PayMemberID nil or 0 means the payment was made from the shared fund
// (PUBLIC); any positive id marks it as fronted by that member
// (INDIVIDUAL). Amounts in a foreign currency are given via
// OriginalPrice; ExchangeRate, when positive, freezes the conversion
// rate instead of resolving one. Date, when present, names the day the
// payment was made so a retroactive entry freezes that day's rate
// rather than today's.
type CreatePaymentRequest struct {
	Name            string          `json:"name"`
	Place           string          `json:"place" binding:"required"`
	Price           int64           `json:"price" binding:"omitempty,min=0"`
	OriginalPrice   decimal.Decimal `json:"originalPrice"`
	Currency        string          `json:"currency" binding:"omitempty,uppercase,len=3"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	Date            string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	PayMemberID     *int64          `json:"payMemberID"`
	AttendMemberIDs []int64         `json:"attendMemberIDs" binding:"required,min=1"`
}

// UpdatePaymentRequest defines the data allowed for updating a payment.
// Absent fields fall back to the stored payment's values.
type UpdatePaymentRequest struct {
	Name            *string          `json:"name"`
	Place           *string          `json:"place"`
	Price           *int64           `json:"price" binding:"omitempty,min=0"`
	OriginalPrice   *decimal.Decimal `json:"originalPrice"`
	Currency        *string          `json:"currency" binding:"omitempty,uppercase,len=3"`
	ExchangeRate    *decimal.Decimal `json:"exchangeRate"`
	Date            *string          `json:"date" binding:"omitempty,datetime=2006-01-02"`
	PayMemberID     *int64           `json:"payMemberID"`
	AttendMemberIDs []int64          `json:"attendMemberIDs" binding:"omitempty,min=1"`
}

// UpdatePaymentOrderRequest rewrites the display order of a meeting's
// payments. Every payment of the meeting must appear exactly once.
type UpdatePaymentOrderRequest struct {
	PaymentIDs []int64 `json:"paymentIDs" binding:"required,min=1"`
}

// PaymentResponse defines the data returned for a payment.
// PayMemberID is null for shared-fund payments.
type PaymentResponse struct {
	PaymentID       int64              `json:"paymentID"`
	Name            string             `json:"name,omitempty"`
	Place           string             `json:"place"`
	Price           int64              `json:"price"`
	OriginalPrice   decimal.Decimal    `json:"originalPrice"`
	Currency        string             `json:"currency"`
	ExchangeRate    decimal.Decimal    `json:"exchangeRate"`
	Type            domain.PaymentType `json:"type"`
	PayMemberID     *int64             `json:"payMemberID"`
	PayMemberName   string             `json:"payMemberName,omitempty"`
	AttendMemberIDs []int64            `json:"attendMemberIDs"`
	SplitPrice      int64              `json:"splitPrice"`
	OrderNo         *int64             `json:"orderNo,omitempty"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
// memberNames maps member ids to display names for the payer projection.
func ToPaymentResponse(p *domain.Payment, memberNames map[int64]string) PaymentResponse {
	resp := PaymentResponse{
		PaymentID:       p.PaymentID,
		Name:            p.Name,
		Place:           p.Place,
		Price:           p.Price,
		OriginalPrice:   p.OriginalPrice,
		Currency:        p.Currency,
		ExchangeRate:    p.ExchangeRate,
		Type:            p.Type,
		AttendMemberIDs: p.AttendMemberIDs,
		SplitPrice:      p.SplitPrice(),
		OrderNo:         p.OrderNo,
	}
	if payerID, ok := p.Source.PayerID(); ok {
		resp.PayMemberID = &payerID
		resp.PayMemberName = memberNames[payerID]
	}
	return resp
}

// ToListPaymentResponse converts a slice of domain.Payment to a slice of PaymentResponse DTOs
func ToListPaymentResponse(payments []domain.Payment, memberNames map[int64]string) []PaymentResponse {
	res := make([]PaymentResponse, len(payments))
	for i, p := range payments {
		res[i] = ToPaymentResponse(&p, memberNames)
	}
	return res
}

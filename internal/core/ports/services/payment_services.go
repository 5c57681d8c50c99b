package services

import (
	"context"

	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	"github.com/WooHyucks/nbbang-backend/internal/dto"
)

// PaymentReaderSvc defines read operations for payment data
type PaymentReaderSvc interface {
	// ListPayments retrieves a meeting's payments in display order, with
	// per-attendee split prices and payer names resolved.
	ListPayments(ctx context.Context, meetingID int64, requesterUserID string) ([]dto.PaymentResponse, error)
}

// PaymentWriterSvc defines write operations for payment data
type PaymentWriterSvc interface {
	// CreatePayment records a payment, normalizing it into the settlement
	// currency. Foreign payments freeze their conversion rate at write time.
	CreatePayment(ctx context.Context, meetingID int64, req dto.CreatePaymentRequest, requesterUserID string) (*domain.Payment, error)

	// UpdatePayment updates a payment; absent fields keep stored values.
	UpdatePayment(ctx context.Context, meetingID, paymentID int64, req dto.UpdatePaymentRequest, requesterUserID string) (*domain.Payment, error)

	// UpdatePaymentOrder rewrites the display order of the meeting's payments.
	UpdatePaymentOrder(ctx context.Context, meetingID int64, req dto.UpdatePaymentOrderRequest, requesterUserID string) error

	// DeletePayment removes a payment.
	DeletePayment(ctx context.Context, meetingID, paymentID int64, requesterUserID string) error
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}

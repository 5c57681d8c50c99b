package repositories

import (
	"context"

	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
)

// PaymentReader defines read operations for payment data
type PaymentReader interface {
	// FindPaymentByID retrieves a specific payment by its ID.
	FindPaymentByID(ctx context.Context, paymentID int64) (*domain.Payment, error)

	// FindPaymentsByMeetingID retrieves all payments of a meeting in
	// display order: explicit order number first, then insertion order.
	FindPaymentsByMeetingID(ctx context.Context, meetingID int64) ([]domain.Payment, error)

	// CountPaymentsReferencingMember counts payments that name the member
	// as payer or attendee. Used to guard member deletion.
	CountPaymentsReferencingMember(ctx context.Context, meetingID, memberID int64) (int64, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// SavePayment persists a new payment and returns it with its assigned ID.
	SavePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error)

	// UpdatePayment updates an existing payment's details.
	UpdatePayment(ctx context.Context, payment domain.Payment) error

	// UpdatePaymentOrder rewrites the display order numbers of a meeting's payments.
	UpdatePaymentOrder(ctx context.Context, meetingID int64, orderedPaymentIDs []int64) error

	// DeletePayment removes a payment.
	DeletePayment(ctx context.Context, paymentID int64) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}

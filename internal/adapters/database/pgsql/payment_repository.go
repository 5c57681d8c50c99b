package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/WooHyucks/nbbang-backend/internal/apperrors"
	"github.com/WooHyucks/nbbang-backend/internal/core/domain"
	portsrepo "github.com/WooHyucks/nbbang-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPaymentRepository struct {
	BaseRepository
}

// newPgxPaymentRepository creates a new repository for payment data.
func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `
	payment_id, meeting_id, name, place, price,
	original_price, currency, exchange_rate,
	pay_member_id, attend_member_ids, type, order_no,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	var payMemberID *int64
	err := row.Scan(
		&p.PaymentID,
		&p.MeetingID,
		&p.Name,
		&p.Place,
		&p.Price,
		&p.OriginalPrice,
		&p.Currency,
		&p.ExchangeRate,
		&payMemberID,
		&p.AttendMemberIDs,
		&p.Type,
		&p.OrderNo,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if payMemberID != nil {
		p.Source = domain.IndividualPayer(*payMemberID)
		p.PayMemberID = *payMemberID
	} else {
		p.Source = domain.SharedFund()
	}
	return &p, nil
}

// payerIDColumn maps the payment source back to the nullable column.
func payerIDColumn(p domain.Payment) *int64 {
	if payerID, ok := p.Source.PayerID(); ok {
		return &payerID
	}
	return nil
}

// FindPaymentByID retrieves a specific payment by its ID.
func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID int64) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	payment, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment %d: %w", paymentID, err)
	}
	return payment, nil
}

// FindPaymentsByMeetingID retrieves all payments of a meeting in display
// order: explicit order number first, then insertion order.
func (r *PgxPaymentRepository) FindPaymentsByMeetingID(ctx context.Context, meetingID int64) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE meeting_id = $1
		ORDER BY order_no ASC NULLS LAST, payment_id ASC;`
	rows, err := r.Pool.Query(ctx, query, meetingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments for meeting %d: %w", meetingID, err)
	}
	defer rows.Close()

	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Payment, error) {
		p, err := scanPayment(row)
		if err != nil {
			return domain.Payment{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan payments: %w", err)
	}
	return payments, nil
}

// CountPaymentsReferencingMember counts payments that name the member as
// payer or attendee.
func (r *PgxPaymentRepository) CountPaymentsReferencingMember(ctx context.Context, meetingID, memberID int64) (int64, error) {
	query := `
		SELECT COUNT(*) FROM payments
		WHERE meeting_id = $1 AND (pay_member_id = $2 OR $2 = ANY(attend_member_ids));
	`
	var count int64
	if err := r.Pool.QueryRow(ctx, query, meetingID, memberID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count payments referencing member %d: %w", memberID, err)
	}
	return count, nil
}

// SavePayment persists a new payment and returns it with its assigned ID.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) (*domain.Payment, error) {
	query := `
		INSERT INTO payments (
			meeting_id, name, place, price,
			original_price, currency, exchange_rate,
			pay_member_id, attend_member_ids, type, order_no,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING payment_id;
	`
	err := r.Pool.QueryRow(ctx, query,
		payment.MeetingID,
		payment.Name,
		payment.Place,
		payment.Price,
		payment.OriginalPrice,
		payment.Currency,
		payment.ExchangeRate,
		payerIDColumn(payment),
		payment.AttendMemberIDs,
		payment.Type,
		payment.OrderNo,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	).Scan(&payment.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment: %w", err)
	}
	return &payment, nil
}

// UpdatePayment updates an existing payment's details.
func (r *PgxPaymentRepository) UpdatePayment(ctx context.Context, payment domain.Payment) error {
	query := `
		UPDATE payments SET
			name = $2, place = $3, price = $4,
			original_price = $5, currency = $6, exchange_rate = $7,
			pay_member_id = $8, attend_member_ids = $9, type = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE payment_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		payment.PaymentID,
		payment.Name,
		payment.Place,
		payment.Price,
		payment.OriginalPrice,
		payment.Currency,
		payment.ExchangeRate,
		payerIDColumn(payment),
		payment.AttendMemberIDs,
		payment.Type,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment %d: %w", payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePaymentOrder rewrites the display order numbers of a meeting's
// payments in a single transaction.
func (r *PgxPaymentRepository) UpdatePaymentOrder(ctx context.Context, meetingID int64, orderedPaymentIDs []int64) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	query := `UPDATE payments SET order_no = $3 WHERE payment_id = $1 AND meeting_id = $2;`
	for i, paymentID := range orderedPaymentIDs {
		batch.Queue(query, paymentID, meetingID, int64(i))
	}

	results := tx.SendBatch(ctx, batch)
	for range orderedPaymentIDs {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to update payment order for meeting %d: %w", meetingID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to flush payment order batch: %w", err)
	}

	return r.Commit(ctx, tx)
}

// DeletePayment removes a payment.
func (r *PgxPaymentRepository) DeletePayment(ctx context.Context, paymentID int64) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM payments WHERE payment_id = $1;`, paymentID)
	if err != nil {
		return fmt.Errorf("failed to delete payment %d: %w", paymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"travel-booking-service/internal/models"
)

// CreatePayment creates a new payment record
func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (booking_id, amount, currency, status, tx_ref, checkout_url, chapa_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, payment, query,
		payment.BookingID, payment.Amount, payment.Currency, payment.Status,
		payment.TxRef, payment.CheckoutURL, payment.ChapaTransactionID)
}

// GetPaymentByTxRef retrieves a payment by its correlation key
func (s *Store) GetPaymentByTxRef(ctx context.Context, txRef string) (*models.Payment, error) {
	var payment models.Payment
	err := s.db.GetContext(ctx, &payment, "SELECT * FROM payments WHERE tx_ref = $1", txRef)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("payment %s: %w", txRef, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// HasCompletedPayment reports whether a booking already has a COMPLETED payment
func (s *Store) HasCompletedPayment(ctx context.Context, bookingID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM payments WHERE booking_id = $1 AND status = $2)",
		bookingID, models.PaymentStatusCompleted)
	return exists, err
}

// TransitionPaymentStatus moves a payment out of PENDING into a terminal
// status. The conditional WHERE makes the transition single-writer: it reports
// false when the payment was already terminal, so a second verification cannot
// overwrite the first outcome.
func (s *Store) TransitionPaymentStatus(ctx context.Context, txRef, status string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE payments SET status = $1, updated_at = NOW() WHERE tx_ref = $2 AND status = $3",
		status, txRef, models.PaymentStatusPending)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

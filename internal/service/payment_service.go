package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"travel-booking-service/internal/gateway"
	"travel-booking-service/internal/models"
	"travel-booking-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const verifyLockTTL = 30 * time.Second

// PaymentStore is the persistence surface the payment service needs
type PaymentStore interface {
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	GetGuestByID(ctx context.Context, id int64) (*models.Guest, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPaymentByTxRef(ctx context.Context, txRef string) (*models.Payment, error)
	HasCompletedPayment(ctx context.Context, bookingID int64) (bool, error)
	TransitionPaymentStatus(ctx context.Context, txRef, status string) (bool, error)
}

// Gateway abstracts the payment gateway client
type Gateway interface {
	Initialize(ctx context.Context, req gateway.InitializeRequest) (*gateway.InitializeResult, error)
	Verify(ctx context.Context, txRef string) (*gateway.VerifyResult, error)
}

// JobPublisher enqueues notification jobs
type JobPublisher interface {
	PublishBookingConfirmation(ctx context.Context, job *models.BookingConfirmationJob) error
	PublishPaymentConfirmation(ctx context.Context, job *models.PaymentConfirmationJob) error
}

// VerifyLocker serializes verification calls per tx_ref. A nil locker
// disables locking.
type VerifyLocker interface {
	AcquireVerifyLock(ctx context.Context, txRef string, ttl time.Duration) (bool, error)
	ReleaseVerifyLock(ctx context.Context, txRef string) error
}

// PaymentService orchestrates payment initiation and verification
type PaymentService struct {
	store     PaymentStore
	gateway   Gateway
	publisher JobPublisher
	locker    VerifyLocker
	logger    *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(store PaymentStore, gw Gateway, publisher JobPublisher, locker VerifyLocker) *PaymentService {
	return &PaymentService{
		store:     store,
		gateway:   gw,
		publisher: publisher,
		locker:    locker,
		logger:    util.GetLogger(),
	}
}

// InitiatePaymentRequest represents a request to start a hosted checkout
type InitiatePaymentRequest struct {
	BookingID   int64  `json:"booking_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	ReturnURL   string `json:"return_url"`
	CallbackURL string `json:"callback_url"`
}

// InitiatePaymentResult carries the checkout data for a freshly created payment
type InitiatePaymentResult struct {
	CheckoutURL string `json:"checkout_url"`
	TxRef       string `json:"tx_ref"`
	PaymentID   int64  `json:"payment_id"`
}

// VerifyPaymentResult mirrors the verification response body
type VerifyPaymentResult struct {
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	Data          json.RawMessage `json:"data"`
}

// NewTxRef generates the correlation key linking a payment to a gateway
// transaction: booking-{id}-{8 random hex chars}.
func NewTxRef(bookingID int64) string {
	return fmt.Sprintf("booking-%d-%s", bookingID, uuid.New().String()[:8])
}

// Initiate validates the request, initializes a gateway transaction and
// persists a PENDING payment on success.
func (s *PaymentService) Initiate(ctx context.Context, req *InitiatePaymentRequest) (*InitiatePaymentResult, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.Initiate")
	defer span.End()

	util.PaymentInitTotal.Inc()

	if req.BookingID == 0 || strings.TrimSpace(req.Amount) == "" || strings.TrimSpace(req.Email) == "" {
		util.PaymentInitFailedTotal.WithLabelValues("missing_fields").Inc()
		return nil, &ValidationError{Detail: "booking_id, amount, and email are required."}
	}

	booking, err := s.store.GetBookingByID(ctx, req.BookingID)
	if err != nil {
		util.PaymentInitFailedTotal.WithLabelValues("booking_not_found").Inc()
		return nil, err
	}

	paid, err := s.store.HasCompletedPayment(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if paid {
		util.PaymentInitFailedTotal.WithLabelValues("already_paid").Inc()
		return nil, &ConflictError{Detail: fmt.Sprintf("booking %d already has a completed payment", booking.ID)}
	}

	currency := req.Currency
	if currency == "" {
		currency = "ETB"
	}

	txRef := NewTxRef(booking.ID)

	result, err := s.gateway.Initialize(ctx, gateway.InitializeRequest{
		Amount:      req.Amount,
		Currency:    currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		TxRef:       txRef,
		ReturnURL:   req.ReturnURL,
		CallbackURL: req.CallbackURL,
		Customization: gateway.Customization{
			Title:       "Payment",
			Description: fmt.Sprintf("Payment for booking id %d", booking.ID),
		},
	})
	if err != nil {
		util.PaymentInitFailedTotal.WithLabelValues("gateway_error").Inc()
		return nil, err
	}

	payment := &models.Payment{
		BookingID:          booking.ID,
		Amount:             req.Amount,
		Currency:           currency,
		Status:             models.PaymentStatusPending,
		TxRef:              txRef,
		CheckoutURL:        result.CheckoutURL,
		ChapaTransactionID: result.TransactionID,
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		util.PaymentInitFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	s.logger.Info("Payment initiated",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("payment_id", payment.ID),
		zap.String("tx_ref", txRef))

	return &InitiatePaymentResult{
		CheckoutURL: result.CheckoutURL,
		TxRef:       txRef,
		PaymentID:   payment.ID,
	}, nil
}

// Verify re-queries the gateway for a transaction and moves the payment out of
// PENDING. Terminal payments are reported without another gateway call.
func (s *PaymentService) Verify(ctx context.Context, txRef string) (*VerifyPaymentResult, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.Verify")
	defer span.End()

	payment, err := s.store.GetPaymentByTxRef(ctx, txRef)
	if err != nil {
		return nil, err
	}

	if payment.Status != models.PaymentStatusPending {
		util.PaymentVerifyTotal.WithLabelValues("already_terminal").Inc()
		return terminalResult(payment.Status, nil), nil
	}

	if s.locker != nil {
		acquired, err := s.locker.AcquireVerifyLock(ctx, txRef, verifyLockTTL)
		if err != nil {
			s.logger.Warn("Verify lock unavailable, proceeding without it",
				zap.String("tx_ref", txRef), zap.Error(err))
		} else if !acquired {
			return nil, &ConflictError{Detail: "verification already in progress for this tx_ref"}
		} else {
			defer func() {
				if err := s.locker.ReleaseVerifyLock(context.Background(), txRef); err != nil {
					s.logger.Warn("Failed to release verify lock", zap.String("tx_ref", txRef), zap.Error(err))
				}
			}()
		}
	}

	result, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		return nil, err
	}

	newStatus := models.PaymentStatusFailed
	if result.Status == "success" {
		newStatus = models.PaymentStatusCompleted
	}

	moved, err := s.store.TransitionPaymentStatus(ctx, txRef, newStatus)
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	if !moved {
		// Lost the race to another verifier; report what is stored.
		current, err := s.store.GetPaymentByTxRef(ctx, txRef)
		if err != nil {
			return nil, err
		}
		util.PaymentVerifyTotal.WithLabelValues("already_terminal").Inc()
		return terminalResult(current.Status, result.Data), nil
	}

	if newStatus == models.PaymentStatusCompleted {
		util.PaymentVerifyTotal.WithLabelValues("completed").Inc()
		s.logger.Info("Payment completed", zap.String("tx_ref", txRef))
		s.enqueuePaymentConfirmation(ctx, payment)
	} else {
		util.PaymentVerifyTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("Payment verification failed",
			zap.String("tx_ref", txRef),
			zap.String("remote_message", result.Message))
	}

	return terminalResult(newStatus, result.Data), nil
}

// enqueuePaymentConfirmation is best-effort: any failure is logged, never
// surfaced to the verifying client.
func (s *PaymentService) enqueuePaymentConfirmation(ctx context.Context, payment *models.Payment) {
	booking, err := s.store.GetBookingByID(ctx, payment.BookingID)
	if err != nil {
		s.logger.Error("Failed to load booking for payment confirmation", zap.Error(err))
		return
	}

	guest, err := s.store.GetGuestByID(ctx, booking.GuestID)
	if err != nil {
		s.logger.Error("Failed to load guest for payment confirmation", zap.Error(err))
		return
	}

	job := &models.PaymentConfirmationJob{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentConfirmation,
			Timestamp: time.Now(),
		},
		ToEmail:   guest.Email,
		BookingID: payment.BookingID,
		Amount:    payment.Amount,
		TxRef:     payment.TxRef,
	}

	if err := s.publisher.PublishPaymentConfirmation(ctx, job); err != nil {
		s.logger.Error("Failed to enqueue payment confirmation email", zap.Error(err))
	}
}

func terminalResult(paymentStatus string, data json.RawMessage) *VerifyPaymentResult {
	status := "failed"
	if paymentStatus == models.PaymentStatusCompleted {
		status = "success"
	}
	return &VerifyPaymentResult{
		Status:        status,
		PaymentStatus: paymentStatus,
		Data:          data,
	}
}

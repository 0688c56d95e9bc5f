package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"travel-booking-service/internal/gateway"
	"travel-booking-service/internal/models"
	"travel-booking-service/internal/store"
	"travel-booking-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// BookingStore is the persistence surface the booking service needs
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id int64) (*models.Booking, error)
	GetBookings(ctx context.Context) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, booking *models.Booking) error
	DeleteBooking(ctx context.Context, id int64) error
	GetListingByID(ctx context.Context, id int64) (*models.Listing, error)
	GetGuestByID(ctx context.Context, id int64) (*models.Guest, error)
	HasCompletedPayment(ctx context.Context, bookingID int64) (bool, error)
}

// PaymentInitiator starts the payment leg of booking creation
type PaymentInitiator interface {
	Initiate(ctx context.Context, req *InitiatePaymentRequest) (*InitiatePaymentResult, error)
}

// BookingService handles booking CRUD and chains into payment initiation
type BookingService struct {
	store     BookingStore
	payments  PaymentInitiator
	publisher JobPublisher
	logger    *zap.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(store BookingStore, payments PaymentInitiator, publisher JobPublisher) *BookingService {
	return &BookingService{
		store:     store,
		payments:  payments,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// CreateBookingRequest represents a request to create a booking
type CreateBookingRequest struct {
	ListingID  int64  `json:"listing_id" binding:"required"`
	GuestID    int64  `json:"guest_id" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	TotalPrice string `json:"total_price" binding:"required"`

	// Optional payment fields, forwarded to the gateway.
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	ReturnURL   string `json:"return_url"`
	CallbackURL string `json:"callback_url"`
}

// UpdateBookingRequest represents a request to update a booking
type UpdateBookingRequest struct {
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	TotalPrice string `json:"total_price" binding:"required"`
}

// PaymentInitiation is the soft annotation attached to the booking creation
// response. The booking itself stands regardless of the payment outcome.
type PaymentInitiation struct {
	Status      string          `json:"status"`
	Detail      string          `json:"detail,omitempty"`
	Data        json.RawMessage `json:"data,omitempty"`
	CheckoutURL string          `json:"checkout_url,omitempty"`
	TxRef       string          `json:"tx_ref,omitempty"`
	PaymentID   int64           `json:"payment_id,omitempty"`
}

// CreateBookingResponse represents the booking creation response body
type CreateBookingResponse struct {
	Booking           *models.Booking    `json:"booking"`
	PaymentInitiation *PaymentInitiation `json:"payment_initiation"`
}

// CreateBooking persists a booking, enqueues the confirmation email and runs
// payment initiation. Payment trouble never rolls back the booking: it is
// reported in the payment_initiation annotation.
func (s *BookingService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.CreateBooking")
	defer span.End()

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		util.BookingsFailedTotal.WithLabelValues("bad_dates").Inc()
		return nil, &ValidationError{Detail: "start_date must be formatted YYYY-MM-DD"}
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		util.BookingsFailedTotal.WithLabelValues("bad_dates").Inc()
		return nil, &ValidationError{Detail: "end_date must be formatted YYYY-MM-DD"}
	}
	if !start.Before(end) {
		util.BookingsFailedTotal.WithLabelValues("bad_dates").Inc()
		return nil, &ValidationError{Detail: "start_date must be before end_date"}
	}

	listing, err := s.store.GetListingByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.BookingsFailedTotal.WithLabelValues("unknown_listing").Inc()
			return nil, &ValidationError{Detail: "listing does not exist"}
		}
		return nil, err
	}

	guest, err := s.store.GetGuestByID(ctx, req.GuestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			util.BookingsFailedTotal.WithLabelValues("unknown_guest").Inc()
			return nil, &ValidationError{Detail: "guest does not exist"}
		}
		return nil, err
	}

	booking := &models.Booking{
		ListingID:  listing.ID,
		GuestID:    guest.ID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: req.TotalPrice,
	}

	if err := s.store.CreateBooking(ctx, booking); err != nil {
		util.BookingsFailedTotal.WithLabelValues("db_error").Inc()
		return nil, err
	}

	util.BookingsCreatedTotal.Inc()
	s.logger.Info("Booking created", zap.Int64("booking_id", booking.ID))

	s.enqueueBookingConfirmation(ctx, booking, listing, guest, req.Email)

	return &CreateBookingResponse{
		Booking:           booking,
		PaymentInitiation: s.initiatePayment(ctx, booking, guest, req),
	}, nil
}

// enqueueBookingConfirmation is fire-and-forget; enqueue failures are logged
// and never surfaced.
func (s *BookingService) enqueueBookingConfirmation(ctx context.Context, booking *models.Booking, listing *models.Listing, guest *models.Guest, overrideEmail string) {
	toEmail := overrideEmail
	if toEmail == "" {
		toEmail = guest.Email
	}

	job := &models.BookingConfirmationJob{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBookingConfirmation,
			Timestamp: time.Now(),
		},
		ToEmail:      toEmail,
		BookingID:    booking.ID,
		ListingTitle: listing.Title,
		GuestName:    guest.DisplayName(),
		StartDate:    booking.StartDate.Format(dateLayout),
		EndDate:      booking.EndDate.Format(dateLayout),
		TotalPrice:   booking.TotalPrice,
	}

	if err := s.publisher.PublishBookingConfirmation(ctx, job); err != nil {
		s.logger.Error("Failed to enqueue booking confirmation email",
			zap.Int64("booking_id", booking.ID), zap.Error(err))
	}
}

// initiatePayment runs the payment leg and downgrades every failure to a soft
// annotation.
func (s *BookingService) initiatePayment(ctx context.Context, booking *models.Booking, guest *models.Guest, req *CreateBookingRequest) *PaymentInitiation {
	email := req.Email
	if email == "" {
		email = guest.Email
	}

	result, err := s.payments.Initiate(ctx, &InitiatePaymentRequest{
		BookingID:   booking.ID,
		Amount:      booking.TotalPrice,
		Currency:    req.Currency,
		Email:       email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		ReturnURL:   req.ReturnURL,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		s.logger.Warn("Payment initiation failed during booking creation",
			zap.Int64("booking_id", booking.ID), zap.Error(err))

		annotation := &PaymentInitiation{Status: "failed", Detail: err.Error()}
		var rejected *gateway.RejectedError
		if errors.As(err, &rejected) {
			annotation.Data = rejected.Data
		}
		return annotation
	}

	return &PaymentInitiation{
		Status:      "success",
		CheckoutURL: result.CheckoutURL,
		TxRef:       result.TxRef,
		PaymentID:   result.PaymentID,
	}
}

// GetBooking retrieves a booking by ID
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.store.GetBookingByID(ctx, id)
}

// ListBookings retrieves all bookings
func (s *BookingService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.store.GetBookings(ctx)
}

// UpdateBooking updates booking dates and price. A booking with a completed
// payment is immutable.
func (s *BookingService) UpdateBooking(ctx context.Context, id int64, req *UpdateBookingRequest) (*models.Booking, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.UpdateBooking")
	defer span.End()

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, &ValidationError{Detail: "start_date must be formatted YYYY-MM-DD"}
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, &ValidationError{Detail: "end_date must be formatted YYYY-MM-DD"}
	}
	if !start.Before(end) {
		return nil, &ValidationError{Detail: "start_date must be before end_date"}
	}

	if err := s.ensureMutable(ctx, id); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:         id,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: req.TotalPrice,
	}
	if err := s.store.UpdateBooking(ctx, booking); err != nil {
		return nil, err
	}

	return s.store.GetBookingByID(ctx, id)
}

// DeleteBooking deletes a booking unless it has a completed payment
func (s *BookingService) DeleteBooking(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "BookingService.DeleteBooking")
	defer span.End()

	if err := s.ensureMutable(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteBooking(ctx, id)
}

func (s *BookingService) ensureMutable(ctx context.Context, id int64) error {
	if _, err := s.store.GetBookingByID(ctx, id); err != nil {
		return err
	}
	paid, err := s.store.HasCompletedPayment(ctx, id)
	if err != nil {
		return err
	}
	if paid {
		return &ConflictError{Detail: "booking has a completed payment and cannot be modified"}
	}
	return nil
}

package models

import "time"

// Notification job types
const (
	EventTypeBookingConfirmation = "BOOKING_CONFIRMATION_EMAIL"
	EventTypePaymentConfirmation = "PAYMENT_CONFIRMATION_EMAIL"
)

// BaseEvent contains common fields for all notification jobs
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingConfirmationJob is enqueued when a booking is created
type BookingConfirmationJob struct {
	BaseEvent
	ToEmail      string `json:"to_email"`
	BookingID    int64  `json:"booking_id"`
	ListingTitle string `json:"listing_title"`
	GuestName    string `json:"guest_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	TotalPrice   string `json:"total_price"`
}

// PaymentConfirmationJob is enqueued when a payment transitions to COMPLETED
type PaymentConfirmationJob struct {
	BaseEvent
	ToEmail   string `json:"to_email"`
	BookingID int64  `json:"booking_id"`
	Amount    string `json:"amount"`
	TxRef     string `json:"tx_ref"`
}

package models

import (
	"strings"
	"time"
)

// Listing represents a bookable travel offering
type Listing struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Price       string    `db:"price" json:"price"`
	OwnerID     int64     `db:"owner_id" json:"owner_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Guest represents the user a booking is made for
type Guest struct {
	ID        int64  `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Phone     string `db:"phone" json:"phone"`
}

// DisplayName returns the composed full name, falling back to the username
// when both name fields are blank.
func (g *Guest) DisplayName() string {
	full := strings.TrimSpace(strings.TrimSpace(g.FirstName) + " " + strings.TrimSpace(g.LastName))
	if full == "" {
		return g.Username
	}
	return full
}

// Booking represents a guest reservation against a listing for a date range
type Booking struct {
	ID         int64     `db:"id" json:"id"`
	ListingID  int64     `db:"listing_id" json:"listing_id"`
	GuestID    int64     `db:"guest_id" json:"guest_id"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
	TotalPrice string    `db:"total_price" json:"total_price"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Payment represents a tracked attempt to collect funds for a booking
type Payment struct {
	ID                 int64     `db:"id" json:"id"`
	BookingID          int64     `db:"booking_id" json:"booking_id"`
	Amount             string    `db:"amount" json:"amount"`
	Currency           string    `db:"currency" json:"currency"`
	Status             string    `db:"status" json:"status"`
	TxRef              string    `db:"tx_ref" json:"tx_ref"`
	CheckoutURL        string    `db:"checkout_url" json:"checkout_url,omitempty"`
	ChapaTransactionID string    `db:"chapa_transaction_id" json:"chapa_transaction_id,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// Payment statuses. PENDING is the only non-terminal state: verification moves
// a payment to COMPLETED or FAILED exactly once.
const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
)

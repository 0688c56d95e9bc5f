package store

import (
	"context"
	"database/sql"
	"fmt"

	"travel-booking-service/internal/models"
)

// CreateBooking creates a new booking
func (s *Store) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (listing_id, guest_id, start_date, end_date, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, booking, query,
		booking.ListingID, booking.GuestID, booking.StartDate, booking.EndDate, booking.TotalPrice)
}

// GetBookingByID retrieves a booking by ID
func (s *Store) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.GetContext(ctx, &booking, "SELECT * FROM bookings WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBookings retrieves all bookings
func (s *Store) GetBookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.SelectContext(ctx, &bookings, "SELECT * FROM bookings ORDER BY created_at DESC")
	return bookings, err
}

// UpdateBooking updates the mutable booking fields
func (s *Store) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bookings SET start_date = $1, end_date = $2, total_price = $3, updated_at = NOW() WHERE id = $4",
		booking.StartDate, booking.EndDate, booking.TotalPrice, booking.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking %d: %w", booking.ID, ErrNotFound)
	}
	return nil
}

// DeleteBooking deletes a booking
func (s *Store) DeleteBooking(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("booking %d: %w", id, ErrNotFound)
	}
	return nil
}

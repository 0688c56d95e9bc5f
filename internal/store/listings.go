package store

import (
	"context"
	"database/sql"
	"fmt"

	"travel-booking-service/internal/models"
)

// CreateListing creates a new listing
func (s *Store) CreateListing(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (title, description, price, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, listing, query,
		listing.Title, listing.Description, listing.Price, listing.OwnerID)
}

// GetListingByID retrieves a listing by ID
func (s *Store) GetListingByID(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.GetContext(ctx, &listing, "SELECT * FROM listings WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetListings retrieves all listings
func (s *Store) GetListings(ctx context.Context) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.SelectContext(ctx, &listings, "SELECT * FROM listings ORDER BY id")
	return listings, err
}

// UpdateListing updates listing fields
func (s *Store) UpdateListing(ctx context.Context, listing *models.Listing) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE listings SET title = $1, description = $2, price = $3, updated_at = NOW() WHERE id = $4",
		listing.Title, listing.Description, listing.Price, listing.ID)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("listing %d: %w", listing.ID, ErrNotFound)
	}
	return nil
}

// DeleteListing deletes a listing
func (s *Store) DeleteListing(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM listings WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("listing %d: %w", id, ErrNotFound)
	}
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"travel-booking-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// GetGuestByID retrieves a guest by ID
func (s *Store) GetGuestByID(ctx context.Context, id int64) (*models.Guest, error) {
	var guest models.Guest
	err := s.db.GetContext(ctx, &guest, "SELECT * FROM guests WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("guest %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &guest, nil
}

package service

import (
	"context"

	"travel-booking-service/internal/models"
	"travel-booking-service/internal/util"

	"go.uber.org/zap"
)

// ListingStore is the persistence surface the listing service needs
type ListingStore interface {
	CreateListing(ctx context.Context, listing *models.Listing) error
	GetListingByID(ctx context.Context, id int64) (*models.Listing, error)
	GetListings(ctx context.Context) ([]models.Listing, error)
	UpdateListing(ctx context.Context, listing *models.Listing) error
	DeleteListing(ctx context.Context, id int64) error
}

// ListingCache is a read-through cache for single listings. GetListing
// returns (nil, nil) on a miss.
type ListingCache interface {
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
	SetListing(ctx context.Context, listing *models.Listing) error
	InvalidateListing(ctx context.Context, id int64) error
}

// ListingService handles listing CRUD
type ListingService struct {
	store  ListingStore
	cache  ListingCache
	logger *zap.Logger
}

// NewListingService creates a new listing service
func NewListingService(store ListingStore, cache ListingCache) *ListingService {
	return &ListingService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// CreateListingRequest represents a request to create or update a listing
type CreateListingRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	OwnerID     int64  `json:"owner_id" binding:"required"`
}

// CreateListing creates a new listing
func (s *ListingService) CreateListing(ctx context.Context, req *CreateListingRequest) (*models.Listing, error) {
	ctx, span := util.StartSpan(ctx, "ListingService.CreateListing")
	defer span.End()

	listing := &models.Listing{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		OwnerID:     req.OwnerID,
	}

	if err := s.store.CreateListing(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.Info("Listing created", zap.Int64("listing_id", listing.ID))
	return listing, nil
}

// GetListing retrieves a listing, checking the cache first
func (s *ListingService) GetListing(ctx context.Context, id int64) (*models.Listing, error) {
	ctx, span := util.StartSpan(ctx, "ListingService.GetListing")
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.GetListing(ctx, id)
		if err != nil {
			s.logger.Warn("Listing cache read failed", zap.Int64("listing_id", id), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	listing, err := s.store.GetListingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetListing(ctx, listing); err != nil {
			s.logger.Warn("Listing cache write failed", zap.Int64("listing_id", id), zap.Error(err))
		}
	}

	return listing, nil
}

// ListListings retrieves all listings
func (s *ListingService) ListListings(ctx context.Context) ([]models.Listing, error) {
	return s.store.GetListings(ctx)
}

// UpdateListing updates a listing and invalidates its cache entry
func (s *ListingService) UpdateListing(ctx context.Context, id int64, req *CreateListingRequest) (*models.Listing, error) {
	ctx, span := util.StartSpan(ctx, "ListingService.UpdateListing")
	defer span.End()

	listing := &models.Listing{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		OwnerID:     req.OwnerID,
	}

	if err := s.store.UpdateListing(ctx, listing); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)
	return s.store.GetListingByID(ctx, id)
}

// DeleteListing deletes a listing and invalidates its cache entry
func (s *ListingService) DeleteListing(ctx context.Context, id int64) error {
	ctx, span := util.StartSpan(ctx, "ListingService.DeleteListing")
	defer span.End()

	if err := s.store.DeleteListing(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)
	return nil
}

func (s *ListingService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateListing(ctx, id); err != nil {
		s.logger.Warn("Listing cache invalidation failed", zap.Int64("listing_id", id), zap.Error(err))
	}
}

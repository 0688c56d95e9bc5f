package service

import (
	"context"
	"testing"

	"travel-booking-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingCreateReadRoundTrip(t *testing.T) {
	fs := newFakeStore()
	svc := NewListingService(fs, newFakeCache())

	created, err := svc.CreateListing(context.Background(), &CreateListingRequest{
		Title:       "Lakeside Cabin",
		Description: "Two bedrooms by the lake",
		Price:       "150.00",
		OwnerID:     9,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.GetListing(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lakeside Cabin", got.Title)
	assert.Equal(t, "Two bedrooms by the lake", got.Description)
	assert.Equal(t, "150.00", got.Price)
	assert.Equal(t, int64(9), got.OwnerID)
}

func TestGetListingServedFromCache(t *testing.T) {
	fs := newFakeStore()
	svc := NewListingService(fs, newFakeCache())

	created, err := svc.CreateListing(context.Background(), &CreateListingRequest{
		Title: "Cabin", Price: "10.00", OwnerID: 1,
	})
	require.NoError(t, err)

	_, err = svc.GetListing(context.Background(), created.ID)
	require.NoError(t, err)
	reads := fs.listingReads

	_, err = svc.GetListing(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, reads, fs.listingReads)
}

func TestUpdateListingInvalidatesCache(t *testing.T) {
	fs := newFakeStore()
	cache := newFakeCache()
	svc := NewListingService(fs, cache)

	created, err := svc.CreateListing(context.Background(), &CreateListingRequest{
		Title: "Cabin", Price: "10.00", OwnerID: 1,
	})
	require.NoError(t, err)

	_, err = svc.GetListing(context.Background(), created.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateListing(context.Background(), created.ID, &CreateListingRequest{
		Title: "Renovated Cabin", Price: "20.00", OwnerID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renovated Cabin", updated.Title)
	assert.Contains(t, cache.invalidated, created.ID)
}

func TestDeleteListing(t *testing.T) {
	fs := newFakeStore()
	cache := newFakeCache()
	svc := NewListingService(fs, cache)

	created, err := svc.CreateListing(context.Background(), &CreateListingRequest{
		Title: "Cabin", Price: "10.00", OwnerID: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteListing(context.Background(), created.ID))
	assert.Contains(t, cache.invalidated, created.ID)

	_, err = svc.GetListing(context.Background(), created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

package service

import (
	"context"
	"fmt"
	"time"

	"travel-booking-service/internal/gateway"
	"travel-booking-service/internal/models"
	"travel-booking-service/internal/store"
)

// fakeStore is an in-memory implementation of the store interfaces used by
// the services.
type fakeStore struct {
	listings map[int64]*models.Listing
	guests   map[int64]*models.Guest
	bookings map[int64]*models.Booking
	payments map[string]*models.Payment
	nextID   int64

	listingReads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		listings: make(map[int64]*models.Listing),
		guests:   make(map[int64]*models.Guest),
		bookings: make(map[int64]*models.Booking),
		payments: make(map[string]*models.Payment),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addGuest(g models.Guest) *models.Guest {
	if g.ID == 0 {
		g.ID = f.id()
	}
	f.guests[g.ID] = &g
	return &g
}

func (f *fakeStore) addListing(l models.Listing) *models.Listing {
	if l.ID == 0 {
		l.ID = f.id()
	}
	f.listings[l.ID] = &l
	return &l
}

func (f *fakeStore) addBooking(b models.Booking) *models.Booking {
	if b.ID == 0 {
		b.ID = f.id()
	}
	f.bookings[b.ID] = &b
	return &b
}

func (f *fakeStore) CreateListing(_ context.Context, listing *models.Listing) error {
	listing.ID = f.id()
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = listing.CreatedAt
	copied := *listing
	f.listings[listing.ID] = &copied
	return nil
}

func (f *fakeStore) GetListingByID(_ context.Context, id int64) (*models.Listing, error) {
	f.listingReads++
	listing, ok := f.listings[id]
	if !ok {
		return nil, fmt.Errorf("listing %d: %w", id, store.ErrNotFound)
	}
	copied := *listing
	return &copied, nil
}

func (f *fakeStore) GetListings(_ context.Context) ([]models.Listing, error) {
	out := make([]models.Listing, 0, len(f.listings))
	for _, l := range f.listings {
		out = append(out, *l)
	}
	return out, nil
}

func (f *fakeStore) UpdateListing(_ context.Context, listing *models.Listing) error {
	existing, ok := f.listings[listing.ID]
	if !ok {
		return fmt.Errorf("listing %d: %w", listing.ID, store.ErrNotFound)
	}
	existing.Title = listing.Title
	existing.Description = listing.Description
	existing.Price = listing.Price
	existing.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) DeleteListing(_ context.Context, id int64) error {
	if _, ok := f.listings[id]; !ok {
		return fmt.Errorf("listing %d: %w", id, store.ErrNotFound)
	}
	delete(f.listings, id)
	return nil
}

func (f *fakeStore) GetGuestByID(_ context.Context, id int64) (*models.Guest, error) {
	guest, ok := f.guests[id]
	if !ok {
		return nil, fmt.Errorf("guest %d: %w", id, store.ErrNotFound)
	}
	return guest, nil
}

func (f *fakeStore) CreateBooking(_ context.Context, booking *models.Booking) error {
	booking.ID = f.id()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeStore) GetBookingByID(_ context.Context, id int64) (*models.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", id, store.ErrNotFound)
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeStore) GetBookings(_ context.Context) ([]models.Booking, error) {
	out := make([]models.Booking, 0, len(f.bookings))
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeStore) UpdateBooking(_ context.Context, booking *models.Booking) error {
	existing, ok := f.bookings[booking.ID]
	if !ok {
		return fmt.Errorf("booking %d: %w", booking.ID, store.ErrNotFound)
	}
	existing.StartDate = booking.StartDate
	existing.EndDate = booking.EndDate
	existing.TotalPrice = booking.TotalPrice
	existing.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) DeleteBooking(_ context.Context, id int64) error {
	if _, ok := f.bookings[id]; !ok {
		return fmt.Errorf("booking %d: %w", id, store.ErrNotFound)
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeStore) CreatePayment(_ context.Context, payment *models.Payment) error {
	payment.ID = f.id()
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = payment.CreatedAt
	copied := *payment
	f.payments[payment.TxRef] = &copied
	return nil
}

func (f *fakeStore) GetPaymentByTxRef(_ context.Context, txRef string) (*models.Payment, error) {
	payment, ok := f.payments[txRef]
	if !ok {
		return nil, fmt.Errorf("payment %s: %w", txRef, store.ErrNotFound)
	}
	copied := *payment
	return &copied, nil
}

func (f *fakeStore) HasCompletedPayment(_ context.Context, bookingID int64) (bool, error) {
	for _, p := range f.payments {
		if p.BookingID == bookingID && p.Status == models.PaymentStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) TransitionPaymentStatus(_ context.Context, txRef, status string) (bool, error) {
	payment, ok := f.payments[txRef]
	if !ok || payment.Status != models.PaymentStatusPending {
		return false, nil
	}
	payment.Status = status
	payment.UpdatedAt = time.Now()
	return true, nil
}

// fakeGateway scripts the gateway responses
type fakeGateway struct {
	initResult *gateway.InitializeResult
	initErr    error
	initCalls  int

	verifyResult *gateway.VerifyResult
	verifyErr    error
	verifyCalls  int
}

func (f *fakeGateway) Initialize(_ context.Context, _ gateway.InitializeRequest) (*gateway.InitializeResult, error) {
	f.initCalls++
	return f.initResult, f.initErr
}

func (f *fakeGateway) Verify(_ context.Context, _ string) (*gateway.VerifyResult, error) {
	f.verifyCalls++
	return f.verifyResult, f.verifyErr
}

// fakePublisher records enqueued jobs
type fakePublisher struct {
	bookingJobs []*models.BookingConfirmationJob
	paymentJobs []*models.PaymentConfirmationJob
	err         error
}

func (f *fakePublisher) PublishBookingConfirmation(_ context.Context, job *models.BookingConfirmationJob) error {
	if f.err != nil {
		return f.err
	}
	f.bookingJobs = append(f.bookingJobs, job)
	return nil
}

func (f *fakePublisher) PublishPaymentConfirmation(_ context.Context, job *models.PaymentConfirmationJob) error {
	if f.err != nil {
		return f.err
	}
	f.paymentJobs = append(f.paymentJobs, job)
	return nil
}

// fakeLocker scripts lock acquisition
type fakeLocker struct {
	denied   bool
	acquires int
	releases int
}

func (f *fakeLocker) AcquireVerifyLock(_ context.Context, _ string, _ time.Duration) (bool, error) {
	f.acquires++
	return !f.denied, nil
}

func (f *fakeLocker) ReleaseVerifyLock(_ context.Context, _ string) error {
	f.releases++
	return nil
}

// fakeCache is an in-memory listing cache
type fakeCache struct {
	entries     map[int64]*models.Listing
	invalidated []int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[int64]*models.Listing)}
}

func (f *fakeCache) GetListing(_ context.Context, id int64) (*models.Listing, error) {
	return f.entries[id], nil
}

func (f *fakeCache) SetListing(_ context.Context, listing *models.Listing) error {
	copied := *listing
	f.entries[listing.ID] = &copied
	return nil
}

func (f *fakeCache) InvalidateListing(_ context.Context, id int64) error {
	delete(f.entries, id)
	f.invalidated = append(f.invalidated, id)
	return nil
}

package worker

import (
	"context"
	"errors"
	"testing"

	"travel-booking-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, toName, subject, body string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, toName, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, toName: toName, subject: subject, body: body})
	return nil
}

func TestHandleBookingConfirmationSendsEmail(t *testing.T) {
	sender := &fakeSender{}
	w := NewNotificationWorker(nil, sender)

	err := w.handleBookingConfirmation(context.Background(), &models.BookingConfirmationJob{
		BaseEvent:    models.BaseEvent{EventID: "evt-1", EventType: models.EventTypeBookingConfirmation},
		ToEmail:      "a@b.com",
		BookingID:    42,
		ListingTitle: "Lakeside Cabin",
		GuestName:    "Abe Kebede",
		StartDate:    "2026-09-01",
		EndDate:      "2026-09-05",
		TotalPrice:   "150.00",
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	mail := sender.sent[0]
	assert.Equal(t, "a@b.com", mail.to)
	assert.Equal(t, "Abe Kebede", mail.toName)
	assert.Equal(t, "Booking Confirmation for Lakeside Cabin", mail.subject)
	assert.Contains(t, mail.body, "Booking ID: 42")
}

func TestHandlePaymentConfirmationSendsEmail(t *testing.T) {
	sender := &fakeSender{}
	w := NewNotificationWorker(nil, sender)

	err := w.handlePaymentConfirmation(context.Background(), &models.PaymentConfirmationJob{
		BaseEvent: models.BaseEvent{EventID: "evt-2", EventType: models.EventTypePaymentConfirmation},
		ToEmail:   "a@b.com",
		BookingID: 42,
		Amount:    "150.00",
		TxRef:     "booking-42-deadbeef",
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].body, "booking-42-deadbeef")
}

// Send failures are swallowed so the job is still committed.
func TestSendFailureIsNotReturned(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	w := NewNotificationWorker(nil, sender)

	err := w.handleBookingConfirmation(context.Background(), &models.BookingConfirmationJob{
		BaseEvent: models.BaseEvent{EventID: "evt-3", EventType: models.EventTypeBookingConfirmation},
		ToEmail:   "a@b.com",
	})

	assert.NoError(t, err)
	assert.Empty(t, sender.sent)
}

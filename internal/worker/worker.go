package worker

import (
	"context"

	"travel-booking-service/internal/broker"
	"travel-booking-service/internal/mailer"
	"travel-booking-service/internal/models"
	"travel-booking-service/internal/util"

	"go.uber.org/zap"
)

// Sender submits one rendered email to the mail transport
type Sender interface {
	Send(ctx context.Context, to, toName, subject, body string) error
}

// NotificationWorker consumes notification jobs and sends the emails.
// Delivery is fire-and-forget: send failures are logged and the job is still
// committed, no retry.
type NotificationWorker struct {
	consumer *broker.Consumer
	handler  *broker.JobHandler
	sender   Sender
	logger   *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, sender Sender) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		sender:   sender,
		logger:   util.GetLogger(),
	}

	handler := broker.NewJobHandler()
	handler.OnBookingConfirmation(w.handleBookingConfirmation)
	handler.OnPaymentConfirmation(w.handlePaymentConfirmation)
	w.handler = handler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.handler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

func (w *NotificationWorker) handleBookingConfirmation(ctx context.Context, job *models.BookingConfirmationJob) error {
	subject, body := mailer.RenderBookingConfirmation(job)
	w.send(ctx, job.ToEmail, job.GuestName, subject, body, job.EventID)
	return nil
}

func (w *NotificationWorker) handlePaymentConfirmation(ctx context.Context, job *models.PaymentConfirmationJob) error {
	subject, body := mailer.RenderPaymentConfirmation(job)
	w.send(ctx, job.ToEmail, "", subject, body, job.EventID)
	return nil
}

func (w *NotificationWorker) send(ctx context.Context, to, toName, subject, body, eventID string) {
	if err := w.sender.Send(ctx, to, toName, subject, body); err != nil {
		util.EmailsFailedTotal.Inc()
		w.logger.Error("Failed to send email",
			zap.String("event_id", eventID),
			zap.String("to", to),
			zap.Error(err))
		return
	}
	util.EmailsSentTotal.Inc()
	w.logger.Info("Email sent", zap.String("event_id", eventID), zap.String("to", to))
}

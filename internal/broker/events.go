package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"travel-booking-service/internal/models"
	"travel-booking-service/internal/util"

	"github.com/segmentio/kafka-go"
)

// JobPublisher enqueues fire-and-forget notification jobs
type JobPublisher struct {
	producer *Producer
}

// NewJobPublisher creates a new job publisher
func NewJobPublisher(producer *Producer) *JobPublisher {
	return &JobPublisher{producer: producer}
}

// PublishBookingConfirmation enqueues a booking confirmation email job
func (jp *JobPublisher) PublishBookingConfirmation(ctx context.Context, job *models.BookingConfirmationJob) error {
	key := fmt.Sprintf("booking-%d", job.BookingID)
	if err := jp.producer.PublishJob(ctx, key, job); err != nil {
		return err
	}
	util.EmailJobsPublishedTotal.WithLabelValues(models.EventTypeBookingConfirmation).Inc()
	return nil
}

// PublishPaymentConfirmation enqueues a payment confirmation email job
func (jp *JobPublisher) PublishPaymentConfirmation(ctx context.Context, job *models.PaymentConfirmationJob) error {
	key := fmt.Sprintf("booking-%d", job.BookingID)
	if err := jp.producer.PublishJob(ctx, key, job); err != nil {
		return err
	}
	util.EmailJobsPublishedTotal.WithLabelValues(models.EventTypePaymentConfirmation).Inc()
	return nil
}

// JobHandler routes consumed notification jobs to registered handlers
type JobHandler struct {
	onBookingConfirmation func(context.Context, *models.BookingConfirmationJob) error
	onPaymentConfirmation func(context.Context, *models.PaymentConfirmationJob) error
}

// NewJobHandler creates a new job handler
func NewJobHandler() *JobHandler {
	return &JobHandler{}
}

// OnBookingConfirmation registers a handler for booking confirmation jobs
func (jh *JobHandler) OnBookingConfirmation(handler func(context.Context, *models.BookingConfirmationJob) error) {
	jh.onBookingConfirmation = handler
}

// OnPaymentConfirmation registers a handler for payment confirmation jobs
func (jh *JobHandler) OnPaymentConfirmation(handler func(context.Context, *models.PaymentConfirmationJob) error) {
	jh.onPaymentConfirmation = handler
}

// HandleMessage routes messages to the appropriate handler
func (jh *JobHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeBookingConfirmation:
		if jh.onBookingConfirmation != nil {
			var job models.BookingConfirmationJob
			if err := json.Unmarshal(msg.Value, &job); err != nil {
				return fmt.Errorf("failed to unmarshal booking confirmation job: %w", err)
			}
			return jh.onBookingConfirmation(ctx, &job)
		}

	case models.EventTypePaymentConfirmation:
		if jh.onPaymentConfirmation != nil {
			var job models.PaymentConfirmationJob
			if err := json.Unmarshal(msg.Value, &job); err != nil {
				return fmt.Errorf("failed to unmarshal payment confirmation job: %w", err)
			}
			return jh.onPaymentConfirmation(ctx, &job)
		}

	default:
		log.Printf("Unhandled job type: %s", baseEvent.EventType)
	}

	return nil
}

package mailer

import (
	"fmt"

	"travel-booking-service/internal/models"
)

// RenderBookingConfirmation renders the booking confirmation email
func RenderBookingConfirmation(job *models.BookingConfirmationJob) (subject, body string) {
	subject = fmt.Sprintf("Booking Confirmation for %s", job.ListingTitle)
	body = fmt.Sprintf(`Dear %s,

Your booking has been confirmed!

Booking Details:
- Booking ID: %d
- Listing: %s
- Check-in: %s
- Check-out: %s
- Total Price: %s

Thank you for using Travel Booking.

Best regards,
Travel Booking Team
`, job.GuestName, job.BookingID, job.ListingTitle, job.StartDate, job.EndDate, job.TotalPrice)
	return subject, body
}

// RenderPaymentConfirmation renders the payment confirmation email
func RenderPaymentConfirmation(job *models.PaymentConfirmationJob) (subject, body string) {
	subject = fmt.Sprintf("Payment Confirmation for Booking #%d", job.BookingID)
	body = fmt.Sprintf(`Dear guest,

We have received your payment.

Payment Details:
- Booking ID: %d
- Amount: %s
- Transaction Reference: %s

Thank you for using Travel Booking.

Best regards,
Travel Booking Team
`, job.BookingID, job.Amount, job.TxRef)
	return subject, body
}

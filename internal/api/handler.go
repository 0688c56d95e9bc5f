package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"travel-booking-service/internal/gateway"
	"travel-booking-service/internal/service"
	"travel-booking-service/internal/store"
	"travel-booking-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	listings *service.ListingService
	bookings *service.BookingService
	payments *service.PaymentService
	auth     gin.HandlerFunc
}

// NewHandler creates a new HTTP handler. The auth middleware may be nil, in
// which case every endpoint permits anonymous access.
func NewHandler(
	listings *service.ListingService,
	bookings *service.BookingService,
	payments *service.PaymentService,
	auth gin.HandlerFunc,
) *Handler {
	return &Handler{
		listings: listings,
		bookings: bookings,
		payments: payments,
		auth:     auth,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	if h.auth != nil {
		v1.Use(h.auth)
	}
	{
		v1.GET("/listings", h.listListings)
		v1.POST("/listings", h.createListing)
		v1.GET("/listings/:id", h.getListing)
		v1.PUT("/listings/:id", h.updateListing)
		v1.DELETE("/listings/:id", h.deleteListing)

		v1.GET("/bookings", h.listBookings)
		v1.POST("/bookings", h.createBooking)
		v1.GET("/bookings/:id", h.getBooking)
		v1.PUT("/bookings/:id", h.updateBooking)
		v1.DELETE("/bookings/:id", h.deleteBooking)

		v1.POST("/payments/initiate", h.initiatePayment)
		v1.GET("/payments/verify", h.verifyPayment)
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) createListing(c *gin.Context) {
	var req service.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	listing, err := h.listings.CreateListing(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

func (h *Handler) getListing(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	listing, err := h.listings.GetListing(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *Handler) listListings(c *gin.Context) {
	listings, err := h.listings.ListListings(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (h *Handler) updateListing(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	listing, err := h.listings.UpdateListing(c.Request.Context(), id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *Handler) deleteListing(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.listings.DeleteListing(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) createBooking(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.bookings.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) getBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *Handler) listBookings(c *gin.Context) {
	bookings, err := h.bookings.ListBookings(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *Handler) updateBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	booking, err := h.bookings.UpdateBooking(c.Request.Context(), id, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *Handler) deleteBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.bookings.DeleteBooking(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) initiatePayment(c *gin.Context) {
	var req service.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.payments.Initiate(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Hosted Link",
		"status":  "success",
		"data":    result,
	})
}

func (h *Handler) verifyPayment(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "tx_ref is required."})
		return
	}

	result, err := h.payments.Verify(c.Request.Context(), txRef)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	status := http.StatusOK
	if result.Status != "success" {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return id, true
}

// writeServiceError maps the error taxonomy to HTTP statuses: validation 400,
// not found 404, conflict 409, missing gateway credential 500, transport
// failure 502, gateway rejection 400.
func writeServiceError(c *gin.Context, err error) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": validation.Detail})
		return
	}

	var conflict *service.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"detail": conflict.Detail})
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
		return
	}

	if errors.Is(err, gateway.ErrNoCredential) {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Chapa secret key not configured."})
		return
	}

	var network *gateway.NetworkError
	if errors.As(err, &network) {
		c.JSON(http.StatusBadGateway, gin.H{"detail": network.Error()})
		return
	}

	var rejected *gateway.RejectedError
	if errors.As(err, &rejected) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": rejected.Message, "data": rejected.Data})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

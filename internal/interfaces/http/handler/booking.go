package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	bookingapp "github.com/safespace/backend/internal/application/booking"
	"github.com/safespace/backend/internal/interfaces/http/dto"
)

// Headers read by the booking endpoints
const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"
	PaystackSignatureHdr   = "X-Paystack-Signature"
)

const maxIdempotencyKeyLength = 255

// BookingService takes and settles bookings
type BookingService interface {
	Submit(ctx context.Context, input bookingapp.SubmitInput) (*bookingapp.SubmitResult, error)
	Verify(ctx context.Context, reference string) (*bookingapp.VerifyResult, error)
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	List(ctx context.Context, input bookingapp.ListBookingsInput) ([]*bookingapp.BookingResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*bookingapp.BookingResponse, error)
}

// ListBookingsQuery holds the admin booking list filters
type ListBookingsQuery struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=pending_payment paid payment_failed confirmed"`
	Email  string `form:"email" binding:"omitempty,max=254"`
}

// BookingHandler serves the public booking flow and the admin booking views
type BookingHandler struct {
	BaseHandler
	service BookingService
}

// NewBookingHandler creates a booking handler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Submit handles POST /bookings. The price is recomputed from the package
// and the request headers; any client-side amount is ignored.
func (h *BookingHandler) Submit(c *gin.Context) {
	var req bookingapp.SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	key := c.GetHeader(IdempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLength {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Idempotency-Key is too long")
		return
	}

	result, err := h.service.Submit(c.Request.Context(), bookingapp.SubmitInput{
		Request:        req,
		Headers:        c.Request.Header,
		IdempotencyKey: key,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Replayed {
		c.Header(IdempotentReplayHeader, "true")
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// Verify handles GET /bookings/verify/:reference
func (h *BookingHandler) Verify(c *gin.Context) {
	result, err := h.service.Verify(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Webhook handles POST /bookings/webhook. The raw body is needed for the
// signature, so it is read before any decoding.
func (h *BookingHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "Webhook body too large")
		return
	}
	if err := h.service.HandleWebhook(c.Request.Context(), body, c.GetHeader(PaystackSignatureHdr)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}

// List handles GET /admin/bookings
func (h *BookingHandler) List(c *gin.Context) {
	var q ListBookingsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}
	q.Normalize()

	items, total, err := h.service.List(c.Request.Context(), bookingapp.ListBookingsInput{
		Status:   q.Status,
		Email:    q.Email,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, q.Page, q.PageSize)
}

// Get handles GET /admin/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/avelis/cargohold/internal/domain"
	"github.com/avelis/cargohold/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type bookingResponse struct {
	ID               int64   `json:"id"`
	Reference        string  `json:"reference"`
	Requester        string  `json:"requester"`
	FlightIDs        []int64 `json:"flight_ids"`
	ChargeableWeight float64 `json:"chargeable_weight"`
	RatePerKg        float64 `json:"rate_per_kg"`
	Total            float64 `json:"total"`
	Status           string  `json:"status"`
	ExpiresAt        string  `json:"expires_at,omitempty"`
	ConfirmedAt      string  `json:"confirmed_at,omitempty"`
	PenaltyPaid      float64 `json:"penalty_paid"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	resp := bookingResponse{
		ID:               b.ID,
		Reference:        b.Reference,
		Requester:        b.Requester,
		FlightIDs:        b.FlightIDs(),
		ChargeableWeight: b.ChargeableWeight,
		RatePerKg:        b.RatePerKg,
		Total:            b.Total,
		Status:           string(b.Status),
		PenaltyPaid:      b.PenaltyPaid,
	}
	if b.Status == domain.BookingStatusHold {
		resp.ExpiresAt = b.ExpiresAt.Format(time.RFC3339)
	}
	if b.ConfirmedAt != nil {
		resp.ConfirmedAt = b.ConfirmedAt.Format(time.RFC3339)
	}
	return resp
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.PUT("/:id/confirm", h.confirm)
	router.DELETE("/:id", h.cancel)
	router.GET("/:id/modify-fee", h.modifyFee)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context())
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}

	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) confirm(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	confirmed, err := h.service.ConfirmBooking(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(confirmed))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	cancelled, err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking":      toBookingResponse(cancelled),
		"penalty_paid": cancelled.PenaltyPaid,
	})
}

func (h *BookingHandler) modifyFee(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	fee, err := h.service.QuoteModifyFee(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusFromErr(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee": fee})
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

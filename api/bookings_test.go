package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avelis/cargohold/internal/domain"
	"github.com/avelis/cargohold/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ConfirmBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) QuoteModifyFee(ctx context.Context, id int64) (float64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) SweepExpired(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func bookingRouter(service booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBookingHandler(service).Register(router.Group("/bookings"))
	return router
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	input := booking.CreateBookingInput{
		FlightID:     1,
		Requester:    "acme-forwarding",
		ActualWeight: 100,
		Length:       10,
		Width:        10,
		Height:       60,
	}
	created := &domain.Booking{
		ID:               4,
		Reference:        "ref-123",
		Requester:        "acme-forwarding",
		FlightID:         1,
		ChargeableWeight: 100,
		RatePerKg:        12,
		Total:            1200,
		Status:           domain.BookingStatusHold,
		ExpiresAt:        time.Now().Add(2 * time.Minute),
	}
	mockService.On("CreateBooking", mock.Anything, input).Return(created, nil).Once()

	body, _ := json.Marshal(input)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ref-123", resp.Reference)
	assert.Equal(t, "HOLD", resp.Status)
	assert.NotEmpty(t, resp.ExpiresAt)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_insufficientCapacity(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	mockService.On("CreateBooking", mock.Anything, mock.AnythingOfType("booking.CreateBookingInput")).
		Return(nil, domain.ErrInsufficientCapacity).Once()

	body, _ := json.Marshal(booking.CreateBookingInput{FlightID: 1, Requester: "acme"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_confirm_expiredHold(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	mockService.On("ConfirmBooking", mock.Anything, int64(9)).Return(nil, domain.ErrHoldExpired).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/bookings/9/confirm", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGone, w.Code)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_reportsPenalty(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	cancelled := &domain.Booking{
		ID:          9,
		Reference:   "ref-9",
		FlightID:    1,
		Total:       1000,
		Status:      domain.BookingStatusCancelled,
		PenaltyPaid: 100,
	}
	mockService.On("CancelBooking", mock.Anything, int64(9)).Return(cancelled, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/bookings/9", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		PenaltyPaid float64 `json:"penalty_paid"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100.0, resp.PenaltyPaid)
	mockService.AssertExpectations(t)
}

func TestBookingHandler_invalidID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/bookings/not-a-number", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CancelBooking")
}

func TestBookingHandler_list(t *testing.T) {
	mockService := &MockBookingUseCase{}
	router := bookingRouter(mockService)

	mockService.On("ListBookings", mock.Anything).Return([]domain.Booking{
		{ID: 1, Reference: "a", FlightID: 1, Status: domain.BookingStatusConfirmed},
		{ID: 2, Reference: "b", FlightID: 2, Status: domain.BookingStatusCancelled},
	}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []bookingResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	mockService.AssertExpectations(t)
}

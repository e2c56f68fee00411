package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avelis/cargohold/internal/domain"
	"github.com/avelis/cargohold/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, input flights.CreateFlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Utilization(ctx context.Context) ([]flights.RouteUtilization, error) {
	args := m.Called(ctx)
	return args.Get(0).([]flights.RouteUtilization), args.Error(1)
}

func flightRouter(service flights.FlightUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewFlightHandler(service, nil).Register(router.Group("/flights"))
	return router
}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := flightRouter(mockService)

	mockService.On("List", mock.Anything).Return([]domain.Flight{
		{ID: 1, Origin: "DEL", Destination: "DXB", Date: "2025-12-10", CapacityKg: 1000},
	}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/flights", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []domain.Flight
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_get_notFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := flightRouter(mockService)

	mockService.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrFlightNotFound).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/flights/42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_create(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := flightRouter(mockService)

	input := flights.CreateFlightInput{
		Airline: "Emirates", FlightNo: "EK215",
		Origin: "DXB", Destination: "LAX", Date: "2025-12-10",
		CargoType: "Pharma", CapacityKg: 9500,
	}
	created := &domain.Flight{ID: 1, Origin: "DXB", Destination: "LAX", CapacityKg: 9500}
	mockService.On("Create", mock.Anything, input).Return(created, nil).Once()

	body, _ := json.Marshal(input)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/flights", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_importWithoutImporter(t *testing.T) {
	mockService := &MockFlightUseCase{}
	router := flightRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/flights/import", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}

package flights

import (
	"context"
	"testing"
	"time"

	"github.com/avelis/cargohold/internal/domain"
	"github.com/avelis/cargohold/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*FlightService, *repository.MemFlightRepository, *repository.MemBookingRepository) {
	flights := repository.NewMemFlightRepository()
	bookings := repository.NewMemBookingRepository()
	return NewFlightService(flights, bookings), flights, bookings
}

func TestCreate_NormalizesInput(t *testing.T) {
	svc, _, _ := newService()

	flight, err := svc.Create(context.Background(), CreateFlightInput{
		Airline:     " Emirates ",
		FlightNo:    "EK215",
		Origin:      "dxb",
		Destination: " lax ",
		Date:        "10/12/2025",
		CargoType:   "",
		CapacityKg:  9500,
	})

	require.NoError(t, err)
	assert.Equal(t, "DXB", flight.Origin)
	assert.Equal(t, "LAX", flight.Destination)
	assert.Equal(t, "2025-12-10", flight.Date)
	assert.Equal(t, "General", flight.CargoType)
	assert.Equal(t, 9500.0, flight.CapacityTotal)
	assert.Equal(t, 9500.0, flight.CapacityKg)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	testCases := []struct {
		name  string
		input CreateFlightInput
	}{
		{"bad origin", CreateFlightInput{Origin: "DELHI", Destination: "DXB", Date: "2025-12-10", CapacityKg: 100}},
		{"bad destination", CreateFlightInput{Origin: "DEL", Destination: "4", Date: "2025-12-10", CapacityKg: 100}},
		{"bad date", CreateFlightInput{Origin: "DEL", Destination: "DXB", Date: "December 10", CapacityKg: 100}},
		{"zero capacity", CreateFlightInput{Origin: "DEL", Destination: "DXB", Date: "2025-12-10"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	date, err := NormalizeDate("2025-12-10")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-10", date)

	date, err = NormalizeDate("10-12-2025")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-10", date)

	_, err = NormalizeDate("2025-13-45")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUtilization_AggregatesConfirmedWeightPerRoute(t *testing.T) {
	svc, flightRepo, bookingRepo := newService()
	ctx := context.Background()

	f1 := &domain.Flight{Origin: "DEL", Destination: "DXB", Date: "2025-12-10", CargoType: "General", CapacityTotal: 1000}
	f2 := &domain.Flight{Origin: "DEL", Destination: "DXB", Date: "2025-12-11", CargoType: "General", CapacityTotal: 1000}
	f3 := &domain.Flight{Origin: "DXB", Destination: "LHR", Date: "2025-12-10", CargoType: "General", CapacityTotal: 500}
	for _, f := range []*domain.Flight{f1, f2, f3} {
		require.NoError(t, flightRepo.Create(ctx, f))
	}

	hold := &domain.Booking{FlightID: f1.ID, ChargeableWeight: 999, Status: domain.BookingStatusHold, ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, bookingRepo.Create(ctx, hold))

	confirmed := &domain.Booking{FlightID: f1.ID, ChargeableWeight: 900, Status: domain.BookingStatusHold, ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, bookingRepo.Create(ctx, confirmed))
	_, err := bookingRepo.Confirm(ctx, confirmed.ID, time.Now())
	require.NoError(t, err)

	report, err := svc.Utilization(ctx)
	require.NoError(t, err)
	require.Len(t, report, 2)

	delDxb := report[0]
	assert.Equal(t, "DEL", delDxb.Origin)
	assert.Equal(t, 2000.0, delDxb.CapacityKg)
	// only the confirmed booking counts
	assert.Equal(t, 900.0, delDxb.BookedKg)
	assert.InDelta(t, 0.45, delDxb.Utilization, 0.001)
	assert.Empty(t, delDxb.Advisory)

	dxbLhr := report[1]
	assert.Equal(t, 0.0, dxbLhr.BookedKg)
	assert.NotEmpty(t, dxbLhr.Advisory)
}

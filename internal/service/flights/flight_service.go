package flights

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/avelis/cargohold/internal/domain"
	"github.com/avelis/cargohold/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	Utilization(ctx context.Context) ([]RouteUtilization, error)
}

type CreateFlightInput struct {
	Airline     string  `json:"airline"`
	FlightNo    string  `json:"flight_no"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Date        string  `json:"date"`
	CargoType   string  `json:"cargo_type"`
	CapacityKg  float64 `json:"capacity"`
}

// RouteUtilization reports booked weight against published capacity for
// one origin/destination pair, across all flights on the route.
type RouteUtilization struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	CapacityKg  float64 `json:"capacity_kg"`
	BookedKg    float64 `json:"booked_kg"`
	Utilization float64 `json:"utilization"`
	Advisory    string  `json:"advisory,omitempty"`
}

// lowUtilizationThreshold triggers the discount/interline advisory on a route.
const lowUtilizationThreshold = 0.4

var airportCode = regexp.MustCompile(`^[A-Z]{3}$`)

type FlightService struct {
	flights  repository.FlightRepository
	bookings repository.BookingRepository
}

func NewFlightService(flights repository.FlightRepository, bookings repository.BookingRepository) *FlightService {
	return &FlightService{flights: flights, bookings: bookings}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	return s.flights.List(ctx)
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

// Create normalizes and validates an ingested flight record: IATA codes
// upper-cased, dates repaired to YYYY-MM-DD, cargo type defaulted.
func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	origin := strings.ToUpper(strings.TrimSpace(input.Origin))
	destination := strings.ToUpper(strings.TrimSpace(input.Destination))
	if !airportCode.MatchString(origin) || !airportCode.MatchString(destination) {
		return nil, fmt.Errorf("%w: origin and destination must be 3-letter codes", domain.ErrValidation)
	}

	date, err := NormalizeDate(input.Date)
	if err != nil {
		return nil, err
	}
	if input.CapacityKg <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", domain.ErrValidation)
	}

	cargoType := strings.TrimSpace(input.CargoType)
	if cargoType == "" {
		cargoType = "General"
	}

	flight := &domain.Flight{
		Airline:       strings.TrimSpace(input.Airline),
		FlightNo:      strings.TrimSpace(input.FlightNo),
		Origin:        origin,
		Destination:   destination,
		Date:          date,
		CargoType:     cargoType,
		CapacityTotal: input.CapacityKg,
		CapacityKg:    input.CapacityKg,
	}
	if err := s.flights.Create(ctx, flight); err != nil {
		return nil, err
	}
	return flight, nil
}

func (s *FlightService) Utilization(ctx context.Context) ([]RouteUtilization, error) {
	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}

	flightRoute := make(map[int64][2]string, len(flights))
	byRoute := make(map[[2]string]*RouteUtilization)
	var order [][2]string
	for _, f := range flights {
		route := [2]string{f.Origin, f.Destination}
		flightRoute[f.ID] = route
		if _, ok := byRoute[route]; !ok {
			byRoute[route] = &RouteUtilization{Origin: f.Origin, Destination: f.Destination}
			order = append(order, route)
		}
		byRoute[route].CapacityKg += f.CapacityTotal
	}

	for _, b := range bookings {
		if b.Status != domain.BookingStatusConfirmed {
			continue
		}
		for _, flightID := range b.FlightIDs() {
			if route, ok := flightRoute[flightID]; ok {
				byRoute[route].BookedKg += b.ChargeableWeight
			}
		}
	}

	report := make([]RouteUtilization, 0, len(order))
	for _, route := range order {
		u := byRoute[route]
		if u.CapacityKg > 0 {
			u.Utilization = u.BookedKg / u.CapacityKg
		}
		if u.Utilization < lowUtilizationThreshold {
			u.Advisory = "high unused space, consider discounts or interline partnerships"
		}
		report = append(report, *u)
	}
	return report, nil
}

// NormalizeDate accepts YYYY-MM-DD as-is and repairs DD-MM-YYYY and
// slash-separated feed dates, which partner feeds still send.
func NormalizeDate(raw string) (string, error) {
	date := strings.ReplaceAll(strings.TrimSpace(raw), "/", "-")
	parts := strings.Split(date, "-")
	if len(parts) == 3 && len(parts[0]) == 2 {
		date = parts[2] + "-" + parts[1] + "-" + parts[0]
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	return date, nil
}

var _ FlightUseCase = (*FlightService)(nil)

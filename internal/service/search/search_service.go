package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/avelis/cargohold/internal/domain"
	"github.com/avelis/cargohold/internal/match"
	"github.com/avelis/cargohold/internal/rates"
	"github.com/avelis/cargohold/internal/repository"
)

type SearchUseCase interface {
	Search(ctx context.Context, query Query) (*Result, error)
	Rank(options []domain.Itinerary) domain.RankedOptions
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
}

type Query struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
	CargoType   string `json:"cargo_type"`
	// Policy overrides the configured interline policy when set.
	Policy string `json:"policy"`
}

type Result struct {
	Direct    []domain.Itinerary   `json:"direct"`
	Interline []domain.Itinerary   `json:"interline"`
	Ranked    domain.RankedOptions `json:"ranked"`
}

// SearchService matches itineraries against the current flight snapshot
// and annotates them with per-kg rates and the configured placeholder
// transit times before ranking.
type SearchService struct {
	flights         repository.FlightRepository
	cache           Cache
	calc            *rates.Calculator
	directHours     int
	connectionHours int
	defaultPolicy   match.Policy
}

func NewSearchService(
	flights repository.FlightRepository,
	cache Cache,
	calc *rates.Calculator,
	directHours, connectionHours int,
	defaultPolicy match.Policy,
) *SearchService {
	return &SearchService{
		flights:         flights,
		cache:           cache,
		calc:            calc,
		directHours:     directHours,
		connectionHours: connectionHours,
		defaultPolicy:   defaultPolicy,
	}
}

func (s *SearchService) Search(ctx context.Context, query Query) (*Result, error) {
	origin := strings.ToUpper(strings.TrimSpace(query.Origin))
	destination := strings.ToUpper(strings.TrimSpace(query.Destination))
	if origin == "" || destination == "" || query.Date == "" {
		return nil, fmt.Errorf("%w: origin, destination and date are required", domain.ErrValidation)
	}

	policy := s.defaultPolicy
	switch query.Policy {
	case "":
	case string(match.PolicyStrict):
		policy = match.PolicyStrict
	case string(match.PolicyLoose):
		policy = match.PolicyLoose
	default:
		return nil, fmt.Errorf("%w: unknown interline policy %q", domain.ErrValidation, query.Policy)
	}

	snapshot, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	directFlights, interline := match.FindItineraries(snapshot, match.Query{
		Origin:      origin,
		Destination: destination,
		Date:        query.Date,
		CargoType:   query.CargoType,
		Policy:      policy,
	})

	direct := make([]domain.Itinerary, 0, len(directFlights))
	for _, f := range directFlights {
		direct = append(direct, domain.Itinerary{
			Legs:         []domain.Flight{f},
			CapacityKg:   f.CapacityKg,
			CargoType:    f.CargoType,
			PricePerKg:   s.calc.RatePerKg(f.CargoType),
			TransitHours: s.directHours,
		})
	}
	for i := range interline {
		interline[i].PricePerKg = s.calc.RatePerKg(interline[i].CargoType)
		interline[i].TransitHours = s.directHours + s.connectionHours
	}

	options := make([]domain.Itinerary, 0, len(direct)+len(interline))
	options = append(options, direct...)
	options = append(options, interline...)

	return &Result{
		Direct:    direct,
		Interline: interline,
		Ranked:    match.Rank(options),
	}, nil
}

func (s *SearchService) Rank(options []domain.Itinerary) domain.RankedOptions {
	return match.Rank(options)
}

func (s *SearchService) snapshot(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

var _ SearchUseCase = (*SearchService)(nil)

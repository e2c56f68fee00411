package repository

import (
	"context"
	"sync"
	"time"

	"github.com/avelis/cargohold/internal/domain"
)

// MemFlightRepository is an in-memory FlightRepository guarded by a single
// mutex, so reserve and release are atomic per store the same way a
// conditional UPDATE is atomic per row. Used in tests and dry runs.
type MemFlightRepository struct {
	mu      sync.Mutex
	nextID  int64
	flights map[int64]*domain.Flight
}

func NewMemFlightRepository() *MemFlightRepository {
	return &MemFlightRepository{nextID: 1, flights: make(map[int64]*domain.Flight)}
}

func (r *MemFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	flights := make([]domain.Flight, 0, len(r.flights))
	for id := int64(1); id < r.nextID; id++ {
		if f, ok := r.flights[id]; ok {
			flights = append(flights, *f)
		}
	}
	return flights, nil
}

func (r *MemFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.flights[id]
	if !ok {
		return nil, domain.ErrFlightNotFound
	}
	copy := *f
	return &copy, nil
}

func (r *MemFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	flight.ID = r.nextID
	r.nextID++
	flight.CapacityKg = flight.CapacityTotal
	flight.CreatedAt = now
	flight.UpdatedAt = now
	stored := *flight
	r.flights[flight.ID] = &stored
	return nil
}

func (r *MemFlightRepository) ReserveCapacity(ctx context.Context, flightID int64, weightKg float64) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.flights[flightID]
	if !ok {
		return domain.ErrFlightNotFound
	}
	if f.CapacityKg < weightKg {
		return domain.ErrInsufficientCapacity
	}
	f.CapacityKg -= weightKg
	f.UpdatedAt = time.Now()
	return nil
}

func (r *MemFlightRepository) ReleaseCapacity(ctx context.Context, flightID int64, weightKg float64) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.flights[flightID]
	if !ok {
		return domain.ErrFlightNotFound
	}
	if f.CapacityKg+weightKg > f.CapacityTotal {
		return domain.ErrOverRelease
	}
	f.CapacityKg += weightKg
	f.UpdatedAt = time.Now()
	return nil
}

func (r *MemFlightRepository) CapacityOf(ctx context.Context, flightID int64) (float64, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.flights[flightID]
	if !ok {
		return 0, domain.ErrFlightNotFound
	}
	return f.CapacityKg, nil
}

// MemBookingRepository is the in-memory BookingRepository counterpart. All
// status transitions are compare-and-set under the store mutex.
type MemBookingRepository struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*domain.Booking
}

func NewMemBookingRepository() *MemBookingRepository {
	return &MemBookingRepository{nextID: 1, bookings: make(map[int64]*domain.Booking)}
}

func (r *MemBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	booking.ID = r.nextID
	r.nextID++
	booking.CreatedAt = now
	booking.UpdatedAt = now
	stored := *booking
	r.bookings[booking.ID] = &stored
	return nil
}

func (r *MemBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	copy := *b
	return &copy, nil
}

func (r *MemBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	bookings := make([]domain.Booking, 0, len(r.bookings))
	for id := int64(1); id < r.nextID; id++ {
		if b, ok := r.bookings[id]; ok {
			bookings = append(bookings, *b)
		}
	}
	return bookings, nil
}

func (r *MemBookingRepository) Confirm(ctx context.Context, id int64, at time.Time) (*domain.Booking, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.Status != domain.BookingStatusHold {
		return nil, domain.ErrInvalidState
	}
	confirmedAt := at
	b.Status = domain.BookingStatusConfirmed
	b.ConfirmedAt = &confirmedAt
	b.UpdatedAt = time.Now()
	copy := *b
	return &copy, nil
}

func (r *MemBookingRepository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, penalty float64) (*domain.Booking, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.Status != from {
		return nil, domain.ErrInvalidState
	}
	b.Status = domain.BookingStatusCancelled
	b.PenaltyPaid = penalty
	b.UpdatedAt = time.Now()
	copy := *b
	return &copy, nil
}

func (r *MemBookingRepository) ExpireHoldsBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []domain.Booking
	for id := int64(1); id < r.nextID; id++ {
		b, ok := r.bookings[id]
		if !ok || b.Status != domain.BookingStatusHold || !b.ExpiresAt.Before(deadline) {
			continue
		}
		b.Status = domain.BookingStatusCancelled
		b.UpdatedAt = time.Now()
		expired = append(expired, *b)
	}
	return expired, nil
}

var (
	_ FlightRepository  = (*MemFlightRepository)(nil)
	_ BookingRepository = (*MemBookingRepository)(nil)
)

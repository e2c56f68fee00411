package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/avelis/cargohold/internal/domain"
	"github.com/avelis/cargohold/internal/kafka"
	"github.com/avelis/cargohold/internal/rates"
	"github.com/avelis/cargohold/internal/repository"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, id int64) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id int64) (*domain.Booking, error)
	QuoteModifyFee(ctx context.Context, id int64) (float64, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	SweepExpired(ctx context.Context) ([]domain.Booking, error)
}

type Cache interface {
	AcquireBookingLock(ctx context.Context, requester string, flightID int64, ttl time.Duration) (bool, error)
	ReleaseBookingLock(ctx context.Context, requester string, flightID int64) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	FlightID       int64   `json:"flight_id"`
	SecondFlightID *int64  `json:"second_flight_id,omitempty"`
	Requester      string  `json:"requester"`
	ActualWeight   float64 `json:"actual_weight"`
	Length         float64 `json:"length"`
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
}

// BookingService owns the booking state machine: holds with expiry,
// confirmation, cancellation penalties and the expiry sweep. Capacity is
// reserved when the hold is created and released exactly once on the way
// to CANCELLED.
type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	calc               *rates.Calculator
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	holdTTL            time.Duration
	penaltyWindow      time.Duration
	penaltyRate        float64
	modifyFeeRate      float64
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

// WithClock overrides the wall clock, used by expiry and penalty tests.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

// WithNotificationsTopic mirrors every booking event onto a second topic
// consumed by the notifications worker.
func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithPenaltyRates(penaltyRate, modifyFeeRate float64) BookingServiceOption {
	return func(s *BookingService) {
		s.penaltyRate = penaltyRate
		s.modifyFeeRate = modifyFeeRate
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	calc *rates.Calculator,
	cache Cache,
	producer Producer,
	eventsTopic string,
	holdTTL, penaltyWindow time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:      bookings,
		flights:       flights,
		calc:          calc,
		cache:         cache,
		producer:      producer,
		eventsTopic:   eventsTopic,
		holdTTL:       holdTTL,
		penaltyWindow: penaltyWindow,
		penaltyRate:   0.10,
		modifyFeeRate: 0.05,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.Requester == "" {
		return nil, fmt.Errorf("%w: requester is required", domain.ErrValidation)
	}

	first, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	legs := []int64{input.FlightID}
	if input.SecondFlightID != nil {
		if _, err := s.flights.GetByID(ctx, *input.SecondFlightID); err != nil {
			return nil, err
		}
		legs = append(legs, *input.SecondFlightID)
	}

	cargoType := first.CargoType
	if cargoType == "" {
		cargoType = "General"
	}
	quote, err := s.calc.Quote(domain.Shipment{
		ActualWeight: input.ActualWeight,
		Length:       input.Length,
		Width:        input.Width,
		Height:       input.Height,
	}, cargoType)
	if err != nil {
		return nil, err
	}

	locked := false
	if s.cache != nil {
		ok, err := s.cache.AcquireBookingLock(ctx, input.Requester, input.FlightID, s.holdTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: booking already in progress for this flight", domain.ErrValidation)
		}
		locked = true
	}

	// Reserve every leg; if a later leg fails, roll back the earlier ones
	// so no capacity stays decremented without a live booking.
	reserved := make([]int64, 0, len(legs))
	reserveErr := error(nil)
	for _, flightID := range legs {
		if err := s.flights.ReserveCapacity(ctx, flightID, quote.ChargeableWeight); err != nil {
			reserveErr = err
			break
		}
		reserved = append(reserved, flightID)
	}
	if reserveErr != nil {
		s.rollbackReserves(ctx, reserved, quote.ChargeableWeight)
		if locked {
			_ = s.cache.ReleaseBookingLock(ctx, input.Requester, input.FlightID)
		}
		return nil, reserveErr
	}

	booking := &domain.Booking{
		Reference:        uuid.NewString(),
		Requester:        input.Requester,
		FlightID:         input.FlightID,
		SecondFlightID:   input.SecondFlightID,
		ActualWeight:     input.ActualWeight,
		VolumetricWeight: quote.VolumetricWeight,
		ChargeableWeight: quote.ChargeableWeight,
		RatePerKg:        quote.RatePerKg,
		Total:            quote.Total,
		Status:           domain.BookingStatusHold,
		ExpiresAt:        s.now().Add(s.holdTTL),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		s.rollbackReserves(ctx, reserved, quote.ChargeableWeight)
		if locked {
			_ = s.cache.ReleaseBookingLock(ctx, input.Requester, input.FlightID)
		}
		return nil, err
	}

	s.invalidateFlights(ctx)
	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.BookingStatusHold {
		return nil, domain.ErrInvalidState
	}
	if s.now().After(current.ExpiresAt) {
		// Left as HOLD on purpose: the sweep reconciles capacity, so the
		// release happens in exactly one place.
		return nil, domain.ErrHoldExpired
	}

	confirmed, err := s.bookings.Confirm(ctx, id, s.now())
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.ReleaseBookingLock(ctx, confirmed.Requester, confirmed.FlightID)
	}
	s.publish(ctx, "booking_confirmed", confirmed)
	return confirmed, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var penalty float64
	switch current.Status {
	case domain.BookingStatusHold:
		// Cancelling before confirmation never costs anything.
		penalty = 0
	case domain.BookingStatusConfirmed:
		if current.ConfirmedAt != nil && s.now().Sub(*current.ConfirmedAt) > s.penaltyWindow {
			penalty = s.penaltyRate * current.Total
		}
	default:
		return nil, domain.ErrInvalidState
	}

	cancelled, err := s.bookings.Cancel(ctx, id, current.Status, penalty)
	if err != nil {
		// Another caller (or the sweep) won the transition; it also did
		// the release, so this caller must not touch capacity.
		return nil, err
	}

	for _, flightID := range cancelled.FlightIDs() {
		if err := s.flights.ReleaseCapacity(ctx, flightID, cancelled.ChargeableWeight); err != nil {
			log.Printf("release capacity for flight %d after cancel of booking %d: %v", flightID, id, err)
		}
	}
	if s.cache != nil {
		_ = s.cache.ReleaseBookingLock(ctx, cancelled.Requester, cancelled.FlightID)
	}
	s.invalidateFlights(ctx)
	s.publish(ctx, "booking_cancelled", cancelled)
	return cancelled, nil
}

// QuoteModifyFee reports what modifying a confirmed booking would cost. It
// never mutates the booking.
func (s *BookingService) QuoteModifyFee(ctx context.Context, id int64) (float64, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if current.Status != domain.BookingStatusConfirmed {
		return 0, domain.ErrInvalidState
	}
	if current.ConfirmedAt != nil && s.now().Sub(*current.ConfirmedAt) > s.penaltyWindow {
		return s.modifyFeeRate * current.Total, nil
	}
	return 0, nil
}

// SweepExpired lazily expires overdue holds. The repository transition is a
// compare-and-set, so concurrent sweeps split the expired set between them
// and each booking's capacity is released exactly once.
func (s *BookingService) SweepExpired(ctx context.Context) ([]domain.Booking, error) {
	expired, err := s.bookings.ExpireHoldsBefore(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for i := range expired {
		b := &expired[i]
		for _, flightID := range b.FlightIDs() {
			if err := s.flights.ReleaseCapacity(ctx, flightID, b.ChargeableWeight); err != nil {
				log.Printf("release capacity for flight %d after expiry of booking %d: %v", flightID, b.ID, err)
			}
		}
		if s.cache != nil {
			_ = s.cache.ReleaseBookingLock(ctx, b.Requester, b.FlightID)
		}
		s.publish(ctx, "booking_expired", b)
	}
	if len(expired) > 0 {
		s.invalidateFlights(ctx)
	}
	return expired, nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	if _, err := s.SweepExpired(ctx); err != nil {
		return nil, err
	}
	return s.bookings.List(ctx)
}

func (s *BookingService) rollbackReserves(ctx context.Context, reserved []int64, weightKg float64) {
	for _, flightID := range reserved {
		if err := s.flights.ReleaseCapacity(ctx, flightID, weightKg); err != nil {
			log.Printf("rollback release for flight %d: %v", flightID, err)
		}
	}
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:             eventType,
		BookingID:        booking.ID,
		Reference:        booking.Reference,
		Requester:        booking.Requester,
		FlightIDs:        booking.FlightIDs(),
		Status:           string(booking.Status),
		ChargeableWeight: booking.ChargeableWeight,
		Total:            booking.Total,
		PenaltyPaid:      booking.PenaltyPaid,
		ExpiresAt:        booking.ExpiresAt,
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.Reference, event); err != nil {
		log.Printf("publish %s event for booking %s: %v", eventType, booking.Reference, err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
			log.Printf("publish %s notification for booking %s: %v", eventType, booking.Reference, err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)

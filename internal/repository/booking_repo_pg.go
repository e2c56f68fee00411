package repository

import (
	"context"
	"errors"
	"time"

	"github.com/avelis/cargohold/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	// Confirm transitions HOLD -> CONFIRMED. The status check and the
	// update are one statement, so a concurrent transition loses cleanly:
	// the loser gets domain.ErrInvalidState and must not touch capacity.
	Confirm(ctx context.Context, id int64, at time.Time) (*domain.Booking, error)
	// Cancel transitions from the given status to CANCELLED, recording the
	// penalty. Same compare-and-set contract as Confirm.
	Cancel(ctx context.Context, id int64, from domain.BookingStatus, penalty float64) (*domain.Booking, error)
	// ExpireHoldsBefore flips every HOLD past its deadline to CANCELLED and
	// returns the bookings it transitioned. Only rows flipped by this call
	// are returned, so the caller releases each booking's capacity at most
	// once even when sweeps race.
	ExpireHoldsBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error)
}

const bookingColumns = `id, reference, requester, flight_id, second_flight_id, actual_weight, volumetric_weight, chargeable_weight, rate_per_kg, total, status, expires_at, confirmed_at, penalty_paid, created_at, updated_at`

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *PGBookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.QueryRow(ctx, `INSERT INTO bookings (reference, requester, flight_id, second_flight_id, actual_weight, volumetric_weight, chargeable_weight, rate_per_kg, total, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.Requester, booking.FlightID, booking.SecondFlightID,
		booking.ActualWeight, booking.VolumetricWeight, booking.ChargeableWeight,
		booking.RatePerKg, booking.Total, booking.Status, booking.ExpiresAt).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Confirm(ctx context.Context, id int64, at time.Time) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, confirmed_at=$2, updated_at=now() WHERE id=$3 AND status=$4 RETURNING `+bookingColumns,
		domain.BookingStatusConfirmed, at, id, domain.BookingStatusHold)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidState
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Cancel(ctx context.Context, id int64, from domain.BookingStatus, penalty float64) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, penalty_paid=$2, updated_at=now() WHERE id=$3 AND status=$4 RETURNING `+bookingColumns,
		domain.BookingStatusCancelled, penalty, id, from)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidState
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) ExpireHoldsBefore(ctx context.Context, deadline time.Time) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE status=$2 AND expires_at < $3 RETURNING `+bookingColumns,
		domain.BookingStatusCancelled, domain.BookingStatusHold, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		expired = append(expired, b)
	}
	return expired, rows.Err()
}

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.Reference, &b.Requester, &b.FlightID, &b.SecondFlightID,
		&b.ActualWeight, &b.VolumetricWeight, &b.ChargeableWeight, &b.RatePerKg, &b.Total,
		&b.Status, &b.ExpiresAt, &b.ConfirmedAt, &b.PenaltyPaid, &b.CreatedAt, &b.UpdatedAt)
}

var _ BookingRepository = (*PGBookingRepository)(nil)

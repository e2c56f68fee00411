package repository

import (
	"context"
	"errors"

	"github.com/avelis/cargohold/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	// ReserveCapacity atomically checks remaining capacity and decrements
	// it in the same statement. Two concurrent reserves never both succeed
	// past the remaining capacity.
	ReserveCapacity(ctx context.Context, flightID int64, weightKg float64) error
	// ReleaseCapacity atomically returns weight to a flight. Releasing past
	// the flight's total fails with domain.ErrOverRelease.
	ReleaseCapacity(ctx context.Context, flightID int64, weightKg float64) error
	CapacityOf(ctx context.Context, flightID int64) (float64, error)
}

const flightColumns = `id, airline, flight_no, origin, destination, date, cargo_type, capacity_total_kg, capacity_kg, created_at, updated_at`

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) *PGFlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY date, origin, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	return r.db.QueryRow(ctx, `INSERT INTO flights (airline, flight_no, origin, destination, date, cargo_type, capacity_total_kg, capacity_kg)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, created_at, updated_at`,
		flight.Airline, flight.FlightNo, flight.Origin, flight.Destination, flight.Date, flight.CargoType, flight.CapacityTotal).
		Scan(&flight.ID, &flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) ReserveCapacity(ctx context.Context, flightID int64, weightKg float64) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET capacity_kg = capacity_kg - $2, updated_at = now() WHERE id=$1 AND capacity_kg >= $2`, flightID, weightKg)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return r.notFoundOr(ctx, flightID, domain.ErrInsufficientCapacity)
	}
	return nil
}

func (r *PGFlightRepository) ReleaseCapacity(ctx context.Context, flightID int64, weightKg float64) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET capacity_kg = capacity_kg + $2, updated_at = now() WHERE id=$1 AND capacity_kg + $2 <= capacity_total_kg`, flightID, weightKg)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return r.notFoundOr(ctx, flightID, domain.ErrOverRelease)
	}
	return nil
}

func (r *PGFlightRepository) CapacityOf(ctx context.Context, flightID int64) (float64, error) {
	var remaining float64
	if err := r.db.QueryRow(ctx, `SELECT capacity_kg FROM flights WHERE id=$1`, flightID).Scan(&remaining); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrFlightNotFound
		}
		return 0, err
	}
	return remaining, nil
}

// notFoundOr disambiguates a zero-row conditional update: other means the
// row exists but the capacity guard rejected the change.
func (r *PGFlightRepository) notFoundOr(ctx context.Context, flightID int64, other error) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE id=$1)`, flightID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrFlightNotFound
	}
	return other
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.Airline, &f.FlightNo, &f.Origin, &f.Destination, &f.Date, &f.CargoType, &f.CapacityTotal, &f.CapacityKg, &f.CreatedAt, &f.UpdatedAt)
}

var _ FlightRepository = (*PGFlightRepository)(nil)

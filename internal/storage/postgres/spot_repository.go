package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
)

type SpotRepository struct {
	pool *pgxpool.Pool
}

func NewSpotRepository(pool *pgxpool.Pool) *SpotRepository {
	return &SpotRepository{pool: pool}
}

func (r *SpotRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *SpotRepository) CreateSpot(ctx context.Context, spot domain.ParkingSpot) error {
	const stmt = `
INSERT INTO parking_spots (id, name, description, state, manager_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.exec(ctx, stmt,
		spot.ID,
		spot.Name,
		spot.Description,
		spot.State,
		spot.ManagerID,
		spot.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create spot: %w", err)
	}
	return nil
}

func (r *SpotRepository) ListNotDeactivatedSpots(ctx context.Context) ([]domain.ParkingSpot, error) {
	const query = `
SELECT id, name, description, state, manager_id, created_at
FROM parking_spots
WHERE state <> 'deactivated'
ORDER BY created_at ASC, id ASC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list spots: %w", err)
	}
	defer rows.Close()

	return scanSpots(rows)
}

func (r *SpotRepository) GetSpot(ctx context.Context, id string) (*domain.ParkingSpot, error) {
	const query = `
SELECT id, name, description, state, manager_id, created_at
FROM parking_spots
WHERE id = $1`

	var spot domain.ParkingSpot
	err := r.queryRow(ctx, query, id).
		Scan(&spot.ID, &spot.Name, &spot.Description, &spot.State, &spot.ManagerID, &spot.CreatedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get spot: %w", err)
	}
	return &spot, nil
}

func (r *SpotRepository) UpdateSpot(ctx context.Context, spot domain.ParkingSpot) error {
	const stmt = `
UPDATE parking_spots
SET name = $2, description = $3, state = $4, manager_id = $5
WHERE id = $1`

	tag, err := r.exec(ctx, stmt, spot.ID, spot.Name, spot.Description, spot.State, spot.ManagerID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("update spot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpotNotFound
	}
	return nil
}

func (r *SpotRepository) ReservationsForSpotFrom(ctx context.Context, spotID string, from time.Time) ([]domain.Reservation, error) {
	const query = `
SELECT id, user_id, parking_spot_id, reservation_date
FROM reservations
WHERE parking_spot_id = $1 AND reservation_date >= $2
ORDER BY reservation_date ASC`

	rows, err := r.query(ctx, query, spotID, from)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list spot reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

func (r *SpotRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *SpotRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *SpotRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

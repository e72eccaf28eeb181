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

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *ReservationRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

	var exists bool
	if err := r.queryRow(ctx, query, userID).Scan(&exists); err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("check user: %w", err)
	}
	return exists, nil
}

func (r *ReservationRepository) HasReservationOn(ctx context.Context, userID string, date time.Time) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM reservations WHERE user_id = $1 AND reservation_date = $2)`

	var exists bool
	if err := r.queryRow(ctx, query, userID, date).Scan(&exists); err != nil {
		if isInvalidUUID(err) {
			return false, domain.ErrInvalidID
		}
		return false, fmt.Errorf("check reservation: %w", err)
	}
	return exists, nil
}

func (r *ReservationRepository) ListNotDeactivatedSpots(ctx context.Context) ([]domain.ParkingSpot, error) {
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

func (r *ReservationRepository) ReservedSpotIDs(ctx context.Context, date time.Time) ([]string, error) {
	const query = `SELECT parking_spot_id FROM reservations WHERE reservation_date = $1`

	rows, err := r.query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list reserved spots: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan reserved spot: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate reserved spots: %w", rows.Err())
	}
	return ids, nil
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation domain.Reservation) error {
	const stmt = `
INSERT INTO reservations (id, user_id, parking_spot_id, reservation_date)
VALUES ($1, $2, $3, $4)`

	_, err := r.exec(ctx, stmt,
		reservation.ID,
		reservation.UserID,
		reservation.ParkingSpotID,
		reservation.Date,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrReservationConflict
		}
		if isForeignKeyViolation(err) {
			return domain.ErrSpotNotFound
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetReservationsByIDs(ctx context.Context, ids []string) ([]domain.Reservation, error) {
	const query = `
SELECT id, user_id, parking_spot_id, reservation_date
FROM reservations
WHERE id = ANY($1)
ORDER BY reservation_date ASC`

	rows, err := r.query(ctx, query, ids)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("get reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

func (r *ReservationRepository) RemoveReservation(ctx context.Context, id string) error {
	const stmt = `DELETE FROM reservations WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("remove reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) ListReservationsForDates(ctx context.Context, dates []time.Time) ([]domain.Reservation, error) {
	const query = `
SELECT id, user_id, parking_spot_id, reservation_date
FROM reservations
WHERE reservation_date = ANY($1)
ORDER BY reservation_date ASC, created_at ASC`

	rows, err := r.query(ctx, query, dates)
	if err != nil {
		return nil, fmt.Errorf("list reservations by date: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

func (r *ReservationRepository) ListReservationsForUser(ctx context.Context, userID string, from *time.Time) ([]domain.Reservation, error) {
	query := `
SELECT id, user_id, parking_spot_id, reservation_date
FROM reservations
WHERE user_id = $1`
	args := []any{userID}
	if from != nil {
		query += ` AND reservation_date >= $2`
		args = append(args, *from)
	}
	query += ` ORDER BY reservation_date ASC`

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list user reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

func (r *ReservationRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ReservationRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *ReservationRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func scanReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.ParkingSpotID, &res.Date); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate reservations: %w", rows.Err())
	}
	return reservations, nil
}

func scanSpots(rows pgx.Rows) ([]domain.ParkingSpot, error) {
	var spots []domain.ParkingSpot
	for rows.Next() {
		var spot domain.ParkingSpot
		if err := rows.Scan(&spot.ID, &spot.Name, &spot.Description, &spot.State, &spot.ManagerID, &spot.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan spot: %w", err)
		}
		spots = append(spots, spot)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate spots: %w", rows.Err())
	}
	return spots, nil
}

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

// CascadeRepository backs the assignment event handlers. Its calls always
// run inside the dispatcher's transaction.
type CascadeRepository struct {
	pool *pgxpool.Pool
}

func NewCascadeRepository(pool *pgxpool.Pool) *CascadeRepository {
	return &CascadeRepository{pool: pool}
}

func (r *CascadeRepository) GetSpot(ctx context.Context, id string) (*domain.ParkingSpot, error) {
	const query = `
SELECT id, name, description, state, manager_id, created_at
FROM parking_spots
WHERE id = $1
FOR UPDATE`

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

func (r *CascadeRepository) UpdateSpot(ctx context.Context, spot domain.ParkingSpot) error {
	const stmt = `UPDATE parking_spots SET manager_id = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, spot.ID, spot.ManagerID)
	if err != nil {
		return fmt.Errorf("update spot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpotNotFound
	}
	return nil
}

func (r *CascadeRepository) GetUserByAssignedSpot(ctx context.Context, spotID string) (*domain.User, error) {
	const query = `
SELECT id, first_name, last_name, email, role, assigned_parking_spot_id
FROM users
WHERE assigned_parking_spot_id = $1
FOR UPDATE`

	var user domain.User
	err := r.queryRow(ctx, query, spotID).
		Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Role, &user.AssignedParkingSpotID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by spot: %w", err)
	}
	return &user, nil
}

func (r *CascadeRepository) UpdateUser(ctx context.Context, user domain.User) error {
	const stmt = `UPDATE users SET assigned_parking_spot_id = $2 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, user.ID, user.AssignedParkingSpotID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *CascadeRepository) ReservationsForUserFrom(ctx context.Context, userID string, from time.Time) ([]domain.Reservation, error) {
	const query = `
SELECT id, user_id, parking_spot_id, reservation_date
FROM reservations
WHERE user_id = $1 AND reservation_date >= $2
ORDER BY reservation_date ASC`

	rows, err := r.query(ctx, query, userID, from)
	if err != nil {
		return nil, fmt.Errorf("list user reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

func (r *CascadeRepository) ReservationsForSpotFrom(ctx context.Context, spotID string, from time.Time) ([]domain.Reservation, error) {
	const query = `
SELECT id, user_id, parking_spot_id, reservation_date
FROM reservations
WHERE parking_spot_id = $1 AND reservation_date >= $2
ORDER BY reservation_date ASC`

	rows, err := r.query(ctx, query, spotID, from)
	if err != nil {
		return nil, fmt.Errorf("list spot reservations: %w", err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

func (r *CascadeRepository) RemoveReservation(ctx context.Context, id string) error {
	const stmt = `DELETE FROM reservations WHERE id = $1`

	tag, err := r.exec(ctx, stmt, id)
	if err != nil {
		return fmt.Errorf("remove reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *CascadeRepository) CreateReservation(ctx context.Context, reservation domain.Reservation) error {
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
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *CascadeRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *CascadeRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *CascadeRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

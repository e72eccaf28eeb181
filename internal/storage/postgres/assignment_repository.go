package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
)

type AssignmentRepository struct {
	pool *pgxpool.Pool
}

func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

func (r *AssignmentRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *AssignmentRepository) GetSpot(ctx context.Context, id string) (*domain.ParkingSpot, error) {
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

func (r *AssignmentRepository) UpdateSpot(ctx context.Context, spot domain.ParkingSpot) error {
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

func (r *AssignmentRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	const query = `
SELECT id, first_name, last_name, email, role, assigned_parking_spot_id
FROM users
WHERE id = $1
FOR UPDATE`

	var user domain.User
	err := r.queryRow(ctx, query, id).
		Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Role, &user.AssignedParkingSpotID)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

func (r *AssignmentRepository) UpdateUser(ctx context.Context, user domain.User) error {
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

func (r *AssignmentRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *AssignmentRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

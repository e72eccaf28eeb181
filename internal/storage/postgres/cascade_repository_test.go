package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
	"github.com/tamaslaszlototh/parking-management-system/internal/testutil"
)

func TestCascadeRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewCascadeRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("GetUserByAssignedSpot finds the linked manager", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		managerID := testutil.InsertUser(t, ctx, pool, "m@corp.test", domain.RoleBusinessManager)
		spotID := testutil.InsertSpot(t, ctx, pool, "D1", domain.SpotStateDedicated)
		testutil.AssignSpot(t, ctx, pool, spotID, managerID)

		user, err := repo.GetUserByAssignedSpot(ctx, spotID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user == nil || user.ID != managerID {
			t.Fatalf("unexpected user: %+v", user)
		}

		otherSpot := testutil.InsertSpot(t, ctx, pool, "D2", domain.SpotStateDedicated)
		user, err = repo.GetUserByAssignedSpot(ctx, otherSpot)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user != nil {
			t.Fatalf("expected nil for unassigned spot, got %+v", user)
		}
	})

	t.Run("reservation churn inside one transaction", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		managerID := testutil.InsertUser(t, ctx, pool, "m@corp.test", domain.RoleBusinessManager)
		oldSpot := testutil.InsertSpot(t, ctx, pool, "A1", domain.SpotStateActive)
		newSpot := testutil.InsertSpot(t, ctx, pool, "D1", domain.SpotStateDedicated)

		date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
		testutil.InsertReservation(t, ctx, pool, managerID, oldSpot, date)

		uow := NewUnitOfWork(pool)
		err := uow.WithTx(ctx, func(txCtx context.Context) error {
			existing, err := repo.ReservationsForUserFrom(txCtx, managerID, date)
			if err != nil {
				return err
			}
			for _, r := range existing {
				if err := repo.RemoveReservation(txCtx, r.ID); err != nil {
					return err
				}
			}
			res := domain.NewReservation("8c2f8a1e-7a94-4d58-9f58-1a9f0a2b3c4d", managerID, newSpot, date)
			return repo.CreateReservation(txCtx, res)
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}

		remaining, err := repo.ReservationsForUserFrom(ctx, managerID, date)
		if err != nil {
			t.Fatalf("list reservations: %v", err)
		}
		if len(remaining) != 1 || remaining[0].ParkingSpotID != newSpot {
			t.Fatalf("unexpected reservations: %+v", remaining)
		}
	})
}

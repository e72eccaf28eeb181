package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
	"github.com/tamaslaszlototh/parking-management-system/internal/testutil"
)

func TestSpotRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewSpotRepository(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	t.Run("CreateSpot and GetSpot round-trip", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		spot, err := domain.NewParkingSpot(
			"8c2f8a1e-7a94-4d58-9f58-1a9f0a2b3c4d",
			"A1",
			"near the entrance",
			domain.SpotStateActive,
			time.Now().UTC(),
		)
		if err != nil {
			t.Fatalf("new spot: %v", err)
		}
		if err := repo.CreateSpot(ctx, spot); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.GetSpot(ctx, spot.ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got == nil || got.Name != "A1" || got.State != domain.SpotStateActive || got.ManagerID != nil {
			t.Fatalf("unexpected spot: %+v", got)
		}
	})

	t.Run("GetSpot returns nil for missing, ErrInvalidID for malformed", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		got, err := repo.GetSpot(ctx, "00000000-0000-0000-0000-000000000001")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %+v", got)
		}

		if _, err := repo.GetSpot(ctx, "not-a-uuid"); err != domain.ErrInvalidID {
			t.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})

	t.Run("UpdateSpot persists the deactivated state", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		spotID := testutil.InsertSpot(t, ctx, pool, "A1", domain.SpotStateActive)

		spot, err := repo.GetSpot(ctx, spotID)
		if err != nil {
			t.Fatalf("get spot: %v", err)
		}
		if err := spot.Deactivate(); err != nil {
			t.Fatalf("deactivate: %v", err)
		}
		if err := repo.UpdateSpot(ctx, *spot); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.GetSpot(ctx, spotID)
		if err != nil {
			t.Fatalf("get spot: %v", err)
		}
		if got.State != domain.SpotStateDeactivated {
			t.Fatalf("expected deactivated, got %s", got.State)
		}
	})

	t.Run("ReservationsForSpotFrom skips past dates", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		userID := testutil.InsertUser(t, ctx, pool, "a@corp.test", domain.RoleEmployee)
		spotID := testutil.InsertSpot(t, ctx, pool, "A1", domain.SpotStateActive)

		past := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
		future := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
		testutil.InsertReservation(t, ctx, pool, userID, spotID, past)
		futureID := testutil.InsertReservation(t, ctx, pool, userID, spotID, future)

		got, err := repo.ReservationsForSpotFrom(ctx, spotID, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 1 || got[0].ID != futureID {
			t.Fatalf("unexpected reservations: %+v", got)
		}
	})
}

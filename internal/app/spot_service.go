package app

import (
	"context"
	"time"

	"github.com/tamaslaszlototh/parking-management-system/internal/clock"
	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
)

type SpotRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateSpot(ctx context.Context, spot domain.ParkingSpot) error
	ListNotDeactivatedSpots(ctx context.Context) ([]domain.ParkingSpot, error)
	GetSpot(ctx context.Context, id string) (*domain.ParkingSpot, error)
	UpdateSpot(ctx context.Context, spot domain.ParkingSpot) error
	ReservationsForSpotFrom(ctx context.Context, spotID string, from time.Time) ([]domain.Reservation, error)
}

// SpotService covers the admin side of the spot inventory.
type SpotService struct {
	repo  SpotRepository
	clock clock.Clock
}

func NewSpotService(repo SpotRepository, clk clock.Clock) *SpotService {
	return &SpotService{
		repo:  repo,
		clock: clk,
	}
}

type CreateSpotInput struct {
	Name        string
	Description string
	State       domain.SpotState
}

func (s *SpotService) Create(ctx context.Context, in CreateSpotInput) (domain.ParkingSpot, error) {
	spot, err := domain.NewParkingSpot(newID(), in.Name, in.Description, in.State, s.clock.Now())
	if err != nil {
		return domain.ParkingSpot{}, err
	}
	if err := s.repo.CreateSpot(ctx, spot); err != nil {
		return domain.ParkingSpot{}, err
	}
	return spot, nil
}

func (s *SpotService) List(ctx context.Context) ([]domain.ParkingSpot, error) {
	return s.repo.ListNotDeactivatedSpots(ctx)
}

type DeactivateResult struct {
	// ReservationIDs are the spot's remaining today-or-future reservations.
	// Advisory data for notifying affected users; deactivation does not
	// cancel them.
	ReservationIDs   []string
	LastReservedDate *time.Time
}

// Deactivate transitions the spot to Deactivated and, after the commit,
// reads back the reservations the caller may want to act on. The read must
// follow the commit so it reflects the deactivated state.
func (s *SpotService) Deactivate(ctx context.Context, spotID string) (DeactivateResult, error) {
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		spot, err := s.repo.GetSpot(txCtx, spotID)
		if err != nil {
			return err
		}
		if spot == nil {
			return domain.ErrSpotNotFound
		}
		if err := spot.Deactivate(); err != nil {
			return err
		}
		return s.repo.UpdateSpot(txCtx, *spot)
	})
	if err != nil {
		return DeactivateResult{}, err
	}

	today := domain.Day(s.clock.Now())
	reservations, err := s.repo.ReservationsForSpotFrom(ctx, spotID, today)
	if err != nil {
		return DeactivateResult{}, err
	}

	result := DeactivateResult{ReservationIDs: make([]string, 0, len(reservations))}
	for _, r := range reservations {
		result.ReservationIDs = append(result.ReservationIDs, r.ID)
		if result.LastReservedDate == nil || r.Date.After(*result.LastReservedDate) {
			date := r.Date
			result.LastReservedDate = &date
		}
	}
	return result, nil
}

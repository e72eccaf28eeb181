package app

import (
	"context"

	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
	"github.com/tamaslaszlototh/parking-management-system/internal/events"
)

type AssignmentRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetSpot(ctx context.Context, id string) (*domain.ParkingSpot, error)
	UpdateSpot(ctx context.Context, spot domain.ParkingSpot) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
}

// AssignmentService manages the dedicated-spot lifecycle. The commands here
// mutate a single aggregate and leave the dependent aggregates to the event
// cascade.
type AssignmentService struct {
	repo AssignmentRepository
}

func NewAssignmentService(repo AssignmentRepository) *AssignmentService {
	return &AssignmentService{repo: repo}
}

// Assign claims a dedicated spot for a manager. Preconditions are checked
// in order, short-circuiting on the first failure. On success the raised
// assignment event is queued for the post-response cascade.
func (s *AssignmentService) Assign(ctx context.Context, managerID, spotID string) error {
	var raised []domain.Event

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		spot, err := s.repo.GetSpot(txCtx, spotID)
		if err != nil {
			return err
		}
		if spot == nil || spot.State != domain.SpotStateDedicated {
			return domain.ErrSpotNotDedicated
		}
		if spot.ManagerID != nil {
			return domain.ErrSpotAlreadyAssigned
		}

		manager, err := s.repo.GetUser(txCtx, managerID)
		if err != nil {
			return err
		}
		if manager == nil || manager.Role != domain.RoleBusinessManager {
			return domain.ErrManagerNotFound
		}
		if manager.AssignedParkingSpotID != nil {
			return domain.ErrManagerAlreadyAssigned
		}

		manager.AssignParkingSpot(spot.ID)
		if err := s.repo.UpdateUser(txCtx, *manager); err != nil {
			return err
		}
		raised = manager.PopEvents()
		return nil
	})
	if err != nil {
		return err
	}

	// Queued only after the commit so a rolled-back command never cascades.
	events.Enqueue(ctx, raised...)
	return nil
}

// Remove clears a spot's manager assignment and queues the removal event
// that cancels the spot's future reservations and unlinks the manager.
func (s *AssignmentService) Remove(ctx context.Context, spotID string) error {
	var raised []domain.Event

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		spot, err := s.repo.GetSpot(txCtx, spotID)
		if err != nil {
			return err
		}
		if spot == nil {
			return domain.ErrSpotNotFound
		}
		if spot.ManagerID == nil || spot.State != domain.SpotStateDedicated {
			return domain.ErrSpotNotDedicated
		}

		spot.RemoveManagerAssignment()
		if err := s.repo.UpdateSpot(txCtx, *spot); err != nil {
			return err
		}
		raised = spot.PopEvents()
		return nil
	})
	if err != nil {
		return err
	}

	events.Enqueue(ctx, raised...)
	return nil
}

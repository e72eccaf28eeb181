package app

import (
	"context"
	"time"

	"github.com/tamaslaszlototh/parking-management-system/internal/clock"
	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
	"github.com/tamaslaszlototh/parking-management-system/internal/events"
)

type CascadeRepository interface {
	GetSpot(ctx context.Context, id string) (*domain.ParkingSpot, error)
	UpdateSpot(ctx context.Context, spot domain.ParkingSpot) error
	GetUserByAssignedSpot(ctx context.Context, spotID string) (*domain.User, error)
	UpdateUser(ctx context.Context, user domain.User) error
	ReservationsForUserFrom(ctx context.Context, userID string, from time.Time) ([]domain.Reservation, error)
	ReservationsForSpotFrom(ctx context.Context, spotID string, from time.Time) ([]domain.Reservation, error)
	RemoveReservation(ctx context.Context, id string) error
	CreateReservation(ctx context.Context, reservation domain.Reservation) error
}

// Cascade holds the event handlers that keep User, ParkingSpot and
// Reservation consistent after an assignment changes. Handlers run inside
// the dispatcher's transaction; each is idempotent and independent of the
// others registered for the same event.
type Cascade struct {
	repo  CascadeRepository
	clock clock.Clock
}

func NewCascade(repo CascadeRepository, clk clock.Clock) *Cascade {
	return &Cascade{
		repo:  repo,
		clock: clk,
	}
}

func (c *Cascade) Register(pub *events.Publisher) {
	pub.Register(domain.EventSpotAssigned, c.applyAssignmentToSpot)
	pub.Register(domain.EventSpotAssigned, c.provisionManagerReservations)
	pub.Register(domain.EventAssignmentRemoved, c.cancelSpotReservations)
	pub.Register(domain.EventAssignmentRemoved, c.clearUserAssignment)
}

// applyAssignmentToSpot mirrors the manager reference onto the spot.
func (c *Cascade) applyAssignmentToSpot(ctx context.Context, ev domain.Event) error {
	spot, err := c.repo.GetSpot(ctx, ev.SpotID)
	if err != nil {
		return err
	}
	if spot == nil {
		return nil
	}
	spot.AssignManager(ev.ManagerID)
	return c.repo.UpdateSpot(ctx, *spot)
}

// provisionManagerReservations replaces the manager's current bookings with
// one reservation per day on the dedicated spot, from today through the end
// of the year. Prior bookings elsewhere are removed unconditionally.
func (c *Cascade) provisionManagerReservations(ctx context.Context, ev domain.Event) error {
	today := domain.Day(c.clock.Now())

	active, err := c.repo.ReservationsForUserFrom(ctx, ev.ManagerID, today)
	if err != nil {
		return err
	}
	for _, r := range active {
		if err := c.repo.RemoveReservation(ctx, r.ID); err != nil {
			return err
		}
	}

	end := domain.EndOfYear(today)
	for day := today; !day.After(end); day = day.AddDate(0, 0, 1) {
		reservation := domain.NewReservation(newID(), ev.ManagerID, ev.SpotID, day)
		if err := c.repo.CreateReservation(ctx, reservation); err != nil {
			return err
		}
	}
	return nil
}

// cancelSpotReservations removes the spot's today-or-future reservations
// once its dedicated assignment is gone.
func (c *Cascade) cancelSpotReservations(ctx context.Context, ev domain.Event) error {
	today := domain.Day(c.clock.Now())
	reservations, err := c.repo.ReservationsForSpotFrom(ctx, ev.SpotID, today)
	if err != nil {
		return err
	}
	for _, r := range reservations {
		if err := c.repo.RemoveReservation(ctx, r.ID); err != nil {
			return err
		}
	}
	return nil
}

// clearUserAssignment unlinks whichever user still references the spot.
func (c *Cascade) clearUserAssignment(ctx context.Context, ev domain.Event) error {
	user, err := c.repo.GetUserByAssignedSpot(ctx, ev.SpotID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	user.RemoveParkingSpotAssignment()
	return c.repo.UpdateUser(ctx, *user)
}

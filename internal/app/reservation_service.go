package app

import (
	"context"
	"time"

	"github.com/tamaslaszlototh/parking-management-system/internal/clock"
	"github.com/tamaslaszlototh/parking-management-system/internal/domain"
)

type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	UserExists(ctx context.Context, userID string) (bool, error)
	HasReservationOn(ctx context.Context, userID string, date time.Time) (bool, error)
	ListNotDeactivatedSpots(ctx context.Context) ([]domain.ParkingSpot, error)
	ReservedSpotIDs(ctx context.Context, date time.Time) ([]string, error)
	CreateReservation(ctx context.Context, reservation domain.Reservation) error
	GetReservationsByIDs(ctx context.Context, ids []string) ([]domain.Reservation, error)
	RemoveReservation(ctx context.Context, id string) error
	ListReservationsForDates(ctx context.Context, dates []time.Time) ([]domain.Reservation, error)
	ListReservationsForUser(ctx context.Context, userID string, from *time.Time) ([]domain.Reservation, error)
}

// ReservationService owns the allocation engine: it books one free spot per
// requested date, or nothing at all.
type ReservationService struct {
	repo  ReservationRepository
	clock clock.Clock
}

func NewReservationService(repo ReservationRepository, clk clock.Clock) *ReservationService {
	return &ReservationService{
		repo:  repo,
		clock: clk,
	}
}

type ReserveInput struct {
	UserID          string
	Dates           []time.Time
	PreferDedicated bool
}

// Reserve allocates one reservation per requested date inside a single
// transaction. All dates are checked for user conflicts before any
// allocation, and all dates must resolve to a spot before anything is
// persisted; a partial batch never commits.
func (s *ReservationService) Reserve(ctx context.Context, in ReserveInput) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		exists, err := s.repo.UserExists(txCtx, in.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrUserNotFound
		}

		var conflicts []time.Time
		for _, d := range in.Dates {
			day := domain.Day(d)
			taken, err := s.repo.HasReservationOn(txCtx, in.UserID, day)
			if err != nil {
				return err
			}
			if taken {
				conflicts = append(conflicts, day)
			}
		}
		if len(conflicts) > 0 {
			return &domain.AlreadyReservedError{Dates: conflicts}
		}

		spots, err := s.repo.ListNotDeactivatedSpots(txCtx)
		if err != nil {
			return err
		}

		type allocation struct {
			date   time.Time
			spotID string
		}
		var (
			allocations []allocation
			unsatisfied []time.Time
		)
		for _, d := range in.Dates {
			day := domain.Day(d)
			reservedIDs, err := s.repo.ReservedSpotIDs(txCtx, day)
			if err != nil {
				return err
			}
			reserved := make(map[string]struct{}, len(reservedIDs))
			for _, id := range reservedIDs {
				reserved[id] = struct{}{}
			}

			spotID, found := pickSpot(spots, reserved, in.UserID, in.PreferDedicated)
			if !found {
				unsatisfied = append(unsatisfied, day)
				continue
			}
			allocations = append(allocations, allocation{date: day, spotID: spotID})
		}
		if len(unsatisfied) > 0 {
			return &domain.NoFreeSpotError{Dates: unsatisfied}
		}

		for _, a := range allocations {
			reservation := domain.NewReservation(newID(), in.UserID, a.spotID, a.date)
			if err := s.repo.CreateReservation(txCtx, reservation); err != nil {
				return err
			}
		}
		return nil
	})
}

// pickSpot selects a free spot for one date. Spots arrive in repository
// order (creation order), which keeps allocation deterministic. A dedicated
// spot is selectable only by its own manager.
func pickSpot(spots []domain.ParkingSpot, reserved map[string]struct{}, userID string, preferDedicated bool) (string, bool) {
	if preferDedicated {
		for _, spot := range spots {
			if spot.State != domain.SpotStateDedicated || spot.ManagerID == nil || *spot.ManagerID != userID {
				continue
			}
			if _, taken := reserved[spot.ID]; !taken {
				return spot.ID, true
			}
		}
	}

	for _, spot := range spots {
		if _, taken := reserved[spot.ID]; taken {
			continue
		}
		switch spot.State {
		case domain.SpotStateActive:
			return spot.ID, true
		case domain.SpotStateDedicated:
			if spot.ManagerID != nil && *spot.ManagerID == userID {
				return spot.ID, true
			}
		}
	}
	return "", false
}

type CancelInput struct {
	UserID         string
	ReservationIDs []string
}

// Cancel removes the requested reservations all-or-nothing and returns the
// cancelled dates in the order the reservations were fetched.
func (s *ReservationService) Cancel(ctx context.Context, in CancelInput) ([]time.Time, error) {
	var cancelled []time.Time

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		exists, err := s.repo.UserExists(txCtx, in.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrUserNotFound
		}

		reservations, err := s.repo.GetReservationsByIDs(txCtx, in.ReservationIDs)
		if err != nil {
			return err
		}
		if len(reservations) != len(in.ReservationIDs) {
			return domain.ErrReservationNotFound
		}
		for _, r := range reservations {
			if r.UserID != in.UserID {
				return domain.ErrNotReservationOwner
			}
		}

		for _, r := range reservations {
			if err := s.repo.RemoveReservation(txCtx, r.ID); err != nil {
				return err
			}
		}

		cancelled = make([]time.Time, 0, len(reservations))
		for _, r := range reservations {
			cancelled = append(cancelled, r.Date)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// ListForDates returns the reservations booked on any of the given dates.
func (s *ReservationService) ListForDates(ctx context.Context, dates []time.Time) ([]domain.Reservation, error) {
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		days = append(days, domain.Day(d))
	}
	return s.repo.ListReservationsForDates(ctx, days)
}

// ListForUser returns a user's reservations from today onward, or the full
// history when includeExpired is set.
func (s *ReservationService) ListForUser(ctx context.Context, userID string, includeExpired bool) ([]domain.Reservation, error) {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	var from *time.Time
	if !includeExpired {
		today := domain.Day(s.clock.Now())
		from = &today
	}
	return s.repo.ListReservationsForUser(ctx, userID, from)
}

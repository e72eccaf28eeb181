package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrManagerNotFound        = errors.New("manager not found")
	ErrManagerAlreadyAssigned = errors.New("manager is already assigned to a parking spot")
	ErrSpotNotFound           = errors.New("parking spot not found")
	ErrSpotNotDedicated       = errors.New("parking spot is not dedicated")
	ErrSpotAlreadyAssigned    = errors.New("parking spot is already assigned to a manager")
	ErrSpotAlreadyDeactivated = errors.New("parking spot is already deactivated")
	ErrReservationNotFound    = errors.New("reservation not found")
	ErrReservationConflict    = errors.New("reservation conflicts with an existing reservation")
	ErrNotReservationOwner    = errors.New("reservation does not belong to the user")
	ErrInvalidSpotName        = errors.New("parking spot name must be 2-20 characters")
	ErrInvalidSpotDescription = errors.New("parking spot description must be at most 150 characters")
	ErrInvalidSpotState       = errors.New("invalid parking spot state")
	ErrInvalidID              = errors.New("invalid id")
)

// AlreadyReservedError reports the requested dates on which the user
// already holds a reservation. The whole batch is rejected.
type AlreadyReservedError struct {
	Dates []time.Time
}

func (e *AlreadyReservedError) Error() string {
	return fmt.Sprintf("user already has a reservation for dates: %s", formatDates(e.Dates))
}

// NoFreeSpotError reports the requested dates for which no eligible spot
// was free. The whole batch is rejected.
type NoFreeSpotError struct {
	Dates []time.Time
}

func (e *NoFreeSpotError) Error() string {
	return fmt.Sprintf("no free parking spot found for dates: %s", formatDates(e.Dates))
}

func formatDates(dates []time.Time) string {
	parts := make([]string, 0, len(dates))
	for _, d := range dates {
		parts = append(parts, d.Format("2006-01-02"))
	}
	return strings.Join(parts, ", ")
}

package domain

import (
	"time"
	"unicode/utf8"
)

type SpotState string

const (
	SpotStateActive      SpotState = "active"
	SpotStateDedicated   SpotState = "dedicated"
	SpotStateDeactivated SpotState = "deactivated"
)

const (
	minSpotNameLen = 2
	maxSpotNameLen = 20
	maxSpotDescLen = 150
)

// ParkingSpot is a reservable spot. ManagerID is set only while the spot
// is dedicated and a manager has claimed it.
type ParkingSpot struct {
	ID          string
	Name        string
	Description string
	State       SpotState
	ManagerID   *string
	CreatedAt   time.Time

	events []Event
}

// NewParkingSpot validates the admin-supplied attributes and returns a new
// spot. A spot starts either Active or Dedicated; Deactivated is reachable
// only through Deactivate.
func NewParkingSpot(id, name, description string, state SpotState, createdAt time.Time) (ParkingSpot, error) {
	if n := utf8.RuneCountInString(name); n < minSpotNameLen || n > maxSpotNameLen {
		return ParkingSpot{}, ErrInvalidSpotName
	}
	if utf8.RuneCountInString(description) > maxSpotDescLen {
		return ParkingSpot{}, ErrInvalidSpotDescription
	}
	if state != SpotStateActive && state != SpotStateDedicated {
		return ParkingSpot{}, ErrInvalidSpotState
	}

	return ParkingSpot{
		ID:          id,
		Name:        name,
		Description: description,
		State:       state,
		CreatedAt:   createdAt,
	}, nil
}

// Deactivate transitions the spot to Deactivated. The transition is one-way.
func (s *ParkingSpot) Deactivate() error {
	if s.State == SpotStateDeactivated {
		return ErrSpotAlreadyDeactivated
	}
	s.State = SpotStateDeactivated
	return nil
}

// AssignManager sets the claiming manager. Called by the assignment cascade,
// never by a reservation command.
func (s *ParkingSpot) AssignManager(managerID string) {
	s.ManagerID = &managerID
}

// RemoveManagerAssignment clears the claiming manager and raises the
// assignment-removed event that drives the cleanup cascade.
func (s *ParkingSpot) RemoveManagerAssignment() {
	s.ManagerID = nil
	s.events = append(s.events, Event{
		Kind:   EventAssignmentRemoved,
		SpotID: s.ID,
	})
}

// PopEvents returns the events raised since the last call and clears them.
func (s *ParkingSpot) PopEvents() []Event {
	events := s.events
	s.events = nil
	return events
}

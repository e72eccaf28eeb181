package domain

import "time"

// Reservation books a spot for a user on a single calendar day. At most one
// reservation may exist per (spot, day) and per (user, day); the storage
// layer enforces both as unique constraints.
type Reservation struct {
	ID            string
	UserID        string
	ParkingSpotID string
	Date          time.Time
}

func NewReservation(id, userID, parkingSpotID string, date time.Time) Reservation {
	return Reservation{
		ID:            id,
		UserID:        userID,
		ParkingSpotID: parkingSpotID,
		Date:          Day(date),
	}
}

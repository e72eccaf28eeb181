package domain

type EventKind string

const (
	// EventSpotAssigned is raised when a manager claims a dedicated spot.
	EventSpotAssigned EventKind = "dedicated_spot_assigned"
	// EventAssignmentRemoved is raised when a dedicated-spot assignment
	// is removed from a spot.
	EventAssignmentRemoved EventKind = "dedicated_spot_assignment_removed"
)

// Event is a tagged variant carrying the minimal payload the cascade
// handlers need. ManagerID is set only for EventSpotAssigned.
type Event struct {
	Kind      EventKind
	ManagerID string
	SpotID    string
}

package domain

type UserRole string

const (
	RoleEmployee             UserRole = "employee"
	RoleBusinessManager      UserRole = "business_manager"
	RoleParkingAdministrator UserRole = "parking_administrator"
)

// User is an account in the system. AssignedParkingSpotID is set only for
// business managers holding a dedicated spot, at most one per manager.
type User struct {
	ID                    string
	FirstName             string
	LastName              string
	Email                 string
	Phone                 string
	PasswordHash          string
	Role                  UserRole
	AssignedParkingSpotID *string

	events []Event
}

// AssignParkingSpot links the manager to a dedicated spot and raises the
// assignment event that drives the provisioning cascade.
func (u *User) AssignParkingSpot(spotID string) {
	u.AssignedParkingSpotID = &spotID
	u.events = append(u.events, Event{
		Kind:      EventSpotAssigned,
		ManagerID: u.ID,
		SpotID:    spotID,
	})
}

// RemoveParkingSpotAssignment clears the dedicated-spot reference.
func (u *User) RemoveParkingSpotAssignment() {
	u.AssignedParkingSpotID = nil
}

// PopEvents returns the events raised since the last call and clears them.
func (u *User) PopEvents() []Event {
	events := u.events
	u.events = nil
	return events
}

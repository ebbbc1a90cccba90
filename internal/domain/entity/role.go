package entity

import "github.com/google/uuid"

// Role is the kind of party acting on an appointment.
type Role string

// Role names as carried in access tokens
const (
	RoleAdmin      Role = "admin"
	RoleContractor Role = "contractor"
	RoleUser       Role = "user"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleContractor, RoleUser:
		return true
	}
	return false
}

// Actor is a resolved caller identity.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

package entity

import "github.com/google/uuid"

// AppointmentFilter is a domain-level filter for listing appointments.
// Zero values mean "any".
type AppointmentFilter struct {
	UserID       uuid.UUID
	ContractorID uuid.UUID
	Status       AppointmentStatus
	// HasProof restricts the result to appointments with a completion proof.
	HasProof bool
	// NewestFirst orders by creation time descending.
	NewestFirst bool
	Limit       int
}

// Matches applies the filter to a single appointment. Stores that cannot push
// the filter down use it directly.
func (f *AppointmentFilter) Matches(a *Appointment) bool {
	if f == nil {
		return true
	}
	if f.UserID != uuid.Nil && a.UserID != f.UserID {
		return false
	}
	if f.ContractorID != uuid.Nil && a.ContractorID != f.ContractorID {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.HasProof && !a.HasProof() {
		return false
	}
	return true
}

// AuditLogFilter narrows audit log listings.
type AuditLogFilter struct {
	AppointmentID uuid.UUID
	Action        string
	Limit         int
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus is the single source of truth for where an appointment is
// in its lifecycle.
type AppointmentStatus string

const (
	AppointmentStatusBooked          AppointmentStatus = "booked"
	AppointmentStatusPendingApproval AppointmentStatus = "pendingApproval"
	AppointmentStatusCompleted       AppointmentStatus = "completed"
	AppointmentStatusRejected        AppointmentStatus = "rejected"
	AppointmentStatusCancelled       AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusBooked, AppointmentStatusPendingApproval, AppointmentStatusCompleted,
		AppointmentStatusRejected, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is a booking of one contractor slot by one user.
type Appointment struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	ContractorID uuid.UUID         `gorm:"type:uuid;not null;index" json:"contractor_id"`
	SlotDate     SlotDate          `gorm:"type:date;not null" json:"slot_date"`
	SlotTime     string            `gorm:"type:varchar(8);not null" json:"slot_time"`
	Amount       decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"amount"`
	Status       AppointmentStatus `gorm:"type:varchar(20);not null;default:'booked';index" json:"status"`
	ProofImage   string            `gorm:"type:text" json:"proof_image,omitempty"`
	HasBeenRated bool              `gorm:"not null;default:false" json:"has_been_rated"`
	CancelledBy  Role              `gorm:"type:varchar(20)" json:"cancelled_by,omitempty"`
	Version      int64             `gorm:"not null;default:1" json:"-"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCompleted is derived from status and never stored.
func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}

// HoldsSlot reports whether the appointment occupies its slot reservation.
func (a *Appointment) HoldsSlot() bool {
	return a.Status != AppointmentStatusCancelled
}

// HasProof checks if a completion proof has been attached
func (a *Appointment) HasProof() bool {
	return a.ProofImage != ""
}

// CanBeRated checks the rating gate without mutating anything.
func (a *Appointment) CanBeRated() error {
	if !a.IsCompleted() {
		return ErrNotEligible
	}
	if a.HasBeenRated {
		return ErrAlreadyRated
	}
	return nil
}

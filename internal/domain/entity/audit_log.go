package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditLog is one committed appointment event. It is written in the same
// transaction as the change it describes.
type AuditLog struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	AppointmentID *uuid.UUID `gorm:"type:uuid;index" json:"appointment_id,omitempty"`
	ActorID       *uuid.UUID `gorm:"type:uuid;index" json:"actor_id,omitempty"`
	ActorRole     Role       `gorm:"type:varchar(20)" json:"actor_role,omitempty"`
	Action        string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata      JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Appointment audit actions
const (
	AuditActionAppointmentBook        = "appointment.book"
	AuditActionAppointmentSubmitProof = "appointment.submit_proof"
	AuditActionAppointmentApprove     = "appointment.approve"
	AuditActionAppointmentReject      = "appointment.reject"
	AuditActionAppointmentCancel      = "appointment.cancel"
	AuditActionAppointmentRate        = "appointment.rate"
)

// Contractor audit actions
const (
	AuditActionContractorCreate       = "contractor.create"
	AuditActionContractorApprove      = "contractor.approve"
	AuditActionContractorRevoke       = "contractor.revoke"
	AuditActionContractorAvailability = "contractor.availability"
	AuditActionContractorUpdate       = "contractor.update"
)

// AuditActionFor maps a lifecycle event to its audit action.
func AuditActionFor(event AppointmentEvent) string {
	switch event {
	case EventSubmitProof:
		return AuditActionAppointmentSubmitProof
	case EventApprove:
		return AuditActionAppointmentApprove
	case EventReject:
		return AuditActionAppointmentReject
	default:
		return AuditActionAppointmentCancel
	}
}

// NewTransitionAudit builds the audit row of a committed transition.
func NewTransitionAudit(a *Appointment, t Transition) *AuditLog {
	appointmentID := a.ID
	actorID := t.Actor.ID
	return &AuditLog{
		AppointmentID: &appointmentID,
		ActorID:       &actorID,
		ActorRole:     t.Actor.Role,
		Action:        AuditActionFor(t.Event),
		Metadata: JSON{
			"from":          string(t.From),
			"to":            string(t.To),
			"released_slot": t.ReleasesSlot,
			"version":       a.Version,
		},
	}
}

// NewBookingAudit builds the audit row of a new booking.
func NewBookingAudit(a *Appointment) *AuditLog {
	appointmentID := a.ID
	userID := a.UserID
	return &AuditLog{
		AppointmentID: &appointmentID,
		ActorID:       &userID,
		ActorRole:     RoleUser,
		Action:        AuditActionAppointmentBook,
		Metadata: JSON{
			"contractor_id": a.ContractorID.String(),
			"slot_date":     a.SlotDate.String(),
			"slot_time":     a.SlotTime,
			"amount":        a.Amount.String(),
		},
	}
}

// NewRatingAudit builds the audit row of a rating.
func NewRatingAudit(a *Appointment, stars int) *AuditLog {
	appointmentID := a.ID
	userID := a.UserID
	return &AuditLog{
		AppointmentID: &appointmentID,
		ActorID:       &userID,
		ActorRole:     RoleUser,
		Action:        AuditActionAppointmentRate,
		Metadata: JSON{
			"contractor_id": a.ContractorID.String(),
			"stars":         stars,
		},
	}
}

// NewContractorAudit builds the audit row of a contractor change. Contractor
// rows carry no appointment; the contractor id goes into the metadata.
func NewContractorAudit(c *Contractor, actor Actor, action string, changes JSON) *AuditLog {
	actorID := actor.ID
	metadata := JSON{"contractor_id": c.ID.String()}
	for k, v := range changes {
		metadata[k] = v
	}
	return &AuditLog{
		ActorID:   &actorID,
		ActorRole: actor.Role,
		Action:    action,
		Metadata:  metadata,
	}
}

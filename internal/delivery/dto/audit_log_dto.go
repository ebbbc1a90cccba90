package dto

import (
	"time"

	"contractor-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// Response DTOs

type AuditLogResponse struct {
	ID            int64       `json:"id"`
	AppointmentID *uuid.UUID  `json:"appointment_id,omitempty"`
	ActorID       *uuid.UUID  `json:"actor_id,omitempty"`
	ActorRole     string      `json:"actor_role,omitempty"`
	Action        string      `json:"action"`
	Metadata      entity.JSON `json:"metadata"`
	CreatedAt     time.Time   `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	ContractorID string `json:"contractor_id" validate:"required,uuid"`
	SlotDate     string `json:"slot_date" validate:"required,datetime=2006-01-02"`
	SlotTime     string `json:"slot_time" validate:"required,slot_time"`
}

type SubmitProofRequest struct {
	ImageRef string `json:"image_ref" validate:"required,max=2048"`
}

type DecisionRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

type SubmitRatingRequest struct {
	Stars int `json:"stars" validate:"required,min=1,max=5"`
}

// Response DTOs

type AppointmentResponse struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	ContractorID uuid.UUID       `json:"contractor_id"`
	SlotDate     string          `json:"slot_date"`
	SlotTime     string          `json:"slot_time"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	IsCompleted  bool            `json:"is_completed"`
	ProofImage   string          `json:"proof_image,omitempty"`
	HasBeenRated bool            `json:"has_been_rated"`
	CancelledBy  string          `json:"cancelled_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// AppointmentStatusResponse feeds the rating widget.
type AppointmentStatusResponse struct {
	Status       string `json:"status"`
	IsCompleted  bool   `json:"is_completed"`
	HasBeenRated bool   `json:"has_been_rated"`
}

type DaySlotsResponse struct {
	Date    string   `json:"date"`
	DateKey string   `json:"date_key"`
	Times   []string `json:"times"`
}

type AvailableSlotsResponse struct {
	ContractorID uuid.UUID          `json:"contractor_id"`
	Days         []DaySlotsResponse `json:"days"`
}

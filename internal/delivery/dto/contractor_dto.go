package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateContractorRequest is used by admins. ID links the profile to an
// existing contractor identity and is generated when empty.
type CreateContractorRequest struct {
	ID         string          `json:"id" validate:"omitempty,uuid"`
	Name       string          `json:"name" validate:"required,min=2,max=255"`
	Speciality string          `json:"speciality" validate:"required,max=100"`
	Fees       decimal.Decimal `json:"fees"`
	Available  *bool           `json:"available"`
}

// RegisterContractorRequest is a contractor's own sign-up. The profile stays
// unapproved until an admin approves it.
type RegisterContractorRequest struct {
	Name       string          `json:"name" validate:"required,min=2,max=255"`
	Speciality string          `json:"speciality" validate:"required,max=100"`
	Fees       decimal.Decimal `json:"fees"`
}

type UpdateContractorProfileRequest struct {
	Name       string           `json:"name" validate:"omitempty,min=2,max=255"`
	Speciality string           `json:"speciality" validate:"omitempty,max=100"`
	Fees       *decimal.Decimal `json:"fees"`
	Available  *bool            `json:"available"`
}

type ContractorApprovalRequest struct {
	Approve *bool `json:"approve" validate:"required"`
}

// Response DTOs

type ContractorResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Speciality string          `json:"speciality"`
	Fees       decimal.Decimal `json:"fees"`
	Available  bool            `json:"available"`
	IsApproved bool            `json:"is_approved"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ContractorListResponse struct {
	Contractors []ContractorResponse `json:"contractors"`
	Total       int                  `json:"total"`
}

type ContractorRatingResponse struct {
	ContractorID uuid.UUID `json:"contractor_id"`
	RatingSum    int64     `json:"rating_sum"`
	RatingCount  int64     `json:"rating_count"`
	Average      float64   `json:"average"`
}

type ContractorDashboardResponse struct {
	Earnings           decimal.Decimal          `json:"earnings"`
	Appointments       int                      `json:"appointments"`
	Patients           int                      `json:"patients"`
	Rating             ContractorRatingResponse `json:"rating"`
	LatestAppointments []AppointmentResponse    `json:"latest_appointments"`
}

package converter

import (
	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/domain/entity"
)

func ContractorToResponse(contractor *entity.Contractor) *dto.ContractorResponse {
	return &dto.ContractorResponse{
		ID:         contractor.ID,
		Name:       contractor.Name,
		Speciality: contractor.Speciality,
		Fees:       contractor.Fees,
		Available:  contractor.Available,
		IsApproved: contractor.IsApproved,
		CreatedAt:  contractor.CreatedAt,
		UpdatedAt:  contractor.UpdatedAt,
	}
}

func ContractorsToResponses(contractors []entity.Contractor) []dto.ContractorResponse {
	responses := make([]dto.ContractorResponse, len(contractors))
	for i := range contractors {
		responses[i] = *ContractorToResponse(&contractors[i])
	}
	return responses
}

func RatingToResponse(rating *entity.ContractorRating) dto.ContractorRatingResponse {
	return dto.ContractorRatingResponse{
		ContractorID: rating.ContractorID,
		RatingSum:    rating.RatingSum,
		RatingCount:  rating.RatingCount,
		Average:      rating.Average(),
	}
}

func StatsToDashboardResponse(stats entity.ContractorStats, rating *entity.ContractorRating, latest []entity.Appointment) *dto.ContractorDashboardResponse {
	return &dto.ContractorDashboardResponse{
		Earnings:           stats.Earnings,
		Appointments:       stats.Appointments,
		Patients:           stats.Patients,
		Rating:             RatingToResponse(rating),
		LatestAppointments: AppointmentsToResponses(latest),
	}
}

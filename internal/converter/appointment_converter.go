package converter

import (
	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:           appointment.ID,
		UserID:       appointment.UserID,
		ContractorID: appointment.ContractorID,
		SlotDate:     appointment.SlotDate.String(),
		SlotTime:     appointment.SlotTime,
		Amount:       appointment.Amount,
		Status:       string(appointment.Status),
		IsCompleted:  appointment.IsCompleted(),
		ProofImage:   appointment.ProofImage,
		HasBeenRated: appointment.HasBeenRated,
		CancelledBy:  string(appointment.CancelledBy),
		CreatedAt:    appointment.CreatedAt,
		UpdatedAt:    appointment.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func AppointmentToStatusResponse(appointment *entity.Appointment) *dto.AppointmentStatusResponse {
	return &dto.AppointmentStatusResponse{
		Status:       string(appointment.Status),
		IsCompleted:  appointment.IsCompleted(),
		HasBeenRated: appointment.HasBeenRated,
	}
}

// DaySlotsToResponse converts one day of the slot grid
func DaySlotsToResponse(day entity.DaySlots) dto.DaySlotsResponse {
	return dto.DaySlotsResponse{
		Date:    day.Date.String(),
		DateKey: day.Date.Key(),
		Times:   day.Times,
	}
}

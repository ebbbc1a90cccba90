package handler

import (
	"encoding/json"
	"net/http"

	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/domain/entity"
	"contractor-booking/internal/usecase"
	"contractor-booking/pkg/response"
	"contractor-booking/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid contractor ID")
		return
	}

	slots, err := h.appointmentUsecase.GetAvailableSlots(r.Context(), contractorID)
	if err != nil {
		writeError(w, err, "Failed to get available slots")
		return
	}

	response.Success(w, http.StatusOK, "Available slots retrieved successfully", slots)
}

func (h *AppointmentHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateBooking(r.Context(), actor.ID, &req)
	if err != nil {
		writeError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.ListUserAppointments(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), actor, appointmentID)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

func (h *AppointmentHandler) GetAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	status, err := h.appointmentUsecase.GetAppointmentStatus(r.Context(), actor.ID, appointmentID)
	if err != nil {
		writeError(w, err, "Failed to get appointment status")
		return
	}

	response.Success(w, http.StatusOK, "Appointment status retrieved successfully", status)
}

// CancelAppointment serves the user, contractor and admin cancel routes. The
// actor's role decides which event is applied.
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.CancelAppointment(r.Context(), actor, appointmentID)
	if err != nil {
		writeError(w, err, "Failed to cancel appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", appointment)
}

func (h *AppointmentHandler) GetContractorAppointments(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.ListContractorAppointments(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetContractorDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	dashboard, err := h.appointmentUsecase.ContractorDashboard(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err, "Failed to get dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	status := entity.AppointmentStatus(r.URL.Query().Get("status"))

	appointments, err := h.appointmentUsecase.ListAllAppointments(r.Context(), status)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

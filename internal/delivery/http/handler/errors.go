package handler

import (
	"errors"
	"net/http"

	"contractor-booking/internal/delivery/http/middleware"
	"contractor-booking/internal/domain/entity"
	"contractor-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// writeError maps the lifecycle error taxonomy onto HTTP statuses. Anything
// unknown is reported as fallback with a 500.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *entity.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.ValidationError(w, map[string]string{validationErr.Field: validationErr.Message})
	case errors.Is(err, entity.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, entity.ErrAppointmentNotFound):
		response.NotFound(w, "Appointment not found")
	case errors.Is(err, entity.ErrContractorNotFound):
		response.NotFound(w, "Contractor not found")
	case errors.Is(err, entity.ErrContractorExists):
		response.Conflict(w, "Contractor profile already exists")
	case errors.Is(err, entity.ErrUnauthorized):
		response.Forbidden(w, err.Error())
	case errors.Is(err, entity.ErrSlotUnavailable):
		response.Conflict(w, "Slot is no longer available")
	case errors.Is(err, entity.ErrInvalidTransition):
		response.Conflict(w, err.Error())
	case errors.Is(err, entity.ErrAlreadyRated):
		response.Conflict(w, "Appointment has already been rated")
	case errors.Is(err, entity.ErrPreconditionFailed):
		response.PreconditionFailed(w, err.Error())
	case errors.Is(err, entity.ErrNotEligible):
		response.UnprocessableEntity(w, "Appointment is not eligible for rating")
	default:
		response.InternalServerError(w, fallback)
	}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	return id, err == nil
}

func muxVar(r *http.Request, name string) (string, bool) {
	v, ok := mux.Vars(r)[name]
	return v, ok
}

func requireActor(w http.ResponseWriter, r *http.Request) (entity.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
	}
	return actor, ok
}

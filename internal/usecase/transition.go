package usecase

import (
	"context"
	"errors"

	"contractor-booking/internal/domain/entity"
	"contractor-booking/internal/domain/repository"

	"github.com/google/uuid"
)

// applyEvent loads an appointment, runs event through the state machine and
// persists the result under the version it was loaded with. A concurrent
// writer makes the persist step fail with entity.ErrConcurrentUpdate.
func applyEvent(
	ctx context.Context,
	repo repository.AppointmentRepository,
	appointmentID uuid.UUID,
	event entity.AppointmentEvent,
	actor entity.Actor,
	proofImage string,
) (*entity.Appointment, entity.Transition, error) {
	appointment, err := repo.FindByID(ctx, appointmentID)
	if err != nil {
		return nil, entity.Transition{}, err
	}
	if appointment == nil {
		return nil, entity.Transition{}, entity.ErrAppointmentNotFound
	}

	expectedVersion := appointment.Version
	t, err := appointment.Apply(event, actor, proofImage)
	if err != nil {
		return nil, entity.Transition{}, err
	}

	if err := repo.ApplyTransition(ctx, appointment, t, expectedVersion); err != nil {
		return nil, entity.Transition{}, err
	}
	return appointment, t, nil
}

var domainErrors = []error{
	entity.ErrValidation,
	entity.ErrUnauthorized,
	entity.ErrSlotUnavailable,
	entity.ErrInvalidTransition,
	entity.ErrPreconditionFailed,
	entity.ErrAlreadyRated,
	entity.ErrNotEligible,
	entity.ErrAppointmentNotFound,
	entity.ErrContractorNotFound,
	entity.ErrContractorExists,
}

// isStorageFailure reports whether err is outside the domain taxonomy.
func isStorageFailure(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return false
		}
	}
	return true
}

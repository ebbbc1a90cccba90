package repository

import (
	"context"

	"contractor-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// SlotRepository is the read side of slot reservations. Reservations are only
// ever written through AppointmentRepository.
type SlotRepository interface {
	// FindByContractor returns reservations with from <= slot_date <= to.
	FindByContractor(ctx context.Context, contractorID uuid.UUID, from, to entity.SlotDate) ([]entity.SlotReservation, error)
	// FindSince pages through all reservations on or after since, ordered by id.
	FindSince(ctx context.Context, since entity.SlotDate, offset, limit int) ([]entity.SlotReservation, error)
}

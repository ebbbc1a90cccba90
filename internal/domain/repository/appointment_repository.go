package repository

import (
	"context"

	"contractor-booking/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentRepository is the transactional contract the lifecycle engine
// needs from persistence. Every write method is a single atomic unit: either
// the appointment row, its slot reservation, its audit row and any aggregate
// change all commit, or none of them do.
type AppointmentRepository interface {
	// CreateWithReservation inserts the appointment together with the
	// reservation of its (contractor, date, time) slot. It returns
	// entity.ErrSlotUnavailable when the slot is already reserved.
	CreateWithReservation(ctx context.Context, appointment *entity.Appointment) error

	// FindByID returns nil, nil when the appointment does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)

	List(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error)

	// ApplyTransition persists a transition already applied to appointment.
	// The write only succeeds if the stored version still equals
	// expectedVersion; otherwise entity.ErrConcurrentUpdate is returned and
	// nothing changes. On success appointment.Version is advanced.
	ApplyTransition(ctx context.Context, appointment *entity.Appointment, t entity.Transition, expectedVersion int64) error

	// MarkRated flips has_been_rated and adds stars to the contractor's
	// aggregate. It returns entity.ErrAlreadyRated when the flag was already
	// set and entity.ErrNotEligible when the appointment is not completed.
	MarkRated(ctx context.Context, appointment *entity.Appointment, stars int) error
}

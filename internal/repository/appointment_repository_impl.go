package repository

import (
	"context"
	"errors"
	"time"

	"contractor-booking/internal/domain/entity"
	domainRepo "contractor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// CreateWithReservation inserts the appointment first and then its slot
// reservation. The unique index on (contractor_id, slot_date, slot_time)
// rejects the second of two concurrent bookings for the same slot, which
// rolls back its appointment row as well.
func (r *appointmentRepository) CreateWithReservation(ctx context.Context, appointment *entity.Appointment) error {
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	if appointment.Version == 0 {
		appointment.Version = 1
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(appointment).Error; err != nil {
			return err
		}

		reservation := &entity.SlotReservation{
			ContractorID:  appointment.ContractorID,
			SlotDate:      appointment.SlotDate,
			SlotTime:      appointment.SlotTime,
			AppointmentID: appointment.ID,
		}
		if err := tx.Create(reservation).Error; err != nil {
			if isUniqueViolation(err, slotReservationConstraint) {
				return entity.ErrSlotUnavailable
			}
			return err
		}

		return tx.Create(entity.NewBookingAudit(appointment)).Error
	})
}

func (r *appointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	query := r.db.WithContext(ctx).Model(&entity.Appointment{})

	order := "created_at ASC"
	if filter != nil {
		if filter.UserID != uuid.Nil {
			query = query.Where("user_id = ?", filter.UserID)
		}
		if filter.ContractorID != uuid.Nil {
			query = query.Where("contractor_id = ?", filter.ContractorID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", string(filter.Status))
		}
		if filter.HasProof {
			query = query.Where("proof_image IS NOT NULL AND proof_image <> ''")
		}
		if filter.NewestFirst {
			order = "created_at DESC"
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
	}

	if err := query.Order(order).Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

// ApplyTransition writes the new state with an optimistic version check. A
// released slot is deleted in the same transaction so slot occupancy never
// drifts from appointment state.
func (r *appointmentRepository) ApplyTransition(ctx context.Context, appointment *entity.Appointment, t entity.Transition, expectedVersion int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Appointment{}).
			Where("id = ? AND version = ?", appointment.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":       string(appointment.Status),
				"proof_image":  appointment.ProofImage,
				"cancelled_by": string(appointment.CancelledBy),
				"version":      gorm.Expr("version + 1"),
				"updated_at":   time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.ErrConcurrentUpdate
		}

		if t.ReleasesSlot {
			if err := tx.Where("appointment_id = ?", appointment.ID).Delete(&entity.SlotReservation{}).Error; err != nil {
				return err
			}
		}

		appointment.Version = expectedVersion + 1
		return tx.Create(entity.NewTransitionAudit(appointment, t)).Error
	})
	if err != nil {
		appointment.Version = expectedVersion
		return err
	}
	return nil
}

// MarkRated guards the flag with a conditional update and bumps the
// aggregate with an upsert, both inside one transaction.
func (r *appointmentRepository) MarkRated(ctx context.Context, appointment *entity.Appointment, stars int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Appointment{}).
			Where("id = ? AND status = ? AND has_been_rated = ?", appointment.ID, string(entity.AppointmentStatusCompleted), false).
			Updates(map[string]interface{}{
				"has_been_rated": true,
				"version":        gorm.Expr("version + 1"),
				"updated_at":     time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var current entity.Appointment
			if err := tx.Select("status", "has_been_rated").Where("id = ?", appointment.ID).First(&current).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return entity.ErrAppointmentNotFound
				}
				return err
			}
			if err := current.CanBeRated(); err != nil {
				return err
			}
			return entity.ErrConcurrentUpdate
		}

		aggregate := &entity.ContractorRating{
			ContractorID: appointment.ContractorID,
			RatingSum:    int64(stars),
			RatingCount:  1,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "contractor_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"rating_sum":   gorm.Expr("contractor_ratings.rating_sum + ?", stars),
				"rating_count": gorm.Expr("contractor_ratings.rating_count + 1"),
				"updated_at":   time.Now(),
			}),
		}).Create(aggregate).Error
		if err != nil {
			return err
		}

		return tx.Create(entity.NewRatingAudit(appointment, stars)).Error
	})
	if err != nil {
		return err
	}

	appointment.HasBeenRated = true
	appointment.Version++
	return nil
}

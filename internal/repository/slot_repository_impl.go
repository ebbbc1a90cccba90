package repository

import (
	"context"

	"contractor-booking/internal/domain/entity"
	domainRepo "contractor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type slotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) domainRepo.SlotRepository {
	return &slotRepository{db: db}
}

func (r *slotRepository) FindByContractor(ctx context.Context, contractorID uuid.UUID, from, to entity.SlotDate) ([]entity.SlotReservation, error) {
	var reservations []entity.SlotReservation
	err := r.db.WithContext(ctx).
		Where("contractor_id = ? AND slot_date >= ? AND slot_date <= ?", contractorID, from, to).
		Order("slot_date ASC, slot_time ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *slotRepository) FindSince(ctx context.Context, since entity.SlotDate, offset, limit int) ([]entity.SlotReservation, error) {
	var reservations []entity.SlotReservation
	err := r.db.WithContext(ctx).
		Where("slot_date >= ?", since).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

package repository

import (
	"context"
	"errors"

	"contractor-booking/internal/domain/entity"
	domainRepo "contractor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type auditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) domainRepo.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) FindAll(ctx context.Context, filter *entity.AuditLogFilter) ([]entity.AuditLog, error) {
	var logs []entity.AuditLog
	query := r.db.WithContext(ctx)
	if filter != nil {
		if filter.AppointmentID != uuid.Nil {
			query = query.Where("appointment_id = ?", filter.AppointmentID)
		}
		if filter.Action != "" {
			query = query.Where("action = ?", filter.Action)
		}
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
	}
	err := query.Order("created_at DESC, id DESC").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditLogRepository) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	var log entity.AuditLog
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log, nil
}

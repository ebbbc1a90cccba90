package repository

import (
	"context"

	"contractor-booking/internal/domain/entity"
)

type AuditLogRepository interface {
	FindAll(ctx context.Context, filter *entity.AuditLogFilter) ([]entity.AuditLog, error)
	FindByID(ctx context.Context, id int64) (*entity.AuditLog, error)
}

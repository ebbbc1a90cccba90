package repository

import (
	"context"

	"contractor-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type ContractorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contractor, error)
	// List returns contractors ordered by name.
	List(ctx context.Context, filter *entity.ContractorFilter) ([]entity.Contractor, error)
	// Create inserts contractor and audit in one unit of work. A taken id
	// fails with entity.ErrContractorExists.
	Create(ctx context.Context, contractor *entity.Contractor, audit *entity.AuditLog) error
	// Update overwrites the mutable profile fields and records audit in the
	// same unit of work.
	Update(ctx context.Context, contractor *entity.Contractor, audit *entity.AuditLog) error
}

type RatingRepository interface {
	// FindByContractorID returns a zero aggregate when nothing was rated yet.
	FindByContractorID(ctx context.Context, contractorID uuid.UUID) (*entity.ContractorRating, error)
}

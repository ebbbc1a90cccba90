package repository

import (
	"context"
	"errors"
	"time"

	"contractor-booking/internal/domain/entity"
	domainRepo "contractor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type contractorRepository struct {
	db *gorm.DB
}

func NewContractorRepository(db *gorm.DB) domainRepo.ContractorRepository {
	return &contractorRepository{db: db}
}

func (r *contractorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contractor, error) {
	var contractor entity.Contractor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&contractor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contractor, nil
}

func (r *contractorRepository) List(ctx context.Context, filter *entity.ContractorFilter) ([]entity.Contractor, error) {
	var contractors []entity.Contractor
	query := r.db.WithContext(ctx).Model(&entity.Contractor{})

	if filter != nil {
		if filter.ApprovedOnly {
			query = query.Where("is_approved = ?", true)
		}
		if filter.Speciality != "" {
			query = query.Where("LOWER(speciality) = LOWER(?)", filter.Speciality)
		}
	}

	if err := query.Order("name ASC").Order("id ASC").Find(&contractors).Error; err != nil {
		return nil, err
	}
	return contractors, nil
}

func (r *contractorRepository) Create(ctx context.Context, contractor *entity.Contractor, audit *entity.AuditLog) error {
	if contractor.ID == uuid.Nil {
		contractor.ID = uuid.New()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Select("*") keeps false flags that the column defaults would overwrite.
		if err := tx.Select("*").Create(contractor).Error; err != nil {
			if isUniqueViolation(err, contractorPrimaryKey) {
				return entity.ErrContractorExists
			}
			return err
		}
		return tx.Create(audit).Error
	})
}

// Update writes the profile columns only; created_at is never touched.
func (r *contractorRepository) Update(ctx context.Context, contractor *entity.Contractor, audit *entity.AuditLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.Contractor{}).
			Where("id = ?", contractor.ID).
			Updates(map[string]interface{}{
				"name":        contractor.Name,
				"speciality":  contractor.Speciality,
				"fees":        contractor.Fees,
				"available":   contractor.Available,
				"is_approved": contractor.IsApproved,
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.ErrContractorNotFound
		}
		return tx.Create(audit).Error
	})
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) domainRepo.RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) FindByContractorID(ctx context.Context, contractorID uuid.UUID) (*entity.ContractorRating, error) {
	var rating entity.ContractorRating
	err := r.db.WithContext(ctx).Where("contractor_id = ?", contractorID).First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &entity.ContractorRating{ContractorID: contractorID}, nil
		}
		return nil, err
	}
	return &rating, nil
}

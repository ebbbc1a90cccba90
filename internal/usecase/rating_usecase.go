package usecase

import (
	"context"
	"fmt"

	"contractor-booking/internal/converter"
	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/domain/entity"
	"contractor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	MinStars = 1
	MaxStars = 5
)

type RatingUsecase interface {
	SubmitRating(ctx context.Context, userID, appointmentID uuid.UUID, stars int) (*dto.ContractorRatingResponse, error)
	GetContractorRating(ctx context.Context, contractorID uuid.UUID) (*dto.ContractorRatingResponse, error)
}

type ratingUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	contractorRepo  repository.ContractorRepository
	ratingRepo      repository.RatingRepository
}

func NewRatingUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	contractorRepo repository.ContractorRepository,
	ratingRepo repository.RatingRepository,
) RatingUsecase {
	return &ratingUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		contractorRepo:  contractorRepo,
		ratingRepo:      ratingRepo,
	}
}

// SubmitRating records the single rating a user may leave on a completed
// appointment and returns the contractor's updated aggregate.
func (u *ratingUsecase) SubmitRating(ctx context.Context, userID, appointmentID uuid.UUID, stars int) (*dto.ContractorRatingResponse, error) {
	if stars < MinStars || stars > MaxStars {
		return nil, entity.NewValidationError("stars", fmt.Sprintf("must be between %d and %d", MinStars, MaxStars))
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, entity.ErrAppointmentNotFound
	}
	if appointment.UserID != userID {
		return nil, fmt.Errorf("%w: appointment belongs to another user", entity.ErrUnauthorized)
	}
	if err := appointment.CanBeRated(); err != nil {
		return nil, err
	}

	// The store re-checks the gate atomically; a concurrent rating loses here.
	if err := u.appointmentRepo.MarkRated(ctx, appointment, stars); err != nil {
		if isStorageFailure(err) {
			u.log.Warnf("Failed to rate appointment %s: %+v", appointmentID, err)
		}
		return nil, err
	}

	u.log.Infof("Appointment rated: id=%s, contractor=%s, stars=%d", appointmentID, appointment.ContractorID, stars)
	return u.GetContractorRating(ctx, appointment.ContractorID)
}

func (u *ratingUsecase) GetContractorRating(ctx context.Context, contractorID uuid.UUID) (*dto.ContractorRatingResponse, error) {
	contractor, err := u.contractorRepo.FindByID(ctx, contractorID)
	if err != nil {
		u.log.Warnf("Failed to find contractor %s: %+v", contractorID, err)
		return nil, err
	}
	if contractor == nil {
		return nil, entity.ErrContractorNotFound
	}

	rating, err := u.ratingRepo.FindByContractorID(ctx, contractorID)
	if err != nil {
		u.log.Warnf("Failed to find rating of contractor %s: %+v", contractorID, err)
		return nil, err
	}

	response := converter.RatingToResponse(rating)
	return &response, nil
}

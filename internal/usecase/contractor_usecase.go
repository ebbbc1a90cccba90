package usecase

import (
	"context"
	"fmt"
	"strings"

	"contractor-booking/internal/converter"
	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/domain/entity"
	"contractor-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// fees are stored as numeric(12,2)
var maxFees = decimal.New(1, 10)

// ContractorUsecase onboards contractors and maintains the profile fields
// that decide whether they can be booked.
type ContractorUsecase interface {
	ListApprovedContractors(ctx context.Context, speciality string) (*dto.ContractorListResponse, error)
	ListAllContractors(ctx context.Context) (*dto.ContractorListResponse, error)
	GetContractor(ctx context.Context, contractorID uuid.UUID) (*dto.ContractorResponse, error)
	GetOwnProfile(ctx context.Context, contractorID uuid.UUID) (*dto.ContractorResponse, error)
	AddContractor(ctx context.Context, adminID uuid.UUID, req *dto.CreateContractorRequest) (*dto.ContractorResponse, error)
	RegisterContractor(ctx context.Context, contractorID uuid.UUID, req *dto.RegisterContractorRequest) (*dto.ContractorResponse, error)
	DecideContractorApproval(ctx context.Context, adminID, contractorID uuid.UUID, approve bool) (*dto.ContractorResponse, error)
	ChangeAvailability(ctx context.Context, actor entity.Actor, contractorID uuid.UUID) (*dto.ContractorResponse, error)
	UpdateProfile(ctx context.Context, contractorID uuid.UUID, req *dto.UpdateContractorProfileRequest) (*dto.ContractorResponse, error)
}

type contractorUsecase struct {
	log            *logrus.Logger
	contractorRepo repository.ContractorRepository
}

func NewContractorUsecase(log *logrus.Logger, contractorRepo repository.ContractorRepository) ContractorUsecase {
	return &contractorUsecase{
		log:            log,
		contractorRepo: contractorRepo,
	}
}

func (u *contractorUsecase) ListApprovedContractors(ctx context.Context, speciality string) (*dto.ContractorListResponse, error) {
	return u.list(ctx, &entity.ContractorFilter{ApprovedOnly: true, Speciality: strings.TrimSpace(speciality)})
}

func (u *contractorUsecase) ListAllContractors(ctx context.Context) (*dto.ContractorListResponse, error) {
	return u.list(ctx, nil)
}

func (u *contractorUsecase) list(ctx context.Context, filter *entity.ContractorFilter) (*dto.ContractorListResponse, error) {
	contractors, err := u.contractorRepo.List(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to list contractors: %+v", err)
		return nil, err
	}

	responses := converter.ContractorsToResponses(contractors)
	return &dto.ContractorListResponse{
		Contractors: responses,
		Total:       len(responses),
	}, nil
}

// GetContractor is the public profile. Unapproved contractors are reported
// as not found.
func (u *contractorUsecase) GetContractor(ctx context.Context, contractorID uuid.UUID) (*dto.ContractorResponse, error) {
	contractor, err := u.find(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	if !contractor.IsApproved {
		return nil, entity.ErrContractorNotFound
	}
	return converter.ContractorToResponse(contractor), nil
}

func (u *contractorUsecase) GetOwnProfile(ctx context.Context, contractorID uuid.UUID) (*dto.ContractorResponse, error) {
	contractor, err := u.find(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	return converter.ContractorToResponse(contractor), nil
}

// AddContractor creates an approved profile on behalf of an admin.
func (u *contractorUsecase) AddContractor(ctx context.Context, adminID uuid.UUID, req *dto.CreateContractorRequest) (*dto.ContractorResponse, error) {
	fees, err := validateFees(req.Fees)
	if err != nil {
		return nil, err
	}

	contractor := &entity.Contractor{
		Name:       strings.TrimSpace(req.Name),
		Speciality: strings.TrimSpace(req.Speciality),
		Fees:       fees,
		Available:  true,
		IsApproved: true,
	}
	if req.ID != "" {
		id, err := uuid.Parse(req.ID)
		if err != nil {
			return nil, entity.NewValidationError("id", "must be a valid UUID")
		}
		contractor.ID = id
	}
	if req.Available != nil {
		contractor.Available = *req.Available
	}

	admin := entity.Actor{ID: adminID, Role: entity.RoleAdmin}
	return u.create(ctx, contractor, admin)
}

// RegisterContractor creates the caller's own profile, pending admin
// approval.
func (u *contractorUsecase) RegisterContractor(ctx context.Context, contractorID uuid.UUID, req *dto.RegisterContractorRequest) (*dto.ContractorResponse, error) {
	fees, err := validateFees(req.Fees)
	if err != nil {
		return nil, err
	}

	contractor := &entity.Contractor{
		ID:         contractorID,
		Name:       strings.TrimSpace(req.Name),
		Speciality: strings.TrimSpace(req.Speciality),
		Fees:       fees,
		Available:  true,
		IsApproved: false,
	}

	self := entity.Actor{ID: contractorID, Role: entity.RoleContractor}
	return u.create(ctx, contractor, self)
}

func (u *contractorUsecase) create(ctx context.Context, contractor *entity.Contractor, actor entity.Actor) (*dto.ContractorResponse, error) {
	if contractor.ID == uuid.Nil {
		contractor.ID = uuid.New()
	}
	audit := entity.NewContractorAudit(contractor, actor, entity.AuditActionContractorCreate, entity.JSON{
		"name":        contractor.Name,
		"speciality":  contractor.Speciality,
		"fees":        contractor.Fees.String(),
		"is_approved": contractor.IsApproved,
	})

	if err := u.contractorRepo.Create(ctx, contractor, audit); err != nil {
		if isStorageFailure(err) {
			u.log.Warnf("Failed to create contractor %s: %+v", contractor.ID, err)
		}
		return nil, err
	}

	u.log.Infof("Contractor created: id=%s, by=%s, approved=%t", contractor.ID, actor.Role, contractor.IsApproved)
	return converter.ContractorToResponse(contractor), nil
}

// DecideContractorApproval approves a contractor or revokes an approval.
// Revoking stops new bookings; existing appointments are untouched.
func (u *contractorUsecase) DecideContractorApproval(ctx context.Context, adminID, contractorID uuid.UUID, approve bool) (*dto.ContractorResponse, error) {
	contractor, err := u.find(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	action := entity.AuditActionContractorApprove
	if !approve {
		action = entity.AuditActionContractorRevoke
	}
	previous := contractor.IsApproved
	contractor.IsApproved = approve

	admin := entity.Actor{ID: adminID, Role: entity.RoleAdmin}
	audit := entity.NewContractorAudit(contractor, admin, action, entity.JSON{
		"from": previous,
		"to":   approve,
	})
	return u.update(ctx, contractor, audit)
}

// ChangeAvailability flips the available flag. Contractors may only flip
// their own; admins may flip any.
func (u *contractorUsecase) ChangeAvailability(ctx context.Context, actor entity.Actor, contractorID uuid.UUID) (*dto.ContractorResponse, error) {
	switch actor.Role {
	case entity.RoleAdmin:
	case entity.RoleContractor:
		if actor.ID != contractorID {
			return nil, fmt.Errorf("%w: contractors can only change their own availability", entity.ErrUnauthorized)
		}
	default:
		return nil, fmt.Errorf("%w: role %q cannot change availability", entity.ErrUnauthorized, actor.Role)
	}

	contractor, err := u.find(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	previous := contractor.Available
	contractor.Available = !previous

	audit := entity.NewContractorAudit(contractor, actor, entity.AuditActionContractorAvailability, entity.JSON{
		"from": previous,
		"to":   contractor.Available,
	})
	return u.update(ctx, contractor, audit)
}

// UpdateProfile applies the fields present in req to the caller's own
// profile. New fees only apply to later bookings.
func (u *contractorUsecase) UpdateProfile(ctx context.Context, contractorID uuid.UUID, req *dto.UpdateContractorProfileRequest) (*dto.ContractorResponse, error) {
	contractor, err := u.find(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	changes := entity.JSON{}
	if name := strings.TrimSpace(req.Name); name != "" && name != contractor.Name {
		contractor.Name = name
		changes["name"] = name
	}
	if speciality := strings.TrimSpace(req.Speciality); speciality != "" && speciality != contractor.Speciality {
		contractor.Speciality = speciality
		changes["speciality"] = speciality
	}
	if req.Fees != nil {
		fees, err := validateFees(*req.Fees)
		if err != nil {
			return nil, err
		}
		if !fees.Equal(contractor.Fees) {
			changes["fees"] = map[string]interface{}{"from": contractor.Fees.String(), "to": fees.String()}
			contractor.Fees = fees
		}
	}
	if req.Available != nil && *req.Available != contractor.Available {
		contractor.Available = *req.Available
		changes["available"] = contractor.Available
	}

	if len(changes) == 0 {
		return converter.ContractorToResponse(contractor), nil
	}

	self := entity.Actor{ID: contractorID, Role: entity.RoleContractor}
	audit := entity.NewContractorAudit(contractor, self, entity.AuditActionContractorUpdate, changes)
	return u.update(ctx, contractor, audit)
}

func (u *contractorUsecase) update(ctx context.Context, contractor *entity.Contractor, audit *entity.AuditLog) (*dto.ContractorResponse, error) {
	if err := u.contractorRepo.Update(ctx, contractor, audit); err != nil {
		if isStorageFailure(err) {
			u.log.Warnf("Failed to update contractor %s: %+v", contractor.ID, err)
		}
		return nil, err
	}

	u.log.Infof("Contractor updated: id=%s, action=%s", contractor.ID, audit.Action)
	return converter.ContractorToResponse(contractor), nil
}

func (u *contractorUsecase) find(ctx context.Context, contractorID uuid.UUID) (*entity.Contractor, error) {
	contractor, err := u.contractorRepo.FindByID(ctx, contractorID)
	if err != nil {
		u.log.Warnf("Failed to find contractor %s: %+v", contractorID, err)
		return nil, err
	}
	if contractor == nil {
		return nil, entity.ErrContractorNotFound
	}
	return contractor, nil
}

// validateFees requires a positive amount that fits the stored precision.
func validateFees(fees decimal.Decimal) (decimal.Decimal, error) {
	rounded := fees.Round(2)
	if !rounded.IsPositive() {
		return decimal.Decimal{}, entity.NewValidationError("fees", "must be greater than zero")
	}
	if !rounded.LessThan(maxFees) {
		return decimal.Decimal{}, entity.NewValidationError("fees", "is too large")
	}
	return rounded, nil
}

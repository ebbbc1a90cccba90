package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"contractor-booking/internal/converter"
	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/domain/entity"
	"contractor-booking/internal/domain/repository"
	"contractor-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrProofStorageDisabled = errors.New("proof uploads are not configured")

var allowedProofExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
}

// ApprovalUsecase drives completion proofs from the contractor to an admin
// decision.
type ApprovalUsecase interface {
	SubmitProof(ctx context.Context, contractorID, appointmentID uuid.UUID, imageRef string) (*dto.AppointmentResponse, error)
	UploadProof(ctx context.Context, contractorID, appointmentID uuid.UUID, filename, contentType string, body io.Reader) (*dto.AppointmentResponse, error)
	DecideApproval(ctx context.Context, adminID, appointmentID uuid.UUID, approve bool) (*dto.AppointmentResponse, error)
	ListPendingApprovals(ctx context.Context) (*dto.AppointmentListResponse, error)
}

type approvalUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	proofStorage    service.ProofStorage
}

func NewApprovalUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	proofStorage service.ProofStorage,
) ApprovalUsecase {
	return &approvalUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		proofStorage:    proofStorage,
	}
}

// SubmitProof attaches an already stored proof reference and moves the
// appointment to pendingApproval. Resubmitting while pending replaces the
// previous proof.
func (u *approvalUsecase) SubmitProof(ctx context.Context, contractorID, appointmentID uuid.UUID, imageRef string) (*dto.AppointmentResponse, error) {
	imageRef = strings.TrimSpace(imageRef)
	actor := entity.Actor{ID: contractorID, Role: entity.RoleContractor}

	appointment, _, err := applyEvent(ctx, u.appointmentRepo, appointmentID, entity.EventSubmitProof, actor, imageRef)
	if err != nil {
		if isStorageFailure(err) {
			u.log.Warnf("Failed to submit proof for appointment %s: %+v", appointmentID, err)
		}
		return nil, err
	}

	u.log.Infof("Proof submitted: appointment=%s, contractor=%s", appointmentID, contractorID)
	return converter.AppointmentToResponse(appointment), nil
}

// UploadProof stores the image first and then submits its reference. The
// appointment is checked before the upload so that a doomed submission never
// reaches the object store.
func (u *approvalUsecase) UploadProof(ctx context.Context, contractorID, appointmentID uuid.UUID, filename, contentType string, body io.Reader) (*dto.AppointmentResponse, error) {
	if u.proofStorage == nil {
		return nil, ErrProofStorageDisabled
	}
	if !allowedProofExtensions[strings.ToLower(path.Ext(filename))] {
		return nil, entity.NewValidationError("proof_image", "must be a jpg, png, webp or heic image")
	}

	appointment, err := u.appointmentRepo.FindByID(ctx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, entity.ErrAppointmentNotFound
	}
	if appointment.ContractorID != contractorID {
		return nil, fmt.Errorf("%w: appointment belongs to another contractor", entity.ErrUnauthorized)
	}
	if !entity.CanTransition(appointment.Status, entity.EventSubmitProof) {
		return nil, fmt.Errorf("%w: cannot %s a %s appointment", entity.ErrInvalidTransition, entity.EventSubmitProof, appointment.Status)
	}

	ref, err := u.proofStorage.Store(ctx, appointmentID, filename, contentType, body)
	if err != nil {
		u.log.Errorf("Failed to store proof for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	return u.SubmitProof(ctx, contractorID, appointmentID, ref)
}

// DecideApproval approves or rejects a pending proof. Decisions are final.
func (u *approvalUsecase) DecideApproval(ctx context.Context, adminID, appointmentID uuid.UUID, approve bool) (*dto.AppointmentResponse, error) {
	event := entity.EventReject
	if approve {
		event = entity.EventApprove
	}
	actor := entity.Actor{ID: adminID, Role: entity.RoleAdmin}

	appointment, _, err := applyEvent(ctx, u.appointmentRepo, appointmentID, event, actor, "")
	if err != nil {
		if isStorageFailure(err) {
			u.log.Warnf("Failed to decide appointment %s: %+v", appointmentID, err)
		}
		return nil, err
	}

	u.log.Infof("Approval decided: appointment=%s, status=%s, admin=%s", appointmentID, appointment.Status, adminID)
	return converter.AppointmentToResponse(appointment), nil
}

// ListPendingApprovals returns appointments awaiting a decision, oldest first.
func (u *approvalUsecase) ListPendingApprovals(ctx context.Context) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.List(ctx, &entity.AppointmentFilter{
		Status:   entity.AppointmentStatusPendingApproval,
		HasProof: true,
	})
	if err != nil {
		u.log.Warnf("Failed to list pending approvals: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

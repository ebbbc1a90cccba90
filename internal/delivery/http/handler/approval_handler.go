package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/usecase"
	"contractor-booking/pkg/response"
	"contractor-booking/pkg/validator"
)

const maxProofUploadBytes = 10 << 20

type ApprovalHandler struct {
	approvalUsecase usecase.ApprovalUsecase
	validator       *validator.CustomValidator
}

func NewApprovalHandler(approvalUsecase usecase.ApprovalUsecase, validator *validator.CustomValidator) *ApprovalHandler {
	return &ApprovalHandler{
		approvalUsecase: approvalUsecase,
		validator:       validator,
	}
}

// SubmitProof accepts either a multipart upload in field "image" or a JSON
// body carrying an already stored image_ref.
func (h *ApprovalHandler) SubmitProof(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxProofUploadBytes)
		file, header, err := r.FormFile("image")
		if err != nil {
			response.BadRequest(w, "Proof image is required")
			return
		}
		defer file.Close()

		appointment, err := h.approvalUsecase.UploadProof(r.Context(), actor.ID, appointmentID, header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			if errors.Is(err, usecase.ErrProofStorageDisabled) {
				response.Error(w, http.StatusServiceUnavailable, "Proof uploads are not available", nil)
				return
			}
			writeError(w, err, "Failed to submit proof")
			return
		}
		response.Success(w, http.StatusOK, "Proof submitted successfully", appointment)
		return
	}

	var req dto.SubmitProofRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.approvalUsecase.SubmitProof(r.Context(), actor.ID, appointmentID, req.ImageRef)
	if err != nil {
		writeError(w, err, "Failed to submit proof")
		return
	}

	response.Success(w, http.StatusOK, "Proof submitted successfully", appointment)
}

func (h *ApprovalHandler) DecideApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.approvalUsecase.DecideApproval(r.Context(), actor.ID, appointmentID, *req.Approve)
	if err != nil {
		writeError(w, err, "Failed to record decision")
		return
	}

	response.Success(w, http.StatusOK, "Decision recorded successfully", appointment)
}

func (h *ApprovalHandler) GetPendingApprovals(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.approvalUsecase.ListPendingApprovals(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get pending approvals")
		return
	}

	response.Success(w, http.StatusOK, "Pending approvals retrieved successfully", appointments)
}

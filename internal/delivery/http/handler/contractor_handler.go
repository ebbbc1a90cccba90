package handler

import (
	"encoding/json"
	"net/http"

	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/usecase"
	"contractor-booking/pkg/response"
	"contractor-booking/pkg/validator"
)

type ContractorHandler struct {
	contractorUsecase usecase.ContractorUsecase
	validator         *validator.CustomValidator
}

func NewContractorHandler(contractorUsecase usecase.ContractorUsecase, validator *validator.CustomValidator) *ContractorHandler {
	return &ContractorHandler{
		contractorUsecase: contractorUsecase,
		validator:         validator,
	}
}

func (h *ContractorHandler) GetApprovedContractors(w http.ResponseWriter, r *http.Request) {
	contractors, err := h.contractorUsecase.ListApprovedContractors(r.Context(), r.URL.Query().Get("speciality"))
	if err != nil {
		writeError(w, err, "Failed to get contractors")
		return
	}

	response.Success(w, http.StatusOK, "Contractors retrieved successfully", contractors)
}

func (h *ContractorHandler) GetContractor(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid contractor ID")
		return
	}

	contractor, err := h.contractorUsecase.GetContractor(r.Context(), contractorID)
	if err != nil {
		writeError(w, err, "Failed to get contractor")
		return
	}

	response.Success(w, http.StatusOK, "Contractor retrieved successfully", contractor)
}

func (h *ContractorHandler) GetAllContractors(w http.ResponseWriter, r *http.Request) {
	contractors, err := h.contractorUsecase.ListAllContractors(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get contractors")
		return
	}

	response.Success(w, http.StatusOK, "Contractors retrieved successfully", contractors)
}

func (h *ContractorHandler) AddContractor(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.CreateContractorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	contractor, err := h.contractorUsecase.AddContractor(r.Context(), actor.ID, &req)
	if err != nil {
		writeError(w, err, "Failed to create contractor")
		return
	}

	response.Success(w, http.StatusCreated, "Contractor created successfully", contractor)
}

func (h *ContractorHandler) DecideApproval(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	contractorID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid contractor ID")
		return
	}

	var req dto.ContractorApprovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	contractor, err := h.contractorUsecase.DecideContractorApproval(r.Context(), actor.ID, contractorID, *req.Approve)
	if err != nil {
		writeError(w, err, "Failed to record approval")
		return
	}

	response.Success(w, http.StatusOK, "Contractor approval recorded", contractor)
}

// ChangeAvailability serves both the admin route, which names the
// contractor in the path, and the contractor's own route.
func (h *ContractorHandler) ChangeAvailability(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	contractorID := actor.ID
	if _, named := muxVar(r, "id"); named {
		id, ok := pathUUID(r, "id")
		if !ok {
			response.BadRequest(w, "Invalid contractor ID")
			return
		}
		contractorID = id
	}

	contractor, err := h.contractorUsecase.ChangeAvailability(r.Context(), actor, contractorID)
	if err != nil {
		writeError(w, err, "Failed to change availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability changed", contractor)
}

func (h *ContractorHandler) RegisterProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.RegisterContractorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	contractor, err := h.contractorUsecase.RegisterContractor(r.Context(), actor.ID, &req)
	if err != nil {
		writeError(w, err, "Failed to register contractor")
		return
	}

	response.Success(w, http.StatusCreated, "Registration submitted for approval", contractor)
}

func (h *ContractorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	contractor, err := h.contractorUsecase.GetOwnProfile(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", contractor)
}

func (h *ContractorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req dto.UpdateContractorProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	contractor, err := h.contractorUsecase.UpdateProfile(r.Context(), actor.ID, &req)
	if err != nil {
		writeError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", contractor)
}

package handler

import (
	"encoding/json"
	"net/http"

	"contractor-booking/internal/delivery/dto"
	"contractor-booking/internal/usecase"
	"contractor-booking/pkg/response"
	"contractor-booking/pkg/validator"
)

type RatingHandler struct {
	ratingUsecase usecase.RatingUsecase
	validator     *validator.CustomValidator
}

func NewRatingHandler(ratingUsecase usecase.RatingUsecase, validator *validator.CustomValidator) *RatingHandler {
	return &RatingHandler{
		ratingUsecase: ratingUsecase,
		validator:     validator,
	}
}

func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	appointmentID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	rating, err := h.ratingUsecase.SubmitRating(r.Context(), actor.ID, appointmentID, req.Stars)
	if err != nil {
		writeError(w, err, "Failed to submit rating")
		return
	}

	response.Success(w, http.StatusOK, "Rating submitted successfully", rating)
}

func (h *RatingHandler) GetContractorRating(w http.ResponseWriter, r *http.Request) {
	contractorID, ok := pathUUID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid contractor ID")
		return
	}

	rating, err := h.ratingUsecase.GetContractorRating(r.Context(), contractorID)
	if err != nil {
		writeError(w, err, "Failed to get rating")
		return
	}

	response.Success(w, http.StatusOK, "Rating retrieved successfully", rating)
}

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"contractor-booking/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation error", entity.NewValidationError("slot_time", "bad"), http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("%w: x", entity.ErrValidation), http.StatusBadRequest},
		{"appointment missing", entity.ErrAppointmentNotFound, http.StatusNotFound},
		{"contractor missing", entity.ErrContractorNotFound, http.StatusNotFound},
		{"not allowed", fmt.Errorf("%w: other user", entity.ErrUnauthorized), http.StatusForbidden},
		{"slot taken", entity.ErrSlotUnavailable, http.StatusConflict},
		{"illegal transition", entity.ErrInvalidTransition, http.StatusConflict},
		{"lost race", entity.ErrConcurrentUpdate, http.StatusConflict},
		{"rated twice", entity.ErrAlreadyRated, http.StatusConflict},
		{"profile exists", entity.ErrContractorExists, http.StatusConflict},
		{"no proof", entity.ErrPreconditionFailed, http.StatusPreconditionFailed},
		{"not completed", entity.ErrNotEligible, http.StatusUnprocessableEntity},
		{"storage", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err, "fallback")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

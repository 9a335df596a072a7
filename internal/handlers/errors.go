package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"tailor-backend/internal/billing"
	"tailor-backend/internal/store"
	"tailor-backend/pkg/utils"
)

// writeError maps a service error to its HTTP status. Validation errors carry
// their violations so the form can mark every field at once.
func writeError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var verr *billing.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSON(w, http.StatusUnprocessableEntity, utils.ErrorBody{
			Error:      billing.ErrValidation.Error(),
			Violations: verr.Violations,
		})
	case errors.Is(err, billing.ErrInsufficientStock), errors.Is(err, billing.ErrOverpayment):
		utils.Error(w, http.StatusConflict, err.Error())
	case store.IsNotFound(err), errors.Is(err, billing.ErrLineNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrStorage):
		log.Error().Err(err).Msg("storage failure")
		utils.Error(w, http.StatusServiceUnavailable, "storage unavailable, try again")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		utils.Error(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		log.Error().Err(err).Msg("unhandled error")
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads the request body into v, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"equiprent-backend/internal/domain"
	"equiprent-backend/internal/logger"
)

type errorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string, details map[string]any) {
	respondJSON(w, status, errorResponse{Error: message, Details: details})
}

// respondDomainError maps domain errors onto HTTP statuses. Conflict
// responses carry enough detail for the caller to act without a
// follow-up read.
func respondDomainError(w http.ResponseWriter, err error) {
	var capacityErr *domain.CapacityError
	var transitionErr *domain.InvalidTransitionError

	switch {
	case errors.Is(err, domain.ErrInvalidRange),
		errors.Is(err, domain.ErrUnknownStatus):
		respondError(w, http.StatusBadRequest, err.Error(), nil)

	case errors.Is(err, domain.ErrEquipmentNotFound),
		errors.Is(err, domain.ErrRentalNotFound),
		errors.Is(err, domain.ErrSaleNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		respondError(w, http.StatusNotFound, err.Error(), nil)

	case errors.As(err, &capacityErr):
		respondError(w, http.StatusConflict, capacityErr.Error(), map[string]any{
			"equipment_id":    capacityErr.EquipmentID,
			"requested":       capacityErr.Requested,
			"available_units": capacityErr.Available,
			"total_units":     capacityErr.TotalUnits,
		})

	case errors.As(err, &transitionErr):
		allowed := make([]string, 0, len(transitionErr.Allowed))
		for _, s := range transitionErr.Allowed {
			allowed = append(allowed, string(s))
		}
		respondError(w, http.StatusConflict, transitionErr.Error(), map[string]any{
			"current_status":   string(transitionErr.From),
			"requested_status": string(transitionErr.To),
			"allowed_statuses": allowed,
		})

	case errors.Is(err, domain.ErrEquipmentUnavailable):
		respondError(w, http.StatusConflict, err.Error(), nil)

	default:
		logger.Error("Unhandled request error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}

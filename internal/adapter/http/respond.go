package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"billboard-escrow/internal/core/domain"
	"billboard-escrow/internal/core/port"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error body with a machine-readable code.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: code})
}

// writeJSON writes a JSON response with the given status.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// writeUseCaseError maps usecase failures to distinguishable HTTP error
// codes. Unknown errors are logged and returned as a generic 500 to avoid
// leaking internals.
func (h *Handler) writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "unauthorized")
	case errors.Is(err, domain.ErrInvalidRecipient):
		writeError(w, http.StatusForbidden, "invalid_recipient")
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, "invalid_state")
	case errors.Is(err, domain.ErrNotYetExpired):
		writeError(w, http.StatusConflict, "not_yet_expired")
	case errors.Is(err, domain.ErrInvalidTimestamps):
		writeError(w, http.StatusUnprocessableEntity, "invalid_timestamps")
	case errors.Is(err, port.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_funds")
	case errors.Is(err, port.ErrCampaignExists):
		writeError(w, http.StatusConflict, "campaign_exists")
	case errors.Is(err, port.ErrCampaignNotFound):
		writeError(w, http.StatusNotFound, "campaign_not_found")
	case errors.Is(err, port.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "account_not_found")
	case errors.Is(err, port.ErrMissingCreator):
		writeError(w, http.StatusBadRequest, "missing_creator")
	default:
		h.logger.Error("usecase error",
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

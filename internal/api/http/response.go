package http

import (
	"encoding/json"
	"net/http"

	"tontine-backend/internal/domain"
	"tontine-backend/internal/logger"
)

// APIResponse is the JSON envelope every endpoint returns.
type APIResponse struct {
	Success bool               `json:"success"`
	Data    interface{}        `json:"data,omitempty"`
	Error   *APIError          `json:"error,omitempty"`
	Meta    *domain.Pagination `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeData(w http.ResponseWriter, statusCode int, data interface{}) {
	writeJSON(w, statusCode, APIResponse{Success: true, Data: data})
}

func writePage(w http.ResponseWriter, data interface{}, page domain.Pagination) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data, Meta: &page})
}

// writeError maps a service error to an HTTP status through its kind.
func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)
	code := string(kind)
	if code == "" {
		code = "INTERNAL"
	}
	message := "internal server error"
	if kind != "" {
		message = err.Error()
	} else {
		logger.Error("Unhandled error", "error", err)
	}
	writeJSON(w, status, APIResponse{Success: false, Error: &APIError{Code: code, Message: message}})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden, domain.KindQuotaExceeded:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAlreadyPaid, domain.KindDebtAlreadyPaid, domain.KindAlreadyGenerated, domain.KindDuplicateMember, domain.KindDuplicateAssignment:
		return http.StatusConflict
	case domain.KindInvalidAmount, domain.KindAmountExceedsBalance, domain.KindPartialPaymentsDisabled,
		domain.KindPlanIncompatible, domain.KindPlanInactive, domain.KindSubscriptionMissing, domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Errf(domain.KindValidation, "invalid request body")
	}
	return nil
}

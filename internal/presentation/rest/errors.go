package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bibbank/credit-simulator/internal/application/dto"
	"github.com/bibbank/credit-simulator/internal/domain/model"
	"github.com/bibbank/credit-simulator/internal/domain/port"
)

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Timestamp     time.Time         `json:"timestamp"`
	Status        int               `json:"status"`
	Error         string            `json:"error"`
	Message       string            `json:"message,omitempty"`
	Field         string            `json:"field,omitempty"`
	RejectedValue any               `json:"rejectedValue,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
}

const genericErrorMessage = "An unexpected error occurred"

// writeError classifies err and writes the matching status and body.
// Unclassified errors are logged and reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, now time.Time, err error) {
	var (
		verr *dto.ValidationError
		viol *model.BusinessRuleViolation
	)

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Timestamp: now,
			Status:    http.StatusBadRequest,
			Error:     "Validation Failed",
			Errors:    verr.Fields,
		})
	case errors.As(err, &viol):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Timestamp:     now,
			Status:        http.StatusBadRequest,
			Error:         "Business Rule Violation",
			Message:       viol.Message,
			Field:         viol.Field,
			RejectedValue: viol.RejectedValue,
		})
	case errors.Is(err, port.ErrBatchNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Timestamp: now,
			Status:    http.StatusNotFound,
			Error:     "Not Found",
			Message:   "batch not found",
		})
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Timestamp: now,
			Status:    http.StatusInternalServerError,
			Error:     "Internal Server Error",
			Message:   genericErrorMessage,
		})
	}
}

// malformedBody reports a request body that could not be decoded.
func malformedBody(err error) error {
	return &dto.ValidationError{Fields: map[string]string{"body": "malformed request body: " + err.Error()}}
}

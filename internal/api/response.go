package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"portfoliodash/pkg/portfolio"
)

// Response represents a successful API response with unified format.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents an error API response with structured information.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeSuccess writes a successful response with data.
func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Code: 0,
		Data: data,
	})
}

// writeSuccessWithMessage writes a successful response with data and message.
func writeSuccessWithMessage(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// writeErrorResponse writes an error response. Structured portfolio errors
// override httpStatus with the status mapped from their code.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, httpStatus int, err error) {
	response := ErrorResponse{
		Code:    httpStatus,
		Message: err.Error(),
	}

	var pErr *portfolio.Error
	if errors.As(err, &pErr) {
		response.ErrorCode = string(pErr.Code)
		httpStatus = mapErrorCodeToHTTPStatus(pErr.Code)
		response.Code = httpStatus
	}
	if r != nil {
		response.RequestID = middleware.GetReqID(r.Context())
	}
	if setter, ok := w.(errorMessageSetter); ok {
		setter.SetErrorMessage(response.Message)
	}

	writeJSON(w, httpStatus, response)
}

// mapErrorCodeToHTTPStatus maps business error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code portfolio.ErrorCode) int {
	switch code {
	case portfolio.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case portfolio.ErrCodeNotFound:
		return http.StatusNotFound
	case portfolio.ErrCodeSchema:
		return http.StatusUnprocessableEntity
	case portfolio.ErrCodeStorage, portfolio.ErrCodeJournal, portfolio.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

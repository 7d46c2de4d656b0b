package response

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/FaisalEngish/Kontrib/internal/apperr"
)

// APIResponse is the standard response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// APIError represents an error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta contains pagination and other metadata
type Meta struct {
	Total int `json:"total"`
	Limit int `json:"limit,omitempty"`
}

// JSON sends a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

// JSONWithMeta sends a JSON response with list metadata
func JSONWithMeta(w http.ResponseWriter, status int, data interface{}, meta *Meta) {
	write(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Meta:    meta,
	})
}

// Error sends an error JSON response
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	})
}

func write(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// Common error responses
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, "NOT_FOUND", message)
}

func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, "FORBIDDEN", message)
}

func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, "CONFLICT", message)
}

type errorMapping struct {
	status int
	code   string
}

var kindMappings = map[error]errorMapping{
	apperr.ErrValidation:    {http.StatusBadRequest, "VALIDATION_ERROR"},
	apperr.ErrAuthorization: {http.StatusForbidden, "AUTHORIZATION_ERROR"},
	apperr.ErrPrecondition:  {http.StatusConflict, "PRECONDITION_FAILED"},
	apperr.ErrInvalidState:  {http.StatusConflict, "INVALID_STATE"},
	apperr.ErrNotFound:      {http.StatusNotFound, "NOT_FOUND"},
	apperr.ErrExpiredOTP:    {http.StatusGone, "OTP_EXPIRED"},
	apperr.ErrInvalidOTP:    {http.StatusBadRequest, "OTP_INVALID"},
	apperr.ErrRateLimited:   {http.StatusTooManyRequests, "RATE_LIMITED"},
	apperr.ErrUnavailable:   {http.StatusServiceUnavailable, "UNAVAILABLE"},
}

// FromError writes the response for a service error. Classified errors carry
// their own message; anything else is treated as a storage failure and logged.
func FromError(w http.ResponseWriter, err error, fallback string) {
	if kind := apperr.KindOf(err); kind != nil {
		m := kindMappings[kind]
		Error(w, m.status, m.code, err.Error())
		return
	}
	if errors.Is(err, context.Canceled) {
		// client went away; nothing was committed
		return
	}
	log.Printf("%s: %v", fallback, err)
	Error(w, http.StatusServiceUnavailable, "TRANSIENT_FAILURE", fallback+". Please try again.")
}

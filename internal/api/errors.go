package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"solana-sniper-terminal/internal/storage"
)

// Common error codes.
const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// ErrorResponse is the JSON envelope for API errors.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the machine-readable code and human message.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// parseJSONBody parses a JSON request body, rejecting unknown fields.
func parseJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// respondStoreError maps storage sentinel errors to HTTP responses.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "resource not found")
	case errors.Is(err, storage.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
	case errors.Is(err, storage.ErrInsufficientBalance):
		respondError(w, http.StatusConflict, ErrCodeInsufficientBalance, "balance cannot cover this operation")
	case errors.Is(err, storage.ErrDuplicateKey):
		respondError(w, http.StatusConflict, ErrCodeConflict, "resource already exists")
	default:
		respondError(w, http.StatusInternalServerError, ErrCodeInternalError, "an internal error occurred")
	}
}

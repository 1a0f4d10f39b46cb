package utils

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error type codes carried in the response envelope. HTTP status codes mirror
// them one to one.
const (
	TypeInvalid      = "INVALID"
	TypeUnauthorized = "UNAUTHORIZED"
	TypeAlreadyExist = "ALREADY_EXIST"
	TypeInternal     = "INTERNAL_SERVER_ERROR"
)

// Response is the envelope every endpoint answers with, success or failure.
type Response struct {
	Status    string `json:"status"`
	TypeError string `json:"typeError"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
}

// APIError is a taxonomy member: a stable machine-readable type plus a
// human-readable message, with the HTTP status it maps to.
type APIError struct {
	Status  int
	Type    string
	Message string
}

func (e *APIError) Error() string { return e.Message }

func ErrInvalid(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Type: TypeInvalid, Message: message}
}

func ErrUnauthorized(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Type: TypeUnauthorized, Message: message}
}

func ErrAlreadyExist(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Type: TypeAlreadyExist, Message: message}
}

func ErrInternal(message string) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Type: TypeInternal, Message: message}
}

// WriteSuccess writes a success envelope with the given HTTP status.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

// WriteError writes the envelope for err. Anything that is not an *APIError
// is reported as an internal error without leaking detail.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		apiErr = ErrInternal("Internal Server Error")
	}
	writeJSON(w, apiErr.Status, Response{
		Status:    "Error",
		TypeError: apiErr.Type,
		Message:   apiErr.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

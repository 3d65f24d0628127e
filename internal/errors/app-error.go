package app_error

import (
	"encoding/json"
	"net/http"
)

type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e AppError) Error() string {
	return e.Message
}

func (e AppError) JSON(w http.ResponseWriter) error {
	return json.NewEncoder(w).Encode(e)
}

func NewAppError(code int, msg, field string) *AppError {
	return &AppError{
		Code:    code,
		Message: msg,
		Field:   field,
	}
}

// Taxonomy constructors. Every layer reports failures through one of these
// so handlers can map them to status codes without inspecting messages.

func NewValidationError(msg, field string) *AppError {
	return NewAppError(http.StatusBadRequest, msg, field)
}

func NewNotFoundError(msg, field string) *AppError {
	return NewAppError(http.StatusNotFound, msg, field)
}

func NewForbiddenError(msg, field string) *AppError {
	return NewAppError(http.StatusForbidden, msg, field)
}

// NewInvalidStateError covers operations rejected by the entity's current
// state, e.g. editing a message that was already deleted.
func NewInvalidStateError(msg, field string) *AppError {
	return NewAppError(http.StatusConflict, msg, field)
}

// NewTransientStoreError marks persistence failures the caller may retry a
// bounded number of times.
func NewTransientStoreError(msg, field string) *AppError {
	return NewAppError(http.StatusServiceUnavailable, msg, field)
}

func (e *AppError) IsTransient() bool {
	return e.Code == http.StatusServiceUnavailable
}

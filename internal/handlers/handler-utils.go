package handlers

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"github.com/kshathishka/collabstudy/internal/dtos"
	app_error "github.com/kshathishka/collabstudy/internal/errors"
	"github.com/kshathishka/collabstudy/internal/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

type HandlerFunc func(w http.ResponseWriter, r *http.Request) *app_error.AppError

func WrapHandler(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			log.Error().Err(err).Msg(fmt.Sprintf("error occur, request id: %s", r.Header.Get("X-Request-ID")))
			writeJSON(w, err.Code, map[string]any{
				"message": "Error occur",
				"errors": map[string]any{
					"code":    err.Code,
					"field":   err.Field,
					"message": err.Message,
				},
				"data":       nil,
				"request_id": r.Header.Get("X-Request-ID"),
			})
		}
	}
}

func CreateResponse[T any](message string, data T, requestId string) dtos.Response[T] {
	return dtos.Response[T]{
		Message:   message,
		Data:      data,
		RequestID: requestId,
	}
}

// WriteResponse is the happy-path counterpart of WrapHandler's error path.
func WriteResponse[T any](w http.ResponseWriter, r *http.Request, message string, data T) {
	writeJSON(w, http.StatusOK, CreateResponse(message, data, RequestID(r)))
}

func RequestID(r *http.Request) string {
	reqID, ok := r.Context().Value(middleware.RequestIdKey).(string)
	if !ok {
		return "unknown"
	}
	return reqID
}

// AuthUserID pulls the authenticated user id set by the JWT middleware.
func AuthUserID(r *http.Request) (string, *app_error.AppError) {
	userID, ok := r.Context().Value(middleware.UserClaimsKey).(string)
	if !ok || userID == "" {
		return "", app_error.NewAppError(http.StatusUnauthorized, "user id is not found in context", "context")
	}
	return userID, nil
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dpavlenko/regvault/internal/common"
	"github.com/dpavlenko/regvault/internal/server/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFromError maps service and repository errors onto HTTP statuses.
// Unrecognized errors become 500 without leaking their message.
func statusFromError(err error) (int, string) {
	var fieldErr *services.FieldDecryptError
	switch {
	case errors.As(err, &fieldErr):
		return http.StatusUnprocessableEntity, fieldErr.Error()
	case errors.Is(err, services.ErrKeyAlreadyUsed):
		return http.StatusConflict, "key pair already used"
	case errors.Is(err, services.ErrKeyNotFound):
		return http.StatusNotFound, "key pair not found"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, "already exists"
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, msg := statusFromError(err)
	writeError(w, status, msg)
}

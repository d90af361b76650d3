package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cyberauth/cyberauth/internal/domain"
	"github.com/cyberauth/cyberauth/internal/service"
	"github.com/cyberauth/cyberauth/pkg/config"
)

type Handlers struct {
	authService     service.AuthService
	recoveryService service.RecoveryService
	config          *config.Config
}

func New(
	authService service.AuthService,
	recoveryService service.RecoveryService,
	config *config.Config,
) *Handlers {
	return &Handlers{
		authService:     authService,
		recoveryService: recoveryService,
		config:          config,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message, code string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
		"code":  code,
	})
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses and
// stable error codes so the frontend can pick the exact message and
// redirect per failure class.
func writeServiceError(w http.ResponseWriter, err error) {
	var wrongPass *domain.WrongPasswordError
	switch {
	case errors.As(err, &wrongPass):
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error":         wrongPass.Error(),
			"code":          "WRONG_PASSWORD",
			"attempts_left": wrongPass.AttemptsLeft,
		})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, err.Error(), "ALREADY_EXISTS")
	case errors.Is(err, domain.ErrExpired):
		writeError(w, http.StatusGone, err.Error(), "EXPIRED")
	case errors.Is(err, domain.ErrInvalidSecret):
		writeError(w, http.StatusUnauthorized, err.Error(), "INVALID_SECRET")
	case errors.Is(err, domain.ErrLocked):
		writeError(w, http.StatusLocked, err.Error(), "LOCKED")
	case errors.Is(err, domain.ErrExternalService):
		writeError(w, http.StatusBadGateway, err.Error(), "EXTERNAL_SERVICE_ERROR")
	default:
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}

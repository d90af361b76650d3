package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cyberauth/cyberauth/internal/domain"
)

// Signup handles user registration
func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	result, err := h.authService.Signup(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"message": "Signup successful! You may login now.",
		"user":    result.User,
	}
	if result.GeneratedPassword != "" {
		response["message"] = "Signup successful! Your auto-generated password is shown once below."
		response["generated_password"] = result.GeneratedPassword
	}

	writeJSON(w, http.StatusCreated, response)
}

// Login handles user authentication
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	result, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

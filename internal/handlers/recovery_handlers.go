package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cyberauth/cyberauth/internal/domain"
)

// ForgotPassword starts recovery: issues an OTP and mails it
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required", "INVALID_INPUT")
		return
	}

	if err := h.recoveryService.RequestReset(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	response := map[string]string{
		"message": "OTP sent to your email.",
	}
	if h.config.Email.DevMode {
		response["dev_note"] = "dev mode: the OTP was printed to the service log"
	}

	writeJSON(w, http.StatusOK, response)
}

// VerifyOTP exchanges a correct OTP for a reset token
func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.OTP == "" {
		writeError(w, http.StatusBadRequest, "Email and OTP are required", "INVALID_INPUT")
		return
	}

	token, err := h.recoveryService.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"reset_token": token,
	})
}

// ResetPasswordForm resolves a token for the reset form without consuming it
func (h *Handlers) ResetPasswordForm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	email, err := h.recoveryService.InspectToken(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"email": email,
		"token": token,
	})
}

// ResetPassword submits the new (or auto-generated) password
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req struct {
		Password     string `json:"password"`
		AutoPassword bool   `json:"auto_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", "INVALID_INPUT")
		return
	}

	input := domain.ExplicitPassword(req.Password)
	if req.AutoPassword {
		input = domain.AutoGeneratePassword()
	}

	result, err := h.recoveryService.ResetPassword(r.Context(), token, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"message": "Password reset successful.",
		"email":   result.Email,
	}
	if result.GeneratedPassword != "" {
		response["message"] = "Password reset successful! Your new password is shown once below."
		response["generated_password"] = result.GeneratedPassword
	}

	writeJSON(w, http.StatusOK, response)
}

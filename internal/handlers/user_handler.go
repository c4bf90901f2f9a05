package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Lina3386/financeflow/internal/services"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *registerRequest) Validate() error {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return errors.New("All fields are required")
	}
	return nil
}

type authResponse struct {
	Token  string `json:"token"`
	UserID int64  `json:"userID"`
	Name   string `json:"name,omitempty"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if errors.Is(err, services.ErrEmailTaken) {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}
	if err != nil {
		writeServerError(w, "Error during registration", err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: token, UserID: user.ID})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *loginRequest) Validate() error {
	if req.Email == "" || req.Password == "" {
		return errors.New("Email and password are required")
	}
	return nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		writeServerError(w, "Error during login", err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, UserID: user.ID, Name: user.Name})
}

type requestResetRequest struct {
	Email string `json:"email"`
}

func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req requestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	err := h.auth.RequestPasswordReset(r.Context(), req.Email)
	if errors.Is(err, services.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeServerError(w, "Error in requestPasswordReset", err)
		return
	}

	writeMessage(w, http.StatusOK, "Password reset email sent successfully")
}

type resetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || token == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Token and new password are required")
		return
	}

	err := h.auth.ResetPassword(r.Context(), token, req.NewPassword)
	if errors.Is(err, services.ErrInvalidToken) {
		writeError(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}
	if err != nil {
		writeServerError(w, "Error in resetPassword", err)
		return
	}

	writeMessage(w, http.StatusOK, "Password has been reset successfully")
}

func (h *Handler) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"valid": false, "message": "Token is required"})
		return
	}

	err := h.auth.VerifyResetToken(r.Context(), token)
	if errors.Is(err, services.ErrInvalidToken) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"valid": false, "message": "Invalid or expired token"})
		return
	}
	if err != nil {
		writeServerError(w, "Error in verifyResetToken", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

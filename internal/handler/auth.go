package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/northstarhq/northstar/internal/ctxkeys"
	"github.com/northstarhq/northstar/internal/model"
	"github.com/northstarhq/northstar/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.authService.Signup(req.Email, req.Password)
	if errors.Is(err, service.ErrEmailAlreadyExists) {
		writeError(w, http.StatusConflict, "An account with this email already exists")
		return
	}
	if errors.Is(err, service.ErrInvalidEmail) {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if errors.Is(err, service.ErrInvalidPassword) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("signup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	err = h.issueSession(w, user)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		slog.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	err = h.issueSession(w, user)
	if err != nil {
		slog.Error("failed to issue session", "error", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	err = h.authService.ForgotPassword(req.Email)
	if err != nil {
		slog.Error("forgot password failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to process request")
		return
	}

	// Same response whether or not the email exists
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "If an account with that email exists, a reset link has been sent",
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Token == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Token and password are required")
		return
	}

	err = h.authService.ResetPassword(req.Token, req.Password)
	if errors.Is(err, service.ErrInvalidToken) {
		writeError(w, http.StatusBadRequest, "Invalid or expired reset link")
		return
	}
	if errors.Is(err, service.ErrInvalidPassword) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("reset password failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to reset password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *AuthHandler) issueSession(w http.ResponseWriter, user *model.User) error {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		return err
	}
	h.authService.SetJWTCookie(w, token, time.Now().Add(h.authService.JWTExpiry()))
	return nil
}

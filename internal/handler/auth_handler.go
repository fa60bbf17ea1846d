package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/response"
	"github.com/dclair/task-master/internal/service"
)

// AuthHandler serves the account endpoints
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup registers a new inactive account
// POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.authService.Signup(c, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, result)
}

// Activate confirms an account with the emailed token
// POST /api/auth/activate
func (h *AuthHandler) Activate(c *gin.Context) {
	var req dto.ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.authService.Activate(c, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendMessage(c, http.StatusOK, "Account activated")
}

// ResendActivation re-issues the activation email
// POST /api/auth/resend-activation
func (h *AuthHandler) ResendActivation(c *gin.Context) {
	var req dto.ResendActivationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.authService.ResendActivation(c, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendMessage(c, http.StatusOK, "If the account exists and is inactive, a new activation email was sent")
}

// Login issues a session token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// RequestPasswordReset starts the reset flow
// POST /api/auth/password-reset
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.authService.RequestPasswordReset(c, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendMessage(c, http.StatusOK, "If the account exists, a reset email was sent")
}

// ConfirmPasswordReset completes the reset flow
// POST /api/auth/password-reset/confirm
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.authService.ConfirmPasswordReset(c, &req); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendMessage(c, http.StatusOK, "Password updated")
}

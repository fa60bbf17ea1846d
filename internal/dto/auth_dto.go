package dto

import (
	"time"

	"github.com/google/uuid"
)

// SignupRequest registers a new account. The account starts inactive and
// must be activated through the emailed token.
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// SignupResponse reports the created account and whether the activation
// email went out. EmailSent=false means the caller should offer the resend
// flow; the account exists either way.
type SignupResponse struct {
	User      UserResponse `json:"user"`
	EmailSent bool         `json:"email_sent"`
	Message   string       `json:"message"`
}

// ActivateRequest confirms an account with an emailed token
type ActivateRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Token  string    `json:"token" binding:"required"`
}

// ResendActivationRequest re-issues the activation email
type ResendActivationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest authenticates by username and password
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the session token
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// PasswordResetRequest starts the reset flow for an email address
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest completes the reset flow
type PasswordResetConfirmRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	Token       string    `json:"token" binding:"required"`
	NewPassword string    `json:"new_password" binding:"required,min=8"`
}

// UserResponse is the public representation of an account
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserBrief is the compact user representation embedded in other responses
type UserBrief struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
}

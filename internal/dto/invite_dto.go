package dto

import (
	"time"

	"github.com/google/uuid"
)

// SendInviteRequest invites a prospective member by username and email.
// Re-inviting the same pair refreshes the existing invite instead of
// creating a duplicate.
type SendInviteRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required"`
}

// InviteResponse is one row of a board's pending invite list
type InviteResponse struct {
	ID         uuid.UUID  `json:"id"`
	BoardID    uuid.UUID  `json:"board_id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	InvitedBy  string     `json:"invited_by,omitempty"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// AcceptInviteResponse reports the board joined through an invite token
type AcceptInviteResponse struct {
	BoardID         uuid.UUID `json:"board_id"`
	BoardTitle      string    `json:"board_title"`
	Role            string    `json:"role"`
	AlreadyAccepted bool      `json:"already_accepted"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

// AddMemberRequest attaches an existing user to a board by username
type AddMemberRequest struct {
	Username string `json:"username" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// UpdateMemberRoleRequest changes a member's role
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// MemberResponse is one row of a board's member list
type MemberResponse struct {
	MembershipID uuid.UUID `json:"membership_id"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// BoardInvite is a pending offer of a membership, redeemable via a signed
// token. One row per (board, username, email); re-inviting the same person
// updates the row in place. AcceptedAt is stamped exactly once.
type BoardInvite struct {
	BaseModel
	BoardID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_board_invites_board_id;uniqueIndex:uq_board_invites_board_username_email" json:"board_id"`
	Username    string     `gorm:"type:varchar(150);uniqueIndex:uq_board_invites_board_username_email" json:"username"`
	Email       string     `gorm:"type:varchar(254);not null;uniqueIndex:uq_board_invites_board_username_email" json:"email"`
	Role        Role       `gorm:"type:varchar(10);not null;default:'viewer'" json:"role"`
	InvitedByID uuid.UUID  `gorm:"type:uuid;not null" json:"invited_by_id"`
	InvitedBy   User       `gorm:"foreignKey:InvitedByID;constraint:OnDelete:CASCADE" json:"invited_by,omitempty"`
	AcceptedAt  *time.Time `gorm:"type:timestamp" json:"accepted_at,omitempty"`
	Board       Board      `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
}

// Accepted reports whether the invite has already been consumed
func (i *BoardInvite) Accepted() bool {
	return i.AcceptedAt != nil
}

// TableName specifies the table name for BoardInvite
func (BoardInvite) TableName() string {
	return "board_invites"
}

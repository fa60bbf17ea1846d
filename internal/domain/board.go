package domain

import "github.com/google/uuid"

// Board is the top-level container owning lists, memberships, invites and
// the activity trail. Deleting a board cascades to all of them.
type Board struct {
	BaseModel
	Title       string            `gorm:"type:varchar(100);not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	OwnerID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_boards_owner_id" json:"owner_id"`
	Owner       User              `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
	Lists       []TaskList        `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"lists,omitempty"`
	Memberships []BoardMembership `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"memberships,omitempty"`
	Invites     []BoardInvite     `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"invites,omitempty"`
	Activities  []Activity        `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"activities,omitempty"`
}

// Role is the closed set of membership roles. Checks never compare raw
// strings; every authorization decision goes through Role methods.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// ParseRole validates a wire value against the closed role set
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleEditor, RoleViewer:
		return Role(s), true
	}
	return "", false
}

// In reports whether r belongs to the given required set
func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// EditorRoles is the required set for list/task mutations
func EditorRoles() []Role {
	return []Role{RoleOwner, RoleEditor}
}

// MemberRoles is the required set for read access
func MemberRoles() []Role {
	return []Role{RoleOwner, RoleEditor, RoleViewer}
}

// BoardMembership binds a user to a board with a role.
// Exactly one row exists per (board, user).
type BoardMembership struct {
	BaseModel
	BoardID uuid.UUID `gorm:"type:uuid;not null;index:idx_board_memberships_board_id;uniqueIndex:uq_board_memberships_board_user" json:"board_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_board_memberships_user_id;uniqueIndex:uq_board_memberships_board_user" json:"user_id"`
	Role    Role      `gorm:"type:varchar(10);not null;default:'viewer'" json:"role"`
	Board   Board     `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
	User    User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for Board
func (Board) TableName() string {
	return "boards"
}

// TableName specifies the table name for BoardMembership
func (BoardMembership) TableName() string {
	return "board_memberships"
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action labels recorded in the activity trail. The labels are user-facing
// strings carried over from the original application and must not change.
const (
	ActionBoardCreated  = "Tablero creado"
	ActionBoardUpdated  = "Tablero actualizado"
	ActionListCreated   = "Lista creada"
	ActionListDeleted   = "Lista eliminada"
	ActionTaskCreated   = "Tarea creada"
	ActionTaskUpdated   = "Tarea actualizada"
	ActionTaskDeleted   = "Tarea eliminada"
	ActionTaskMoved     = "Tarea movida"
	ActionMemberAdded   = "Miembro agregado"
	ActionRoleUpdated   = "Rol actualizado"
	ActionMemberRemoved = "Miembro eliminado"
	ActionInviteSent    = "Invitación enviada"
	ActionInviteAccept  = "Invitación aceptada"
	ActionInviteRevoked = "Invitación revocada"
)

// Activity is an immutable audit record of a board mutation. The application
// only ever inserts rows; there is no update or delete path.
type Activity struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BoardID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_activities_board_id" json:"board_id"`
	UserID    *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Action    string     `gorm:"type:varchar(120);not null" json:"action"`
	Details   string     `gorm:"type:text" json:"details"`
	CreatedAt time.Time  `gorm:"not null;index:idx_activities_created_at" json:"created_at"`
	Board     Board      `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
}

// TableName specifies the table name for Activity
func (Activity) TableName() string {
	return "activities"
}

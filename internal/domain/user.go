package domain

import "github.com/google/uuid"

// DefaultAvatarURL is served when a profile has no uploaded avatar
const DefaultAvatarURL = "/static/img/taskmaster.png"

// User represents an account able to own and collaborate on boards.
// Accounts are created inactive and activated via an emailed token.
type User struct {
	BaseModel
	Username     string      `gorm:"type:varchar(150);not null;uniqueIndex:uq_users_username" json:"username"`
	Email        string      `gorm:"type:varchar(254);not null;index:idx_users_email" json:"email"`
	PasswordHash string      `gorm:"type:varchar(128);not null" json:"-"`
	IsActive     bool        `gorm:"not null;default:false" json:"is_active"`
	Profile      UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// UserProfile carries per-user preferences and the avatar reference
type UserProfile struct {
	BaseModel
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_user_profiles_user" json:"user_id"`
	Bio                string    `gorm:"type:text" json:"bio"`
	AvatarKey          string    `gorm:"type:varchar(512)" json:"-"`
	NotifyTaskAssigned bool      `gorm:"not null;default:true" json:"notify_task_assigned"`
	NotifyTaskDue      bool      `gorm:"not null;default:true" json:"notify_task_due"`
	NotifyTaskStatus   bool      `gorm:"not null;default:true" json:"notify_task_status"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// TableName specifies the table name for UserProfile
func (UserProfile) TableName() string {
	return "user_profiles"
}

package domain

import "github.com/google/uuid"

// TaskList is an ordered column of tasks within a board. Position is
// assigned as the sibling count at creation time and never renumbered.
type TaskList struct {
	BaseModel
	BoardID  uuid.UUID `gorm:"type:uuid;not null;index:idx_task_lists_board_id" json:"board_id"`
	Title    string    `gorm:"type:varchar(100);not null" json:"title"`
	Position int       `gorm:"not null;default:0" json:"position"`
	Board    Board     `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"board,omitempty"`
	Tasks    []Task    `gorm:"foreignKey:TaskListID;constraint:OnDelete:CASCADE" json:"tasks,omitempty"`
}

// TableName specifies the table name for TaskList
func (TaskList) TableName() string {
	return "task_lists"
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Priority is the closed set of task priorities
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a wire value against the closed priority set
func ParsePriority(s string) (Priority, bool) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), true
	}
	return "", false
}

// Task is a unit of work inside a task list. Moving a task between lists
// reassigns TaskListID only; Position keeps its old value, so intra-list
// order after a cross-list move is (position, created_at), not a contiguous
// sequence. The two NotifiedAt stamps guard the one-shot due-date emails.
type Task struct {
	BaseModel
	TaskListID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_tasks_task_list_id" json:"task_list_id"`
	Title             string     `gorm:"type:varchar(200);not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	Priority          Priority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DueDate           *time.Time `gorm:"type:timestamp;index:idx_tasks_due_date" json:"due_date,omitempty"`
	DueSoonNotifiedAt *time.Time `gorm:"type:timestamp" json:"due_soon_notified_at,omitempty"`
	OverdueNotifiedAt *time.Time `gorm:"type:timestamp" json:"overdue_notified_at,omitempty"`
	Position          int        `gorm:"not null;default:0" json:"position"`
	CreatedByID       *uuid.UUID `gorm:"type:uuid;index:idx_tasks_created_by_id" json:"created_by_id,omitempty"`
	CreatedBy         *User      `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"created_by,omitempty"`
	AssignedTo        []User     `gorm:"many2many:task_assignees;constraint:OnDelete:CASCADE" json:"assigned_to,omitempty"`
	Tags              []Tag      `gorm:"many2many:task_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	TaskList          TaskList   `gorm:"foreignKey:TaskListID;constraint:OnDelete:CASCADE" json:"task_list,omitempty"`
}

// TableName specifies the table name for Task
func (Task) TableName() string {
	return "tasks"
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest adds a task to a list. AssignedTo and Tags are the
// full desired sets; IDs outside the board's members or the tag catalog
// are rejected or ignored respectively.
type CreateTaskRequest struct {
	Title       string      `json:"title" binding:"required,max=200"`
	Description string      `json:"description"`
	Priority    string      `json:"priority"`
	DueDate     *time.Time  `json:"due_date"`
	AssignedTo  []uuid.UUID `json:"assigned_to"`
	Tags        []uuid.UUID `json:"tags"`
}

// UpdateTaskRequest replaces a task's fields and association sets
type UpdateTaskRequest struct {
	Title       string      `json:"title" binding:"required,max=200"`
	Description string      `json:"description"`
	Priority    string      `json:"priority"`
	DueDate     *time.Time  `json:"due_date"`
	AssignedTo  []uuid.UUID `json:"assigned_to"`
	Tags        []uuid.UUID `json:"tags"`
}

// MoveTaskRequest relocates a task to another list on the same board
type MoveTaskRequest struct {
	TaskID    uuid.UUID `json:"task_id" binding:"required"`
	NewListID uuid.UUID `json:"new_list_id" binding:"required"`
}

// TaskResponse is the full task representation
type TaskResponse struct {
	ID          uuid.UUID     `json:"id"`
	TaskListID  uuid.UUID     `json:"task_list_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    string        `json:"priority"`
	DueDate     *time.Time    `json:"due_date"`
	Position    int           `json:"position"`
	CreatedBy   *UserBrief    `json:"created_by,omitempty"`
	AssignedTo  []UserBrief   `json:"assigned_to"`
	Tags        []TagResponse `json:"tags"`
	CreatedAt   time.Time     `json:"created_at"`
}

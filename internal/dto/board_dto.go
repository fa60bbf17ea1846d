package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateBoardRequest creates a board owned by the caller
type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
}

// UpdateBoardRequest edits board title and description
type UpdateBoardRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
}

// BoardResponse is the list-view representation of a board
type BoardResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Owner       string    `json:"owner"`
	Role        string    `json:"role,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// BoardDetailResponse is the full board view: lists with tasks, the
// progress summary, the tag filter palette and the recent activity feed.
type BoardDetailResponse struct {
	ID             uuid.UUID             `json:"id"`
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	OwnerID        uuid.UUID             `json:"owner_id"`
	Role           string                `json:"role"`
	Lists          []ListWithTasks       `json:"lists"`
	Progress       BoardProgressResponse `json:"progress"`
	BoardTags      []TagResponse         `json:"board_tags"`
	ActiveTagID    *uuid.UUID            `json:"active_tag_id,omitempty"`
	RecentActivity []ActivityResponse    `json:"recent_activity"`
	Members        []MemberResponse      `json:"members"`
}

// BoardProgressResponse summarizes completion across the board's done lists
type BoardProgressResponse struct {
	TotalTasks int `json:"total_tasks"`
	DoneTasks  int `json:"done_tasks"`
	Percent    int `json:"percent"`
}

// ListWithTasks is one column of the board view
type ListWithTasks struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Position  int            `json:"position"`
	StatusKey string         `json:"status_key"`
	Tasks     []TaskResponse `json:"tasks"`
}

// ActivityResponse is one entry of a board's activity feed
type ActivityResponse struct {
	ID        uuid.UUID  `json:"id"`
	Action    string     `json:"action"`
	Details   string     `json:"details"`
	User      *UserBrief `json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

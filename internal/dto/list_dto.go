package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateListRequest adds a list to a board; position is assigned server-side
type CreateListRequest struct {
	Title string `json:"title" binding:"required,max=200"`
}

// UpdateListRequest renames a list
type UpdateListRequest struct {
	Title string `json:"title" binding:"required,max=200"`
}

// ListResponse is the bare list representation
type ListResponse struct {
	ID        uuid.UUID `json:"id"`
	BoardID   uuid.UUID `json:"board_id"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

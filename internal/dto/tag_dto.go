package dto

import "github.com/google/uuid"

// CreateTagRequest adds a tag to the shared catalog. Color must come from
// the palette; an empty color falls back to the default.
type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,max=60"`
	Color string `json:"color"`
}

// TagResponse is the tag representation
type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
}

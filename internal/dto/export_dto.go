package dto

import (
	"time"

	"github.com/google/uuid"
)

// TaskExportRecord is one task row of a board export. The same shape
// backs both the CSV and the JSON download.
type TaskExportRecord struct {
	ID            uuid.UUID   `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Priority      string      `json:"priority"`
	DueDate       *time.Time  `json:"due_date"`
	List          string      `json:"list"`
	ListID        uuid.UUID   `json:"list_id"`
	CreatedBy     string      `json:"created_by"`
	CreatedByID   *uuid.UUID  `json:"created_by_id"`
	AssignedTo    []string    `json:"assigned_to"`
	AssignedToIDs []uuid.UUID `json:"assigned_to_ids"`
	Tags          []string    `json:"tags"`
	TagIDs        []uuid.UUID `json:"tags_ids"`
	CreatedAt     time.Time   `json:"created_at"`
	Position      int         `json:"position"`
}

// BoardExport is the JSON export envelope
type BoardExport struct {
	BoardID    uuid.UUID          `json:"board_id"`
	BoardTitle string             `json:"board_title"`
	ExportedAt time.Time          `json:"exported_at"`
	Tasks      []TaskExportRecord `json:"tasks"`
}

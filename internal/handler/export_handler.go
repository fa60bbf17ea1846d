package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dclair/task-master/internal/service"
)

// ExportHandler streams board data downloads
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportTasksCSV downloads the board's tasks as CSV. The file is built
// in memory so authorization failures still produce a clean error body.
// GET /api/boards/:boardId/export/tasks.csv
func (h *ExportHandler) ExportTasksCSV(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.ExportTasksCSV(c, boardID, &buf); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"tasks_%s.csv\"", boardID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportTasksJSON downloads the board's tasks as JSON
// GET /api/boards/:boardId/export/tasks.json
func (h *ExportHandler) ExportTasksJSON(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	export, err := h.exportService.BuildTasksExport(c, boardID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"tasks_%s.json\"", boardID))
	c.JSON(http.StatusOK, export)
}

// ExportActivityCSV downloads the board's activity trail as CSV
// GET /api/boards/:boardId/export/activity.csv
func (h *ExportHandler) ExportActivityCSV(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.ExportActivityCSV(c, boardID, &buf); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"activity_%s.csv\"", boardID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

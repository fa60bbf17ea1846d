package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dclair/task-master/internal/dto"
	"github.com/dclair/task-master/internal/response"
	"github.com/dclair/task-master/internal/service"
)

// ListHandler serves the task list endpoints
type ListHandler struct {
	listService service.ListService
}

// NewListHandler creates a new ListHandler
func NewListHandler(listService service.ListService) *ListHandler {
	return &ListHandler{listService: listService}
}

// CreateList appends a list to the board
// POST /api/boards/:boardId/lists
func (h *ListHandler) CreateList(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}

	var req dto.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.listService.CreateList(c, boardID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, result)
}

// UpdateList renames a list
// PUT /api/boards/:boardId/lists/:listId
func (h *ListHandler) UpdateList(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	listID, ok := parseUUIDParam(c, "listId")
	if !ok {
		return
	}

	var req dto.UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.listService.UpdateList(c, boardID, listID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, result)
}

// DeleteList removes a list and its tasks
// DELETE /api/boards/:boardId/lists/:listId
func (h *ListHandler) DeleteList(c *gin.Context) {
	boardID, ok := parseUUIDParam(c, "boardId")
	if !ok {
		return
	}
	listID, ok := parseUUIDParam(c, "listId")
	if !ok {
		return
	}

	if err := h.listService.DeleteList(c, boardID, listID); err != nil {
		handleServiceError(c, err)
		return
	}
	response.SendMessage(c, http.StatusOK, "List deleted")
}
